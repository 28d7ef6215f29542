package btree

import "fmt"

func errTruncated(what string) error {
	return fmt.Errorf("truncated %s", what)
}

func errOutOfRange(what string) error {
	return fmt.Errorf("%s out of range", what)
}
