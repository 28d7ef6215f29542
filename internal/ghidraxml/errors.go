package ghidraxml

import "fmt"

func errMalformedXML(cause error) error {
	return fmt.Errorf("malformed ghidra xml export: %w", cause)
}
