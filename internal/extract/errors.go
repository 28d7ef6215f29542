package extract

import "fmt"

func errTruncatedStringTable() error {
	return fmt.Errorf("segment string table truncated")
}

func errWrongFieldCount(want, got int) error {
	return fmt.Errorf("expected %d packed fields, got %d", want, got)
}

func errSegmentIndexMismatch(start uint64, keyIndex int64) error {
	return fmt.Errorf("segment start 0x%X does not match key index %d", start, keyIndex)
}

func errBadBitness(code uint64) error {
	return fmt.Errorf("bad segment bitness code %d", code)
}

func errFunctionIndexMismatch(start uint64, keyIndex int64) error {
	return fmt.Errorf("function chunk start 0x%X does not match key index %d", start, keyIndex)
}

func errDuplicateHead(group uint64) error {
	return fmt.Errorf("duplicate head chunk in function group 0x%X", group)
}

func errNoHead(group uint64) error {
	return fmt.Errorf("function group 0x%X has no head chunk", group)
}
