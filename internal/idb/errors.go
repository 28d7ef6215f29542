package idb

import "fmt"

func errBadMagic(magic [4]byte) error {
	return fmt.Errorf("unrecognized magic %q", magic[:])
}

func errBadSignature(sig uint32) error {
	return fmt.Errorf("signature 0x%08X does not match expected 0x%08X", sig, expectedSignature)
}

func errBadVersion(version uint16) error {
	return fmt.Errorf("version %d does not match expected %d", version, expectedVersion)
}

func errUnsupportedCompression(method byte) error {
	return fmt.Errorf("unsupported compression method %d", method)
}

func errBadSectionMagic(section string, magic []byte) error {
	return fmt.Errorf("%s: unrecognized magic %q", section, magic)
}

func errTruncatedField(what string) error {
	return fmt.Errorf("truncated %s", what)
}

func errChecksumUnimplemented(section string) error {
	return fmt.Errorf("%s checksum verification is not implemented: algorithm is unspecified", section)
}
