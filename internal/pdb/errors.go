package pdb

import (
	"fmt"

	"github.com/interruptlabs/symconv/internal/ioutil"
)

func malformedContainer(context string, cause error) error {
	return ioutil.Wrap(context, ioutil.ErrMalformedContainer, cause)
}

func ioFailure(context string, cause error) error {
	return ioutil.Wrap(context, ioutil.ErrIoFailure, cause)
}

func errBadMagic() error {
	return fmt.Errorf("bad MSF magic")
}

func errBadBlockSize(blockSize uint32) error {
	return fmt.Errorf("invalid MSF block size %d", blockSize)
}
