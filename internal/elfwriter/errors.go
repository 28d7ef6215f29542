package elfwriter

import "fmt"

func errUnknownVariant() error {
	return fmt.Errorf("nil section in section list")
}
