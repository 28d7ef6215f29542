package writers

import (
	"fmt"
	"io"
	"sort"

	"github.com/interruptlabs/symconv/internal/ioutil"
)

// symbolLine is one named address, in the form written per line.
type symbolLine struct {
	Name    string
	Address uint64
}

// WriteText renders bundle as two labeled sections, "functions:" and
// "globals:", one right-padded "  name: 0xHEX" line per symbol, per
// spec.md §6. Padding widths are computed once across every symbol
// (both kinds together) so the two sections line up, matching the
// reference tool's to_txt.
func WriteText(w io.Writer, bundle bundleLike) error {
	functions := toLines(bundle.FunctionSymbols())
	globals := toLines(bundle.GlobalSymbols())

	namePad, addrPad := 0, 0
	for _, lines := range [][]symbolLine{functions, globals} {
		for _, l := range lines {
			if len(l.Name) > namePad {
				namePad = len(l.Name)
			}
			if w := len(fmt.Sprintf("%x", l.Address)); w > addrPad {
				addrPad = w
			}
		}
	}

	if _, err := fmt.Fprintln(w, "functions:"); err != nil {
		return ioutil.Wrap("write text", ioutil.ErrIoFailure, err)
	}
	if err := writeLines(w, functions, namePad, addrPad); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "globals:"); err != nil {
		return ioutil.Wrap("write text", ioutil.ErrIoFailure, err)
	}
	return writeLines(w, globals, namePad, addrPad)
}

func writeLines(w io.Writer, lines []symbolLine, namePad, addrPad int) error {
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "  %*s: 0x%0*x\n", namePad, l.Name, addrPad, l.Address); err != nil {
			return ioutil.Wrap("write text", ioutil.ErrIoFailure, err)
		}
	}
	return nil
}

func toLines(m map[string]uint64) []symbolLine {
	lines := make([]symbolLine, 0, len(m))
	for name, addr := range m {
		lines = append(lines, symbolLine{Name: name, Address: addr})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Address != lines[j].Address {
			return lines[i].Address < lines[j].Address
		}
		return lines[i].Name < lines[j].Name
	})
	return lines
}
