// Package writers implements the two trivial output formats the CLI
// exposes alongside the ELF emitter: a JSON symbol map and a padded
// text listing, both grounded on the reference tool's to_json/to_txt.
package writers

import (
	"encoding/json"
	"io"

	"github.com/interruptlabs/symconv/internal/ioutil"
)

// bundleLike is the narrow surface writers need from a symconv.Bundle,
// so this package does not import the root package (which imports
// writers' sibling packages, not this one, but keeping the dependency
// one-directional avoids an import cycle risk as the tree grows).
type bundleLike interface {
	FunctionSymbols() map[string]uint64
	GlobalSymbols() map[string]uint64
}

// WriteJSON serializes bundle as {"functions": {name: address, ...},
// "globals": {name: address, ...}}, names decoded as UTF-8 with
// replacement on invalid sequences, per spec.md §6.
func WriteJSON(w io.Writer, bundle bundleLike) error {
	doc := struct {
		Functions map[string]uint64 `json:"functions"`
		Globals   map[string]uint64 `json:"globals"`
	}{
		Functions: bundle.FunctionSymbols(),
		Globals:   bundle.GlobalSymbols(),
	}

	if err := json.NewEncoder(w).Encode(doc); err != nil {
		return ioutil.Wrap("write json", ioutil.ErrIoFailure, err)
	}
	return nil
}
