package writers

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeBundle struct {
	functions map[string]uint64
	globals   map[string]uint64
}

func (f fakeBundle) FunctionSymbols() map[string]uint64 { return f.functions }
func (f fakeBundle) GlobalSymbols() map[string]uint64   { return f.globals }

func TestWriteJSON(t *testing.T) {
	b := fakeBundle{
		functions: map[string]uint64{"foo": 0x1234},
		globals:   map[string]uint64{"bar": 0x10},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, b))

	var got struct {
		Functions map[string]uint64 `json:"functions"`
		Globals   map[string]uint64 `json:"globals"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, uint64(0x1234), got.Functions["foo"])
	require.Equal(t, uint64(0x10), got.Globals["bar"])
}

func TestWriteTextPaddingAndOrder(t *testing.T) {
	b := fakeBundle{
		functions: map[string]uint64{"a": 0x10, "longname": 0x1},
		globals:   map[string]uint64{"g": 0x100},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, b))

	want := "functions:\n" +
		"  longname: 0x001\n" +
		"         a: 0x010\n" +
		"globals:\n" +
		"         g: 0x100\n"
	require.Equal(t, want, buf.String())
}

func TestWriteTextEmptyBundle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, fakeBundle{}))
	require.Equal(t, "functions:\nglobals:\n", buf.String())
}
