package ghidraxml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleDocument = `<PROGRAM>
  <SYMBOL_TABLE>
    <SYMBOL ADDRESS="1000" NAME="g_counter"/>
    <SYMBOL ADDRESS="2000" NAME="main"/>
  </SYMBOL_TABLE>
  <FUNCTIONS>
    <FUNCTION ENTRY_POINT="2000" NAME="main"/>
  </FUNCTIONS>
  <MEMORY_MAP>
    <MEMORY_SECTION NAME=".text" START_ADDR="2000" LENGTH="100" PERMISSIONS="r-x"/>
    <MEMORY_SECTION NAME=".bad" START_ADDR="zz" LENGTH="100" PERMISSIONS="r--"/>
  </MEMORY_MAP>
</PROGRAM>`

func TestParseSeparatesFunctionsFromGlobals(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDocument))
	require.NoError(t, err)

	require.Equal(t, map[uint64]string{0x2000: "main"}, doc.Functions)
	require.Equal(t, map[uint64]string{0x1000: "g_counter"}, doc.Globals)
}

func TestParseSkipsMalformedSection(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDocument))
	require.NoError(t, err)

	require.Len(t, doc.Sections, 1)
	require.Equal(t, ".text", doc.Sections[0].Name)
	require.Equal(t, uint64(0x2000), doc.Sections[0].Start)
	require.Equal(t, uint64(0x2100), doc.Sections[0].End)
	require.Equal(t, PermR|PermX, doc.Sections[0].Permissions)
}
