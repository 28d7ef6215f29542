package symconv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSectionFlagsFromPermissionsWidensZeroToRWX(t *testing.T) {
	require.Equal(t, SectionR|SectionW|SectionX, sectionFlagsFromPermissions(0))
	require.Equal(t, SectionR|SectionX, sectionFlagsFromPermissions(1<<0|1<<2))
}

func TestBundleResolveWord64DefaultsTrue(t *testing.T) {
	b := &Bundle{}
	require.True(t, b.ResolveWord64(nil))

	word32 := false
	require.False(t, b.ResolveWord64(&word32))

	hint := false
	b.Word64 = &hint
	require.False(t, b.ResolveWord64(nil))

	override := true
	require.True(t, b.ResolveWord64(&override))
}

func TestBundleResolveBigEndianDefaultsTrue(t *testing.T) {
	b := &Bundle{}
	require.True(t, b.ResolveBigEndian(nil))

	little := false
	b.BigEndian = &little
	require.False(t, b.ResolveBigEndian(nil))
}
