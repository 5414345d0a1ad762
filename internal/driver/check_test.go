package driver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"toknames/internal/diag"
)

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	p := writeInput(t, dir, "parser.h", "#define A 1\n#define B\n#define C x\n#define A2 1\n#define END 0\n")
	bag, err := Check(p, 0, 100)
	require.NoError(t, err)

	var codes []diag.Code
	var lines []int
	for _, d := range bag.Items() {
		codes = append(codes, d.Code)
		lines = append(lines, d.Line)
	}
	require.Equal(t, []diag.Code{diag.TabFieldCount, diag.TabBadCode, diag.TabDuplicateCode, diag.TabRedefinedEOF}, codes)
	require.Equal(t, []int{2, 3, 4, 5}, lines)
	require.True(t, bag.HasErrors())
}

func TestCheckClean(t *testing.T) {
	p := writeInput(t, t.TempDir(), "parser.h", parserH)
	bag, err := Check(p, 0, 100)
	require.NoError(t, err)
	require.Zero(t, bag.Len())
}

func TestCheckLimit(t *testing.T) {
	p := writeInput(t, t.TempDir(), "parser.h", "a\nb\nc\nd\n")
	bag, err := Check(p, 0, 2)
	require.NoError(t, err)
	require.Equal(t, 2, bag.Len())
}

func TestCheckMissingFile(t *testing.T) {
	_, err := Check("/definitely/not/here.h", 0, 10)
	require.Error(t, err)
}
