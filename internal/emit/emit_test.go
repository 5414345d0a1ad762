package emit_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"toknames/internal/emit"
	"toknames/internal/tokentab"
)

var gapTable = tokentab.Table{"<<EOF>>", "ERROR", "PLUS", "ERROR", "ERROR", "MINUS"}

func TestWriteC(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, emit.Write(&buf, gapTable, emit.Options{}))
	want := "const char *toknames[] = {\n" +
		"\t\"<<EOF>>\",\n" +
		"\t\"ERROR\",\n" +
		"\t\"PLUS\",\n" +
		"\t\"ERROR\",\n" +
		"\t\"ERROR\",\n" +
		"\t\"MINUS\",\n" +
		"};\n"
	require.Equal(t, want, buf.String())
}

func TestWriteCEscapes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, emit.Write(&buf, tokentab.Table{`a"b\c`}, emit.Options{Name: "names"}))
	require.Equal(t, "const char *names[] = {\n\t\"a\\\"b\\\\c\",\n};\n", buf.String())
}

func TestWriteGo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, emit.Write(&buf, tokentab.Table{"<<EOF>>", "ERROR", "IDENT"}, emit.Options{
		Format:  emit.FormatGo,
		Name:    "tokNames",
		Package: "grammar",
	}))
	want := `// Code generated by toknames. DO NOT EDIT.

package grammar

var tokNames = [...]string{
	"<<EOF>>",
	"ERROR",
	"IDENT",
}
`
	require.Equal(t, want, buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, emit.Write(&buf, gapTable, emit.Options{Format: emit.FormatJSON}))
	var got []string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, []string(gapTable), got)
	require.Contains(t, buf.String(), `"<<EOF>>"`)
}

func TestWriteRejectsBadIdentifiers(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, emit.Write(&buf, gapTable, emit.Options{Name: "1abc"}))
	require.Error(t, emit.Write(&buf, gapTable, emit.Options{Format: emit.FormatGo, Package: "a-b"}))
	require.Zero(t, buf.Len())
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWritePropagatesWriterError(t *testing.T) {
	require.EqualError(t, emit.Write(failWriter{}, gapTable, emit.Options{}), "disk full")
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]emit.Format{"": emit.FormatC, "C": emit.FormatC, "go": emit.FormatGo, " json ": emit.FormatJSON} {
		got, err := emit.ParseFormat(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := emit.ParseFormat("yaml")
	require.Error(t, err)
	require.Equal(t, ".go", emit.FormatGo.Ext())
	require.Equal(t, "json", emit.FormatJSON.String())
}
