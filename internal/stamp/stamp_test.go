package stamp_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"toknames/internal/stamp"
)

func TestPutGet(t *testing.T) {
	s, err := stamp.Open(t.TempDir())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "toknames.c")
	var got stamp.Stamp
	ok, err := s.Get(out, &got)
	require.NoError(t, err)
	require.False(t, ok)

	in := stamp.Sum([]byte("#define A 1\n"))
	opts := stamp.SumStrings("c", "toknames")
	require.NoError(t, s.Put(out, &stamp.Stamp{Input: "parser.h", InputD: in, Options: opts, Entries: 2}))

	ok, err = s.Get(out, &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "parser.h", got.Input)
	require.Equal(t, 2, got.Entries)
	require.NotZero(t, got.Written)
	require.True(t, got.Matches(in, opts))
	require.False(t, got.Matches(in, stamp.SumStrings("go", "toknames")))

	require.NoError(t, s.Drop(out))
	require.NoError(t, s.Drop(out))
	ok, err = s.Get(out, &got)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSchemaMismatchIsMiss(t *testing.T) {
	dir := t.TempDir()
	s, err := stamp.Open(dir)
	require.NoError(t, err)
	out := "gen/toknames.c"
	require.NoError(t, s.Put(out, &stamp.Stamp{Entries: 1}))

	entries, err := os.ReadDir(filepath.Join(dir, "stamps"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	raw, err := msgpack.Marshal(&stamp.Stamp{Schema: 99, Entries: 1})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stamps", entries[0].Name()), raw, 0o644))

	var got stamp.Stamp
	ok, err := s.Get(out, &got)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, stamp.Stamp{}, got)
}

func TestDropAll(t *testing.T) {
	s, err := stamp.Open(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	require.NoError(t, s.Put("a.c", &stamp.Stamp{}))
	require.NoError(t, s.DropAll())
	var got stamp.Stamp
	ok, err := s.Get("a.c", &got)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, s.Put("a.c", &stamp.Stamp{}))
}

func TestConcurrentPut(t *testing.T) {
	s, err := stamp.Open(t.TempDir())
	require.NoError(t, err)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Put("shared.c", &stamp.Stamp{Entries: i})
		}()
	}
	wg.Wait()
	var got stamp.Stamp
	ok, err := s.Get("shared.c", &got)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestNilStore(t *testing.T) {
	var s *stamp.Store
	require.NoError(t, s.Put("x", &stamp.Stamp{}))
	ok, err := s.Get("x", &stamp.Stamp{})
	require.NoError(t, err)
	require.False(t, ok)
}
