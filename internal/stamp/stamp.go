// Package stamp remembers what each output was generated from, so a job whose
// input and options are unchanged can be skipped.
package stamp

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// bump when Stamp changes shape
const schemaVersion uint16 = 1

// Digest is a SHA-256 sum.
type Digest [sha256.Size]byte

// Sum hashes b.
func Sum(b []byte) Digest { return sha256.Sum256(b) }

// SumStrings hashes parts with a separator that cannot occur in them.
func SumStrings(parts ...string) Digest {
	return sha256.Sum256([]byte(strings.Join(parts, "\x00")))
}

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Stamp is what the store keeps per output file.
type Stamp struct {
	Schema  uint16
	Input   string
	InputD  Digest
	Options Digest
	OutputD Digest
	Entries int
	Written int64 // unix nanos
}

// Matches reports whether s describes the same input and options as other.
func (s *Stamp) Matches(input, options Digest) bool {
	return s.Schema == schemaVersion && s.InputD == input && s.Options == options
}

// Store keeps stamps as msgpack files under one directory. Safe for
// concurrent use.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// Open uses dir as the store root, creating it if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, "stamps"), 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// OpenDefault opens $XDG_CACHE_HOME/<app>, falling back to ~/.cache/<app>.
func OpenDefault(app string) (*Store, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return Open(filepath.Join(base, app))
}

// Dir is the store root.
func (s *Store) Dir() string { return s.dir }

func (s *Store) pathFor(output string) string {
	if abs, err := filepath.Abs(output); err == nil {
		output = abs
	}
	return filepath.Join(s.dir, "stamps", SumStrings(output).String()+".mp")
}

// Put records st for output, replacing any previous stamp atomically.
func (s *Store) Put(output string, st *Stamp) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st.Schema = schemaVersion
	if st.Written == 0 {
		st.Written = time.Now().UnixNano()
	}
	p := s.pathFor(output)
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	if err := msgpack.NewEncoder(f).Encode(st); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get loads the stamp for output. A missing stamp or one written by another
// schema version is reported as not found.
func (s *Store) Get(output string, out *Stamp) (bool, error) {
	if s == nil {
		return false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.pathFor(output))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != schemaVersion {
		*out = Stamp{}
		return false, nil
	}
	return true, nil
}

// Drop forgets the stamp for output.
func (s *Store) Drop(output string) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.pathFor(output))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// DropAll removes every stamp.
func (s *Store) DropAll() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(s.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(filepath.Join(s.dir, "stamps"), 0o755)
}
