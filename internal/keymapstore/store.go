// Package keymapstore persists the keymap table as a flat binary file and
// implements the two-phase upload replace used by the configuration portal.
package keymapstore

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/retrolink/x1bridge/internal/keymap"
)

type Store struct {
	log  *zap.Logger
	path string
}

func New(log *zap.Logger, path string) *Store {
	return &Store{log: log, path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the binary keymap file. Any failure (absence, I/O error, size
// mismatch) falls back to the compiled-in default, which is immediately
// persisted so future loads are file-backed. Load never fails.
func (s *Store) Load() *keymap.Table {
	data, err := os.ReadFile(s.path)
	if err == nil {
		table, derr := keymap.Decode(data)
		if derr == nil {
			return table
		}
		err = derr
	}
	s.log.Warn("keymap file unusable, falling back to default", zap.Error(err))
	table := keymap.Default()
	if serr := s.Save(table); serr != nil {
		s.log.Error("failed to persist default keymap", zap.Error(serr))
	}
	return table
}

// Save writes the table, truncating any prior file. A failed write removes
// the partial file rather than leaving it inconsistent.
func (s *Store) Save(t *keymap.Table) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create keymap directory: %w", err)
	}
	if err := os.WriteFile(s.path, keymap.Encode(t), 0o644); err != nil {
		os.Remove(s.path)
		return fmt.Errorf("failed to write keymap file: %w", err)
	}
	return nil
}

// Upload replaces the keymap file with uploaded content, accepting either the
// raw binary table or a bracketed hex-string JSON array. The new table is
// validated and written to a temporary file first, then renamed over the
// original, so a concurrent reader never observes a half-written file.
func (s *Store) Upload(r io.Reader) (*keymap.Table, error) {
	br := newSniffReader(r)
	var (
		data []byte
		err  error
	)
	if br.looksLikeJSON() {
		data, err = parseHexRows(br)
	} else {
		data, err = io.ReadAll(br)
	}
	if err != nil {
		return nil, fmt.Errorf("malformed upload: %w", err)
	}
	table, err := keymap.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("malformed upload: %w", err)
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid table: %w", err)
	}
	if err := s.commit(data); err != nil {
		return nil, err
	}
	return table, nil
}

func (s *Store) commit(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create keymap directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write temp keymap: %w", err)
	}
	bak := s.path + ".bak"
	// Drop any stale backup from an earlier replace before rotating.
	os.Remove(bak)
	if err := os.Rename(s.path, bak); err != nil && !os.IsNotExist(err) {
		os.Remove(tmp)
		return fmt.Errorf("failed to rotate keymap backup: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to commit keymap: %w", err)
	}
	return nil
}

// parseHexRows incrementally parses `[["xx","xx",...],...]` into bytes.
func parseHexRows(r io.Reader) ([]byte, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("expected array, got %v", tok)
	}
	var out []byte
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			return nil, fmt.Errorf("expected row array, got %v", tok)
		}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			str, ok := tok.(string)
			if !ok {
				return nil, fmt.Errorf("expected hex string, got %v", tok)
			}
			b, err := hex.DecodeString(str)
			if err != nil || len(b) != 1 {
				return nil, fmt.Errorf("bad hex byte %q", str)
			}
			out = append(out, b[0])
		}
		if _, err := dec.Token(); err != nil { // closing ]
			return nil, err
		}
	}
	if _, err := dec.Token(); err != nil { // closing ]
		return nil, err
	}
	return out, nil
}

// sniffReader peeks at the first non-space byte to tell raw binary from the
// JSON form without consuming it.
type sniffReader struct {
	r    io.Reader
	head []byte
}

func newSniffReader(r io.Reader) *sniffReader {
	head := make([]byte, 1)
	for {
		n, err := r.Read(head)
		if err != nil {
			return &sniffReader{r: r}
		}
		if n == 1 && !isSpace(head[0]) {
			return &sniffReader{r: r, head: head}
		}
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func (s *sniffReader) looksLikeJSON() bool {
	return len(s.head) == 1 && s.head[0] == '['
}

func (s *sniffReader) Read(p []byte) (int, error) {
	if len(s.head) > 0 {
		r := io.MultiReader(bytes.NewReader(s.head), s.r)
		s.r = r
		s.head = nil
	}
	return s.r.Read(p)
}
