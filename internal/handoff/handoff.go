// Package handoff persists extracted chapter lists so a re-opened
// document skips re-extraction. Only the immutable chapter data is
// stored; reading position never is.
package handoff

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/blinkread/blink/internal/engine"
)

const hashBytes = 8192 // First 8KB for content hash

// Store manages chapter lists cached on disk, keyed by content hash.
type Store struct {
	dir string
}

// NewStore creates or opens the cache under XDG_STATE_HOME/blink/.
func NewStore() (*Store, error) {
	dir := getStateDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// getStateDir returns XDG_STATE_HOME/blink or ~/.local/state/blink
func getStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "blink")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "blink")
}

// ComputeHash generates content hash for file identity
func ComputeHash(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, hashBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}

	hash := sha256.Sum256(buf[:n])
	return hex.EncodeToString(hash[:16]), nil // First 16 bytes = 32 hex chars
}

// Load returns the cached chapter list for a content hash, if any.
func (s *Store) Load(hash string) ([]engine.Chapter, bool) {
	data, err := os.ReadFile(s.path(hash))
	if err != nil {
		return nil, false
	}
	var chapters []engine.Chapter
	if err := json.Unmarshal(data, &chapters); err != nil {
		return nil, false
	}
	if len(chapters) == 0 {
		return nil, false
	}
	return chapters, true
}

// Save caches the chapter list for a content hash.
func (s *Store) Save(hash string, chapters []engine.Chapter) error {
	data, err := json.MarshalIndent(chapters, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(hash), data, 0644)
}

// Clear removes the cached chapter list for a content hash.
func (s *Store) Clear(hash string) error {
	err := os.Remove(s.path(hash))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *Store) path(hash string) string {
	return filepath.Join(s.dir, hash+".json")
}
