package backend

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// DefaultSessionPath is where the backend session id is kept between runs.
func DefaultSessionPath() string {
	return filepath.Join(xdg.DataHome, "canvascal", "session")
}

// FileSessionStore keeps the session id in a single file readable only by the
// current user.
type FileSessionStore struct {
	Path string
}

func NewFileSessionStore(path string) *FileSessionStore {
	if path == "" {
		path = DefaultSessionPath()
	}
	return &FileSessionStore{Path: path}
}

// Load returns the stored id, or an empty string when there is none.
func (s *FileSessionStore) Load() (string, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (s *FileSessionStore) Save(id string) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.Path, []byte(id+"\n"), 0o600)
}

func (s *FileSessionStore) Clear() error {
	err := os.Remove(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
