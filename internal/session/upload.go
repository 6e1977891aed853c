package session

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Upload is a file handed to a session. Its ID is the cache identity.
type Upload struct {
	ID   uuid.UUID
	Name string
	data []byte
}

// NewUpload wraps bytes received from a client. Every call gets a new
// identity, even for identical content.
func NewUpload(name string, data []byte) *Upload {
	return &Upload{ID: uuid.New(), Name: name, data: data}
}

// OpenUpload reads a file from disk. The identity is derived from the absolute
// path, size and modification time, so reopening an unchanged file maps to
// the same cache entry.
func OpenUpload(path string) (*Upload, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve upload path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat upload: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open upload: %s is a directory", path)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	ident := fmt.Sprintf("%s|%d|%d", abs, info.Size(), info.ModTime().UnixNano())
	return &Upload{
		ID:   uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+ident)),
		Name: filepath.Base(abs),
		data: data,
	}, nil
}

// Reader returns a fresh reader over the upload's bytes.
func (u *Upload) Reader() io.Reader { return bytes.NewReader(u.data) }

// Size is the number of bytes held.
func (u *Upload) Size() int { return len(u.data) }
