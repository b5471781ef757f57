package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/certforge/certforge/internal/pkg/certerrors"
)

// Store persists finished batch archives. Save returns an opaque reference
// that Open resolves later when the user downloads the archive.
type Store interface {
	Save(ctx context.Context, name string, data []byte) (ref string, err error)
	Open(ctx context.Context, ref string) ([]byte, error)
	Delete(ctx context.Context, ref string) error
}

// LocalStore keeps archives on the local filesystem under a base directory.
type LocalStore struct {
	BaseDir string
}

func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("creating archive directory %s: %w", baseDir, err)
	}
	return &LocalStore{BaseDir: baseDir}, nil
}

func (s *LocalStore) Save(_ context.Context, name string, data []byte) (string, error) {
	name = filepath.Base(name)
	path := filepath.Join(s.BaseDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", certerrors.Wrap(certerrors.KindPackagingFailure, "writing archive to disk", err)
	}
	return name, nil
}

func (s *LocalStore) Open(_ context.Context, ref string) ([]byte, error) {
	// Refs are bare filenames; reject anything that tries to escape the
	// base directory.
	if ref != filepath.Base(ref) || strings.HasPrefix(ref, ".") {
		return nil, certerrors.New(certerrors.KindRecordNotFound, "unknown archive reference")
	}
	data, err := os.ReadFile(filepath.Join(s.BaseDir, ref))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, certerrors.New(certerrors.KindRecordNotFound, "archive not found")
		}
		return nil, fmt.Errorf("reading archive %s: %w", ref, err)
	}
	return data, nil
}

func (s *LocalStore) Delete(_ context.Context, ref string) error {
	if ref != filepath.Base(ref) {
		return nil
	}
	err := os.Remove(filepath.Join(s.BaseDir, ref))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing archive %s: %w", ref, err)
	}
	return nil
}
