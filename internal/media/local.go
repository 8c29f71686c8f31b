package media

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type LocalStore struct {
	dir       string
	urlPrefix string
}

func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	full := filepath.Join(s.dir, filepath.FromSlash(path.Clean("/"+key)))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", err
	}
	return s.urlPrefix + path.Clean("/"+key), nil
}

// Remove deletes a file previously returned by Put. References outside the
// store are ignored.
func (s *LocalStore) Remove(_ context.Context, ref string) error {
	if !strings.HasPrefix(ref, s.urlPrefix+"/") {
		return nil
	}
	rel := path.Clean("/" + strings.TrimPrefix(ref, s.urlPrefix))
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(rel)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

var _ Store = (*LocalStore)(nil)
