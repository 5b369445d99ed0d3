package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	domcart "example.com/storefront/internal/domain/cart"
)

var keyRegexp = regexp.MustCompile(`^[A-Za-z0-9_.:-]{1,128}$`)

// CartStorage keeps one JSON file per session key under dir.
type CartStorage struct {
	dir string
}

func NewCartStorage(dir string) (*CartStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cart dir: %w", err)
	}
	return &CartStorage{dir: dir}, nil
}

func (s *CartStorage) Load(ctx context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domcart.ErrSnapshotNotFound
		}
		return nil, err
	}
	return data, nil
}

// Save writes to a temp file and renames it so readers never see a partial
// snapshot.
func (s *CartStorage) Save(ctx context.Context, key string, data []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".cart-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *CartStorage) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domcart.ErrSnapshotNotFound
		}
		return err
	}
	return nil
}

func (s *CartStorage) path(key string) (string, error) {
	if !keyRegexp.MatchString(key) {
		return "", fmt.Errorf("invalid cart key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}
