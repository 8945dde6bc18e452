package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNoFiles     = errors.New("no files to save")
	ErrInvalidPath = errors.New("invalid storage location")
)

// Uploader persists uploaded files and resolves the locations it hands out.
// Locations are slash separated and relative to the storage root.
type Uploader interface {
	// Save writes every file under destination and returns one location per
	// file, in input order. Nothing is left on disk when Save fails.
	Save(files []*multipart.FileHeader, destination string) ([]string, error)

	// Remove deletes the file at location. A missing file is not an error.
	Remove(location string) error

	// Path resolves a location to an absolute file path inside the root.
	Path(location string) (string, error)
}

// LocalStorage stores uploads on the local file system.
type LocalStorage struct {
	root string
}

// NewLocalStorage creates the root directory if needed.
func NewLocalStorage(root string) (*LocalStorage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload root: %w", err)
	}
	return &LocalStorage{root: abs}, nil
}

// Root returns the absolute root directory.
func (s *LocalStorage) Root() string {
	return s.root
}

func (s *LocalStorage) Save(files []*multipart.FileHeader, destination string) ([]string, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	dest, err := cleanLocation(destination)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(s.root, filepath.FromSlash(dest)), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create destination %q: %w", dest, err)
	}

	locations := make([]string, 0, len(files))
	for _, fh := range files {
		location := path.Join(dest, uuid.NewString()+"_"+safeName(fh.Filename))
		if err := s.write(fh, location); err != nil {
			s.removeAll(locations)
			return nil, err
		}
		locations = append(locations, location)
	}

	return locations, nil
}

func (s *LocalStorage) write(fh *multipart.FileHeader, location string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload %q: %w", fh.Filename, err)
	}
	defer src.Close()

	target := filepath.Join(s.root, filepath.FromSlash(location))
	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", location, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(target)
		return fmt.Errorf("failed to write %q: %w", location, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(target)
		return fmt.Errorf("failed to write %q: %w", location, err)
	}
	return nil
}

func (s *LocalStorage) removeAll(locations []string) {
	for _, location := range locations {
		_ = s.Remove(location)
	}
}

func (s *LocalStorage) Remove(location string) error {
	target, err := s.Path(location)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %q: %w", location, err)
	}
	return nil
}

func (s *LocalStorage) Path(location string) (string, error) {
	clean, err := cleanLocation(location)
	if err != nil {
		return "", err
	}
	if clean == "" {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

// cleanLocation normalizes a relative location and rejects anything that
// would escape the root.
func cleanLocation(location string) (string, error) {
	location = strings.ReplaceAll(location, "\\", "/")
	if strings.HasPrefix(location, "/") {
		return "", ErrInvalidPath
	}
	clean := path.Clean(location)
	if clean == "." {
		return "", nil
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidPath
	}
	return clean, nil
}

// safeName keeps only the base name of a client supplied file name.
func safeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	switch name {
	case "", ".", "..", "/":
		return "file"
	}
	return name
}
