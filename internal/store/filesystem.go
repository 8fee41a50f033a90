package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

func (s *Store) exists(name string) (bool, error) {
	_, err := s.fs.Stat(name)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", name, err)
}

// readRecord decodes the TOML record at name into v. A missing record is
// reported as notFound.
func (s *Store) readRecord(name string, v any, notFound error) error {
	ok, err := s.exists(name)
	if err != nil {
		return err
	}
	if !ok {
		return notFound
	}

	f, err := s.fs.Open(name)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	if _, err := toml.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

func (s *Store) writeRecord(name string, v any) error {
	if err := s.fs.MkdirAll(path.Dir(name), 0700); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}

	f, err := s.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if err := toml.NewEncoder(f).Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return f.Close()
}

func (s *Store) removeRecord(name string) error {
	if err := s.fs.Remove(name); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}

// list returns the entry names in dir, sorted. With records set, only
// record files are returned and their extension is stripped. A missing
// directory lists as empty.
func (s *Store) list(dir string, records bool) ([]string, error) {
	ok, err := s.exists(dir)
	if err != nil || !ok {
		return nil, err
	}

	f, err := s.fs.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dir, err)
	}
	defer f.Close()

	entries, err := f.Readdirnames(-1)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		entry = path.Base(entry)
		if strings.HasPrefix(entry, ".") {
			continue
		}
		if records {
			if !strings.HasSuffix(entry, recordExt) {
				continue
			}
			entry = strings.TrimSuffix(entry, recordExt)
		}
		if ValidName(entry) {
			names = append(names, entry)
		}
	}
	sort.Strings(names)
	return names, nil
}
