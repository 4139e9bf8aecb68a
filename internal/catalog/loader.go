package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// classIDNamespace derives stable IDs for classes and workouts that do not declare one
var classIDNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("studio-play/classes"))

// classFile is the on-disk layout of a class file
type classFile struct {
	Classes []Class `yaml:"classes"`
}

// IsClassFile reports whether path has a class file extension
func IsClassFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Decode parses and validates the classes in one class file. source names the file for
// error messages and derived IDs.
func Decode(r io.Reader, source string) ([]Class, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var file classFile
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: parse: %w", source, err)
	}

	for i := range file.Classes {
		c := &file.Classes[i]
		c.Source = source
		assignIDs(c, source, i)
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
	}
	return file.Classes, nil
}

// assignIDs fills in missing IDs deterministically, so a class keeps its ID across reloads
func assignIDs(c *Class, source string, index int) {
	if c.ID == "" {
		c.ID = uuid.NewSHA1(classIDNamespace, []byte(fmt.Sprintf("%s#%d#%s", filepath.Base(source), index, c.Name))).String()
	}
	for i := range c.Workouts {
		w := &c.Workouts[i]
		if w.ID == "" {
			w.ID = uuid.NewSHA1(classIDNamespace, []byte(fmt.Sprintf("%s/%d/%s", c.ID, i, w.Name))).String()
		}
	}
}

// LoadFile reads one class file
func LoadFile(path string) ([]Class, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read class file: %w", err)
	}
	return Decode(bytes.NewReader(data), path)
}

// LoadDir reads every class file in dir, in file name order. Files that fail to load are
// skipped and their errors joined into the returned error, so one bad file does not hide
// the rest of the catalog. A missing directory yields no classes and no error.
func LoadDir(dir string) ([]Class, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read classes dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsClassFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var classes []Class
	var errs []error
	for _, name := range names {
		loaded, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		classes = append(classes, loaded...)
	}
	return classes, errors.Join(errs...)
}
