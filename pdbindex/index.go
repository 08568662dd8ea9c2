// Package pdbindex loads, builds and samples the index of candidate
// PDB IDs grouped by category.
package pdbindex

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/thavlik/foldy-prep/proteinnet"
)

// DefaultFilename is the index file name used when none is given.
const DefaultFilename = "pdb_ids.json"

// Index maps a category to its candidate PDB IDs.
type Index map[string][]string

// MissingIndexError is returned when the index file does not exist.
type MissingIndexError struct {
	Path string
}

func (e *MissingIndexError) Error() string {
	return fmt.Sprintf("required pdb index %q was not found; run `foldy-prep gather` first", e.Path)
}

// Load reads the index at root/filename from the OS filesystem.
func Load(root, filename string) (Index, error) {
	return LoadFs(afero.NewOsFs(), root, filename)
}

// LoadFs is Load over an arbitrary filesystem.
func LoadFs(fs afero.Fs, root, filename string) (Index, error) {
	if filename == "" {
		filename = DefaultFilename
	}
	return LoadFile(fs, filepath.Join(root, filename))
}

// LoadFile reads and decodes the index at path. The format is
// chosen by extension: .yaml/.yml for YAML, JSON otherwise.
func LoadFile(fs afero.Fs, path string) (Index, error) {
	data, err := afero.ReadFile(fs, path)
	if os.IsNotExist(err) {
		return nil, &MissingIndexError{Path: path}
	} else if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	idx := make(Index)
	if isYAML(path) {
		err = yaml.Unmarshal(data, &idx)
	} else {
		err = json.Unmarshal(data, &idx)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	for category := range idx {
		if category == "" {
			return nil, fmt.Errorf("decode %s: empty category name", path)
		}
	}
	return idx, nil
}

// Save writes the index to path, creating parent directories.
func (idx Index) Save(fs afero.Fs, path string) error {
	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(idx)
	} else {
		data, err = json.MarshalIndent(idx, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

// Len returns the total number of IDs across all categories.
func (idx Index) Len() int {
	n := 0
	for _, ids := range idx {
		n += len(ids)
	}
	return n
}

// Categories returns the category names in sorted order.
func (idx Index) Categories() []string {
	keys := make([]string, 0, len(idx))
	for k := range idx {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Category returns the RCSB "divided" directory key for a PDB ID,
// which is the second and third characters (1aki -> ak).
func Category(pdbID string) (string, error) {
	if len(pdbID) != 4 {
		return "", fmt.Errorf("malformed pdb ID '%v'", pdbID)
	}
	return strings.ToLower(pdbID[1:3]), nil
}

// FromRecords groups the PDB IDs of ProteinNet records by category.
// Each category holds sorted, unique IDs.
func FromRecords(records []*proteinnet.Record) (Index, error) {
	seen := make(map[string]struct{})
	idx := make(Index)
	for _, r := range records {
		id := r.PDBID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		category, err := Category(id)
		if err != nil {
			return nil, err
		}
		idx[category] = append(idx[category], id)
	}
	for _, ids := range idx {
		sort.Strings(ids)
	}
	return idx, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
