// Package loader reads tree seed files in YAML or JSON form and builds
// a populated store from them.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/rertyy/treeview/pkg/tree"
)

// Common errors.
var (
	ErrEmptySeed     = errors.New("seed file contains no nodes")
	ErrUnknownFormat = errors.New("unknown seed file format")
)

// SeedNode is one node of a seed document. Children nest recursively.
// Open defaults to true when omitted.
type SeedNode struct {
	Label    string     `yaml:"label" json:"label"`
	Open     *bool      `yaml:"open,omitempty" json:"open,omitempty"`
	Selected bool       `yaml:"selected,omitempty" json:"selected,omitempty"`
	Children []SeedNode `yaml:"children,omitempty" json:"children,omitempty"`
}

// LoadFile reads a seed file and returns a store populated from it.
// The format is chosen by extension: .yaml/.yml or .json.
func LoadFile(path string) (*tree.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".json":
		return ParseJSON(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Ext(path))
	}
}

// ParseYAML builds a store from a YAML seed document. Unknown fields
// are rejected so typos in seed files surface as errors.
func ParseYAML(data []byte) (*tree.Store, error) {
	var root SeedNode
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("parsing YAML seed: %w", err)
	}
	return build(root)
}

// ParseJSON builds a store from a JSON seed document.
func ParseJSON(data []byte) (*tree.Store, error) {
	var root SeedNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing JSON seed: %w", err)
	}
	return build(root)
}

// build replays the seed through store operations so every invariant
// the store enforces holds for loaded trees too.
func build(root SeedNode) (*tree.Store, error) {
	if root.Label == "" && len(root.Children) == 0 {
		return nil, ErrEmptySeed
	}

	store := tree.New()
	snap := store.Snapshot()
	rootID := snap.RootID()

	if root.Label != "" {
		if err := store.EditLabel(rootID, root.Label); err != nil {
			return nil, err
		}
	}

	for _, child := range root.Children {
		if err := addSubtree(store, rootID, child); err != nil {
			return nil, err
		}
	}
	if root.Selected {
		if n, ok := store.Snapshot().Node(rootID); ok && n.Selection != tree.Selected {
			if err := store.SetSelected(rootID); err != nil {
				return nil, err
			}
		}
	}
	if open := root.Open; open != nil && !*open {
		if err := store.SetOpen(rootID, false); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func addSubtree(store *tree.Store, parentID string, seed SeedNode) error {
	id, err := store.AddChild(parentID, seed.Label)
	if err != nil {
		return err
	}

	for _, child := range seed.Children {
		if err := addSubtree(store, id, child); err != nil {
			return err
		}
	}

	// Selection is applied after children exist so toggling covers the
	// whole subtree, and only when the node is not already selected
	// through an ancestor.
	if seed.Selected {
		snap := store.Snapshot()
		if n, ok := snap.Node(id); ok && n.Selection != tree.Selected {
			if err := store.SetSelected(id); err != nil {
				return err
			}
		}
	}
	if open := seed.Open; open != nil && !*open {
		if err := store.SetOpen(id, false); err != nil {
			return err
		}
	}
	return nil
}
