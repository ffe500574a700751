package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rertyy/treeview/pkg/tree"
)

const sampleYAML = `label: Project
children:
  - label: Backend
    children:
      - label: API
        selected: true
      - label: Storage
  - label: Frontend
    open: false
    children:
      - label: Widgets
`

const sampleJSON = `{
  "label": "Project",
  "children": [
    {"label": "Backend", "selected": true},
    {"label": "Frontend"}
  ]
}`

// findByLabel walks the tree looking for a node with the given label.
func findByLabel(t *testing.T, snap *tree.Snapshot, label string) *tree.Node {
	t.Helper()
	var found *tree.Node
	snap.Walk(snap.RootID(), func(n *tree.Node) {
		if n.Label == label {
			found = n
		}
	})
	if found == nil {
		t.Fatalf("node %q not found", label)
	}
	return found
}

// TestParseYAML verifies structure, selection and open flags from a YAML seed
func TestParseYAML(t *testing.T) {
	store, err := ParseYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}

	snap := store.Snapshot()
	if err := snap.Validate(); err != nil {
		t.Fatalf("loaded tree failed validation: %v", err)
	}
	if snap.Len() != 6 {
		t.Errorf("expected 6 nodes, got %d", snap.Len())
	}
	if snap.Root().Label != "Project" {
		t.Errorf("expected root label Project, got %q", snap.Root().Label)
	}

	api := findByLabel(t, snap, "API")
	if api.Selection != tree.Selected {
		t.Errorf("expected API selected, got %s", api.Selection)
	}

	// Backend aggregates to Partial: API selected, Storage not
	backend := findByLabel(t, snap, "Backend")
	if backend.Selection != tree.Partial {
		t.Errorf("expected Backend partial, got %s", backend.Selection)
	}

	frontend := findByLabel(t, snap, "Frontend")
	if frontend.Open {
		t.Error("expected Frontend closed (open: false)")
	}
	widgets := findByLabel(t, snap, "Widgets")
	if !widgets.Open {
		t.Error("expected Widgets open by default")
	}
}

// TestParseYAMLSelectedParent verifies a selected parent covers its subtree
func TestParseYAMLSelectedParent(t *testing.T) {
	seed := `label: Root
children:
  - label: P
    selected: true
    children:
      - label: a
      - label: b
`
	store, err := ParseYAML([]byte(seed))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}

	snap := store.Snapshot()
	for _, label := range []string{"P", "a", "b"} {
		if n := findByLabel(t, snap, label); n.Selection != tree.Selected {
			t.Errorf("expected %s selected via parent, got %s", label, n.Selection)
		}
	}
}

// TestParseYAMLUnknownField verifies typos in seed files are rejected
func TestParseYAMLUnknownField(t *testing.T) {
	if _, err := ParseYAML([]byte("label: Root\nchilden:\n  - label: x\n")); err == nil {
		t.Error("expected error for unknown field, got nil")
	}
}

// TestParseYAMLEmpty verifies an empty document is rejected
func TestParseYAMLEmpty(t *testing.T) {
	if _, err := ParseYAML([]byte("{}")); !errors.Is(err, ErrEmptySeed) {
		t.Errorf("expected ErrEmptySeed, got %v", err)
	}
}

// TestParseJSON verifies JSON seeds load the same way
func TestParseJSON(t *testing.T) {
	store, err := ParseJSON([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}

	snap := store.Snapshot()
	if snap.Len() != 3 {
		t.Errorf("expected 3 nodes, got %d", snap.Len())
	}
	if backend := findByLabel(t, snap, "Backend"); backend.Selection != tree.Selected {
		t.Errorf("expected Backend selected, got %s", backend.Selection)
	}
	// Root is Partial: one child selected, one not
	if snap.Root().Selection != tree.Partial {
		t.Errorf("expected root partial, got %s", snap.Root().Selection)
	}
}

// TestLoadFile verifies format dispatch by extension
func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "seed.yaml")
	if err := os.WriteFile(yamlPath, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("writing seed: %v", err)
	}
	if _, err := LoadFile(yamlPath); err != nil {
		t.Errorf("LoadFile(yaml): %v", err)
	}

	jsonPath := filepath.Join(dir, "seed.json")
	if err := os.WriteFile(jsonPath, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("writing seed: %v", err)
	}
	if _, err := LoadFile(jsonPath); err != nil {
		t.Errorf("LoadFile(json): %v", err)
	}

	txtPath := filepath.Join(dir, "seed.txt")
	if err := os.WriteFile(txtPath, []byte("whatever"), 0o644); err != nil {
		t.Fatalf("writing seed: %v", err)
	}
	if _, err := LoadFile(txtPath); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat for .txt, got %v", err)
	}
}

// TestLoadFileMissing verifies a missing file surfaces the read error
func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

// TestParseYAMLRootSelected verifies a selected root covers the whole tree
func TestParseYAMLRootSelected(t *testing.T) {
	seed := `label: All
selected: true
children:
  - label: x
  - label: y
`
	store, err := ParseYAML([]byte(seed))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}

	snap := store.Snapshot()
	snap.Walk(snap.RootID(), func(n *tree.Node) {
		if n.Selection != tree.Selected {
			t.Errorf("expected %s selected, got %s", n.Label, n.Selection)
		}
	})
}
