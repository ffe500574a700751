// Package config locates the seed file a tree session should start from.
package config

import (
	"os"
	"path/filepath"
)

// SeedFileNames are the file names probed during discovery, in order of
// preference.
var SeedFileNames = []string{
	".treeview.yaml",
	".treeview.yml",
	".treeview.json",
	"tree.yaml",
	"tree.yml",
	"tree.json",
}

// DiscoverSeed walks up from startDir looking for a seed file, stopping
// at the filesystem root or the user's home directory. Returns the path
// of the first match and whether one was found.
func DiscoverSeed(startDir string) (string, bool) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}
	home, _ := os.UserHomeDir()

	for {
		for _, name := range SeedFileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}

// DetectCurrentSeed runs discovery from the working directory.
func DetectCurrentSeed() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return DiscoverSeed(dir)
}
