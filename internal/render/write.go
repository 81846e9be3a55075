package render

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathFor returns the artifact path for base and format.
func PathFor(base string, a Artifact) string {
	return base + "." + string(a.Format)
}

// WriteFiles writes each artifact to <base>.<format> and returns the created
// paths in order. It stops at the first failure.
func WriteFiles(base string, artifacts []Artifact) ([]string, error) {
	if dir := filepath.Dir(base); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory %q: %w", dir, err)
		}
	}
	created := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		path := PathFor(base, a)
		if err := os.WriteFile(path, []byte(a.Content), 0o644); err != nil {
			return created, fmt.Errorf("write %s: %w", path, err)
		}
		created = append(created, path)
	}
	return created, nil
}
