package spec

import (
	"embed"
	"fmt"
	"sort"
)

//go:embed examples/*.yaml
var examplesFS embed.FS

// ExampleNames returns the bundled example spec filenames, sorted.
func ExampleNames() []string {
	entries, err := examplesFS.ReadDir("examples")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// Example returns the raw YAML for a bundled example spec.
func Example(name string) ([]byte, error) {
	data, err := examplesFS.ReadFile("examples/" + name)
	if err != nil {
		return nil, fmt.Errorf("example %q not found", name)
	}
	return data, nil
}
