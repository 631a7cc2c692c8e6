package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"sigs.k8s.io/yaml"

	"github.com/samedit66/eiffel-compiler/pkg/ast"
)

// FileLoadResult is the outcome of decoding one class file.
type FileLoadResult struct {
	Path    string
	Classes []*ast.ClassDeclaration
	Err     error
}

// collectYAMLFiles returns a list of YAML file paths from the given path.
// If path is a file, it returns a single-element slice.
// If path is a directory, it returns all .yaml and .yml files in the directory (non-recursive).
func collectYAMLFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		if !isYAML(path) {
			return nil, fmt.Errorf("file %q must have a .yaml or .yml extension", path)
		}
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}

	sort.Strings(files)
	return files, nil
}

func isYAML(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}

// LoadDetailed decodes every class file under path, returning per-file
// results (including decode errors) so callers can report all of them.
// Only errors related to accessing the path are returned directly.
// Defaults are not applied.
func LoadDetailed(path string) ([]FileLoadResult, error) {
	files, err := collectYAMLFiles(path)
	if err != nil {
		return nil, err
	}

	results := make([]FileLoadResult, 0, len(files))
	for _, file := range files {
		classes, loadErr := loadFile(file)
		results = append(results, FileLoadResult{Path: file, Classes: classes, Err: loadErr})
	}
	return results, nil
}

// Load decodes every class file under path in file order and applies the
// default root class and creation procedure. The first decode error aborts
// the load.
func Load(path string, d ast.Defaults) ([]*ast.ClassDeclaration, error) {
	results, err := LoadDetailed(path)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no YAML files found in %q", path)
	}

	var classes []*ast.ClassDeclaration
	for _, result := range results {
		if result.Err != nil {
			return nil, fmt.Errorf("failed to load %q: %w", result.Path, result.Err)
		}
		classes = append(classes, result.Classes...)
	}
	return ast.ApplyDefaultsAll(classes, d), nil
}

func loadFile(path string) ([]*ast.ClassDeclaration, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Decode(path, content)
}

// Decode converts the YAML document data into class declarations. Every
// class, parent clause, rename pair and feature is located at its name key
// in file.
func Decode(file string, data []byte) ([]*ast.ClassDeclaration, error) {
	var doc document
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal classes: %w", err)
	}
	if len(doc.Classes) == 0 {
		return nil, fmt.Errorf("no classes declared")
	}

	pos, err := parsePositions(file, data)
	if err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}

	out := make([]*ast.ClassDeclaration, 0, len(doc.Classes))
	for i, c := range doc.Classes {
		decl, err := c.toAST(pos, item(pos.classes, i))
		if err != nil {
			return nil, fmt.Errorf("classes[%d]: %w", i, err)
		}
		out = append(out, decl)
	}
	return out, nil
}
