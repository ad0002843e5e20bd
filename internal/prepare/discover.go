package prepare

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fut/pkg/logging"
)

var definitionExtensions = []string{".yaml", ".yml"}

// IsDefinitionFile reports whether path has a YAML extension.
func IsDefinitionFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range definitionExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Discover expands command-line arguments into definition files.
//
// With no arguments every YAML file in workDir is used. An argument holding a
// '*' is a glob (typically a prefix such as "patient*"), a directory
// contributes its YAML files, and a file is taken as is. Results are
// deduplicated and sorted.
func Discover(args []string, workDir string) ([]string, error) {
	if len(args) == 0 {
		args = []string{workDir}
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, arg := range args {
		path := arg
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}

		if strings.Contains(arg, "*") {
			matches, err := filepath.Glob(path)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
			}
			for _, m := range matches {
				if IsDefinitionFile(m) && isFile(m) {
					add(m)
				}
			}
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			logging.Warn("Prepare", "Skipping %s: %v", arg, err)
			continue
		}
		if info.IsDir() {
			entries, err := os.ReadDir(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
			}
			for _, e := range entries {
				if !e.IsDir() && IsDefinitionFile(e.Name()) {
					add(filepath.Join(path, e.Name()))
				}
			}
			continue
		}
		if !IsDefinitionFile(path) {
			logging.Warn("Prepare", "Skipping %s: not a YAML file", arg)
			continue
		}
		add(path)
	}

	sort.Strings(files)
	return files, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
