package prepare

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"fut/internal/testcase"
)

// ErrInstanceNotFound means none of the candidate instance files exist.
var ErrInstanceNotFound = errors.New("instance file not found")

var instanceExtensions = []string{".json", ".xml"}

// ResolveInstance finds the resource a definition validates. Candidates, first hit wins:
// the declared path (relative to the definition), a file named like the
// definition with an instance extension, then <test_id> with an instance
// extension in the same directory.
func ResolveInstance(definitionPath string, def testcase.Definition) (string, error) {
	dir := filepath.Dir(definitionPath)

	var candidates []string
	if p := strings.TrimSpace(def.InstancePath); p != "" {
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		candidates = append(candidates, p)
	}

	stem := strings.TrimSuffix(filepath.Base(definitionPath), filepath.Ext(definitionPath))
	for _, ext := range instanceExtensions {
		candidates = append(candidates, filepath.Join(dir, stem+ext))
	}
	if id := strings.TrimSpace(def.TestID); id != "" {
		for _, ext := range instanceExtensions {
			candidates = append(candidates, filepath.Join(dir, id+ext))
		}
	}

	for _, c := range candidates {
		if isFile(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w for test %q (tried %s)", ErrInstanceNotFound, def.TestID, strings.Join(candidates, ", "))
}

// RenderArgs emits one flag/value pair per non-empty context entry.
// Resources are loaded the same way as guides.
func RenderArgs(c testcase.ValidationContext) []string {
	var args []string
	add := func(flag string, values []string) {
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				args = append(args, flag, v)
			}
		}
	}
	add("-ig", c.IGs)
	add("-profile", c.Profiles)
	add("-ig", c.Resources)
	return args
}
