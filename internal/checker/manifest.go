package checker

import (
	"archive/zip"
	"bufio"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

const (
	buildPropertiesEntry = "fhir-build.properties"
	buildVersionKey      = "orgfhir.version="
	manifestEntry        = "META-INF/MANIFEST.MF"
	manifestVersionKey   = "Implementation-Version:"
)

// ErrVersionUnknown means the jar carries no recognizable version entry.
var ErrVersionUnknown = errors.New("validator version not found in jar")

// ReadVersion returns the version embedded in a validator jar.
func ReadVersion(jarPath string) (string, error) {
	r, err := zip.OpenReader(jarPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", jarPath, err)
	}
	defer r.Close()

	var manifest *zip.File
	for _, f := range r.File {
		switch {
		case path.Base(f.Name) == buildPropertiesEntry:
			if v, err := scanEntry(f, buildVersionKey); err == nil && v != "" {
				return v, nil
			}
		case f.Name == manifestEntry:
			manifest = f
		}
	}
	if manifest != nil {
		if v, err := scanEntry(manifest, manifestVersionKey); err == nil && v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrVersionUnknown, jarPath)
}

func scanEntry(f *zip.File, key string) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return scanLines(rc, key)
}

func scanLines(r io.Reader, key string) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, key) {
			return strings.TrimSpace(strings.TrimPrefix(line, key)), nil
		}
	}
	return "", scanner.Err()
}
