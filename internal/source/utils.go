package source

import (
	"path/filepath"
	"strings"
)

// IsHidden reports whether any element of path starts with a dot.
// "." and ".." do not count.
func IsHidden(path string) bool {
	for _, part := range strings.Split(normalizePath(path), "/") {
		if part == "." || part == ".." || part == "" {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// MirrorPath maps path into outDir, keeping its location relative to base.
// Paths outside base keep their full (volume-less) location below outDir.
func MirrorPath(path, base, outDir string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		// вне базы: повторяем абсолютный путь целиком
		rel = strings.TrimPrefix(absPath, filepath.VolumeName(absPath))
	}
	return filepath.Join(outDir, rel), nil
}

// SlashPath returns the cleaned, slash separated form of p.
func SlashPath(p string) string {
	return normalizePath(p)
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}
