package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	kerrors "github.com/PolarWolf314/envseal/internal/errors"
	"github.com/PolarWolf314/envseal/internal/utils"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultIncludePatterns are searched when no files are given.
var DefaultIncludePatterns = []string{"**/.env", "**/.env.*", "**/*.env"}

// ResolveFiles takes user-provided paths, directories and globs and returns
// the matching environment files, de-duplicated, in the order found.
// Relative patterns are resolved against projectPath.
func ResolveFiles(patterns []string, projectPath string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	var files []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		resolved, err := resolvePattern(pattern, projectPath)
		if err != nil {
			return nil, err
		}

		for _, f := range resolved {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}

	if len(files) == 0 {
		return nil, kerrors.ErrNoFilesFound
	}

	return files, nil
}

// FindEnvFiles returns every environment file under root matching one of the
// include patterns, sorted.
func FindEnvFiles(root string, include []string) ([]string, error) {
	if len(include) == 0 {
		include = DefaultIncludePatterns
	}

	seen := make(map[string]bool)
	var files []string

	for _, pattern := range include {
		matches, err := expandGlob(pattern, root)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

func resolvePattern(pattern string, projectPath string) ([]string, error) {
	absPattern := pattern
	if !filepath.IsAbs(pattern) {
		absPattern = filepath.Join(projectPath, pattern)
	}

	info, err := os.Stat(absPattern)
	if err == nil && info.IsDir() {
		return FindEnvFiles(absPattern, nil)
	}

	if strings.ContainsAny(pattern, "*?[{") {
		return expandGlob(pattern, projectPath)
	}

	// A literal path is taken as given, even without an env-style name.
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, pattern)
		}
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrFileAccess, pattern, err)
	}

	return []string{absPattern}, nil
}

func expandGlob(pattern string, projectPath string) ([]string, error) {
	absPattern := pattern
	if !filepath.IsAbs(pattern) {
		absPattern = filepath.Join(projectPath, pattern)
	}

	matches, err := doublestar.FilepathGlob(absPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	var filtered []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if isInProjectDir(m) || !isEnvFile(m) {
			continue
		}
		filtered = append(filtered, m)
	}

	return filtered, nil
}

func isEnvFile(path string) bool {
	base := filepath.Base(path)
	if isTempFile(base) {
		return false
	}
	return base == ".env" || strings.HasPrefix(base, ".env.") || strings.HasSuffix(base, ".env")
}

// isTempFile matches the temporary files written by utils.WriteFileAtomic.
func isTempFile(base string) bool {
	return strings.HasPrefix(base, ".") && strings.Contains(base, ".envseal-") && strings.HasSuffix(base, ".tmp")
}

func isInProjectDir(path string) bool {
	parts := strings.Split(filepath.ToSlash(path), "/")
	for _, part := range parts {
		if part == utils.ProjectDirName {
			return true
		}
	}
	return false
}
