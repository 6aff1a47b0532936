package app

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// FileHelper provides file operation utilities for locating Java sources
type FileHelper struct {
	respectGitignore bool
}

// NewFileHelper creates a new FileHelper that honors .gitignore files
func NewFileHelper() *FileHelper {
	return &FileHelper{respectGitignore: true}
}

// SetRespectGitignore controls whether .gitignore rules filter directory walks
func (h *FileHelper) SetRespectGitignore(respect bool) {
	h.respectGitignore = respect
}

// CollectJavaFiles collects Java files from the given paths. Files named
// directly are always included; directory walks apply include and exclude
// patterns plus any .gitignore found at the directory root.
func (h *FileHelper) CollectJavaFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if h.isJavaFile(path) && !h.isExcluded(path, excludePatterns) {
				files = append(files, path)
			}
			continue
		}

		ignorer := h.loadGitignore(path)

		if recursive {
			err = filepath.Walk(path, func(filePath string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}

				rel, relErr := filepath.Rel(path, filePath)
				if relErr != nil {
					rel = filePath
				}

				if info.IsDir() {
					if filePath == path {
						return nil
					}
					dirName := filepath.Base(filePath)
					if dirName == ".git" {
						return filepath.SkipDir
					}
					for _, pattern := range excludePatterns {
						if pattern == dirName {
							return filepath.SkipDir
						}
						if matched, _ := filepath.Match(pattern, dirName); matched {
							return filepath.SkipDir
						}
					}
					if ignorer != nil && ignorer.MatchesPath(rel+"/") {
						return filepath.SkipDir
					}
					return nil
				}

				if ignorer != nil && ignorer.MatchesPath(rel) {
					return nil
				}
				if h.isJavaFile(filePath) &&
					h.isIncluded(filePath, includePatterns) &&
					!h.isExcluded(filePath, excludePatterns) {
					files = append(files, filePath)
				}
				return nil
			})
		} else {
			var entries []os.DirEntry
			entries, err = os.ReadDir(path)
			if err != nil {
				return nil, err
			}
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				filePath := filepath.Join(path, entry.Name())
				if ignorer != nil && ignorer.MatchesPath(entry.Name()) {
					continue
				}
				if h.isJavaFile(filePath) &&
					h.isIncluded(filePath, includePatterns) &&
					!h.isExcluded(filePath, excludePatterns) {
					files = append(files, filePath)
				}
			}
		}

		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// IsValidJavaFile checks if a file is a Java source file
func (h *FileHelper) IsValidJavaFile(path string) bool {
	return h.isJavaFile(path)
}

// FileExists checks if a path exists and is a regular file
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// ReadFile reads file content
func (h *FileHelper) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (h *FileHelper) loadGitignore(dir string) *gitignore.GitIgnore {
	if !h.respectGitignore {
		return nil
	}
	ignorer, err := gitignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		return nil
	}
	return ignorer
}

func (h *FileHelper) isJavaFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".java"
}

// isIncluded checks path against include patterns; an empty list includes all
func (h *FileHelper) isIncluded(path string, includePatterns []string) bool {
	if len(includePatterns) == 0 {
		return true
	}
	base := filepath.Base(path)
	for _, pattern := range includePatterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
		if strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}

func (h *FileHelper) isExcluded(path string, excludePatterns []string) bool {
	for _, pattern := range excludePatterns {
		if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
			return true
		}
		if strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}

// ResolveFilePaths returns the paths unchanged when every one of them is an
// existing file, otherwise it collects Java files from the named directories
func ResolveFilePaths(
	fileHelper *FileHelper,
	paths []string,
	recursive bool,
	includePatterns []string,
	excludePatterns []string,
) ([]string, error) {
	allFiles := true
	for _, path := range paths {
		exists, err := fileHelper.FileExists(path)
		if err != nil || !exists {
			allFiles = false
			break
		}
	}
	if allFiles {
		return paths, nil
	}
	return fileHelper.CollectJavaFiles(paths, recursive, includePatterns, excludePatterns)
}
