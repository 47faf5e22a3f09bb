package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/morozRed/gbgraph/internal/ignore"
)

func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil))[:16], nil
}

// ScanFileHashes hashes every file under paths accepted by match. Files named
// directly are always taken. Directories are walked with ignoreRules applied
// to paths relative to the directory. Keys are cleaned paths as walked.
func ScanFileHashes(paths []string, match func(string) bool, ignoreRules []string) (map[string]string, error) {
	hashes := make(map[string]string)
	ignoreMatcher := ignore.NewMatcher(ignoreRules)
	for _, root := range paths {
		root = filepath.Clean(root)
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			hash, err := HashFile(root)
			if err != nil {
				return nil, err
			}
			hashes[root] = hash
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if path == root {
				return nil
			}

			relPath, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}

			if ignoreMatcher.ShouldIgnore(relPath, d.IsDir()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() || !match(path) {
				return nil
			}

			hash, err := HashFile(path)
			if err != nil {
				return err
			}
			hashes[path] = hash
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return hashes, nil
}
