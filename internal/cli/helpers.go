package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/morozRed/gbgraph/internal/fileutil"
	"github.com/morozRed/gbgraph/internal/logger"
	"github.com/morozRed/gbgraph/pkg/gb"
	"github.com/morozRed/gbgraph/pkg/graph"
	"github.com/morozRed/gbgraph/pkg/pajek"
)

func IsCorruptStateError(err error) bool {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return true
	}
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr)
}

func isPajekFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), pajek.Extension)
}

// IsGraphInput reports whether path names a file the CLI can read.
func IsGraphInput(path string) bool {
	return gb.IsGraphFile(path) || isPajekFile(path)
}

// ReadGraph loads a GraphBase file, compressed or not, or a Pajek network.
func ReadGraph(path string) (*graph.Graph, error) {
	if !isPajekFile(path) {
		return gb.ReadFile(path, gb.WithLogger(logger.Get()))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return pajek.Read(f, path)
}

// WriteGraph stores g in the format its extension selects.
func WriteGraph(g *graph.Graph, path string) error {
	if !isPajekFile(path) {
		return gb.WriteFile(g, path, gb.WithLogger(logger.Get()))
	}
	var buf bytes.Buffer
	if err := pajek.Write(&buf, g); err != nil {
		return err
	}
	if err := fileutil.WriteIfChanged(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// IgnoreFile holds extra scan exclusions, one gitignore-style rule per line.
const IgnoreFile = ".gbgraphignore"

func LoadIgnoreRules(rootPath string) ([]string, error) {
	ignorePath := filepath.Join(rootPath, IgnoreFile)
	f, err := os.Open(ignorePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", IgnoreFile, err)
	}
	defer f.Close()

	rules := make([]string, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rules = append(rules, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", IgnoreFile, err)
	}

	return rules, nil
}

func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
