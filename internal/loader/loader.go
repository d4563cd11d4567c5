// Package loader reads configuration and specification files into ordered
// trees.
package loader

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/confreport/pkg/tree"
)

// Pair is a configuration and the specification it is checked against.
type Pair struct {
	Config *tree.Tree
	Spec   *tree.Tree
}

// Parse decodes YAML content into a tree. name is used in error messages.
// Empty content yields an empty tree.
func Parse(name string, content []byte) (*tree.Tree, error) {
	t := tree.New()
	if len(content) == 0 {
		return t, nil
	}
	if err := yaml.Unmarshal(content, t); err != nil {
		return nil, newParseError(name, err)
	}
	return t, nil
}

// LoadFile reads and parses one YAML file.
func LoadFile(path string) (*tree.Tree, error) {
	content, err := os.ReadFile(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(path, content)
}

// LoadPair loads a configuration file and its specification concurrently.
func LoadPair(ctx context.Context, configPath, specPath string) (*Pair, error) {
	var pair Pair
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := loadFileContext(ctx, configPath)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		pair.Config = t
		return nil
	})
	g.Go(func() error {
		t, err := loadFileContext(ctx, specPath)
		if err != nil {
			return fmt.Errorf("specification: %w", err)
		}
		pair.Spec = t
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &pair, nil
}

func loadFileContext(ctx context.Context, path string) (*tree.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// ParseError is a YAML syntax or structure error in a loaded file.
type ParseError struct {
	File    string
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.File != "" {
		if e.Line > 0 {
			return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
		}
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error { return e.Err }

var yamlLinePattern = regexp.MustCompile(`^yaml: line (\d+): (.*)$`)

func newParseError(file string, err error) *ParseError {
	pe := &ParseError{File: file, Message: err.Error(), Err: err}
	if m := yamlLinePattern.FindStringSubmatch(err.Error()); m != nil {
		pe.Line, _ = strconv.Atoi(m[1])
		pe.Message = m[2]
	}
	return pe
}
