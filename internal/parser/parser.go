// Package parser turns source files into raw tables, picking a reader by
// file extension.
package parser

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/shadowdb-cli/internal/analysis"
	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
)

// Parser defines a tabular source reader.
type Parser interface {
	CanParse(filename string) bool
	Parse(path string, opt analysis.Options) (*frame.RawTable, error)
}

var registry []Parser

// Register adds a parser implementation to the registry. Later
// registrations are consulted after earlier ones.
func Register(p Parser) {
	registry = append(registry, p)
}

// ParseFile reads path with default options.
func ParseFile(path string) (*frame.RawTable, error) {
	return ParseFileWith(path, analysis.DefaultOptions())
}

// ParseFileWith selects a parser based on filename and reads the file into
// a raw table named after it.
func ParseFileWith(path string, opt analysis.Options) (*frame.RawTable, error) {
	for _, p := range registry {
		if p.CanParse(path) {
			t, err := p.Parse(path, opt)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
}

func init() {
	Register(csvParser{})
	Register(xlsxParser{})
	Register(jsonParser{})
}

// ErrUnsupported indicates a format is not supported yet.
var ErrUnsupported = errors.New("unsupported source format")
