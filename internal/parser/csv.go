package parser

import (
	"strings"

	"github.com/KaramelBytes/shadowdb-cli/internal/analysis"
	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
)

type csvParser struct{}

func (csvParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

func (csvParser) Parse(path string, opt analysis.Options) (*frame.RawTable, error) {
	return analysis.LoadCSV(path, opt)
}
