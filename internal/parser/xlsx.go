package parser

import (
	"strings"

	"github.com/KaramelBytes/shadowdb-cli/internal/analysis"
	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
)

type xlsxParser struct{}

func (xlsxParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// Parse reads the sheet named in opt, or the first sheet.
func (xlsxParser) Parse(path string, opt analysis.Options) (*frame.RawTable, error) {
	if opt.SheetName == "" && opt.SheetIndex <= 0 {
		opt.SheetIndex = 1
	}
	return analysis.LoadXLSX(path, opt)
}
