package analysis

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
)

type workbookXML struct {
	Sheets []struct {
		Name    string `xml:"name,attr"`
		SheetID int    `xml:"sheetId,attr"`
		RID     string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sheets>sheet"`
}

type relsXML struct {
	Rels []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

type sharedXML struct {
	Items []struct {
		T    string `xml:"t"`
		Runs []struct {
			T string `xml:"t"`
		} `xml:"r"`
	} `xml:"si"`
}

// LoadXLSX reads one sheet of a workbook. Text cells stay strings, numeric
// cells become float64 and boolean cells become bool.
func LoadXLSX(p string, opt Options) (*frame.RawTable, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer zr.Close()

	target, err := sheetTarget(&zr.Reader, opt.SheetName, opt.SheetIndex, filepath.Base(p))
	if err != nil {
		return nil, err
	}
	shared, err := sharedStrings(&zr.Reader)
	if err != nil {
		return nil, err
	}
	data, err := zipEntry(&zr.Reader, target)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("sheet %s missing from workbook %s", target, filepath.Base(p))
	}

	rows, err := readSheet(data, shared)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	t := &frame.RawTable{Name: TableName(p)}
	if len(rows) == 0 {
		return t, nil
	}
	header := make([]string, len(rows[0]))
	for i, v := range rows[0] {
		header[i] = frame.Stringify(v)
	}
	body := rows[1:]
	if opt.MaxRows > 0 && len(body) > opt.MaxRows {
		t.Warnings = append(t.Warnings, fmt.Sprintf("loaded only %d/%d rows due to MaxRows", opt.MaxRows, len(body)))
		body = body[:opt.MaxRows]
	}
	for c, h := range header {
		vals := make([]any, len(body))
		for r, row := range body {
			if c < len(row) {
				vals[r] = row[c]
			}
		}
		t.Columns = append(t.Columns, frame.NewSeries(h, vals))
	}
	return t, nil
}

func sheetTarget(zr *zip.Reader, name string, index int, file string) (string, error) {
	var wb workbookXML
	var rels relsXML
	if b, err := zipEntry(zr, "xl/workbook.xml"); err != nil {
		return "", err
	} else if b != nil {
		if err := xml.Unmarshal(b, &wb); err != nil {
			return "", fmt.Errorf("parse workbook: %w", err)
		}
	}
	if b, err := zipEntry(zr, "xl/_rels/workbook.xml.rels"); err != nil {
		return "", err
	} else if b != nil {
		if err := xml.Unmarshal(b, &rels); err != nil {
			return "", fmt.Errorf("parse workbook relationships: %w", err)
		}
	}
	targets := map[string]string{}
	for _, r := range rels.Rels {
		targets[r.ID] = r.Target
	}

	if name != "" {
		var names []string
		for _, s := range wb.Sheets {
			if strings.EqualFold(s.Name, name) {
				if tgt, ok := targets[s.RID]; ok {
					return normalizeRelPath(tgt), nil
				}
			}
			names = append(names, s.Name)
		}
		return "", fmt.Errorf("sheet %q not found in workbook %s; available sheets: %s", name, file, strings.Join(names, ", "))
	}
	if index <= 0 {
		index = 1
	}
	for _, s := range wb.Sheets {
		if s.SheetID == index {
			if tgt, ok := targets[s.RID]; ok {
				return normalizeRelPath(tgt), nil
			}
		}
	}
	return fmt.Sprintf("xl/worksheets/sheet%d.xml", index), nil
}

// normalizeRelPath turns a relationship target into a zip entry name.
// Targets may be absolute ("/xl/worksheets/sheet1.xml") or relative to xl/.
func normalizeRelPath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return path.Join("xl", rel)
}

func zipEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return b, nil
	}
	return nil, nil
}

func sharedStrings(zr *zip.Reader) ([]string, error) {
	b, err := zipEntry(zr, "xl/sharedStrings.xml")
	if err != nil || b == nil {
		return nil, err
	}
	var sx sharedXML
	if err := xml.Unmarshal(b, &sx); err != nil {
		return nil, fmt.Errorf("parse shared strings: %w", err)
	}
	out := make([]string, len(sx.Items))
	for i, it := range sx.Items {
		if len(it.Runs) == 0 {
			out[i] = it.T
			continue
		}
		var sb strings.Builder
		for _, r := range it.Runs {
			sb.WriteString(r.T)
		}
		out[i] = sb.String()
	}
	return out, nil
}

type cellXML struct {
	Ref    string `xml:"r,attr"`
	Type   string `xml:"t,attr"`
	Value  string `xml:"v"`
	Inline string `xml:"is>t"`
}

// readSheet streams the rows of a worksheet. Cells are placed by their
// reference so gaps stay empty.
func readSheet(data []byte, shared []string) ([][]any, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		rows [][]any
		cur  []any
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "row":
				cur = nil
			case "c":
				var c cellXML
				if err := dec.DecodeElement(&c, &se); err != nil {
					return nil, err
				}
				idx := colIndexFromRef(c.Ref)
				if idx < 0 {
					idx = len(cur)
				}
				for len(cur) <= idx {
					cur = append(cur, nil)
				}
				cur[idx] = cellValue(c, shared)
			}
		case xml.EndElement:
			if se.Name.Local == "row" {
				rows = append(rows, cur)
			}
		}
	}
}

func cellValue(c cellXML, shared []string) any {
	switch c.Type {
	case "s":
		i, err := strconv.Atoi(strings.TrimSpace(c.Value))
		if err != nil || i < 0 || i >= len(shared) {
			return nil
		}
		return shared[i]
	case "inlineStr":
		return c.Inline
	case "str", "e":
		return c.Value
	case "b":
		return strings.TrimSpace(c.Value) == "1"
	}
	if c.Value == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(c.Value, 64); err == nil {
		return f
	}
	return c.Value
}

// colIndexFromRef maps "C12" to 2. A reference without letters gives -1.
func colIndexFromRef(ref string) int {
	idx := 0
	n := 0
	for _, r := range strings.ToUpper(ref) {
		if r < 'A' || r > 'Z' {
			break
		}
		idx = idx*26 + int(r-'A'+1)
		n++
	}
	if n == 0 {
		return -1
	}
	return idx - 1
}
