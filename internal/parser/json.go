package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/shadowdb-cli/internal/analysis"
	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
)

type jsonParser struct{}

func (jsonParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".json")
}

// Parse reads an array of objects. Numbers become int64 when integral and
// float64 otherwise; strings, booleans and nested values are kept as decoded.
func (jsonParser) Parse(path string, opt analysis.Options) (*frame.RawTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, errors.New("json source must be an array of objects")
	}
	var (
		objs  []map[string]any
		order []string
		total int
	)
	for dec.More() {
		keys, obj, err := decodeObject(dec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", total+1, err)
		}
		total++
		if opt.MaxRows > 0 && len(objs) >= opt.MaxRows {
			continue
		}
		order = append(order, keys...)
		objs = append(objs, obj)
	}
	t := frame.FromObjects(analysis.TableName(path), objs, order)
	if len(objs) < total {
		t.Warnings = append(t.Warnings, fmt.Sprintf("loaded only %d/%d rows due to MaxRows", len(objs), total))
	}
	return t, nil
}

// decodeObject reads one object, returning its keys in document order.
func decodeObject(dec *json.Decoder) ([]string, map[string]any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected an object, got %v", tok)
	}
	var keys []string
	obj := map[string]any{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, _ := kt.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		obj[key] = nativeNumber(v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, obj, nil
}

func nativeNumber(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
