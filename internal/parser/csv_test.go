package parser_test

import (
	"testing"

	"github.com/KaramelBytes/shadowdb-cli/internal/parser"
	"github.com/google/go-cmp/cmp"
)

func TestParseFileCSV(t *testing.T) {
	p := write(t, "hop_harvest.csv", "date,plot,alpha_acids,moisture\n"+
		"2024-08-10,A1,12.5%,74\n"+
		"2024-08-12,A1,11.8%,71\n"+
		"2024-08-15,B3,10.2%,68\n")
	tbl, err := parser.ParseFile(p)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tbl.Name != "hop_harvest" || tbl.Rows() != 3 || len(tbl.Columns) != 4 {
		t.Fatalf("unexpected table %s with %d rows, %d columns", tbl.Name, tbl.Rows(), len(tbl.Columns))
	}
	if diff := cmp.Diff([]any{"12.5%", "11.8%", "10.2%"}, tbl.Columns[2].Values); diff != "" {
		t.Fatalf("alpha_acids mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFileTSV(t *testing.T) {
	tbl, err := parser.ParseFile(write(t, "plots.TSV", "plot\tarea\nA1\t1,5\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff([]any{"1,5"}, tbl.Columns[1].Values); diff != "" {
		t.Fatalf("area mismatch (-want +got):\n%s", diff)
	}
}
