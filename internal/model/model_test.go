package model

import "testing"

func TestSchemaSizes(t *testing.T) {
	if len(ActivitySchema) != 36 {
		t.Errorf("expected 36 activity columns, got %d", len(ActivitySchema))
	}
	if len(ExportSchema) != 8 {
		t.Errorf("expected 8 export columns, got %d", len(ExportSchema))
	}
	if len(IssueWorklogSchema) != 6 {
		t.Errorf("expected 6 worklog columns, got %d", len(IssueWorklogSchema))
	}
}

func TestSchemaGet(t *testing.T) {
	s := Schema{"a", "b"}
	row := Row{"1", "2"}
	if s.Get(row, "b") != "2" {
		t.Errorf("expected 2, got %q", s.Get(row, "b"))
	}
	if s.Get(row, "c") != "" {
		t.Errorf("expected empty for unknown column")
	}
	if s.Index("a") != 0 || s.Index("z") != -1 {
		t.Errorf("unexpected indexes")
	}
}
