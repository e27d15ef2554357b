package prez

import (
	"os"
	"path/filepath"
	"testing"
)

func TestVersionedName(t *testing.T) {
	tests := []struct {
		base    string
		version []int
		want    string
	}{
		{"report", []int{7}, "report_v007.pptx"},
		{"report", nil, "report_v019.pptx"},
		{"report.pptx", []int{1}, "report_v001.pptx"},
		{"quarterly_review", []int{123}, "quarterly_review_v123.pptx"},
		{"deck", []int{1234}, "deck_v1234.pptx"},
	}
	for _, tt := range tests {
		if got := VersionedName(tt.base, tt.version...); got != tt.want {
			t.Errorf("VersionedName(%q, %v) = %q, want %q", tt.base, tt.version, got, tt.want)
		}
	}
}

func TestLatestVersioned(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"report_v001.pptx",
		"report_v010.pptx",
		"report_v2.pptx",
		"other_v099.pptx",
		"report_v010.txt",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// Directories never count, whatever they are named.
	if err := os.Mkdir(filepath.Join(dir, "report_v999.pptx"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := LatestVersioned(dir, "report")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "report_v010.pptx")
	if got != want {
		t.Errorf("LatestVersioned = %q, want %q", got, want)
	}

	// A trailing .pptx on base is tolerated.
	got, err = LatestVersioned(dir, "report.pptx")
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("LatestVersioned = %q, want %q", got, want)
	}

	if _, err := LatestVersioned(dir, "missing"); err == nil {
		t.Error("want error when no versioned output exists")
	}
}

func TestLatestVersionedQuotesBase(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "q+a_v001.pptx"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LatestVersioned(dir, "q+a")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "q+a_v001.pptx"); got != want {
		t.Errorf("LatestVersioned = %q, want %q", got, want)
	}
}
