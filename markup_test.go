package prez

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseMarkup(t *testing.T) {
	tests := []struct {
		in   string
		want []*Fragment
	}{
		{
			"plain text only",
			[]*Fragment{{Value: "plain text only"}},
		},
		{
			"Revenue grew <<42%>> this year",
			[]*Fragment{
				{Value: "Revenue grew "},
				{Value: "42%", Highlight: true},
				{Value: " this year"},
			},
		},
		{
			"<<everything>>",
			[]*Fragment{{Value: "everything", Highlight: true}},
		},
		{
			"<<a>> and <<b>>",
			[]*Fragment{
				{Value: "a", Highlight: true},
				{Value: " and "},
				{Value: "b", Highlight: true},
			},
		},
		{
			// ">" inside a span.
			"Treating <<>50 million patients>> worldwide",
			[]*Fragment{
				{Value: "Treating "},
				{Value: ">50 million patients", Highlight: true},
				{Value: " worldwide"},
			},
		},
		// Unbalanced delimiters fail open: the text passes through as is.
		{
			"no closing << here",
			[]*Fragment{{Value: "no closing << here"}},
		},
		{
			"stray >> marker",
			[]*Fragment{{Value: "stray >> marker"}},
		},
		{
			"<<>>",
			[]*Fragment{{Value: "<<>>"}},
		},
		{
			"",
			[]*Fragment{{Value: ""}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseMarkup(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Error(diff)
			}
		})
	}
}

// Concatenating the fragments of a balanced input reconstructs the input with
// the delimiters stripped.
func TestParseMarkupReassembles(t *testing.T) {
	in := "Saves <<4 hours>> per week, or <<200 hours>> per year"
	var b strings.Builder
	for _, f := range ParseMarkup(in) {
		b.WriteString(f.Value)
	}
	want := "Saves 4 hours per week, or 200 hours per year"
	if b.String() != want {
		t.Errorf("reassembled = %q, want %q", b.String(), want)
	}
}
