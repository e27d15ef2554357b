package prez

import "regexp"

// Fragment is a run of text within a paragraph, tagged as plain or
// highlighted.
type Fragment struct {
	Value     string `json:"value"`
	Highlight bool   `json:"highlight,omitempty"`
}

// Highlighted spans are written as <<span>>. The match is non-greedy so that
// ">" may appear inside a span (e.g. <<>50 million patients>>).
var highlightRe = regexp.MustCompile(`<<(.+?)>>`)

// ParseMarkup splits s into plain and highlighted fragments. Unbalanced
// delimiters never fail: an unmatched "<<" or ">>" stays in the text as is.
// Concatenating the fragment values of a balanced input reconstructs the
// input with the delimiters stripped.
func ParseMarkup(s string) []*Fragment {
	var fragments []*Fragment
	last := 0
	for _, m := range highlightRe.FindAllStringSubmatchIndex(s, -1) {
		if m[0] > last {
			fragments = append(fragments, &Fragment{Value: s[last:m[0]]})
		}
		fragments = append(fragments, &Fragment{Value: s[m[2]:m[3]], Highlight: true})
		last = m[1]
	}
	if last < len(s) {
		fragments = append(fragments, &Fragment{Value: s[last:]})
	}
	if len(fragments) == 0 {
		fragments = []*Fragment{{Value: s}}
	}
	return fragments
}
