// Package hierarchy detects Part/Chapter/Section markers and joins
// them to articles by nearest-preceding position.
package hierarchy

import (
	"regexp"
	"sort"
	"strings"

	"github.com/coolbeans/statuta/pkg/grammar"
	"github.com/coolbeans/statuta/pkg/noise"
)

// Marker is one detected Part/Chapter/Section heading.
type Marker struct {
	Kind     grammar.HierarchyKind
	Title    string
	Position int
}

var (
	conjunctionEnd = regexp.MustCompile(`\b(?:and|of|for|or|in|on|the|to|by)\s*$`)
	articleHeadish = regexp.MustCompile(`^\d+[A-Z]?\.\s`)
	markerHeadish  = regexp.MustCompile(`^(?:Division|Part|Section|Subpart)\s`)
)

// Detect applies the variant's Part/Chapter/Section patterns to the
// cleaned document text and returns markers sorted by position. Exact
// duplicate titles collapse to their last occurrence.
func Detect(text string, v *grammar.Variant) []Marker {
	var markers []Marker

	for i := range v.Hierarchy {
		rule := &v.Hierarchy[i]
		for _, m := range rule.Re().FindAllStringSubmatchIndex(text, -1) {
			if len(m) < 4 || m[2] < 0 {
				continue
			}
			raw := text[m[2]:m[3]]
			if rule.JoinContinuation {
				raw = joinContinuation(raw, text[m[1]:])
			}
			title := noise.MarkerTitle(raw)
			if title == "" {
				continue
			}
			if re := rule.RejectRe(); re != nil && re.MatchString(title) {
				continue
			}
			markers = append(markers, Marker{
				Kind:     rule.Kind,
				Title:    title,
				Position: m[0],
			})
		}
	}

	sort.SliceStable(markers, func(i, j int) bool {
		return markers[i].Position < markers[j].Position
	})

	// Keep the last occurrence of each exact title. A table of
	// contents repeats part headings verbatim above the body, and the
	// in-body occurrence is the one articles should join to.
	idx := make(map[string]int, len(markers))
	out := make([]Marker, 0, len(markers))
	for _, m := range markers {
		key := string(m.Kind) + "\x00" + m.Title
		if j, ok := idx[key]; ok {
			out[j].Position = m.Position
			continue
		}
		idx[key] = len(out)
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})

	return out
}

// joinContinuation appends up to two following lines to a marker title
// that ends mid-phrase. Long Part titles wrap across lines in Hong
// Kong and New Zealand prints.
func joinContinuation(title, after string) string {
	lines := strings.Split(after, "\n")
	for i := 1; i < len(lines) && i < 3; i++ {
		next := strings.TrimSpace(lines[i])
		if next == "" || strings.HasPrefix(next, "(") {
			break
		}
		if articleHeadish.MatchString(next) || markerHeadish.MatchString(next) {
			break
		}
		if !conjunctionEnd.MatchString(title) {
			break
		}
		title += " " + next
	}
	return title
}

// Context is the Part/Chapter/Section in force at one document
// position.
type Context struct {
	Part    string
	Chapter string
	Section string
}

// At walks the sorted markers and returns the context for an article
// at pos. A new Part clears the current Chapter and Section; a new
// Chapter clears the Section.
func At(markers []Marker, pos int) Context {
	var ctx Context
	if pos < 0 {
		return ctx
	}
	for _, m := range markers {
		if m.Position > pos {
			break
		}
		switch m.Kind {
		case grammar.KindPart:
			ctx.Part = m.Title
			ctx.Chapter = ""
			ctx.Section = ""
		case grammar.KindChapter:
			ctx.Chapter = m.Title
			ctx.Section = ""
		case grammar.KindSection:
			ctx.Section = m.Title
		}
	}
	return ctx
}
