// Package decompose splits an article body into nested
// paragraph/item/subitem/subsubitem units by recursive descent over
// the variant's ordered level rules.
package decompose

import (
	"strconv"
	"strings"

	"github.com/coolbeans/statuta/pkg/grammar"
)

// Unit is one decomposed span. Level labels fill outermost first; a
// unit covering lead text leaves the deeper labels empty. Text keeps
// the marker token, so concatenating a body's units in order
// reproduces the body up to whitespace.
type Unit struct {
	Paragraph  string
	Item       string
	Subitem    string
	Subsubitem string
	Text       string
}

func (u *Unit) setLabel(depth int, label string) {
	switch depth {
	case 0:
		u.Paragraph = label
	case 1:
		u.Item = label
	case 2:
		u.Subitem = label
	case 3:
		u.Subsubitem = label
	}
}

// Split decomposes body per the variant's level rules. A nil result
// means the body has no recognizable sub-structure and stays whole.
func Split(body string, v *grammar.Variant) []Unit {
	if len(v.Levels) == 0 {
		return nil
	}

	top := &v.Levels[0]
	marks := findMarks(body, top)

	if len(marks) == 0 {
		if !top.Optional || len(v.Levels) < 2 {
			return nil
		}
		// The grammar allows an unmarked top level: descend over the
		// whole span, labeling it with the level's lead label (the
		// implicit first paragraph in Japanese statutes, an empty
		// label in Korean ones).
		units := recurse(body, v, 1)
		for i := range units {
			units[i].setLabel(0, top.LeadLabel)
		}
		return units
	}

	var units []Unit
	emitSpans(&units, body, marks, v, 0)
	return units
}

// mark is one accepted level-marker match.
type mark struct {
	start, end int
	label      string
}

// findMarks collects the level's matches in span, applying the rule's
// rejection guards.
func findMarks(span string, l *grammar.LevelRule) []mark {
	var marks []mark
	for _, m := range l.Re().FindAllStringSubmatchIndex(span, -1) {
		label := ""
		if len(m) >= 4 && m[2] >= 0 {
			label = span[m[2]:m[3]]
		} else {
			label = span[m[0]:m[1]]
		}

		if re := l.RejectAfterRe(); re != nil {
			tail := span[m[1]:]
			if len(tail) > 10 {
				tail = tail[:10]
			}
			if re.MatchString(tail) {
				continue
			}
		}

		if l.RejectOpenParen && insideOpenParen(span, m[0]) {
			continue
		}

		marks = append(marks, mark{
			start: m[0],
			end:   m[1],
			label: grammar.NormalizeLabel(label, l.Form),
		})
	}

	if l.RequireRun && !consecutiveFromOne(marks) {
		return nil
	}

	return marks
}

// insideOpenParen reports whether the 20 bytes before pos open a
// parenthesis that never closes, which marks a bracketed reference
// like "(제3호의 경우)".
func insideOpenParen(span string, pos int) bool {
	start := pos - 20
	if start < 0 {
		start = 0
	}
	prefix := span[start:pos]
	open := strings.ContainsAny(prefix, "(（")
	closed := strings.ContainsAny(prefix, ")）")
	return open && !closed
}

// consecutiveFromOne reports whether the labels form the run 1,2,3...
// Fewer than two matches never count as a list.
func consecutiveFromOne(marks []mark) bool {
	if len(marks) < 2 {
		return false
	}
	for i, m := range marks {
		n, err := strconv.Atoi(m.label)
		if err != nil || n != i+1 {
			return false
		}
	}
	return true
}

// emitSpans slices span at each mark and recurses one level deeper
// inside each slice. Lead text before the first mark becomes its own
// unit carrying the level's lead label.
func emitSpans(units *[]Unit, span string, marks []mark, v *grammar.Variant, depth int) {
	l := &v.Levels[depth]

	if lead := strings.TrimSpace(span[:marks[0].start]); lead != "" {
		u := Unit{Text: lead}
		u.setLabel(depth, l.LeadLabel)
		*units = append(*units, u)
	}

	for i, m := range marks {
		end := len(span)
		if i+1 < len(marks) {
			end = marks[i+1].start
		}
		sub := strings.TrimSpace(span[m.start:end])

		before := len(*units)
		if children := recurseInto(sub, v, depth+1); children != nil {
			*units = append(*units, children...)
		}
		if len(*units) == before {
			*units = append(*units, Unit{Text: sub})
		}

		for j := before; j < len(*units); j++ {
			(*units)[j].setLabel(depth, m.label)
		}
	}
}

// recurseInto splits sub at the next level unless the definition guard
// holds: enumerated definition lists use lettered bullets as prose,
// and shredding them produces false items.
func recurseInto(sub string, v *grammar.Variant, depth int) []Unit {
	if depth >= len(v.Levels) || depth > 3 {
		return nil
	}
	if isDefinition(sub, v) {
		return nil
	}
	return recurse(sub, v, depth)
}

func recurse(span string, v *grammar.Variant, depth int) []Unit {
	l := &v.Levels[depth]
	marks := findMarks(span, l)
	if len(marks) == 0 {
		return nil
	}

	var units []Unit
	emitSpans(&units, span, marks, v, depth)
	return units
}

// isDefinition detects a definition-heavy span: enough cue occurrences
// ("means", 말한다) or the blanket phrase that opens interpretation
// sections.
func isDefinition(span string, v *grammar.Variant) bool {
	if re := v.PhraseRe(); re != nil && re.MatchString(span) {
		return true
	}
	re := v.CueRe()
	min := v.Thresholds.DefinitionCueMin
	if re == nil || min <= 0 {
		return false
	}
	return len(re.FindAllStringIndex(span, -1)) >= min
}
