package noise

import (
	"regexp"
	"strings"
)

// Recital is one clause of a treaty-style preamble.
type Recital struct {
	Label string
	Text  string
}

var (
	recitalStart = regexp.MustCompile(`(?i)\b(CONSIDERING|RECALLING|WISHING|HAVING|NOTING|DESIRING|RECOGNIZING|CONVINCED|AWARE)\s+`)
	recitalOpen  = regexp.MustCompile(`(?im)^(THE\s+CONTRACTING\s+MEMBER\s+STATES,?|THE\s+PARTIES,?)`)
	recitalClose = regexp.MustCompile(`(?i)\b(HAVE\s+AGREED\s+AS\s+FOLLOWS:?)`)
	clauseEnd    = regexp.MustCompile(`[;:]\s*$`)
)

// ParsePreamble splits a treaty preamble into its recital clauses
// (CONSIDERING..., RECALLING..., closed by HAVE AGREED AS FOLLOWS).
// Text without that structure yields nil and is emitted whole.
func ParsePreamble(text string) []Recital {
	text = strings.TrimSpace(text)
	if len(text) < 20 {
		return nil
	}

	var out []Recital

	if m := recitalOpen.FindString(text); m != "" {
		out = append(out, Recital{Label: "opening", Text: strings.TrimSpace(m)})
	}

	starts := recitalStart.FindAllStringSubmatchIndex(text, -1)
	for i, m := range starts {
		label := strings.ToUpper(text[m[2]:m[3]])
		start := m[0]
		var end int
		if i+1 < len(starts) {
			end = starts[i+1][0]
		} else if loc := recitalClose.FindStringIndex(text[start:]); loc != nil {
			end = start + loc[0]
		} else {
			end = len(text)
		}

		clause := strings.TrimSpace(text[start:end])
		clause = clauseEnd.ReplaceAllString(clause, "")
		if clause != "" {
			out = append(out, Recital{Label: label, Text: clause})
		}
	}

	if m := recitalClose.FindString(text); m != "" {
		out = append(out, Recital{Label: "agreement", Text: strings.TrimSpace(m)})
	}

	if len(out) <= 1 {
		return nil
	}
	return out
}
