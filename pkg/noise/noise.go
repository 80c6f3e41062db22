// Package noise strips extraction artifacts from statute text: running
// headers and footers, margin cross-references, duplicated heading
// lines, and amendment-history tags.
package noise

import (
	"regexp"
	"strings"

	"github.com/coolbeans/statuta/pkg/grammar"
)

var (
	blankRuns  = regexp.MustCompile(`\n{3,}`)
	historyTag = regexp.MustCompile(`\s*<[^>]+>\s*$`)
	trailNum   = regexp.MustCompile(`\s+\d+$`)

	// Margin reference lines left at the top of a body by PDF
	// extraction: "Art. 79, 149", "R. 39", "Rule 10-12".
	refLine = regexp.MustCompile(`(?i)^(?:Art\.|R\.|Rule|Reg\.)\s*[\d,\s-]+$`)

	// Trailing reference tokens on a heuristic title line.
	titleRefTail  = regexp.MustCompile(`\s+R\.(\s*[\d, -]*)?$`)
	titleRefMid   = regexp.MustCompile(`\s+R\.\s*[\d, -]+`)
	titleArtRef   = regexp.MustCompile(`(?i)\s+Art\.\s*[\d, -]+`)
	titleNumTail  = regexp.MustCompile(`\s+\d+[\d, a-z-]*$`)
	titlePageTail = regexp.MustCompile(`\s+\d{1,3}$`)
)

// CleanDocument rewrites the raw text once per parse: body-region
// slicing, the variant's noise rules, blank-line collapsing. Both the
// segmenter and the hierarchy detector run on its output, so match
// offsets stay authoritative for position joins.
func CleanDocument(text string, v *grammar.Variant) string {
	if re := v.BodyStartRe(); re != nil {
		// The last match wins: a table of contents repeats the body's
		// opening marker before the body proper.
		if locs := re.FindAllStringIndex(text, -1); len(locs) > 0 {
			text = text[locs[len(locs)-1][0]:]
		}
	}
	if re := v.BodyEndRe(); re != nil {
		if loc := re.FindStringIndex(text); loc != nil {
			text = text[:loc[0]]
		}
	}

	for i := range v.Noise {
		n := &v.Noise[i]
		text = n.Re().ReplaceAllString(text, n.Replace)
	}

	return blankRuns.ReplaceAllString(text, "\n\n")
}

// TrimTail removes everything from the variant's tail-trim pattern
// onward. The segmenter applies it to the final article only, where
// schedule blocks trail the last section.
func TrimTail(body string, v *grammar.Variant) string {
	re := v.TailTrimRe()
	if re == nil {
		return body
	}
	if loc := re.FindStringIndex(body); loc != nil {
		return strings.TrimSpace(body[:loc[0]])
	}
	return body
}

// StripHeader removes the variant's article header from the start of a
// body and returns the title captured inside it, if any. Korean and
// Taiwanese headers carry the title in parentheses on the marker line.
func StripHeader(body string, v *grammar.Variant) (title, remainder string) {
	re := v.HeaderRe()
	if re == nil {
		return "", body
	}
	m := re.FindStringSubmatchIndex(body)
	if m == nil || m[0] != 0 {
		return "", body
	}
	if g := v.Article.HeaderTitleGroup; g > 0 && 2*g+1 < len(m) && m[2*g] >= 0 {
		title = strings.TrimSpace(historyTag.ReplaceAllString(body[m[2*g]:m[2*g+1]], ""))
	}
	remainder = strings.TrimSpace(body[m[1]:])
	if remainder == "" {
		remainder = body
	}
	return title, remainder
}

// ExtractTitle derives a title for grammars whose article marker does
// not carry one: the second line of the body, cleaned of margin
// references and validated against the variant's length and letter
// density thresholds.
func ExtractTitle(body string, v *grammar.Variant) string {
	lines := strings.Split(body, "\n")
	if len(lines) < 2 {
		return ""
	}

	title := strings.TrimSpace(lines[1])
	if title == "" {
		return ""
	}

	title = titleRefTail.ReplaceAllString(title, "")
	title = titleRefMid.ReplaceAllString(title, "")
	title = titleArtRef.ReplaceAllString(title, "")
	title = titleNumTail.ReplaceAllString(title, "")
	title = titlePageTail.ReplaceAllString(title, "")
	title = strings.TrimSpace(title)

	t := v.Thresholds
	minLen := t.TitleMinLen
	if minLen == 0 {
		minLen = 3
	}
	if len(title) < minLen {
		return ""
	}
	if strings.HasPrefix(title, "(") {
		return ""
	}
	if isAllDigits(title) {
		return ""
	}

	density := t.TitleAlphaDensity
	if density == 0 {
		density = 0.5
	}
	if letterDensity(title) < density {
		return ""
	}

	maxLen := t.TitleMaxLen
	if maxLen == 0 {
		maxLen = 100
	}
	if len(title) > maxLen {
		title = title[:maxLen] + "..."
	}

	return title
}

// CleanTitle applies the variant's structural title cleanups and drops
// trailing amendment-history tags.
func CleanTitle(title string, v *grammar.Variant) string {
	title = strings.TrimSpace(title)
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = strings.TrimSpace(title[:i])
	}
	for _, re := range v.TitleStripRes() {
		title = re.ReplaceAllString(title, "")
	}
	title = historyTag.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

// CleanBody removes a leading duplicate of the article id and title
// from the first lines of a body, a PDF extraction artifact where the
// heading repeats before the true first sentence. Only the first three
// lines are candidates, so short sentences deeper in the body are
// never touched.
func CleanBody(articleID, body, title string) string {
	lines := strings.Split(body, "\n")
	var clean []string

	for i, line := range lines {
		stripped := strings.TrimSpace(line)

		if i == 0 && articleID != "" && strings.Contains(stripped, articleID) {
			continue
		}

		if i < 3 {
			if refLine.MatchString(stripped) {
				continue
			}
			if title != "" && stripped == title {
				continue
			}
			// A near-duplicate of the title: most title words present
			// and the line not materially longer than the title.
			if title != "" && len(stripped) < 100 && len(stripped) <= len(title)*3/2 {
				if wordOverlap(title, stripped) > 0.8 {
					continue
				}
			}
		}

		if stripped != "" && (len(stripped) > 20 || i >= 3) {
			clean = append(clean, line)
		}
	}

	out := strings.TrimSpace(strings.Join(clean, "\n"))
	if len(out) < 10 {
		return body
	}
	return out
}

// MarkerTitle normalizes a hierarchy marker title to one line, strips
// amendment-history tags and a trailing page number.
func MarkerTitle(raw string) string {
	title := strings.Join(strings.Fields(raw), " ")
	title = historyTag.ReplaceAllString(title, "")
	title = trailNum.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func letterDensity(s string) float64 {
	if s == "" {
		return 0
	}
	n := 0
	for _, r := range s {
		if isLetter(r) || r == ' ' {
			n++
		}
	}
	return float64(n) / float64(len([]rune(s)))
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 127
}

func wordOverlap(title, line string) float64 {
	tw := fieldSet(strings.ToLower(title))
	lw := fieldSet(strings.ToLower(line))
	if len(tw) == 0 {
		return 0
	}
	n := 0
	for w := range tw {
		if _, ok := lw[w]; ok {
			n++
		}
	}
	return float64(n) / float64(len(tw))
}

func fieldSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, f := range strings.Fields(s) {
		set[f] = struct{}{}
	}
	return set
}
