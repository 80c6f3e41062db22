// Package segment turns cleaned statute text into ordered,
// deduplicated article units.
package segment

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/coolbeans/statuta/pkg/grammar"
	"github.com/coolbeans/statuta/pkg/noise"
)

// PreambleID is the synthetic id for text preceding the first article.
const PreambleID = "preamble"

// Article is one segmented statutory unit.
type Article struct {
	// ID is the normalized article id ("1", "101", "Article 52").
	ID string

	// RawID is the id as captured from the text ("제1조", "§ 101").
	RawID string

	// Title is the structurally captured title, if the grammar has one.
	Title string

	// Body is the article's span up to the next boundary.
	Body string

	// Position is the byte offset of the boundary match in the cleaned
	// document text.
	Position int

	// Deleted marks a repealed article kept as a sentinel.
	Deleted bool
}

var (
	digitRun  = regexp.MustCompile(`\d+`)
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

// Split scans text for line-anchored article boundaries and returns
// ordered article units. Candidates are deduplicated by id keeping the
// longest body, length-filtered unless deleted, and preceded by a
// synthetic preamble unit when the leading span qualifies. Split is a
// pure function of (text, variant); callers run the noise cleaner
// first so positions refer to the same text the hierarchy detector
// sees.
func Split(text string, v *grammar.Variant) []Article {
	matches := v.ArticleRe().FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return wholeDocumentPreamble(text)
	}

	maxDigits := v.Thresholds.MaxIDDigits
	if maxDigits == 0 {
		maxDigits = 4
	}

	var raw []Article
	for i, m := range matches {
		start := m[0]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		body := strings.TrimSpace(text[start:end])
		if body == "" {
			continue
		}

		rawID := group(text, m, v.Article.IDGroup)
		if rawID == "" {
			continue
		}

		// Line-wrap concatenation in the source produces impossibly
		// long numerals ("Article 169196"); drop those silently.
		if d := digitRun.FindString(rawID); len(d) > maxDigits {
			continue
		}

		title := noise.CleanTitle(group(text, m, v.Article.TitleGroup), v)
		if re := v.TitleRejectRe(); re != nil && title != "" && re.MatchString(title) {
			continue
		}

		if i == len(matches)-1 {
			body = noise.TrimTail(body, v)
		}
		body = stripHierarchyLines(body, v)

		a := Article{
			ID:       v.NormalizeID(rawID),
			RawID:    strings.TrimSpace(rawID),
			Title:    title,
			Body:     body,
			Position: start,
		}
		markDeleted(&a, v)
		raw = append(raw, a)
	}

	// Dedup by id keeping the longest body; a table-of-contents entry
	// is always shorter than the real body. Ties keep the earliest.
	best := make(map[string]int, len(raw))
	for i, a := range raw {
		j, ok := best[a.ID]
		if !ok || len(a.Body) > len(raw[j].Body) {
			best[a.ID] = i
		}
	}

	survivors := make(map[string]bool, len(best))
	for id, i := range best {
		if len(raw[i].Body) >= v.Thresholds.MinBodyLen || raw[i].Deleted {
			survivors[id] = true
		}
	}

	var out []Article
	emitted := make(map[string]bool, len(survivors))
	for i, a := range raw {
		if !survivors[a.ID] || emitted[a.ID] || best[a.ID] != i {
			continue
		}
		emitted[a.ID] = true
		if a.Deleted {
			a.Body = sentinel(v)
			if a.Title == "" {
				a.Title = sentinel(v)
			}
		}
		out = append(out, a)
	}

	if v.SortNumeric {
		sort.SliceStable(out, func(i, j int) bool {
			return leadingNumber(out[i].ID) < leadingNumber(out[j].ID)
		})
	}

	if len(out) == 0 {
		return wholeDocumentPreamble(text)
	}

	if pre := preambleOf(text, matches[0][0], v); pre != nil {
		out = append([]Article{*pre}, out...)
	}

	return out
}

func group(text string, m []int, g int) string {
	if g <= 0 || 2*g+1 >= len(m) || m[2*g] < 0 {
		return ""
	}
	return text[m[2*g]:m[2*g+1]]
}

// stripHierarchyLines deletes Part/Chapter/Section heading lines that
// leaked into a candidate body. Positions are looked up in the source
// text, so only the body copy is rewritten.
func stripHierarchyLines(body string, v *grammar.Variant) string {
	if len(v.Hierarchy) == 0 {
		return body
	}
	for i := range v.Hierarchy {
		body = v.Hierarchy[i].Re().ReplaceAllString(body, "")
	}
	return strings.TrimSpace(blankRuns.ReplaceAllString(body, "\n\n"))
}

func markDeleted(a *Article, v *grammar.Variant) {
	if re := v.Deletion.Re(); re != nil && re.MatchString(a.Body) {
		a.Deleted = true
		return
	}
	if re := v.Deletion.TitleRe(); re != nil && a.Title != "" && re.MatchString(a.Title) {
		a.Deleted = true
	}
}

func sentinel(v *grammar.Variant) string {
	if v.Deletion.Sentinel != "" {
		return v.Deletion.Sentinel
	}
	return "(deleted)"
}

func preambleOf(text string, firstStart int, v *grammar.Variant) *Article {
	pre := strings.TrimSpace(text[:firstStart])
	min := v.Thresholds.MinPreambleLen
	if min == 0 {
		min = 1
	}
	if len(pre) < min {
		return nil
	}
	return &Article{ID: PreambleID, Body: pre}
}

// wholeDocumentPreamble degrades a document with no recognizable
// boundaries, or none that survive filtering, to a single unit.
func wholeDocumentPreamble(text string) []Article {
	t := strings.TrimSpace(text)
	if t == "" {
		return nil
	}
	return []Article{{ID: PreambleID, Body: t}}
}

func leadingNumber(id string) int {
	d := digitRun.FindString(id)
	if d == "" {
		return 0
	}
	n, err := strconv.Atoi(d)
	if err != nil {
		return 0
	}
	return n
}
