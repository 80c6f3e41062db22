package structure

import (
	"regexp"
	"strings"

	"github.com/coolbeans/statuta/pkg/grammar"
	"github.com/coolbeans/statuta/pkg/segment"
)

// Locate finds an article's position in the document text for the
// hierarchy join. Strategies run in priority order, each pure and
// total, first success wins:
//
//  1. the segmenter's recorded match offset,
//  2. exact search for the body text,
//  3. the raw id followed by a boundary character (last match when the
//     grammar's running headers repeat article headers),
//  4. exact search for the body's first 100 bytes.
//
// A document whose every strategy fails yields -1, which joins to no
// hierarchy context.
func Locate(a segment.Article, text string, v *grammar.Variant) int {
	if a.Position >= 0 && a.Position < len(text) {
		return a.Position
	}

	if a.Body != "" {
		if i := strings.Index(text, a.Body); i >= 0 {
			return i
		}
	}

	if a.RawID != "" {
		pattern := `(?m)^` + regexp.QuoteMeta(a.RawID) + `[\s.(<]`
		if re, err := regexp.Compile(pattern); err == nil {
			locs := re.FindAllStringIndex(text, -1)
			if len(locs) > 0 {
				if v.PreferLastMatch {
					return locs[len(locs)-1][0]
				}
				return locs[0][0]
			}
		}
	}

	if len(a.Body) > 100 {
		if i := strings.Index(text, a.Body[:100]); i >= 0 {
			return i
		}
	}

	return -1
}
