// Package structure assembles the canonical record stream: variant
// selection, segmentation, hierarchy join, noise cleanup and
// decomposition in one pure transform.
package structure

import (
	"context"
	"strings"

	"github.com/coolbeans/statuta/pkg/decompose"
	"github.com/coolbeans/statuta/pkg/grammar"
	"github.com/coolbeans/statuta/pkg/hierarchy"
	"github.com/coolbeans/statuta/pkg/noise"
	"github.com/coolbeans/statuta/pkg/segment"
)

// RawDocument is the extraction collaborator's handoff: plain text
// plus selection hints. The engine never decodes bytes itself.
type RawDocument struct {
	Text string

	// Path is the source path, used for jurisdiction keywords and
	// script detection.
	Path string

	// SourceFormat is the container the text came from: "pdf", "rtf",
	// "xml" or "html".
	SourceFormat string

	// JurisdictionHint explicitly names a variant or jurisdiction.
	JurisdictionHint string
}

// Record is one flattened output row. The ten fields are the sole
// contract consumed by downstream translation and matching stages.
type Record struct {
	Part         string `json:"part"`
	Chapter      string `json:"chapter"`
	Section      string `json:"section"`
	ArticleID    string `json:"article_id"`
	ArticleTitle string `json:"article_title"`
	Paragraph    string `json:"paragraph"`
	Item         string `json:"item"`
	Subitem      string `json:"subitem"`
	Subsubitem   string `json:"subsubitem"`
	Text         string `json:"text"`
}

// Result is an ordered record stream plus the selection audit trail.
type Result struct {
	VariantID       string   `json:"variant_id"`
	SelectionReason string   `json:"selection_reason"`
	Records         []Record `json:"records"`
}

// TitleResolver resolves an ambiguous article title out-of-band (an
// AI-assisted extractor). It must be idempotent and timeout-bounded; a
// failed or empty result falls back to the heuristic extractor.
type TitleResolver interface {
	ResolveTitle(ctx context.Context, articleID, bodySample string) (string, error)
}

// Engine is the jurisdiction-aware structuring engine. It holds no
// per-document state; Extract may run concurrently.
type Engine struct {
	registry grammar.Registry
	resolver TitleResolver
}

// NewEngine creates an engine over a variant registry.
func NewEngine(registry grammar.Registry) *Engine {
	return &Engine{registry: registry}
}

// SetTitleResolver installs an optional out-of-band title resolver.
func (e *Engine) SetTitleResolver(r TitleResolver) {
	e.resolver = r
}

// titleSampleLen bounds the body sample handed to a title resolver.
const titleSampleLen = 500

// Extract converts a raw document into the canonical record stream.
// It never fails: worst case is a degraded single-unit result.
func (e *Engine) Extract(ctx context.Context, doc RawDocument) *Result {
	sel := e.registry.Select(grammar.Descriptor{
		Path:          doc.Path,
		Extension:     formatExtension(doc.SourceFormat),
		Hint:          doc.JurisdictionHint,
		ContentSample: sample(doc.Text, 2000),
	})
	v := sel.Variant

	res := &Result{
		VariantID:       v.ID,
		SelectionReason: sel.Reason,
	}

	text := noise.CleanDocument(doc.Text, v)
	markers := hierarchy.Detect(text, v)
	articles := segment.Split(text, v)

	for _, a := range articles {
		if a.ID == segment.PreambleID {
			res.Records = append(res.Records, preambleRecords(a.Body)...)
			continue
		}

		pos := Locate(a, text, v)
		hctx := hierarchy.At(markers, pos)

		title, body := e.resolveArticle(ctx, a, v)

		base := Record{
			Part:         hctx.Part,
			Chapter:      hctx.Chapter,
			Section:      hctx.Section,
			ArticleID:    a.ID,
			ArticleTitle: title,
		}

		units := decompose.Split(body, v)
		if len(units) == 0 {
			r := base
			r.Text = body
			res.Records = append(res.Records, r)
			continue
		}
		for _, u := range units {
			r := base
			r.Paragraph = u.Paragraph
			r.Item = u.Item
			r.Subitem = u.Subitem
			r.Subsubitem = u.Subsubitem
			r.Text = u.Text
			res.Records = append(res.Records, r)
		}
	}

	return res
}

// resolveArticle produces the final title and cleaned body for one
// article. Deleted articles keep their sentinel body and skip all
// cleanup.
func (e *Engine) resolveArticle(ctx context.Context, a segment.Article, v *grammar.Variant) (title, body string) {
	title, body = a.Title, a.Body
	if a.Deleted {
		return title, body
	}

	if hTitle, rem := noise.StripHeader(body, v); rem != body {
		if title == "" {
			title = hTitle
		}
		body = rem
	}

	if title == "" && v.Language == "english" {
		if e.resolver != nil {
			if t, err := e.resolver.ResolveTitle(ctx, a.RawID, sample(body, titleSampleLen)); err == nil && plausibleTitle(t) {
				title = t
			}
		}
		if title == "" {
			title = noise.ExtractTitle(body, v)
		}
	}

	if v.Language == "english" {
		body = noise.CleanBody(a.RawID, body, title)
	}

	return title, body
}

// preambleRecords expands the synthetic preamble into recital rows
// when it has treaty structure, or one whole-text row otherwise.
func preambleRecords(body string) []Record {
	recitals := noise.ParsePreamble(body)
	if len(recitals) == 0 {
		return []Record{{ArticleID: segment.PreambleID, Text: body}}
	}
	out := make([]Record, 0, len(recitals))
	for _, r := range recitals {
		out = append(out, Record{
			ArticleID:    segment.PreambleID,
			ArticleTitle: r.Label,
			Text:         r.Text,
		})
	}
	return out
}

// plausibleTitle rejects resolver output that is clearly not a title:
// overlong text or an article reference.
func plausibleTitle(t string) bool {
	t = strings.TrimSpace(t)
	if t == "" || len(t) > 100 {
		return false
	}
	lower := strings.ToLower(t)
	for _, ref := range []string{"article ", "section ", "art. "} {
		if strings.Contains(lower, ref) {
			return false
		}
	}
	return true
}

func formatExtension(sourceFormat string) string {
	if sourceFormat == "" {
		return ""
	}
	return "." + strings.ToLower(strings.TrimPrefix(sourceFormat, "."))
}

func sample(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Back off to a rune boundary.
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}
