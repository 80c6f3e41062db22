// Package grammar defines jurisdiction-specific statute grammars and the
// registry that selects one for a document.
package grammar

import (
	"fmt"
	"regexp"
	"strings"
)

// HierarchyKind identifies a structural level above the article.
type HierarchyKind string

const (
	KindPart    HierarchyKind = "part"
	KindChapter HierarchyKind = "chapter"
	KindSection HierarchyKind = "section"
)

// LabelForm selects how a captured level label is normalized.
type LabelForm string

const (
	// LabelVerbatim keeps the captured label as-is.
	LabelVerbatim LabelForm = ""
	// LabelCircled converts circled digits (①②③...) to Arabic numerals.
	LabelCircled LabelForm = "circled"
	// LabelFullwidth converts full-width digits (２３４...) to ASCII.
	LabelFullwidth LabelForm = "fullwidth"
)

// ArticleRule describes how article boundaries are recognized.
// The pattern is compiled in multiline mode and must anchor at a line
// start with ^ so that in-body cross-references never match.
type ArticleRule struct {
	Pattern    string `yaml:"pattern"`
	IDGroup    int    `yaml:"id_group"`
	TitleGroup int    `yaml:"title_group,omitempty"`

	// IDStrip lists substrings removed from the raw captured id to form
	// the normalized article id (e.g. "제", "조" for Korean statutes).
	IDStrip []string `yaml:"id_strip,omitempty"`

	// HeaderPattern, when set, is matched against the start of an
	// article body; the matched span is stripped after its title group
	// (if any) has been recorded. Grammars whose article header carries
	// an inline parenthesized title use this.
	HeaderPattern    string `yaml:"header_pattern,omitempty"`
	HeaderTitleGroup int    `yaml:"header_title_group,omitempty"`

	// TitleStrip patterns are deleted from a structurally captured
	// title (page numbers, margin references trailing the title line).
	TitleStrip []string `yaml:"title_strip,omitempty"`

	// TitleReject drops the whole candidate when its captured title
	// matches (running-header lines shaped like article headers).
	TitleReject string `yaml:"title_reject,omitempty"`

	compiled           *regexp.Regexp
	headerCompiled     *regexp.Regexp
	titleStripCompiled []*regexp.Regexp
	titleRejectRe      *regexp.Regexp
}

// HierarchyRule describes one Part/Chapter/Section marker pattern.
// Group 1 of the pattern captures the full marker title.
type HierarchyRule struct {
	Kind    HierarchyKind `yaml:"kind"`
	Pattern string        `yaml:"pattern"`

	// Reject drops a match whose normalized title matches this pattern
	// (e.g. "Part ..." lines that are really article cross-references).
	Reject string `yaml:"reject,omitempty"`

	// JoinContinuation appends the following line to the title when the
	// captured title ends mid-phrase (Hong Kong and New Zealand print
	// long Part titles across lines).
	JoinContinuation bool `yaml:"join_continuation,omitempty"`

	compiled       *regexp.Regexp
	rejectCompiled *regexp.Regexp
}

// LevelRule describes one decomposition level inside an article body.
// Levels are ordered outermost first; the order itself is part of the
// grammar (the US grammar runs (a)->(1)->(A)->(i), the generic English
// grammar (1)->(a)->(i)).
type LevelRule struct {
	Name    string    `yaml:"name"`
	Pattern string    `yaml:"pattern"`
	Form    LabelForm `yaml:"form,omitempty"`

	// Anchored is the default; a non-anchored rule (Korean circled
	// paragraph digits) matches anywhere in the running text.
	Anchored bool `yaml:"anchored"`

	// Optional lets decomposition descend to the next level over the
	// whole span when this level has no matches (Korean articles list
	// items without a leading paragraph mark). Only the outermost
	// level honors it.
	Optional bool `yaml:"optional,omitempty"`

	// RejectAfter drops a match immediately followed by text matching
	// this pattern (Korean josa suffixes mark an item reference, not an
	// item boundary).
	RejectAfter string `yaml:"reject_after,omitempty"`

	// RejectOpenParen drops a match preceded by an unclosed parenthesis
	// in the surrounding 20 bytes.
	RejectOpenParen bool `yaml:"reject_open_paren,omitempty"`

	// RequireRun treats the level's matches as prose unless their labels
	// form a consecutive run starting at 1 (German numbered items,
	// which otherwise collide with dates and statute references).
	RequireRun bool `yaml:"require_run,omitempty"`

	// LeadLabel is the label assigned to text preceding the first
	// match at this level. Japanese statutes leave the first paragraph
	// unnumbered, so its lead text carries label "1".
	LeadLabel string `yaml:"lead_label,omitempty"`

	compiled            *regexp.Regexp
	rejectAfterCompiled *regexp.Regexp
}

// DeletionRule describes how repealed articles are recognized and the
// sentinel body that replaces them.
type DeletionRule struct {
	Pattern string `yaml:"pattern,omitempty"`

	// TitlePattern flags deletion from the captured title alone
	// (US sections whose heading reads "Repealed").
	TitlePattern string `yaml:"title_pattern,omitempty"`

	Sentinel string `yaml:"sentinel,omitempty"`

	compiled      *regexp.Regexp
	titleCompiled *regexp.Regexp
}

// NoiseRule deletes or rewrites document text before segmentation.
// Pattern is compiled in multiline mode; Replace may use $1 style
// group references and defaults to removal.
type NoiseRule struct {
	Pattern string `yaml:"pattern"`
	Replace string `yaml:"replace,omitempty"`

	compiled *regexp.Regexp
}

// Re returns the compiled noise pattern.
func (n *NoiseRule) Re() *regexp.Regexp { return n.compiled }

// Thresholds carries the tunable limits of a grammar. These are
// empirically tuned per corpus and deliberately live in data rather
// than code.
type Thresholds struct {
	// MinBodyLen drops candidates below this body length unless deleted
	// (table-of-contents and cross-reference-table leakage).
	MinBodyLen int `yaml:"min_body_len"`

	// MinPreambleLen is the lower bound for the synthetic preamble unit.
	MinPreambleLen int `yaml:"min_preamble_len"`

	// MaxIDDigits rejects ids whose embedded numeral is implausibly long
	// (line-wrap concatenation artifacts such as "Article 169196").
	MaxIDDigits int `yaml:"max_id_digits"`

	// Title extraction heuristics for grammars without inline titles.
	TitleMinLen       int     `yaml:"title_min_len"`
	TitleMaxLen       int     `yaml:"title_max_len"`
	TitleAlphaDensity float64 `yaml:"title_alpha_density"`

	// DefinitionCueMin keeps a paragraph whole when its text carries at
	// least this many definition cues.
	DefinitionCueMin int `yaml:"definition_cue_min"`
}

// Script names the writing system a variant requires in its input
// before selection will pick it on path evidence alone.
type Script string

const (
	ScriptAny    Script = ""
	ScriptHangul Script = "hangul"
	ScriptKana   Script = "kana"
	ScriptHan    Script = "han"
)

// Variant bundles every boundary-detection rule for one jurisdiction's
// numbering conventions. Variants are static and side-effect-free: any
// input string yields zero or more matches, never a panic.
type Variant struct {
	ID           string `yaml:"id"`
	Jurisdiction string `yaml:"jurisdiction"`
	Language     string `yaml:"language"`

	// Selection inputs. Script feeds content-sample detection when no
	// path keyword matched; ScriptInPath additionally requires the
	// script in the file path before a keyword match counts.
	Extensions   []string `yaml:"extensions,omitempty"`
	PathKeywords []string `yaml:"path_keywords,omitempty"`
	Script       Script   `yaml:"script,omitempty"`
	ScriptInPath bool     `yaml:"script_in_path,omitempty"`

	Article   ArticleRule     `yaml:"article"`
	Hierarchy []HierarchyRule `yaml:"hierarchy,omitempty"`
	Levels    []LevelRule     `yaml:"levels,omitempty"`
	Deletion  DeletionRule    `yaml:"deletion,omitempty"`

	// Noise rules rewrite the document before segmentation (running
	// headers, margin references, database export metadata).
	Noise []NoiseRule `yaml:"noise,omitempty"`

	// BodyStart slices the document from the LAST match of this
	// pattern; BodyEnd cuts it at the first match. New Zealand acts
	// repeat "Part 1" in the table of contents before the body proper
	// and append reprint schedules after it.
	BodyStart string `yaml:"body_start,omitempty"`
	BodyEnd   string `yaml:"body_end,omitempty"`

	// TailTrim removes everything from this pattern onward in the last
	// article's body (trailing schedule blocks).
	TailTrim string `yaml:"tail_trim,omitempty"`

	// DefinitionCue counts toward Thresholds.DefinitionCueMin;
	// DefinitionPhrase blocks decomposition on a single occurrence.
	DefinitionCue    string `yaml:"definition_cue,omitempty"`
	DefinitionPhrase string `yaml:"definition_phrase,omitempty"`

	// SortNumeric reorders surviving articles by their leading numeral
	// (New Zealand acts interleave reprint notes with section bodies).
	SortNumeric bool `yaml:"sort_numeric,omitempty"`

	// PreferLastMatch makes position lookup prefer the last occurrence
	// of an article header (formats whose running headers repeat it).
	PreferLastMatch bool `yaml:"prefer_last_match,omitempty"`

	Thresholds Thresholds `yaml:"thresholds"`

	bodyStartCompiled *regexp.Regexp
	bodyEndCompiled   *regexp.Regexp
	tailTrimCompiled  *regexp.Regexp
	cueCompiled       *regexp.Regexp
	phraseCompiled    *regexp.Regexp
	compiled          bool
}

// compileLine compiles a pattern in multiline mode so ^ and $ anchor at
// line boundaries.
func compileLine(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?m)" + pattern)
}

// Compile compiles every pattern in the variant. It must be called once
// before the variant is used; Registry does this on registration.
func (v *Variant) Compile() error {
	if v.compiled {
		return nil
	}

	if v.Article.Pattern == "" {
		return fmt.Errorf("variant %q: article pattern is required", v.ID)
	}
	re, err := compileLine(v.Article.Pattern)
	if err != nil {
		return fmt.Errorf("variant %q: compiling article pattern %q: %w", v.ID, v.Article.Pattern, err)
	}
	v.Article.compiled = re

	if v.Article.HeaderPattern != "" {
		re, err := regexp.Compile(v.Article.HeaderPattern)
		if err != nil {
			return fmt.Errorf("variant %q: compiling article header pattern: %w", v.ID, err)
		}
		v.Article.headerCompiled = re
	}
	v.Article.titleStripCompiled = v.Article.titleStripCompiled[:0]
	for i, p := range v.Article.TitleStrip {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("variant %q: compiling title strip pattern %d: %w", v.ID, i, err)
		}
		v.Article.titleStripCompiled = append(v.Article.titleStripCompiled, re)
	}
	if v.Article.TitleReject != "" {
		re, err := regexp.Compile(v.Article.TitleReject)
		if err != nil {
			return fmt.Errorf("variant %q: compiling title reject pattern: %w", v.ID, err)
		}
		v.Article.titleRejectRe = re
	}

	for i := range v.Hierarchy {
		h := &v.Hierarchy[i]
		re, err := compileLine(h.Pattern)
		if err != nil {
			return fmt.Errorf("variant %q: compiling %s hierarchy pattern: %w", v.ID, h.Kind, err)
		}
		h.compiled = re
		if h.Reject != "" {
			re, err := regexp.Compile(h.Reject)
			if err != nil {
				return fmt.Errorf("variant %q: compiling %s reject pattern: %w", v.ID, h.Kind, err)
			}
			h.rejectCompiled = re
		}
	}

	for i := range v.Levels {
		l := &v.Levels[i]
		var re *regexp.Regexp
		var err error
		if l.Anchored {
			re, err = compileLine(l.Pattern)
		} else {
			re, err = regexp.Compile(l.Pattern)
		}
		if err != nil {
			return fmt.Errorf("variant %q: compiling level %q pattern: %w", v.ID, l.Name, err)
		}
		l.compiled = re
		if l.RejectAfter != "" {
			re, err := regexp.Compile(l.RejectAfter)
			if err != nil {
				return fmt.Errorf("variant %q: compiling level %q reject-after pattern: %w", v.ID, l.Name, err)
			}
			l.rejectAfterCompiled = re
		}
	}

	if v.Deletion.Pattern != "" {
		re, err := regexp.Compile(v.Deletion.Pattern)
		if err != nil {
			return fmt.Errorf("variant %q: compiling deletion pattern: %w", v.ID, err)
		}
		v.Deletion.compiled = re
	}
	if v.Deletion.TitlePattern != "" {
		re, err := regexp.Compile(v.Deletion.TitlePattern)
		if err != nil {
			return fmt.Errorf("variant %q: compiling deletion title pattern: %w", v.ID, err)
		}
		v.Deletion.titleCompiled = re
	}

	for i := range v.Noise {
		n := &v.Noise[i]
		re, err := compileLine(n.Pattern)
		if err != nil {
			return fmt.Errorf("variant %q: compiling noise pattern %d: %w", v.ID, i, err)
		}
		n.compiled = re
	}

	if v.BodyStart != "" {
		re, err := regexp.Compile(v.BodyStart)
		if err != nil {
			return fmt.Errorf("variant %q: compiling body start pattern: %w", v.ID, err)
		}
		v.bodyStartCompiled = re
	}
	if v.BodyEnd != "" {
		re, err := regexp.Compile(v.BodyEnd)
		if err != nil {
			return fmt.Errorf("variant %q: compiling body end pattern: %w", v.ID, err)
		}
		v.bodyEndCompiled = re
	}
	if v.TailTrim != "" {
		re, err := regexp.Compile(v.TailTrim)
		if err != nil {
			return fmt.Errorf("variant %q: compiling tail trim pattern: %w", v.ID, err)
		}
		v.tailTrimCompiled = re
	}

	if v.DefinitionCue != "" {
		re, err := regexp.Compile(v.DefinitionCue)
		if err != nil {
			return fmt.Errorf("variant %q: compiling definition cue: %w", v.ID, err)
		}
		v.cueCompiled = re
	}
	if v.DefinitionPhrase != "" {
		re, err := regexp.Compile(v.DefinitionPhrase)
		if err != nil {
			return fmt.Errorf("variant %q: compiling definition phrase: %w", v.ID, err)
		}
		v.phraseCompiled = re
	}

	v.compiled = true
	return nil
}

// IsCompiled reports whether Compile has run successfully.
func (v *Variant) IsCompiled() bool { return v.compiled }

// Validate checks that the variant carries the fields the engine needs.
func (v *Variant) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("variant id is required")
	}
	if v.Article.Pattern == "" {
		return fmt.Errorf("variant %q: article pattern is required", v.ID)
	}
	if v.Article.IDGroup < 1 {
		return fmt.Errorf("variant %q: article id_group must be >= 1", v.ID)
	}
	for _, l := range v.Levels {
		if l.Name == "" {
			return fmt.Errorf("variant %q: level name is required", v.ID)
		}
	}
	return nil
}

// ArticleRe returns the compiled article-boundary pattern.
func (v *Variant) ArticleRe() *regexp.Regexp { return v.Article.compiled }

// HeaderRe returns the compiled article header pattern, or nil.
func (v *Variant) HeaderRe() *regexp.Regexp { return v.Article.headerCompiled }

// TitleStripRes returns the compiled title cleanup patterns.
func (v *Variant) TitleStripRes() []*regexp.Regexp { return v.Article.titleStripCompiled }

// TitleRejectRe returns the compiled title reject pattern, or nil.
func (v *Variant) TitleRejectRe() *regexp.Regexp { return v.Article.titleRejectRe }

// Re returns the compiled hierarchy marker pattern.
func (h *HierarchyRule) Re() *regexp.Regexp { return h.compiled }

// RejectRe returns the compiled reject pattern, or nil.
func (h *HierarchyRule) RejectRe() *regexp.Regexp { return h.rejectCompiled }

// Re returns the compiled level pattern.
func (l *LevelRule) Re() *regexp.Regexp { return l.compiled }

// RejectAfterRe returns the compiled reject-after pattern, or nil.
func (l *LevelRule) RejectAfterRe() *regexp.Regexp { return l.rejectAfterCompiled }

// Re returns the compiled deletion pattern, or nil when the grammar has
// no deletion vocabulary.
func (d *DeletionRule) Re() *regexp.Regexp { return d.compiled }

// TitleRe returns the compiled title-based deletion pattern, or nil.
func (d *DeletionRule) TitleRe() *regexp.Regexp { return d.titleCompiled }

// BodyStartRe returns the compiled body start pattern, or nil.
func (v *Variant) BodyStartRe() *regexp.Regexp { return v.bodyStartCompiled }

// BodyEndRe returns the compiled body end pattern, or nil.
func (v *Variant) BodyEndRe() *regexp.Regexp { return v.bodyEndCompiled }

// TailTrimRe returns the compiled tail trim pattern, or nil.
func (v *Variant) TailTrimRe() *regexp.Regexp { return v.tailTrimCompiled }

// CueRe returns the compiled definition cue pattern, or nil.
func (v *Variant) CueRe() *regexp.Regexp { return v.cueCompiled }

// PhraseRe returns the compiled definition phrase pattern, or nil.
func (v *Variant) PhraseRe() *regexp.Regexp { return v.phraseCompiled }

// NormalizeID strips the jurisdiction's decoration from a raw captured
// article id ("제1조" -> "1", "§ 101" -> "101").
func (v *Variant) NormalizeID(raw string) string {
	id := raw
	for _, s := range v.Article.IDStrip {
		id = strings.ReplaceAll(id, s, "")
	}
	return strings.TrimSpace(id)
}
