package grammar

// Built-in grammar variants. Patterns are compiled in multiline mode,
// so ^ anchors at line starts; boundary markers must be line-anchored
// to reject in-body cross-references ("pursuant to Article 174").

// englishLevels is the shared (1) -> (a) -> (i) decomposition used by
// the EPC, Hong Kong and New Zealand grammars. Single letters i, v and
// x are excluded at the item level so roman sub-items never alias.
func englishLevels() []LevelRule {
	return []LevelRule{
		{Name: "paragraph", Pattern: `^\s*\((\d+)\)\s+`, Anchored: true},
		{Name: "item", Pattern: `^\s*\(([a-hj-uw-z])\)\s+`, Anchored: true},
		{Name: "subitem", Pattern: `^\s*\(([ivxlcdm]+)\)\s+`, Anchored: true},
	}
}

func koreaVariant() *Variant {
	return &Variant{
		ID:           "korea",
		Jurisdiction: "KR",
		Language:     "korean",
		Extensions:   []string{".pdf"},
		PathKeywords: []string{"korea"},
		Script:       ScriptHangul,
		Article: ArticleRule{
			// 제N조 or 제N조의M, followed by a parenthesized title or 삭제.
			Pattern: `^(제\s*\d+\s*조(?:의\s*\d+)?)\s*(?:\(|삭제)`,
			IDGroup: 1,
			IDStrip: []string{"제", "조", " "},
			// 제N조(title) <개정 ...> header at the body start.
			HeaderPattern:    `^제\s*\d+\s*조(?:의\s*\d+)?\s*(?:\(([^)]+)\))?\s*(?:<[^>]*>\s*)*`,
			HeaderTitleGroup: 1,
		},
		Hierarchy: []HierarchyRule{
			{Kind: KindPart, Pattern: `^(제\s*\d+\s*편(?:의\d+)?\s+[^\n]*)`},
			{Kind: KindChapter, Pattern: `^(제\s*\d+\s*장(?:의\d+)?\s+[^\n]*)`},
			{Kind: KindSection, Pattern: `^(제\s*\d+\s*절(?:의\d+)?\s+[^\n]*)`},
		},
		Levels: []LevelRule{
			{Name: "paragraph", Pattern: `[①②③④⑤⑥⑦⑧⑨⑩⑪⑫⑬⑭⑮⑯⑰⑱⑲⑳]`, Form: LabelCircled, Optional: true},
			{
				Name:     "item",
				Pattern:  `^\s*(?:제\s*)?(\d{1,3})(?:\.\s+|호\s*)`,
				Anchored: true,
				// A trailing josa marks a cross-reference, not an item
				// boundary: 제3호에, 제2호부터.
				RejectAfter:     `^\s*(?:부터|까지|에|의|를|을|와|과|로|으로|이|가|는|만|도)`,
				RejectOpenParen: true,
			},
			{Name: "subitem", Pattern: `^\s*([가-힣])(?:\.\s+|목\s*)`, Anchored: true},
			{Name: "subsubitem", Pattern: `^\s*(\d{1,2}|[가-힣])\)\s+`, Anchored: true},
		},
		Deletion: DeletionRule{
			Pattern:  `^제\s*\d+\s*조(?:의\s*\d+)?\s*삭제`,
			Sentinel: "(삭제)",
		},
		DefinitionCue: `란\s|이란\s|말한다`,
		Thresholds: Thresholds{
			MinPreambleLen:   1,
			MaxIDDigits:      4,
			DefinitionCueMin: 3,
		},
	}
}

func taiwanVariant() *Variant {
	return &Variant{
		ID:           "taiwan",
		Jurisdiction: "TW",
		Language:     "chinese",
		Extensions:   []string{".pdf"},
		PathKeywords: []string{"taiwan"},
		Script:       ScriptHan,
		ScriptInPath: true,
		Article: ArticleRule{
			// 第N條 with arabic or hanzi numerals, optional 之M suffix.
			Pattern:          `^(第\s*(?:\d+|[一二三四五六七八九十百千]+)\s*條(?:\s*之\s*\d+)?)`,
			IDGroup:          1,
			HeaderPattern:    `^第\s*(?:\d+|[一二三四五六七八九十百千]+)\s*條(?:\s*之\s*\d+)?\s*(?:\(([^)]+)\))?\s*`,
			HeaderTitleGroup: 1,
		},
		Hierarchy: []HierarchyRule{
			{Kind: KindPart, Pattern: `^(第\s*[一二三四五六七八九十百]+\s*編[^\n]*)`},
			{Kind: KindChapter, Pattern: `^(第\s*[一二三四五六七八九十百]+\s*章[^\n]*)`},
			{Kind: KindSection, Pattern: `^(第\s*[一二三四五六七八九十百]+\s*節[^\n]*)`},
		},
		// Paragraph and item layout in Taiwanese statutes is too
		// irregular for marker-driven splitting; articles stay whole.
		Levels: nil,
		Thresholds: Thresholds{
			MinPreambleLen: 1,
			MaxIDDigits:    4,
		},
	}
}

func japanVariant() *Variant {
	return &Variant{
		ID:           "japan",
		Jurisdiction: "JP",
		Language:     "japanese",
		Extensions:   []string{".html", ".pdf"},
		PathKeywords: []string{"japan"},
		Script:       ScriptKana,
		Article: ArticleRule{
			// Optional （caption） line directly above 第N条.
			Pattern:       `^(?:（([^）]+)）\n)?(第[一二三四五六七八九十百千万\d]+条(?:の[一二三四五六七八九十\d]+)?)`,
			IDGroup:       2,
			TitleGroup:    1,
			HeaderPattern: `^(?:（[^）]+）\n)?第[一二三四五六七八九十百千万\d]+条(?:の[一二三四五六七八九十\d]+)?\s*`,
		},
		Hierarchy: []HierarchyRule{
			{Kind: KindPart, Pattern: `^(附\s*則[^\n]*)`},
			{Kind: KindChapter, Pattern: `^(第[一二三四五六七八九十百\d]+章[^\n]*)`},
			{Kind: KindSection, Pattern: `^(第[一二三四五六七八九十百\d]+節[^\n]*)`},
		},
		Levels: []LevelRule{
			// The first paragraph is unnumbered; explicit paragraphs
			// start at ２ in full-width digits.
			{Name: "paragraph", Pattern: `^([２３４５６７８９０１]+)\s+`, Anchored: true, Form: LabelFullwidth, Optional: true, LeadLabel: "1"},
			{Name: "item", Pattern: `^([一二三四五六七八九十]+)\s+`, Anchored: true},
		},
		Deletion: DeletionRule{
			Pattern:  `削除`,
			Sentinel: "(削除)",
		},
		Thresholds: Thresholds{
			MinPreambleLen: 1,
			MaxIDDigits:    4,
		},
	}
}

func hongkongVariant() *Variant {
	return &Variant{
		ID:           "hongkong",
		Jurisdiction: "HK",
		Language:     "english",
		Extensions:   []string{".pdf"},
		PathKeywords: []string{"hongkong"},
		Article: ArticleRule{
			// "14. Filing date" with the title on the same line;
			// range ids like 37-37A cover consolidated sections.
			Pattern:    `^(\d+[A-Z]?(?:-\d+[A-Z]?)?)\.\s+([A-Z(][^\n]+)`,
			IDGroup:    1,
			TitleGroup: 2,
			TitleStrip: []string{
				`\s+\d{1,3}-\d{1,3}$`,
				`\s+\d{1,3}$`,
				`\s+R\.[ ]*[\d, -]*$`,
				`(?i)\s+Art\.[ ]*[\d, -]*$`,
			},
		},
		Hierarchy: []HierarchyRule{
			{
				Kind:    KindPart,
				Pattern: `(?i)^(Part\s+(?:\d+[A-Z]?|[IVX]+)\n[^\n]+)`,
				Reject:  `(?i)^Part\s+\S+\s+(?:Cap\.|Section|Page|\d)`,
				JoinContinuation: true,
			},
			{
				Kind:    KindChapter,
				Pattern: `^(Division\s+\d+\s*[—–-]\s*[^\n]+)`,
				JoinContinuation: true,
			},
		},
		Levels: englishLevels(),
		Noise: []NoiseRule{
			{Pattern: `^(?:Patents Ordinance|Registered Designs Ordinance|Cap\.[ ]*\d+)[^\n]*$`},
			{Pattern: `^[ ]*(?:Part|Division)\s+\d+[A-Z]?\s+\d+[A-Z]?-\d+[ ]*$`},
			{Pattern: `^[ ]*(?:Part|Division)\s+\d+[A-Z]?[—–-][^\n]*?\d+-\d+[ ]*$`},
			{Pattern: `^[ ]*Section\s+\d+[A-Z]*\s+Cap\.[ ]*\d+[ ]*$`},
			{Pattern: `^Last updated date$`},
		},
		TailTrim:         `(?i)\nSchedule\s+\d+`,
		DefinitionCue:    `\bmeans\b`,
		DefinitionPhrase: `(?i)unless the context otherwise requires`,
		Thresholds: Thresholds{
			MinBodyLen:        80,
			MinPreambleLen:    1,
			MaxIDDigits:       4,
			TitleMinLen:       3,
			TitleMaxLen:       100,
			TitleAlphaDensity: 0.5,
			DefinitionCueMin:  3,
		},
	}
}

func newzealandVariant() *Variant {
	return &Variant{
		ID:           "newzealand",
		Jurisdiction: "NZ",
		Language:     "english",
		Extensions:   []string{".pdf"},
		PathKeywords: []string{"newzealand"},
		Article: ArticleRule{
			// Bare numeric headers: "1 Short Title and commencement".
			Pattern:     `^(\d+[A-Z]?)\s+([A-Z][a-zA-Z ,]+[^\n]*)$`,
			IDGroup:     1,
			TitleGroup:  2,
			TitleStrip:  []string{`\s+\d{1,3}$`},
			TitleReject: `^(?:Version|Page|s )`,
		},
		Hierarchy: []HierarchyRule{
			{
				Kind:    KindPart,
				Pattern: `^(Part\s+\d+\n[^\n]+)`,
				Reject:  `^Part\s+\d+\s+(?:s\s+\d|Page|\d)`,
				JoinContinuation: true,
			},
			{Kind: KindChapter, Pattern: `^(Subpart\s+\d+\s*[—–-]\s*[^\n]+)`},
		},
		Levels: englishLevels(),
		Noise: []NoiseRule{
			{Pattern: `^\d{1,3}\nVersion as at\n[^\n]+(?:Act|Ordinance)[^\n]*$`},
			{Pattern: `^[^\n]+(?:Act|Ordinance)[^\n]*\nVersion as at\n[^\n]*$`},
			{Pattern: `^Section\s+\d+[A-Z]?\([^)]+\):[^\n]+$`},
		},
		// The table of contents repeats "Part 1" before the body, and
		// reprint schedules follow it.
		BodyStart:        `\nPart\s+1\n`,
		BodyEnd:          `\nSchedule(?:\s+1AA)?\n`,
		SortNumeric:      true,
		DefinitionCue:    `\bmeans\b`,
		DefinitionPhrase: `(?i)unless the context otherwise requires`,
		Thresholds: Thresholds{
			MinBodyLen:        50,
			MinPreambleLen:    50,
			MaxIDDigits:       4,
			TitleMinLen:       3,
			TitleMaxLen:       100,
			TitleAlphaDensity: 0.5,
			DefinitionCueMin:  3,
		},
	}
}

func usaVariant() *Variant {
	return &Variant{
		ID:           "usa",
		Jurisdiction: "US",
		Language:     "english",
		Extensions:   []string{".rtf"},
		PathKeywords: []string{"usa"},
		Article: ArticleRule{
			// "§ 101. Inventions patentable"; ranges like § 271-273
			// appear in consolidated prints.
			Pattern:    `^(§\s*\d+[a-zA-Z]?(?:-\d+[a-zA-Z]?)?)\.\s+([^\n]+)`,
			IDGroup:    1,
			TitleGroup: 2,
			IDStrip:    []string{"§", " "},
			TitleStrip: []string{`\s+\[[^\n]*$`},
		},
		Hierarchy: []HierarchyRule{
			{Kind: KindPart, Pattern: `(?i)^(Part\s+[IVX]+\.?\s+[^\n]+)`, Reject: `§`},
			{Kind: KindChapter, Pattern: `(?i)^(Chapter\s+\d+\.?\s*[—–-]?\s*[^\n]+)`, Reject: `§`},
		},
		// US drafting inverts the generic English order:
		// (a) -> (1) -> (A) -> (i).
		Levels: []LevelRule{
			{Name: "paragraph", Pattern: `^\s*\(([a-hj-uw-z])\)\s+`, Anchored: true},
			{Name: "item", Pattern: `^\s*\((\d+)\)\s+`, Anchored: true},
			{Name: "subitem", Pattern: `^\s*\(([A-Z])\)\s+`, Anchored: true},
			{Name: "subsubitem", Pattern: `^\s*\(([ivxlcdm]+)\)\s+`, Anchored: true},
		},
		Deletion: DeletionRule{
			Pattern:      `(?i)\(repealed\)`,
			TitlePattern: `(?i)repealed`,
			Sentinel:     "(repealed)",
		},
		Noise: []NoiseRule{
			// Westlaw export metadata.
			{Pattern: `(?s)^CREDIT\(S\).*?\n(§\s*\d)`, Replace: "\n$1"},
			{Pattern: `^Notes of Decisions[ ]*\(\d+\)[ ]*$`},
			{Pattern: `^End of Document[ ]*$`},
			{Pattern: `^©[ ]*20\d{2}\s+Thomson Reuters[^\n]*$`},
			{Pattern: `^Currentness[ ]*$`},
			{Pattern: `^Effective:[^\n]*$`},
			{Pattern: `^KeyCite\s[^\n]*$`},
			{Pattern: `^\d+\s+U\.?S\.?C\.?A\.?\s+§\s*\d+[^\n]*$`},
			{Pattern: `^Current through P\.L\.[^\n]*$`},
			{Pattern: `^Refs & Annos[ ]*$`},
			{Pattern: `^Disposition Table[ ]*$`},
		},
		PreferLastMatch:  true,
		DefinitionCue:    `\bmeans\b`,
		DefinitionPhrase: `(?i)unless the context otherwise requires`,
		Thresholds: Thresholds{
			MinBodyLen:        60,
			MinPreambleLen:    50,
			MaxIDDigits:       4,
			TitleMinLen:       3,
			TitleMaxLen:       100,
			TitleAlphaDensity: 0.5,
			DefinitionCueMin:  3,
		},
	}
}

func germanyVariant() *Variant {
	return &Variant{
		ID:           "germany",
		Jurisdiction: "DE",
		Language:     "german",
		Extensions:   []string{".xml"},
		PathKeywords: []string{"germany", "deutschland"},
		Article: ArticleRule{
			Pattern:    `^(§\s*\d+[a-z]?)(?:\s+([^\n]+))?$`,
			IDGroup:    1,
			TitleGroup: 2,
			IDStrip:    []string{"§", " "},
		},
		Hierarchy: []HierarchyRule{
			{
				Kind:    KindPart,
				Pattern: `^((?:Erster|Zweiter|Dritter|Vierter|Fünfter|Sechster|Siebenter|Siebter|Achter|Neunter|Zehnter|Elfter|Zwölfter)\s+Teil[^\n]*)`,
			},
			{
				Kind:    KindChapter,
				Pattern: `^((?:Erster|Zweiter|Dritter|Vierter|Fünfter|Sechster|Siebenter|Siebter|Achter|Neunter|Zehnter|Elfter|Zwölfter)\s+Abschnitt[^\n]*)`,
			},
		},
		Levels: []LevelRule{
			{Name: "paragraph", Pattern: `^\s*\((\d+)\)\s*`, Anchored: true},
			{
				Name:     "item",
				Pattern:  `^\s*(\d+)\.\s+`,
				Anchored: true,
				// "1. Januar" is a date, not an item; and stray numbers
				// must form a 1,2,3... run to count as a list at all.
				RejectAfter: `^(?:Januar|Februar|März|April|Mai|Juni|Juli|August|September|Oktober|November|Dezember)\b`,
				RequireRun:  true,
			},
		},
		Deletion: DeletionRule{
			Pattern:  `(?i)\(weggefallen\)`,
			Sentinel: "(weggefallen)",
		},
		Thresholds: Thresholds{
			MinBodyLen:     40,
			MinPreambleLen: 50,
			MaxIDDigits:    4,
		},
	}
}

func epcVariant() *Variant {
	return &Variant{
		ID:           "epc",
		Jurisdiction: "EP",
		Language:     "english",
		Extensions:   []string{".pdf"},
		PathKeywords: []string{"epc", "european"},
		Article: ArticleRule{
			Pattern: `(?i)^((?:Article|Section|Rule|Regulation)\s+\d+[A-Za-z]*)\b`,
			IDGroup: 1,
		},
		Hierarchy: []HierarchyRule{
			{Kind: KindPart, Pattern: `(?i)^(Part\s+[IVX]+(?:\s+[A-Z][^\n]*)?)$`, Reject: `(?i)Chapter|Article`},
			{Kind: KindChapter, Pattern: `(?i)^(Chapter\s+[IVX0-9]+(?:\s+[A-Za-z][^\n]*)?)$`, Reject: `(?i)Article`},
			{Kind: KindSection, Pattern: `(?i)^(Section\s+[IVX]+(?:\s+[A-Za-z][^\n]*)?)$`, Reject: `(?i)Article`},
		},
		Levels: englishLevels(),
		Deletion: DeletionRule{
			Pattern:  `(?i)\(deleted\)|\(repealed\)`,
			Sentinel: "(deleted)",
		},
		Noise: []NoiseRule{
			// EPC prints margin references (Art. N, R. N) and page
			// headers that text extraction folds into the body.
			{Pattern: `^\d{1,3}\nEuropean Patent Convention[^\n]*$`},
			{Pattern: `^European Patent Convention[^\n]*\n\d{1,3}$`},
			{Pattern: `^((?:Article|Rule)\s+\d+[A-Za-z]*)[ ]+(?:Art\.|R\.)[ ]*[\d, a-zA-Z-]+$`, Replace: "$1"},
			{Pattern: `^(?:Art\.|R\.)[ ]*[\d, a-zA-Z-]{1,30}$`},
			{Pattern: `^([A-Z][a-zA-Z ]+?)[ ]+R\.[ ]*[\d, a-zA-Z-]+[, ]*$`, Replace: "$1"},
			{Pattern: `^([A-Z][a-zA-Z ]+?)[ ]+(\d+[a-z])$`, Replace: "$1"},
			{Pattern: `^See opinions?(?:/decisions?)? of[^\n]*$`},
			{Pattern: `^(?:(?:Title )?[Aa]mended|[Ii]nserted|[Dd]eleted|See decisions?) (?:by |of )[^\n]*$`},
		},
		DefinitionCue:    `\bmeans\b`,
		DefinitionPhrase: `(?i)unless the context otherwise requires`,
		Thresholds: Thresholds{
			MinBodyLen:        80,
			MinPreambleLen:    1,
			MaxIDDigits:       4,
			TitleMinLen:       3,
			TitleMaxLen:       100,
			TitleAlphaDensity: 0.5,
			DefinitionCueMin:  3,
		},
	}
}

// BuiltinVariants returns the built-in grammars in selection
// specificity order. The generic English (EPC) grammar is last and
// doubles as the universal fallback.
func BuiltinVariants() []*Variant {
	return []*Variant{
		koreaVariant(),
		japanVariant(),
		taiwanVariant(),
		germanyVariant(),
		usaVariant(),
		hongkongVariant(),
		newzealandVariant(),
		epcVariant(),
	}
}

// FallbackID is the variant chosen when no jurisdiction evidence
// matches a document descriptor.
const FallbackID = "epc"
