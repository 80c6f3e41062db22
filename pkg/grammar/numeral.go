package grammar

import (
	"strconv"
	"strings"
)

var kanjiDigits = map[rune]int{
	'〇': 0, '零': 0,
	'一': 1, '二': 2, '三': 3, '四': 4, '五': 5,
	'六': 6, '七': 7, '八': 8, '九': 9,
}

var kanjiUnits = map[rune]int{
	'十': 10, '百': 100, '千': 1000,
}

// KanjiToInt converts a kanji or hanzi numeral ("十二", "百三", "一二三")
// to its integer value. Positional digit runs without unit characters
// are read place by place. Returns 0 and false for unparseable input.
func KanjiToInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}

	hasUnit := false
	for _, r := range s {
		if _, ok := kanjiUnits[r]; ok {
			hasUnit = true
			break
		}
	}

	if !hasUnit {
		// Positional form: 一二三 -> 123.
		n := 0
		for _, r := range s {
			d, ok := kanjiDigits[r]
			if !ok {
				if d, ok2 := fullwidthDigit(r); ok2 {
					n = n*10 + d
					continue
				}
				return 0, false
			}
			n = n*10 + d
		}
		return n, true
	}

	// Unit form: 千二百三十四 -> 1234. A unit with no preceding digit
	// counts as one of that unit (十 -> 10).
	total, pending := 0, 0
	for _, r := range s {
		if d, ok := kanjiDigits[r]; ok {
			pending = d
			continue
		}
		if u, ok := kanjiUnits[r]; ok {
			if pending == 0 {
				pending = 1
			}
			total += pending * u
			pending = 0
			continue
		}
		return 0, false
	}
	return total + pending, true
}

// CircledToInt converts a circled digit rune (①..⑳) to its value.
func CircledToInt(r rune) (int, bool) {
	if r >= '①' && r <= '⑳' {
		return int(r-'①') + 1, true
	}
	return 0, false
}

func fullwidthDigit(r rune) (int, bool) {
	if r >= '０' && r <= '９' {
		return int(r - '０'), true
	}
	return 0, false
}

// FullwidthToInt converts a run of full-width digits ("２３") to its
// integer value.
func FullwidthToInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		d, ok := fullwidthDigit(r)
		if !ok {
			return 0, false
		}
		n = n*10 + d
	}
	return n, true
}

// NormalizeLabel converts a captured level label to its canonical
// Arabic form according to the rule's label form. Unconvertible input
// comes back unchanged.
func NormalizeLabel(label string, form LabelForm) string {
	switch form {
	case LabelCircled:
		rs := []rune(strings.TrimSpace(label))
		if len(rs) == 1 {
			if n, ok := CircledToInt(rs[0]); ok {
				return strconv.Itoa(n)
			}
		}
	case LabelFullwidth:
		if n, ok := FullwidthToInt(strings.TrimSpace(label)); ok {
			return strconv.Itoa(n)
		}
	}
	return label
}

// ContainsCJK reports whether s contains at least one CJK ideograph or
// hangul syllable. Selection uses it to gate CJK-only grammars.
func ContainsCJK(s string) bool {
	for _, r := range s {
		switch {
		case r >= 0x4E00 && r <= 0x9FFF: // CJK unified ideographs
			return true
		case r >= 0xAC00 && r <= 0xD7A3: // hangul syllables
			return true
		case r >= 0x3040 && r <= 0x30FF: // hiragana, katakana
			return true
		}
	}
	return false
}

// ContainsHangul reports whether s contains hangul syllables.
func ContainsHangul(s string) bool {
	for _, r := range s {
		if r >= 0xAC00 && r <= 0xD7A3 {
			return true
		}
	}
	return false
}

// ContainsKana reports whether s contains hiragana or katakana, the
// script feature that separates Japanese statutes from Chinese ones.
func ContainsKana(s string) bool {
	for _, r := range s {
		if r >= 0x3040 && r <= 0x30FF {
			return true
		}
	}
	return false
}
