package grammar

import (
	"strings"
	"testing"
)

func TestBuiltinVariantsCompile(t *testing.T) {
	for _, v := range BuiltinVariants() {
		if err := v.Compile(); err != nil {
			t.Errorf("Compile(%s) error = %v", v.ID, err)
			continue
		}
		if !v.IsCompiled() {
			t.Errorf("IsCompiled(%s) = false after Compile", v.ID)
		}
		if v.ArticleRe() == nil {
			t.Errorf("ArticleRe(%s) = nil", v.ID)
		}
		if err := v.Validate(); err != nil {
			t.Errorf("Validate(%s) error = %v", v.ID, err)
		}
	}
}

func TestBuiltinVariantsOrder(t *testing.T) {
	vs := BuiltinVariants()
	if len(vs) == 0 {
		t.Fatal("BuiltinVariants() returned no variants")
	}
	if got := vs[len(vs)-1].ID; got != FallbackID {
		t.Errorf("last built-in = %q, want fallback %q", got, FallbackID)
	}

	seen := make(map[string]bool)
	for _, v := range vs {
		if seen[v.ID] {
			t.Errorf("duplicate built-in id %q", v.ID)
		}
		seen[v.ID] = true
	}
}

func TestCompileBadPattern(t *testing.T) {
	v := &Variant{
		ID:      "broken",
		Article: ArticleRule{Pattern: `(unclosed`, IDGroup: 1},
	}
	err := v.Compile()
	if err == nil {
		t.Fatal("Compile() with invalid pattern should return error")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("Compile() error %q should name the variant", err)
	}
}

func TestCompileMissingArticlePattern(t *testing.T) {
	v := &Variant{ID: "empty"}
	if err := v.Compile(); err == nil {
		t.Error("Compile() without article pattern should return error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		v       Variant
		wantErr bool
	}{
		{
			name: "valid",
			v:    Variant{ID: "x", Article: ArticleRule{Pattern: `^(\d+)`, IDGroup: 1}},
		},
		{
			name:    "missing id",
			v:       Variant{Article: ArticleRule{Pattern: `^(\d+)`, IDGroup: 1}},
			wantErr: true,
		},
		{
			name:    "missing article pattern",
			v:       Variant{ID: "x"},
			wantErr: true,
		},
		{
			name:    "bad id group",
			v:       Variant{ID: "x", Article: ArticleRule{Pattern: `^(\d+)`}},
			wantErr: true,
		},
		{
			name: "unnamed level",
			v: Variant{
				ID:      "x",
				Article: ArticleRule{Pattern: `^(\d+)`, IDGroup: 1},
				Levels:  []LevelRule{{Pattern: `^\((\d+)\)`}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.v.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeID(t *testing.T) {
	korea := koreaVariant()
	usa := usaVariant()
	epc := epcVariant()

	tests := []struct {
		v    *Variant
		raw  string
		want string
	}{
		{korea, "제1조", "1"},
		{korea, "제 12 조", "12"},
		{korea, "제32조의2", "32의2"},
		{usa, "§ 101", "101"},
		{usa, "§271", "271"},
		{usa, "§ 102-103", "102-103"},
		{epc, "Article 52", "Article 52"},
	}

	for _, tt := range tests {
		if got := tt.v.NormalizeID(tt.raw); got != tt.want {
			t.Errorf("NormalizeID(%s, %q) = %q, want %q", tt.v.ID, tt.raw, got, tt.want)
		}
	}
}

func TestArticlePatternMatches(t *testing.T) {
	tests := []struct {
		variant string
		line    string
		wantID  string
	}{
		{"korea", "제1조(목적) 이 법은 발명을 보호한다.", "제1조"},
		{"korea", "제47조의2(보정) 보정할 수 있다.", "제47조의2"},
		{"korea", "제5조 삭제 <2006.3.3>", "제5조"},
		{"usa", "§ 101. Inventions patentable", "§ 101"},
		{"usa", "§ 102. Conditions for patentability; novelty", "§ 102"},
		{"epc", "Article 52 Patentable inventions", "Article 52"},
		{"epc", "Rule 26 General provisions", "Rule 26"},
		{"germany", "§ 1 Patentfähige Erfindungen", "§ 1"},
		{"germany", "§ 9a", "§ 9a"},
		{"hongkong", "14. Filing date and its conditions", "14"},
		{"newzealand", "5 Interpretation of this Act", "5"},
		{"taiwan", "第一條 本法所稱專利", "第一條"},
		{"japan", "第一条　この法律は", "第一条"},
	}

	byID := make(map[string]*Variant)
	for _, v := range BuiltinVariants() {
		if err := v.Compile(); err != nil {
			t.Fatalf("Compile(%s) error = %v", v.ID, err)
		}
		byID[v.ID] = v
	}

	for _, tt := range tests {
		v := byID[tt.variant]
		m := v.ArticleRe().FindStringSubmatch(tt.line)
		if m == nil {
			t.Errorf("%s: article pattern did not match %q", tt.variant, tt.line)
			continue
		}
		if got := strings.TrimSpace(m[v.Article.IDGroup]); got != tt.wantID {
			t.Errorf("%s: id from %q = %q, want %q", tt.variant, tt.line, got, tt.wantID)
		}
	}
}

func TestArticlePatternRejectsCrossReferences(t *testing.T) {
	epc := epcVariant()
	if err := epc.Compile(); err != nil {
		t.Fatal(err)
	}
	// In-body references never sit at a line start.
	text := "The provisions referred to in Article 174 shall not apply."
	if m := epc.ArticleRe().FindString(text); m != "" {
		t.Errorf("article pattern matched mid-line reference %q", m)
	}
}
