package noise

import (
	"strings"
	"testing"

	"github.com/coolbeans/statuta/pkg/grammar"
)

func variant(t *testing.T, id string) *grammar.Variant {
	t.Helper()
	v, ok := grammar.NewRegistry().Get(id)
	if !ok {
		t.Fatalf("variant %q not registered", id)
	}
	return v
}

func TestCleanDocumentBodyRegion(t *testing.T) {
	v := variant(t, "newzealand")

	text := "Contents\nPart 1\nPreliminary provisions\n1 Title\n" +
		"\nPart 1\nPreliminary provisions\n1 Title\nThis Act is the Patents Act.\n" +
		"\nSchedule 1AA\nTransitional provisions\n"

	got := CleanDocument(text, v)

	if strings.Contains(got, "Contents") {
		t.Errorf("CleanDocument() kept table-of-contents prefix: %q", got)
	}
	if strings.Contains(got, "Schedule 1AA") || strings.Contains(got, "Transitional") {
		t.Errorf("CleanDocument() kept schedule tail: %q", got)
	}
	if !strings.Contains(got, "This Act is the Patents Act.") {
		t.Errorf("CleanDocument() lost the body: %q", got)
	}
	// The body's own opening marker survives the slice.
	if !strings.Contains(got, "Part 1") {
		t.Errorf("CleanDocument() lost the body start marker: %q", got)
	}
}

func TestCleanDocumentNoiseRules(t *testing.T) {
	v := variant(t, "usa")

	text := "CREDIT(S)\nJuly 19, 1952, c. 950, 66 Stat. 797\n" +
		"§ 101. Inventions patentable\n" +
		"Whoever invents or discovers any new and useful process may obtain a patent.\n" +
		"End of Document\n" +
		"© 2024 Thomson Reuters. No claim to original U.S. Government Works.\n"

	got := CleanDocument(text, v)

	for _, gone := range []string{"CREDIT(S)", "66 Stat.", "End of Document", "Thomson Reuters"} {
		if strings.Contains(got, gone) {
			t.Errorf("CleanDocument() kept %q in %q", gone, got)
		}
	}
	if !strings.Contains(got, "§ 101. Inventions patentable") {
		t.Errorf("CleanDocument() lost the section header: %q", got)
	}
	if !strings.Contains(got, "Whoever invents") {
		t.Errorf("CleanDocument() lost the body: %q", got)
	}
}

func TestCleanDocumentCollapsesBlankRuns(t *testing.T) {
	v := variant(t, "epc")
	got := CleanDocument("a\n\n\n\n\nb", v)
	if got != "a\n\nb" {
		t.Errorf("CleanDocument() = %q, want %q", got, "a\n\nb")
	}
}

func TestTrimTail(t *testing.T) {
	v := variant(t, "hongkong")

	body := "97. Transitional arrangements for existing registrations apply.\nSchedule 1\nFees payable"
	got := TrimTail(body, v)
	if strings.Contains(got, "Schedule") {
		t.Errorf("TrimTail() kept schedule: %q", got)
	}
	if !strings.Contains(got, "Transitional arrangements") {
		t.Errorf("TrimTail() lost the body: %q", got)
	}

	// Variants without a tail pattern pass the body through.
	if got := TrimTail(body, variant(t, "korea")); got != body {
		t.Errorf("TrimTail(korea) = %q, want unchanged", got)
	}
}

func TestStripHeader(t *testing.T) {
	korea := variant(t, "korea")

	tests := []struct {
		body      string
		wantTitle string
		wantRest  string
	}{
		{
			body:      "제1조(목적) 이 법은 발명을 보호ㆍ장려한다.",
			wantTitle: "목적",
			wantRest:  "이 법은 발명을 보호ㆍ장려한다.",
		},
		{
			body:      "제2조(정의) <개정 2014.6.11.> 이 법에서 사용하는 용어의 뜻은 다음과 같다.",
			wantTitle: "정의",
			wantRest:  "이 법에서 사용하는 용어의 뜻은 다음과 같다.",
		},
	}

	for _, tt := range tests {
		title, rest := StripHeader(tt.body, korea)
		if title != tt.wantTitle {
			t.Errorf("StripHeader(%q) title = %q, want %q", tt.body, title, tt.wantTitle)
		}
		if rest != tt.wantRest {
			t.Errorf("StripHeader(%q) rest = %q, want %q", tt.body, rest, tt.wantRest)
		}
	}

	// No header pattern: body passes through.
	title, rest := StripHeader("Article 1\nScope", variant(t, "epc"))
	if title != "" || rest != "Article 1\nScope" {
		t.Errorf("StripHeader(epc) = (%q, %q), want pass-through", title, rest)
	}
}

func TestExtractTitle(t *testing.T) {
	epc := variant(t, "epc")

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "second line",
			body: "Article 52\nPatentable inventions\nEuropean patents shall be granted.",
			want: "Patentable inventions",
		},
		{
			name: "margin reference stripped",
			body: "Article 14\nLanguages of the European Patent Office R. 3, 4\nThe official languages shall be English, French and German.",
			want: "Languages of the European Patent Office",
		},
		{
			name: "single line",
			body: "Article 52",
			want: "",
		},
		{
			name: "paragraph marker is not a title",
			body: "Article 52\n(1) European patents shall be granted.",
			want: "",
		},
		{
			name: "page number is not a title",
			body: "Article 52\n114\nEuropean patents shall be granted.",
			want: "",
		},
		{
			name: "low letter density",
			body: "Article 52\n12 / 34 / 56 / 78\nEuropean patents shall be granted.",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractTitle(tt.body, epc); got != tt.want {
				t.Errorf("ExtractTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractTitleTruncatesLong(t *testing.T) {
	epc := variant(t, "epc")
	long := strings.Repeat("word ", 30) // 150 chars
	body := "Article 52\n" + long + "\nbody"
	got := ExtractTitle(body, epc)
	if got == "" {
		t.Fatal("ExtractTitle() = empty, want truncated title")
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("ExtractTitle() = %q, want ... suffix", got)
	}
	if len(got) > 103 {
		t.Errorf("ExtractTitle() length = %d, want <= 103", len(got))
	}
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		variant string
		in      string
		want    string
	}{
		{"hongkong", "Filing date 23", "Filing date"},
		{"hongkong", "Restoration of lapsed applications R. 40", "Restoration of lapsed applications"},
		{"korea", "목적 <개정 2011.5.24>", "목적"},
		{"usa", "Inventions patentable", "Inventions patentable"},
		{"usa", "Multiline\ntail dropped", "Multiline"},
	}

	for _, tt := range tests {
		v := variant(t, tt.variant)
		if got := CleanTitle(tt.in, v); got != tt.want {
			t.Errorf("CleanTitle(%s, %q) = %q, want %q", tt.variant, tt.in, got, tt.want)
		}
	}
}

func TestCleanBody(t *testing.T) {
	body := "Article 52\nPatentable inventions\nEuropean patents shall be granted for any inventions in all fields of technology."

	got := CleanBody("Article 52", body, "Patentable inventions")
	want := "European patents shall be granted for any inventions in all fields of technology."
	if got != want {
		t.Errorf("CleanBody() = %q, want %q", got, want)
	}
}

func TestCleanBodyNearDuplicateTitle(t *testing.T) {
	body := "Article 52\nPatentable inventions 52\nEuropean patents shall be granted for any inventions in all fields of technology."

	got := CleanBody("Article 52", body, "Patentable inventions")
	if strings.Contains(got, "Patentable inventions 52") {
		t.Errorf("CleanBody() kept near-duplicate title line: %q", got)
	}
	if !strings.Contains(got, "European patents") {
		t.Errorf("CleanBody() lost the body: %q", got)
	}
}

func TestCleanBodyKeepsShortBodies(t *testing.T) {
	// Stripping everything would leave nothing useful, so the original
	// body survives.
	body := "Article 5\nab"
	if got := CleanBody("Article 5", body, ""); got != body {
		t.Errorf("CleanBody() = %q, want original body back", got)
	}
}

func TestMarkerTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Part 1\nPreliminary   provisions 23", "Part 1 Preliminary provisions"},
		{"제1장 총칙 <개정 2011.5.24>", "제1장 총칙"},
		{"  Chapter I General provisions  ", "Chapter I General provisions"},
	}

	for _, tt := range tests {
		if got := MarkerTitle(tt.in); got != tt.want {
			t.Errorf("MarkerTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParsePreamble(t *testing.T) {
	text := "THE CONTRACTING MEMBER STATES,\n" +
		"CONSIDERING that cooperation among the States of Europe should be strengthened;\n" +
		"RECALLING the objectives pursued by earlier conventions;\n" +
		"HAVE AGREED AS FOLLOWS:"

	recitals := ParsePreamble(text)
	if len(recitals) != 4 {
		t.Fatalf("ParsePreamble() returned %d recitals, want 4", len(recitals))
	}

	wantLabels := []string{"opening", "CONSIDERING", "RECALLING", "agreement"}
	for i, want := range wantLabels {
		if recitals[i].Label != want {
			t.Errorf("recital[%d].Label = %q, want %q", i, recitals[i].Label, want)
		}
	}

	if strings.HasSuffix(recitals[1].Text, ";") {
		t.Errorf("recital text keeps trailing semicolon: %q", recitals[1].Text)
	}
	if !strings.Contains(recitals[1].Text, "cooperation among the States") {
		t.Errorf("recital[1].Text = %q", recitals[1].Text)
	}
}

func TestParsePreambleNonTreaty(t *testing.T) {
	if got := ParsePreamble("This Act may be cited as the Patents Act 2013."); got != nil {
		t.Errorf("ParsePreamble(plain text) = %v, want nil", got)
	}
	if got := ParsePreamble("short"); got != nil {
		t.Errorf("ParsePreamble(short) = %v, want nil", got)
	}
}
