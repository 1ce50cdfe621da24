package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse_Lines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Directive
	}{
		{"blank", "", Empty()},
		{"whitespace only", " \t ", Empty()},
		{"text", "hello world", Text("hello world")},
		{"text keeps leading space", "  indented", Text("  indented")},
		{"trailing newline stripped", "hello\n", Text("hello")},
		{"crlf stripped", "hello\r\n", Text("hello")},
		{"escaped hash", "##not a comment", Text("#not a comment")},
		{"triple hash keeps two", "###x", Text("##x")},
		{"comment", "# a comment", Comment("a comment")},
		{"bare hash", "#", Comment("")},
		{"directive", "#-pre echo", Prefix("echo")},
		{"directive padded", "#-   suf   --flag  ", Suffix("--flag")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Parse(tt.in)); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestParseCommand_Keywords(t *testing.T) {
	tests := []struct {
		in   string
		want Directive
	}{
		{"pre echo", Prefix("echo")},
		{"suf --flag", Suffix("--flag")},
		{"clean", Clean()},
		{"title My Menu", Title("My Menu")},
		{"subtitle Section", Subtitle("Section")},
		{"import other.txt", Import(ImportImport, "other.txt")},
		{"source other.txt", Import(ImportSource, "other.txt")},
		{"lines other.txt", Import(ImportLines, "other.txt")},
		{"warning careful", Warning("careful")},
		{"text #literal", Text("#literal")},
		{"empty", Empty()},
		{"comment note to self", Comment("note to self")},
		{"comment", Comment("")},
		{"close", Close()},
		{"end", EndMap(false)},
		{"ignore-warnings", IgnoreWarnings()},
		{"ignore-text", IgnoreText()},
		{"watch", Watch()},
		{"then", Then()},
		{"else", Else()},
		{"display-warnings", DisplayWarnings()},
		{"debug", Debug()},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, ParseCommand(tt.in)); diff != "" {
			t.Errorf("ParseCommand(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestParseCommand_QuotedPayload(t *testing.T) {
	got := ParseCommand(`title "  spaced  "`)
	if got.Text != "  spaced  " {
		t.Errorf("text = %q, want %q", got.Text, "  spaced  ")
	}

	got = ParseCommand(`pre "a "quoted" word"`)
	if got.Text != `a "quoted" word` {
		t.Errorf("inner quotes should be kept verbatim, got %q", got.Text)
	}

	got = ParseCommand(`pre "unterminated`)
	if got.Text != `"unterminated` {
		t.Errorf("unbalanced quote should be kept, got %q", got.Text)
	}
}

func TestParseCommand_Errors(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"frobnicate now", "frobnicate is not a directive"},
		{"include x", "include is not a directive"},
		{"pre", "directive pre requires an argument"},
		{"title   ", "directive title requires an argument"},
		{"import", "directive import requires an argument"},
		{"", `could not parse directive ""`},
	}
	for _, tt := range tests {
		got := ParseCommand(tt.in)
		if got.Kind != KindWarning {
			t.Errorf("ParseCommand(%q) kind = %v, want warning", tt.in, got.Kind)
			continue
		}
		if got.Text != tt.want {
			t.Errorf("ParseCommand(%q) = %q, want %q", tt.in, got.Text, tt.want)
		}
	}
}

func TestParse_EmptyDirectiveDegradesToWarning(t *testing.T) {
	got := Parse("#-")
	if got.Kind != KindWarning {
		t.Fatalf("kind = %v, want warning", got.Kind)
	}
}

func TestDirective_String(t *testing.T) {
	d := Multiple(EndMap(false), Watch(), Warning("w"), Else())
	want := `multiple[end, watch, warning("w"), else]`
	if d.String() != want {
		t.Errorf("String() = %s, want %s", d.String(), want)
	}
	if s := Import(ImportLines, "a.txt").String(); s != `lines("a.txt")` {
		t.Errorf("import String() = %s", s)
	}
}
