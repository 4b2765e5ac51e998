package util

import (
	"reflect"
	"testing"
)

func TestTrimQuotes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"quoted"`, "quoted"},
		{`unquoted`, "unquoted"},
		{`"half`, `"half`},
		{`half"`, `half"`},
		{`""`, ""},
		{`"`, `"`},
		{``, ``},
	}
	for _, tt := range tests {
		if got := TrimQuotes(tt.in); got != tt.want {
			t.Errorf("TrimQuotes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFixEscapeQuotes(t *testing.T) {
	if got := FixEscapeQuotes(`say ""hello""`); got != `say "hello"` {
		t.Errorf("FixEscapeQuotes = %q", got)
	}
	if got := FixEscapeQuotes("plain"); got != "plain" {
		t.Errorf("FixEscapeQuotes changed plain string: %q", got)
	}
}

func TestCleanArgs(t *testing.T) {
	in := []string{`"alpha3"`, `"says ""hi"""`, `bare`}
	want := []string{"alpha3", `says "hi"`, "bare"}
	got := CleanArgs(in)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CleanArgs = %v, want %v", got, want)
	}
	if &in[0] == &got[0] {
		t.Error("CleanArgs must not alias its input")
	}
}

func TestParseStringArray(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{`["alpha3","pro","cw"]`, []string{"alpha3", "pro", "cw"}},
		{`[a, b , c]`, []string{"a", "b", "c"}},
		{`["with,comma","plain"]`, []string{"with,comma", "plain"}},
		{`[]`, nil},
		{`["solo"]`, []string{"solo"}},
	}
	for _, tt := range tests {
		got := ParseStringArray(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseStringArray(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
