package matcher

import (
	"reflect"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		pattern     string
		patternType PatternType
		opts        *Options
		wantErr     bool
	}{
		{
			name:        "valid glob pattern",
			pattern:     "leaf*",
			patternType: Glob,
		},
		{
			name:        "valid regex pattern",
			pattern:     "^leaf\\d+$",
			patternType: Regex,
		},
		{
			name:        "invalid regex pattern",
			pattern:     "[unclosed",
			patternType: Regex,
			wantErr:     true,
		},
		{
			name:        "invalid glob pattern",
			pattern:     "leaf[",
			patternType: Glob,
			wantErr:     true,
		},
		{
			name:        "auto detect regex",
			pattern:     "^spine(1|2)$",
			patternType: Auto,
		},
		{
			name:        "case insensitive option",
			pattern:     "LEAF1",
			patternType: Glob,
			opts:        &Options{CaseInsensitive: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.patternType, tt.pattern, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && m == nil {
				t.Error("New() returned nil matcher without error")
			}
		})
	}
}

func TestMatcher_Match(t *testing.T) {
	tests := []struct {
		name        string
		pattern     string
		patternType PatternType
		opts        *Options
		input       string
		want        bool
	}{
		{"glob exact match", "leaf1.dc1", Glob, nil, "leaf1.dc1", true},
		{"glob star wildcard", "leaf*", Glob, nil, "leaf12.dc1", true},
		{"glob character class", "leaf[0-9]", Glob, nil, "leaf5", true},
		{"glob no match", "leaf*", Glob, nil, "spine1", false},
		{"regex match", "^border-\\d+$", Regex, nil, "border-3", true},
		{"regex no match", "^border$", Regex, nil, "border-3", false},
		{"case insensitive glob", "LEAF*", Glob, &Options{CaseInsensitive: true}, "leaf1", true},
		{"case insensitive regex", "arista", Regex, &Options{CaseInsensitive: true}, "Arista EOS", true},
		{"anchored regex", "leaf", Regex, &Options{Anchored: true}, "leaf", true},
		{"anchored regex no match", "leaf", Regex, &Options{Anchored: true}, "leaf1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.patternType, tt.pattern, tt.opts)
			if err != nil {
				t.Fatalf("Failed to create matcher: %v", err)
			}
			if got := m.Match(tt.input); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatcher_MatchAll(t *testing.T) {
	m := MustNew(Glob, "leaf*")
	got := m.MatchAll("spine1", "leaf2", "leaf1", "border1")
	if want := []string{"leaf2", "leaf1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("MatchAll() = %v, want %v", got, want)
	}
	if got := m.MatchAll("spine1"); len(got) != 0 {
		t.Errorf("MatchAll() = %v, want empty", got)
	}
	if m.Pattern() != "leaf*" || m.Type() != Glob {
		t.Errorf("Pattern()/Type() = %q/%v", m.Pattern(), m.Type())
	}
}

func TestDetectPatternType(t *testing.T) {
	tests := []struct {
		pattern string
		want    PatternType
	}{
		{"leaf*", Glob},
		{"leaf?.dc1", Glob},
		{"leaf1", Glob},
		{"^leaf", Regex},
		{"leaf$", Regex},
		{"leaf\\d+", Regex},
		{"(leaf|spine)", Regex},
		{"(?i)leaf", Regex},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			if got := detectPatternType(tt.pattern); got != tt.want {
				t.Errorf("detectPatternType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewHostFilter(t *testing.T) {
	m, err := NewHostFilter("")
	if err != nil || m != nil {
		t.Fatalf("NewHostFilter(\"\") = %v, %v; want nil, nil", m, err)
	}

	m, err = NewHostFilter("leaf1")
	if err != nil {
		t.Fatal(err)
	}
	if !m.Match("leaf1") || m.Match("leaf10") {
		t.Error("exact host filter should match only its own name")
	}

	m, err = NewHostFilter("leaf*")
	if err != nil {
		t.Fatal(err)
	}
	if got := m.MatchAll("leaf1", "leaf10", "spine1"); !reflect.DeepEqual(got, []string{"leaf1", "leaf10"}) {
		t.Errorf("glob host filter matched %v", got)
	}

	if _, err := NewHostFilter("leaf["); err == nil {
		t.Error("expected an error for a malformed glob")
	}
}

func TestIsGlobPattern(t *testing.T) {
	if !IsGlobPattern("leaf*") || IsGlobPattern("leaf1") {
		t.Error("IsGlobPattern misclassified a host name")
	}
}
