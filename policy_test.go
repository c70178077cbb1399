package checkfiles

import (
	"testing"
)

func TestParseIndentMode(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    IndentMode
		wantErr bool
	}{
		{"spaces", "spaces", SpacesOnly, false},
		{"space singular", "space", SpacesOnly, false},
		{"tabs", "tabs", TabsOnly, false},
		{"tab singular", "tab", TabsOnly, false},
		{"case insensitive", "Tabs", TabsOnly, false},
		{"padded", " spaces ", SpacesOnly, false},
		{"unknown", "elastic", SpacesOnly, true},
		{"empty", "", SpacesOnly, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIndentMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseIndentMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseIndentMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewPolicy(t *testing.T) {
	t.Run("zero tab width gets default", func(t *testing.T) {
		p, err := NewPolicy(Policy{})
		if err != nil {
			t.Fatalf("NewPolicy() error = %v", err)
		}
		if p.TabWidth != DefaultTabWidth {
			t.Errorf("TabWidth = %d, want %d", p.TabWidth, DefaultTabWidth)
		}
	})

	t.Run("negative tab width rejected", func(t *testing.T) {
		if _, err := NewPolicy(Policy{TabWidth: -1}); err == nil {
			t.Error("NewPolicy() accepted negative tab width")
		}
	})
}

func TestPolicy_IgnoresPath(t *testing.T) {
	p := Policy{IgnoredPaths: []string{"exact/file.txt", "vendor/**", "[bad"}}

	tests := []struct {
		path string
		want bool
	}{
		{"exact/file.txt", true},
		{"exact/file.txt.bak", false},
		{"vendor/pkg/deep/file.go", true},
		{"vendors/file.go", false},
		{"[bad", true}, // invalid pattern still matches itself literally
		{"other.txt", false},
	}

	for _, tt := range tests {
		if got := p.ignoresPath(tt.path); got != tt.want {
			t.Errorf("ignoresPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestPolicy_SuffixGates(t *testing.T) {
	p := Policy{
		CheckedSuffixes: []string{".py"},
		IgnoredSuffixes: []string{"_pb2.py"},
	}

	if !p.checksSuffix("a.py") {
		t.Error("checksSuffix(a.py) = false, want true")
	}
	if p.checksSuffix("a.rb") {
		t.Error("checksSuffix(a.rb) = true, want false")
	}
	if !p.ignoresSuffix("gen_pb2.py") {
		t.Error("ignoresSuffix(gen_pb2.py) = false, want true")
	}

	empty := Policy{}
	if !empty.checksSuffix("anything.at.all") {
		t.Error("empty CheckedSuffixes must accept all suffixes")
	}
}

func TestIndentModeString(t *testing.T) {
	if SpacesOnly.String() != "spaces" || TabsOnly.String() != "tabs" {
		t.Errorf("String() = %q/%q, want spaces/tabs", SpacesOnly, TabsOnly)
	}
}
