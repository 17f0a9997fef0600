package manualdata

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleDoc = `
"530196605":
  financials:
    "2024":
      program_expenses: 2786069505
      admin_expenses: 107387727
      fundraising_expenses: 170241536
  charity_navigator:
    rating: 4
"131624147":
  charity_navigator:
    rating: 3
`

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manual_data.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing document: %v", err)
	}
	return path
}

func TestLookup(t *testing.T) {
	s := NewStore(writeDoc(t, sampleDoc))

	v := s.Lookup("financials.2024.program_expenses", "530196605")
	n, ok := v.(int)
	if !ok || n != 2786069505 {
		t.Errorf("program expenses = %v (%T), want 2786069505", v, v)
	}

	v = s.Lookup("charity_navigator.rating", "131624147")
	if n, ok := v.(int); !ok || n != 3 {
		t.Errorf("rating = %v, want 3", v)
	}
}

func TestLookupMissingSegments(t *testing.T) {
	s := NewStore(writeDoc(t, sampleDoc))

	cases := []struct {
		path, ein string
	}{
		{"financials.2024.program_expenses", "999999999"},
		{"financials.2019.program_expenses", "530196605"},
		{"no_such.path", "530196605"},
		{"charity_navigator.rating.deeper", "530196605"},
		{"charity_navigator.rating", ""},
	}
	for _, c := range cases {
		if v := s.Lookup(c.path, c.ein); v != nil {
			t.Errorf("Lookup(%q, %q) = %v, want nil", c.path, c.ein, v)
		}
	}
}

func TestMissingFileIsEmptyStore(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope.yaml"))

	if err := s.Err(); err != nil {
		t.Fatalf("missing file should not be an error, got %v", err)
	}
	if v := s.Lookup("anything", "530196605"); v != nil {
		t.Errorf("Lookup on empty store = %v, want nil", v)
	}
	if eins := s.EINs(); len(eins) != 0 {
		t.Errorf("EINs on empty store = %v", eins)
	}
}

func TestMalformedFile(t *testing.T) {
	s := NewStore(writeDoc(t, "{{not yaml"))

	if err := s.Err(); err == nil {
		t.Fatal("expected a parse error")
	}
	if v := s.Lookup("charity_navigator.rating", "530196605"); v != nil {
		t.Errorf("Lookup after failed load = %v, want nil", v)
	}
}

func TestEINs(t *testing.T) {
	s := NewStore(writeDoc(t, sampleDoc))

	eins := s.EINs()
	want := []string{"131624147", "530196605"}
	if len(eins) != len(want) {
		t.Fatalf("EINs = %v, want %v", eins, want)
	}
	for i := range want {
		if eins[i] != want[i] {
			t.Errorf("EINs[%d] = %q, want %q", i, eins[i], want[i])
		}
	}
}
