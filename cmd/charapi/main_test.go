package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEvaluateCmdFlags(t *testing.T) {
	cmd := newEvaluateCmd()
	f := cmd.Flags()

	// Test default output format
	format, _ := f.GetString("format")
	if format != "terminal" {
		t.Errorf("default format = %q, want terminal", format)
	}

	// Test that flags exist
	for _, flag := range []string{"config", "format", "mock", "no-cache", "archive"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestBatchCmdFlags(t *testing.T) {
	cmd := newBatchCmd()
	f := cmd.Flags()

	format, _ := f.GetString("format")
	if format != "json" {
		t.Errorf("default format = %q, want json", format)
	}

	for _, flag := range []string{"config", "format", "mock", "no-cache", "file"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestHistoryCmdFlags(t *testing.T) {
	cmd := newHistoryCmd()
	f := cmd.Flags()

	for _, flag := range []string{"config", "show", "format"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestCacheCmdSubcommands(t *testing.T) {
	cmd := newCacheCmd()

	want := map[string]bool{"stats": false, "clear": false, "cleanup": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand: %s", name)
		}
	}
}

func TestReadEINsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eins.txt")
	content := "530196605\n\n# national orgs\n13-1624147\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	eins, err := readEINsFile(path)
	if err != nil {
		t.Fatalf("readEINsFile: %v", err)
	}
	if len(eins) != 2 {
		t.Fatalf("got %d EINs, want 2: %v", len(eins), eins)
	}
	if eins[0] != "530196605" || eins[1] != "13-1624147" {
		t.Errorf("unexpected EINs: %v", eins)
	}
}

func TestResolveDataPath(t *testing.T) {
	tests := []struct {
		path    string
		cfgPath string
		want    string
	}{
		{"manual/manual_data.yaml", "/proj/.charapi/config.yaml", "/proj/.charapi/manual/manual_data.yaml"},
		{"/abs/manual.yaml", "/proj/.charapi/config.yaml", "/abs/manual.yaml"},
		{"manual/manual_data.yaml", "", "manual/manual_data.yaml"},
		{"", "/proj/.charapi/config.yaml", ""},
	}

	for _, tt := range tests {
		got := resolveDataPath(tt.path, tt.cfgPath)
		if got != tt.want {
			t.Errorf("resolveDataPath(%q, %q) = %q, want %q", tt.path, tt.cfgPath, got, tt.want)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"a", "b", "c"}, "a"},
		{[]string{"", "b", "c"}, "b"},
		{[]string{"", "", ""}, ""},
	}

	for _, tt := range tests {
		got := firstNonEmpty(tt.args...)
		if got != tt.want {
			t.Errorf("firstNonEmpty(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}
