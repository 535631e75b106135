package main

import "testing"

func TestOpenCommandForOS(t *testing.T) {
	cases := []struct {
		goos string
		cmd  string
	}{
		{"darwin", "open"},
		{"windows", "rundll32"},
		{"linux", "xdg-open"},
		{"freebsd", "xdg-open"},
	}
	for _, tc := range cases {
		cmd, args := openCommandForOS(tc.goos, "https://example.com")
		if cmd != tc.cmd {
			t.Fatalf("%s: got %q, want %q", tc.goos, cmd, tc.cmd)
		}
		if len(args) == 0 || args[len(args)-1] != "https://example.com" {
			t.Fatalf("%s: url not passed: %v", tc.goos, args)
		}
	}
}

func TestDefaultOpenURLRejectsEmpty(t *testing.T) {
	if err := defaultOpenURLForOS("linux", ""); err == nil {
		t.Fatalf("empty url must fail")
	}
	if err := defaultOpenURLForOS("unsupported", "https://example.com"); err == nil {
		t.Fatalf("unknown platform must fail")
	}
}
