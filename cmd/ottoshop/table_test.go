package main

import (
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"PATH", "SCALE"},
		[][]string{{"pancakes", "2"}, {"custom:bags"}},
		1,
	)
	for _, want := range []string{"PATH", "SCALE", "pancakes", "custom:bags"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Split(out, "\n"); len(lines) != 6 {
		t.Errorf("got %d lines, want 6:\n%s", len(lines), out)
	}
}

func TestRenderTableNoHeaders(t *testing.T) {
	if out := renderTable(nil, [][]string{{"x"}}); out != "" {
		t.Errorf("renderTable() = %q, want empty", out)
	}
}
