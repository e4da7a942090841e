package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		wantDebug bool
		wantInfo  bool
	}{
		{"off", LevelOff, false, false},
		{"normal", LevelNormal, false, true},
		{"verbose", LevelVerbose, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(tt.level, &buf)
			log.Debug("debug line %d", 1)
			log.Info("info line %d", 2)

			out := buf.String()
			if got := strings.Contains(out, "debug line 1"); got != tt.wantDebug {
				t.Fatalf("debug present=%v, want %v (output %q)", got, tt.wantDebug, out)
			}
			if got := strings.Contains(out, "info line 2"); got != tt.wantInfo {
				t.Fatalf("info present=%v, want %v (output %q)", got, tt.wantInfo, out)
			}
		})
	}
}

func TestSetLevelPropagatesToChildren(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelOff, &buf)
	child := log.With("component", "store")

	child.Warn("silenced")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}

	log.SetLevel(LevelNormal)
	child.Warn("loud")
	out := buf.String()
	if !strings.Contains(out, "loud") || !strings.Contains(out, "component") {
		t.Fatalf("expected child warning with field, got %q", out)
	}
	if log.GetLevel() != LevelNormal {
		t.Fatalf("expected normal level, got %d", log.GetLevel())
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"off": LevelOff, "normal": LevelNormal, "debug": LevelVerbose, "": LevelNormal} {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %d, want %d", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
