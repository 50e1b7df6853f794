package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/gommon/log"
)

func TestParseLevel(t *testing.T) {
	for _, tc := range []struct {
		s   string
		lvl log.Lvl
	}{
		{"debug", log.DEBUG},
		{"DEBUG", log.DEBUG},
		{"", log.INFO},
		{"info", log.INFO},
		{"warn", log.WARN},
		{"error", log.ERROR},
		{"off", log.OFF},
		{"bogus", log.INFO},
	} {
		if lvl := ParseLevel(tc.s); lvl != tc.lvl {
			t.Errorf("%q: got level %v, expected %v", tc.s, lvl, tc.lvl)
		}
	}
}

func TestFileOutput(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "logs", "deconflict.log")
	lg := New(Options{Level: "info", File: fn})
	lg.Infof("hello %s", "file")
	lg.Debugf("not written")

	b, err := os.ReadFile(fn)
	if err != nil {
		t.Fatalf("%s: %v", fn, err)
	}
	if !strings.Contains(string(b), "hello file") {
		t.Errorf("log file missing message: %q", string(b))
	}
	if strings.Contains(string(b), "not written") {
		t.Errorf("debug message written at info level: %q", string(b))
	}
}

func TestOr(t *testing.T) {
	if Or(nil) == nil {
		t.Errorf("Or(nil) returned nil")
	}
	lg := Discard()
	if Or(lg) != lg {
		t.Errorf("Or did not return the given logger")
	}
}
