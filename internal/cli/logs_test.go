package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"tgd/internal/config"
)

func TestLastLines(t *testing.T) {
	cases := []struct {
		name string
		in   string
		n    int
		want []string
	}{
		{"empty", "", 5, nil},
		{"fewer than n", "a\nb\n", 5, []string{"a", "b"}},
		{"exactly n", "a\nb\nc\n", 3, []string{"a", "b", "c"}},
		{"more than n", "a\nb\nc\nd\n", 2, []string{"c", "d"}},
		{"zero keeps all", "a\nb\n", 0, []string{"a", "b"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := lastLines(tc.in, tc.n)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDaemonLogsTail(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvConfigDir, dir)
	path := filepath.Join(dir, "tgd.log")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0600); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := DaemonLogs(&buf, 2, false); err != nil {
		t.Fatalf("DaemonLogs: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "one") || !strings.Contains(out, "two") || !strings.Contains(out, "three") {
		t.Errorf("got %q, want last two lines", out)
	}
}

func TestDaemonLogsMissingFile(t *testing.T) {
	t.Setenv(config.EnvConfigDir, t.TempDir())

	var buf bytes.Buffer
	if err := DaemonLogs(&buf, 10, false); err == nil {
		t.Fatal("expected error for missing log file")
	}
}
