package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestInitFile_WritesDailyFile(t *testing.T) {
	dir := t.TempDir()
	if err := InitFile(dir, "riichi-test"); err != nil {
		t.Fatalf("InitFile: %v", err)
	}
	defer SetOutput(os.Stdout)

	Info("日志写入测试: %d", 42)

	name := filepath.Join(dir, "riichi-test-"+time.Now().Format("20060102")+".log")
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	if !strings.Contains(string(data), "日志写入测试: 42") {
		t.Fatalf("log line missing from %s: %q", name, data)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{"debug": "debug", "WARN": "warn", "error": "error", "": "info", "verbose": "info"}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Fatalf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
