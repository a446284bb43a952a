package legacyscan_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kard/amdloader/legacyscan"
)

func TestScan(t *testing.T) {
	content := []byte("var a = require('a');\nvar b = require(\"b\");\n")
	findings := legacyscan.Scan("foo.js", content)
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}
	if findings[0].Specifier != "a" || findings[0].Line != 1 {
		t.Errorf("unexpected first finding: %+v", findings[0])
	}
	if findings[1].Specifier != "b" || findings[1].Line != 2 {
		t.Errorf("unexpected second finding: %+v", findings[1])
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.js"), []byte("require('b')"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "clean.js"), []byte("define(['b'], function(b){})"), 0644); err != nil {
		t.Fatal(err)
	}

	report, err := legacyscan.ScanDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if report.Scanned != 2 {
		t.Fatalf("expected 2 scanned files, got %d", report.Scanned)
	}
	if !report.HasLegacyUsage() {
		t.Fatal("expected legacy usage to be detected")
	}
	if len(report.Findings) != 1 || report.Findings[0].URL != "a.js" {
		t.Fatalf("unexpected findings: %+v", report.Findings)
	}
}
