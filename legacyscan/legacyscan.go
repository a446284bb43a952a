// Package legacyscan detects CommonJS-style require(...) calls in
// script content, flagging scripts that still need migrating to an AMD
// define(deps, factory) dependency list.
package legacyscan

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
)

var reRequireCall = regexp.MustCompile(`require\(['"](.+?)['"]\)`)

// Finding records one legacy require() call discovered in a script.
type Finding struct {
	URL       string
	Specifier string
	Line      int
}

// Report aggregates the Findings from a scan, along with the number of
// files scanned.
type Report struct {
	Findings []Finding
	Scanned  int
}

// HasLegacyUsage reports whether any require() call was found.
func (r *Report) HasLegacyUsage() bool {
	return len(r.Findings) > 0
}

// Scan reports every CommonJS-style require(...) call found in content,
// each a candidate for migrating to an AMD dependency list.
func Scan(url string, content []byte) []Finding {
	var findings []Finding
	for _, match := range reRequireCall.FindAllSubmatchIndex(content, -1) {
		specifier := string(content[match[2]:match[3]])
		line := 1 + bytes.Count(content[:match[0]], []byte("\n"))
		findings = append(findings, Finding{URL: url, Specifier: specifier, Line: line})
	}
	return findings
}

// ScanDir walks dir for .js files and scans each one, reporting every
// legacy require() call found across the tree. Paths in the resulting
// Findings are relative to dir.
func ScanDir(dir string) (*Report, error) {
	report := &Report{}
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".js" {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		report.Scanned++
		report.Findings = append(report.Findings, Scan(filepath.ToSlash(rel), content)...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
