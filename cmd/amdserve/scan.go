package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kard/amdloader/legacyscan"
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Report legacy CommonJS require() calls that need migrating to define()",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	report, err := legacyscan.ScanDir(dir)
	if err != nil {
		return err
	}

	fmt.Printf("scanned %d files\n", report.Scanned)
	for _, f := range report.Findings {
		fmt.Printf("%s:%d: require(%q)\n", f.URL, f.Line, f.Specifier)
	}
	if !report.HasLegacyUsage() {
		fmt.Println("no legacy require() calls found")
	}
	return nil
}
