package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/architectd/internal/outline"
	"github.com/fyrsmithlabs/architectd/internal/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate <slug>",
	Short: "Validate a project's state file and outline",
	Long: `Run the structural schema validation and the outline rule checks
against a stored project, printing every violation found.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, st, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		project, err := st.Load(args[0])
		if err != nil {
			return err
		}

		violations, err := schema.StateValidationErrors(project)
		if err != nil {
			return err
		}
		if len(violations) == 0 {
			fmt.Println("schema: ok")
		} else {
			fmt.Printf("schema: %d violation(s)\n", len(violations))
			for _, v := range violations {
				fmt.Printf("  %s\n", v)
			}
		}

		checker := outline.NewChecker()
		checker.OverlapThreshold = cfg.Outline.OverlapThreshold
		report := checker.RunAllChecks(project.Outline.Sections)
		if report.AllPassed {
			fmt.Println("outline: ok")
		} else {
			fmt.Println("outline: checks failed")
			for _, issue := range report.RequiredSections.Missing {
				fmt.Printf("  missing section: %s\n", issue)
			}
			if !report.SectionOrder.Passed {
				fmt.Printf("  order: %s\n", report.SectionOrder.Details)
			}
			for _, issue := range report.NamingConvention.Violations {
				fmt.Printf("  naming: %s\n", issue)
			}
			for _, issue := range report.NoPlaceholders.Found {
				fmt.Printf("  placeholder: %s\n", issue)
			}
			for _, warning := range report.SectionOverlap.Warnings {
				fmt.Printf("  overlap: %s\n", warning)
			}
		}

		if len(violations) > 0 || !report.AllPassed {
			return fmt.Errorf("validation failed for %s", args[0])
		}
		return nil
	},
}
