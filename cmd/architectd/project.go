package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/architectd/internal/phase"
	"github.com/fyrsmithlabs/architectd/internal/state"
)

var projectOutputJSON bool

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects in the local store",
}

func init() {
	projectCmd.PersistentFlags().BoolVar(&projectOutputJSON, "json", false,
		"output results as JSON")
	projectCmd.AddCommand(projectNewCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectRmCmd)
}

var projectNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, st, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		project := state.New(args[0])
		if err := st.Init(project); err != nil {
			return err
		}

		if projectOutputJSON {
			return json.NewEncoder(os.Stdout).Encode(project)
		}
		fmt.Printf("Created project %q (slug: %s)\n", project.Project.Name, project.Project.Slug)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, st, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		summaries, err := st.List()
		if err != nil {
			return err
		}

		if projectOutputJSON {
			return json.NewEncoder(os.Stdout).Encode(summaries)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tNAME\tPHASE\tUPDATED")
		for _, s := range summaries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				s.Slug, s.Name, phase.Label(s.CurrentPhase),
				s.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var projectRmCmd = &cobra.Command{
	Use:   "rm <slug>",
	Short: "Delete a project's state file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, st, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if err := st.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted project %s\n", args[0])
		return nil
	},
}
