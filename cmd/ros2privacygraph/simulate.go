package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonasWoh/ROS2PrivacyGraph/internal/categorization"
	"github.com/JonasWoh/ROS2PrivacyGraph/internal/privacygraph"
	"github.com/JonasWoh/ROS2PrivacyGraph/internal/simulation"
)

// simulateCmd returns the simulate command group.
func simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Compare vulnerability verdicts between two categorizations",
		Long: `Apply two different taint categorizations to the same compiled policy
graph and report which source-to-leak pairs newly became vulnerable, which
were fixed, and which were vulnerable under both.`,
		Example: `  ros2privacygraph simulate diff ./policies --before before.json --after after.json`,
	}
	cmd.AddCommand(simulateDiffCmd())
	return cmd
}

func simulateDiffCmd() *cobra.Command {
	var beforePath, afterPath string

	cmd := &cobra.Command{
		Use:   "diff <policy-dir>",
		Short: "Diff vulnerability verdicts between two categorizations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulateDiff(args[0], beforePath, afterPath)
		},
	}

	cmd.Flags().StringVar(&beforePath, "before", "", "Categorization JSON before the change")
	cmd.Flags().StringVar(&afterPath, "after", "", "Categorization JSON after the change")
	cmd.MarkFlagRequired("before")
	cmd.MarkFlagRequired("after")

	return cmd
}

func runSimulateDiff(policyDir, beforePath, afterPath string) error {
	g, err := buildGraph(policyDir)
	if err != nil {
		return err
	}

	before, err := categorization.Load(beforePath)
	if err != nil {
		return fmt.Errorf("load before categorization: %w", err)
	}
	after, err := categorization.Load(afterPath)
	if err != nil {
		return fmt.Errorf("load after categorization: %w", err)
	}

	diff, err := simulation.CompareCategorizations(g, before, after, privacygraph.Options{Fixpoint: !legacyTwoPass})
	if err != nil {
		return fmt.Errorf("compare categorizations: %w", err)
	}

	if format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(diff)
	}

	printDiffText(diff)
	return nil
}

func printDiffText(diff *simulation.Diff) {
	fmt.Printf("Newly vulnerable: %d\n", len(diff.Granted))
	for _, p := range diff.Granted {
		fmt.Printf("  + %s can reach %s\n", p.Source, p.Leak)
	}
	fmt.Printf("Fixed: %d\n", len(diff.Fixed))
	for _, p := range diff.Fixed {
		fmt.Printf("  - %s can reach %s\n", p.Source, p.Leak)
	}
	fmt.Printf("Unchanged: %d\n", len(diff.Unchanged))
}
