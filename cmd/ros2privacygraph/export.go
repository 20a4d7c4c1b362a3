package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonasWoh/ROS2PrivacyGraph/internal/categorization"
	"github.com/JonasWoh/ROS2PrivacyGraph/internal/categorize"
	"github.com/JonasWoh/ROS2PrivacyGraph/internal/privacygraph"
	"github.com/JonasWoh/ROS2PrivacyGraph/pkg/output"
)

func exportCmd() *cobra.Command {
	var categorizationPath string
	var outputFile string
	var privacy bool

	cmd := &cobra.Command{
		Use:   "export <policy-dir>",
		Short: "Export the raw or privacy graph as a multi-line adjacency list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args[0], categorizationPath, outputFile, privacy)
		},
	}

	cmd.Flags().StringVarP(&categorizationPath, "categorization", "c", "", "Path to the taint categorization JSON file (required with --privacy)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&privacy, "privacy", false, "Export the derived privacy graph instead of the raw graph")

	return cmd
}

func runExport(policyDir, categorizationPath, outputFile string, privacy bool) error {
	g, err := buildGraph(policyDir)
	if err != nil {
		return err
	}

	target := g
	if privacy {
		if categorizationPath == "" {
			return fmt.Errorf("--privacy requires --categorization")
		}
		cat, err := categorization.Load(categorizationPath)
		if err != nil {
			return fmt.Errorf("load categorization: %w", err)
		}
		categorize.Apply(g, cat)
		target = privacygraph.Build(g, privacygraph.Options{Fixpoint: !legacyTwoPass})
	}

	w := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		return output.WriteAdjacencyList(target, f)
	}
	return output.WriteAdjacencyList(target, w)
}
