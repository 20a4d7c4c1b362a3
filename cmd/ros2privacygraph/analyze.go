package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonasWoh/ROS2PrivacyGraph/internal/cache"
	"github.com/JonasWoh/ROS2PrivacyGraph/internal/categorization"
	"github.com/JonasWoh/ROS2PrivacyGraph/internal/categorize"
	"github.com/JonasWoh/ROS2PrivacyGraph/internal/compiler"
	"github.com/JonasWoh/ROS2PrivacyGraph/internal/graph"
	"github.com/JonasWoh/ROS2PrivacyGraph/internal/ingest/policyxml"
	"github.com/JonasWoh/ROS2PrivacyGraph/internal/privacygraph"
	"github.com/JonasWoh/ROS2PrivacyGraph/internal/vuln"
	"github.com/JonasWoh/ROS2PrivacyGraph/pkg/output"
)

func analyzeCmd() *cobra.Command {
	var categorizationPath string

	cmd := &cobra.Command{
		Use:   "analyze <policy-dir>",
		Short: "Compile a policy tree and report source-to-leak vulnerability",
		Long: `Walks <policy-dir> for SROS2 policy XML documents, compiles the
communication graph, applies the taint categorization, and reports whether
any source principal can reach a leak principal.`,
		Args: cobra.ExactArgs(1),
		Example: `  ros2privacygraph analyze ./policies --categorization ./categorization.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(args[0], categorizationPath)
		},
	}

	cmd.Flags().StringVarP(&categorizationPath, "categorization", "c", "", "Path to the taint categorization JSON file")
	cmd.MarkFlagRequired("categorization")

	return cmd
}

func runAnalyze(policyDir, categorizationPath string) error {
	g, err := buildGraph(policyDir)
	if err != nil {
		return err
	}

	cat, err := categorization.Load(categorizationPath)
	if err != nil {
		return fmt.Errorf("load categorization: %w", err)
	}
	categorize.Apply(g, cat)

	result := vuln.Analyze(g, vuln.Options{
		PrivacyGraph: privacygraph.Options{Fixpoint: !legacyTwoPass},
	})

	return output.PrintAnalyze(format, result)
}

// buildGraph compiles a graph from policyDir, honoring the cache flags and
// the standard-elements filter.
func buildGraph(policyDir string) (*graph.Graph, error) {
	key, hashErr := cache.ContentHash(policyDir)

	if !noCache && hashErr == nil {
		if g, ingestionErrors, err := cache.Load(key, cacheTTL); err == nil && g != nil {
			for _, e := range ingestionErrors {
				fmt.Fprintf(os.Stderr, "ingestion warning (cached): %s\n", e)
			}
			return g, nil
		}
	}
	if useCache {
		return nil, fmt.Errorf("cache requested but unavailable for %s", policyDir)
	}

	enclaves, ingestionErrors := policyxml.BuildFromDirectory(policyDir)
	for _, e := range ingestionErrors {
		fmt.Fprintf(os.Stderr, "ingestion warning: %v\n", e)
	}

	g := graph.New()
	compiler.Compile(g, enclaves)

	if !includeStandardElements {
		graph.FilterStandardElements(g)
	}

	if hashErr == nil {
		if err := cache.Save(key, g, ingestionErrors); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to write cache: %v\n", err)
		}
	}

	return g, nil
}
