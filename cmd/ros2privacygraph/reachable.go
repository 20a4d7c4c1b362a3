package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonasWoh/ROS2PrivacyGraph/internal/categorization"
	"github.com/JonasWoh/ROS2PrivacyGraph/internal/categorize"
	"github.com/JonasWoh/ROS2PrivacyGraph/internal/privacygraph"
	"github.com/JonasWoh/ROS2PrivacyGraph/internal/query"
	"github.com/JonasWoh/ROS2PrivacyGraph/pkg/output"
)

func reachableCmd() *cobra.Command {
	var categorizationPath string
	var leak string

	cmd := &cobra.Command{
		Use:   "reachable <policy-dir>",
		Short: "List every source principal that can reach a given leak",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReachable(args[0], categorizationPath, leak)
		},
	}

	cmd.Flags().StringVarP(&categorizationPath, "categorization", "c", "", "Path to the taint categorization JSON file")
	cmd.Flags().StringVar(&leak, "leak", "", "The leak principal to query against")
	cmd.MarkFlagRequired("categorization")
	cmd.MarkFlagRequired("leak")

	return cmd
}

func runReachable(policyDir, categorizationPath, leak string) error {
	g, err := buildGraph(policyDir)
	if err != nil {
		return err
	}

	cat, err := categorization.Load(categorizationPath)
	if err != nil {
		return fmt.Errorf("load categorization: %w", err)
	}
	categorize.Apply(g, cat)

	pg := privacygraph.Build(g, privacygraph.Options{Fixpoint: !legacyTwoPass})
	sources, err := query.New(pg).WhoCanReach(leak)
	if err != nil {
		return fmt.Errorf("reachable: %w", err)
	}

	return output.PrintWhoCanReach(format, leak, sources)
}

func pathCmd() *cobra.Command {
	var categorizationPath string
	var from, to string

	cmd := &cobra.Command{
		Use:   "path <policy-dir>",
		Short: "Report whether one principal can reach another in the privacy graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPath(args[0], categorizationPath, from, to)
		},
	}

	cmd.Flags().StringVarP(&categorizationPath, "categorization", "c", "", "Path to the taint categorization JSON file")
	cmd.Flags().StringVar(&from, "from", "", "Source vertex name")
	cmd.Flags().StringVar(&to, "to", "", "Target vertex name")
	cmd.MarkFlagRequired("categorization")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}

func runPath(policyDir, categorizationPath, from, to string) error {
	g, err := buildGraph(policyDir)
	if err != nil {
		return err
	}

	cat, err := categorization.Load(categorizationPath)
	if err != nil {
		return fmt.Errorf("load categorization: %w", err)
	}
	categorize.Apply(g, cat)

	pg := privacygraph.Build(g, privacygraph.Options{Fixpoint: !legacyTwoPass})
	reachable, err := query.New(pg).Reachable(from, to)
	if err != nil {
		return fmt.Errorf("path: %w", err)
	}

	return output.PrintReachable(format, from, to, reachable)
}
