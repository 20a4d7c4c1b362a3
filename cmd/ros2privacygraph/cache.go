package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonasWoh/ROS2PrivacyGraph/internal/cache"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the compiled-graph cache",
	}
	cmd.AddCommand(cacheInfoCmd())
	cmd.AddCommand(cacheClearCmd())
	return cmd
}

func cacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <policy-dir>",
		Short: "Show the cache entry, if any, for a policy directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := cache.ContentHash(args[0])
			if err != nil {
				return fmt.Errorf("hash policy directory: %w", err)
			}
			path, modTime, err := cache.GetCacheInfo(key)
			if err != nil {
				return fmt.Errorf("get cache info: %w", err)
			}
			if path == "" {
				fmt.Println("No cache entry found.")
				return nil
			}
			fmt.Printf("Cache file: %s\n", path)
			fmt.Printf("Last updated: %s\n", modTime)
			return nil
		},
	}
}

func cacheClearCmd() *cobra.Command {
	var policyDir string
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached graph entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				return cache.Clear("")
			}
			if policyDir == "" {
				return fmt.Errorf("either --all or --policy-dir is required")
			}
			key, err := cache.ContentHash(policyDir)
			if err != nil {
				return fmt.Errorf("hash policy directory: %w", err)
			}
			return cache.Clear(key)
		},
	}

	cmd.Flags().StringVar(&policyDir, "policy-dir", "", "Clear only the cache entry for this policy directory")
	cmd.Flags().BoolVar(&all, "all", false, "Clear the entire cache")

	return cmd
}
