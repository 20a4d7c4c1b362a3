// Command ros2privacygraph builds a ROS2 communication graph from SROS2
// access-control policy documents, overlays a taint categorization, and
// reports whether sensitive information can flow from a source principal
// to a leak principal.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonasWoh/ROS2PrivacyGraph/internal/cache"
)

var (
	version = "0.1.0"

	// Global flags
	format string

	// Cache flags
	useCache bool
	noCache  bool
	cacheTTL time.Duration

	// Analysis flags shared across subcommands
	includeStandardElements bool
	legacyTwoPass           bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ros2privacygraph",
		Short: "Static privacy-flow analysis for SROS2 access-control policies",
		Long: `ros2privacygraph compiles a directory of SROS2 policy XML documents into a
communication graph, overlays a taint categorization, and determines whether
sensitive information can flow from a source principal to a leak principal.`,
	}

	rootCmd.PersistentFlags().StringVar(&format, "format", "text", "Output format (text|json)")
	rootCmd.PersistentFlags().BoolVar(&useCache, "cache", false, "Force use of cached graph (fail if cache missing or stale)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Force fresh ingestion/compilation, bypass cache")
	rootCmd.PersistentFlags().DurationVar(&cacheTTL, "cache-ttl", cache.DefaultTTL, "Cache TTL duration")
	rootCmd.PersistentFlags().BoolVarP(&includeStandardElements, "include-standard-elements", "d", false, "Do not strip well-known ROS infrastructure transmitters before analysis")
	rootCmd.PersistentFlags().BoolVar(&legacyTwoPass, "legacy-two-pass", false, "Use the literal two-pass pruning algorithm instead of iterating to a fixpoint")

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(reachableCmd())
	rootCmd.AddCommand(pathCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(cacheCmd())
	rootCmd.AddCommand(simulateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ros2privacygraph version %s\n", version)
			fmt.Println("Static privacy-flow analysis for SROS2 access-control policies")
		},
	}
}
