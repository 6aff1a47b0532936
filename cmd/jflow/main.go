package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jflow-dev/jflow/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "jflow",
		Short: "jflow - control-flow analyzer for Java",
		Long: `jflow builds control-flow graphs for Java methods and reports
unreachable code. Graphs can be exported as text, JSON, YAML or Graphviz DOT.`,
		Version: version.Version,
	}

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				fmt.Println(version.GetFullVersion())
			} else {
				fmt.Printf("jflow version %s\n", version.GetVersion())
			}
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	return cmd
}
