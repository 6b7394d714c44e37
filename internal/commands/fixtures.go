// internal/commands/fixtures.go
package evalon

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mwiater/evalon/internal/fixtures"
)

// fixturesCmd groups fixture-suite related CLI commands.
var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Group commands for inspecting fixture suites",
}

// fixturesShowCmd dumps the active fixture suite.
var fixturesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active fixture suite (builtin or --fixtures)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		path := ""
		if cfg != nil {
			path = cfg.FixturesPath
		}
		suite, err := fixtures.Resolve(path)
		if err != nil {
			return err
		}
		pp.Println(suite)
		return nil
	},
}

// fixturesValidateCmd validates a fixture suite file against the schema.
var fixturesValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a fixture suite JSON file against the schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		suite, err := fixtures.Load(args[0])
		if err != nil {
			return err
		}
		color.New(color.FgGreen).Printf("%s is a valid fixture suite: %s (v%s)\n", args[0], suite.Name, suite.Version)
		fmt.Printf("  performance prompts: %d\n", len(suite.PerformancePrompts))
		fmt.Printf("  quality cases:       %d\n", len(suite.QualityCases))
		fmt.Printf("  hallucination probes: %d\n", len(suite.HallucinationProbes))
		fmt.Printf("  mmlu/truthfulqa/hellaswag: %d/%d/%d\n", len(suite.MMLU), len(suite.TruthfulQA), len(suite.HellaSwag))
		return nil
	},
}

func init() {
	fixturesCmd.AddCommand(fixturesShowCmd)
	fixturesCmd.AddCommand(fixturesValidateCmd)
	rootCmd.AddCommand(fixturesCmd)
}
