// internal/commands/benchmark.go
package evalon

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mwiater/evalon/internal/appconfig"
	"github.com/mwiater/evalon/internal/benchmarks"
	"github.com/mwiater/evalon/internal/fixtures"
	"github.com/mwiater/evalon/internal/logging"
	"github.com/mwiater/evalon/internal/providerfactory"
	"github.com/mwiater/evalon/internal/providers"
	"github.com/mwiater/evalon/internal/tui"
)

// benchmarkCmd represents the benchmark command.
var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Run the MMLU/TruthfulQA/HellaSwag samples for models defined in the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBenchmarks(GetConfig())
	},
}

func init() {
	rootCmd.AddCommand(benchmarkCmd)
}

func runBenchmarks(cfg *appconfig.Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if len(cfg.Hosts) == 0 {
		return fmt.Errorf("benchmark runs require at least one host in the configuration")
	}

	suite, err := fixtures.Resolve(cfg.FixturesPath)
	if err != nil {
		return err
	}
	logging.LogEvent("Using fixture suite %s (v%s)", suite.Name, suite.Version)

	results := make(map[string]benchmarks.Result)
	for _, host := range cfg.Hosts {
		client, err := providerfactory.NewChatClient(cfg, host)
		if err != nil {
			return fmt.Errorf("error creating client for host %s: %w", host.Name, err)
		}

		for _, model := range host.Models {
			result, err := benchmarkModel(cfg, client, host, model, suite)
			if err != nil {
				_ = client.Close()
				return err
			}
			results[model] = result
			printBenchmarkSummary(result)
		}

		_ = client.Close()
	}

	if len(results) == 0 {
		return fmt.Errorf("benchmark runs require at least one model in the configuration")
	}

	path, err := benchmarks.WriteResults(results, suite.Name)
	if err != nil {
		return err
	}
	fmt.Printf("Benchmark results saved to: %s\n", path)

	return nil
}

func benchmarkModel(cfg *appconfig.Config, client providers.ChatClient, host appconfig.Host, model string, suite fixtures.Suite) (benchmarks.Result, error) {
	if err := warmModel(client, host, model); err != nil {
		return benchmarks.Result{}, err
	}

	r := benchmarks.NewRunner(client, host, model, suite)

	if cfg.PlainMode {
		r.Progress = func(stage, prompt string, current, total int) {
			logging.LogEvent("[%s] %d/%d %s", stage, current, total, prompt)
		}
		return r.RunAll(context.Background())
	}

	runner := tui.NewRunner(fmt.Sprintf("Benchmarking %s on %s", model, host.Name))
	r.Progress = runner.Report

	var result benchmarks.Result
	err := runner.Run(func() error {
		var runErr error
		result, runErr = r.RunAll(context.Background())
		return runErr
	})
	return result, err
}

func printBenchmarkSummary(result benchmarks.Result) {
	bold := color.New(color.Bold)
	bold.Printf("\nBENCHMARK SUMMARY: %s\n", result.Model)
	fmt.Printf("  MMLU:       %.1f%% (%d/%d)\n", result.MMLU.Score*100, result.MMLU.Correct, result.MMLU.QuestionsTested)
	fmt.Printf("  TruthfulQA: %.1f%% (%d/%d)\n", result.TruthfulQA.Score*100, result.TruthfulQA.Correct, result.TruthfulQA.QuestionsTested)
	fmt.Printf("  HellaSwag:  %.1f%% (%d/%d)\n", result.HellaSwag.Score*100, result.HellaSwag.Correct, result.HellaSwag.QuestionsTested)
	color.New(color.FgCyan).Printf("  Aggregate:  %.1f%%\n", result.Aggregate*100)
}
