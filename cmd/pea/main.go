package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/Starsku/pea-helper/internal/calculation"
	"github.com/Starsku/pea-helper/internal/config"
	"github.com/Starsku/pea-helper/internal/output"
	"github.com/Starsku/pea-helper/internal/rates"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "pea %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(os.Stdout, info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "pea",
	Short: "PEA social contributions calculator",
	Long:  "Computes the social contributions (CSG, CRDS, PS, CAPS, CRSA, PSOL) due on a withdrawal from a French equity savings plan, replaying the plan's history across the historical rate periods.",
}

// loadRateTable returns the table named by --rates, or the built-in
// historical table when the flag is empty.
func loadRateTable(cmd *cobra.Command) (*rates.Table, error) {
	ratesFile, _ := cmd.Flags().GetString("rates")
	if ratesFile == "" {
		return rates.Default(), nil
	}
	return rates.Load(ratesFile)
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [input-file]",
	Short: "Price a withdrawal from a plan history file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]

		parser := config.NewInputParser()
		input, err := parser.LoadFromFile(inputFile)
		if err != nil {
			log.Fatal(err)
		}

		table, err := loadRateTable(cmd)
		if err != nil {
			log.Fatal(err)
		}

		engine := calculation.NewEngineWithTable(table)
		result, err := engine.ComputeWithdrawal(input.ToPlan(), input.Withdrawal.Amount, input.EffectiveAsOf())
		if err != nil {
			log.Fatal(err)
		}

		outputFormat, _ := cmd.Flags().GetString("format")
		f := output.GetFormatterByName(outputFormat)
		if f == nil {
			log.Fatalf("unknown output format %q (valid: %v)", outputFormat, output.FormatterNames())
		}
		data, err := f.Format(result)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(string(data))
	},
}

var bordereauCmd = &cobra.Command{
	Use:   "bordereau [input-file]",
	Short: "Generate the PDF statement of the contribution bases",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]

		parser := config.NewInputParser()
		input, err := parser.LoadFromFile(inputFile)
		if err != nil {
			log.Fatal(err)
		}

		table, err := loadRateTable(cmd)
		if err != nil {
			log.Fatal(err)
		}

		plan := input.ToPlan()
		engine := calculation.NewEngineWithTable(table)
		result, err := engine.ComputeWithdrawal(plan, input.Withdrawal.Amount, input.EffectiveAsOf())
		if err != nil {
			log.Fatal(err)
		}

		data, err := output.RenderBordereau(result, plan)
		if err != nil {
			log.Fatal(err)
		}

		outFile, _ := cmd.Flags().GetString("out")
		if err := os.WriteFile(outFile, data, 0o644); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Bordereau written to %s\n", outFile)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate a plan history file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]

		parser := config.NewInputParser()
		_, err := parser.LoadFromFile(inputFile)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("Input file %s is valid\n", inputFile)
	},
}

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Print the rate table in force for each period",
	Run: func(cmd *cobra.Command, args []string) {
		table, err := loadRateTable(cmd)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("%-28s %7s %7s %7s %7s %7s %7s %8s\n",
			"PERIODE", "CSG", "CRDS", "PS", "CAPS", "CRSA", "PSOL", "TOTAL")
		for _, p := range table.Periods() {
			r := p.Rates
			fmt.Printf("%-28s %6s%% %6s%% %6s%% %6s%% %6s%% %6s%% %7s%%\n",
				p.Label(),
				r.CSG.StringFixed(2), r.CRDS.StringFixed(2), r.PS.StringFixed(2),
				r.CAPS.StringFixed(2), r.CRSA.StringFixed(2), r.PSOL.StringFixed(2),
				r.Total.StringFixed(2))
		}
	},
}

func init() {
	calculateCmd.Flags().StringP("format", "f", "console", "Output format (console, json, csv)")
	calculateCmd.Flags().String("rates", "", "Path to a rate table file (default: built-in historical table)")

	bordereauCmd.Flags().StringP("out", "o", "bordereau.pdf", "Output PDF path")
	bordereauCmd.Flags().String("rates", "", "Path to a rate table file (default: built-in historical table)")

	ratesCmd.Flags().String("rates", "", "Path to a rate table file (default: built-in historical table)")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(bordereauCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
