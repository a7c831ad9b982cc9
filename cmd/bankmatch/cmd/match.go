package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"bank-matching-engine/internal/matcher"
	"bank-matching-engine/internal/recon"
	"bank-matching-engine/internal/reporter"
	"bank-matching-engine/internal/scoring"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the match command
var (
	transactionsFile string
	candidatesFile   string
	outputFormat     string
	outputFile       string
	minConfidence    float64
	maxResults       int
	showProgress     bool
	includeFactors   bool
)

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match bank transactions against ledger candidates",
	Long: `Match scores every bank statement transaction against the ledger
candidate pool, ranks qualifying candidates by confidence, and reports the
disposition of each transaction: matched, needs review, or needs manual check.

This command requires:
- A bank transactions file (CSV format)
- A ledger candidates file (CSV format)

Examples:
  # Basic matching with console output
  bankmatch match --transactions-file statement.csv --candidates-file ledger.csv

  # JSON report to a file
  bankmatch match -t statement.csv -c ledger.csv \
    --output-format json --output-file report.json

  # Stricter threshold, top candidate only
  bankmatch match -t statement.csv -c ledger.csv \
    --min-confidence 0.5 --max-results 1

  # With progress logging and diagnostic factors
  bankmatch match -t statement.csv -c ledger.csv --progress --factors`,

	PreRunE: validateMatchFlags,
	RunE:    runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringVarP(&transactionsFile, "transactions-file", "t", "", "path to bank transactions CSV file (required)")
	matchCmd.Flags().StringVarP(&candidatesFile, "candidates-file", "c", "", "path to ledger candidates CSV file (required)")

	matchCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv")
	matchCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")

	matchCmd.Flags().Float64Var(&minConfidence, "min-confidence", 0.25, "confidence threshold, candidates must score strictly above it")
	matchCmd.Flags().IntVar(&maxResults, "max-results", 0, "maximum candidates reported per transaction (0 = all)")

	matchCmd.Flags().BoolVar(&showProgress, "progress", false, "log progress during long runs")
	matchCmd.Flags().BoolVar(&includeFactors, "factors", false, "include diagnostic factors in console/CSV output")

	matchCmd.MarkFlagRequired("transactions-file")
	matchCmd.MarkFlagRequired("candidates-file")

	viper.BindPFlag("transactions-file", matchCmd.Flags().Lookup("transactions-file"))
	viper.BindPFlag("candidates-file", matchCmd.Flags().Lookup("candidates-file"))
	viper.BindPFlag("output-format", matchCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", matchCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("min-confidence", matchCmd.Flags().Lookup("min-confidence"))
	viper.BindPFlag("max-results", matchCmd.Flags().Lookup("max-results"))
	viper.BindPFlag("progress", matchCmd.Flags().Lookup("progress"))
	viper.BindPFlag("factors", matchCmd.Flags().Lookup("factors"))
}

func validateMatchFlags(cmd *cobra.Command, args []string) error {
	// Viper values win so the config file and BANKMATCH_* env vars apply.
	transactionsFile = viper.GetString("transactions-file")
	candidatesFile = viper.GetString("candidates-file")
	outputFormat = viper.GetString("output-format")
	outputFile = viper.GetString("output-file")
	minConfidence = viper.GetFloat64("min-confidence")
	maxResults = viper.GetInt("max-results")
	showProgress = viper.GetBool("progress")
	includeFactors = viper.GetBool("factors")

	if transactionsFile == "" {
		return fmt.Errorf("transactions-file is required")
	}
	if candidatesFile == "" {
		return fmt.Errorf("candidates-file is required")
	}

	if err := validateFileExists(transactionsFile, "transactions file"); err != nil {
		return err
	}
	if err := validateFileExists(candidatesFile, "candidates file"); err != nil {
		return err
	}

	if !reporter.OutputFormat(outputFormat).IsValid() {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", outputFormat)
	}

	if minConfidence < 0 || minConfidence > 1 {
		return fmt.Errorf("min-confidence must be between 0.0 and 1.0, got %g", minConfidence)
	}
	if maxResults < 0 {
		return fmt.Errorf("max-results cannot be negative")
	}

	if outputFile != "" {
		dir := filepath.Dir(outputFile)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	return nil
}

func validateFileExists(filePath, description string) error {
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", description, filePath)
	}
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", description, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file: %s", description, filePath)
	}
	return nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Transactions file: %s\n", transactionsFile)
		fmt.Fprintf(os.Stderr, "Candidates file: %s\n", candidatesFile)
		fmt.Fprintf(os.Stderr, "Output format: %s\n", outputFormat)
	}

	matchingConfig := matcher.DefaultMatchingConfig()
	matchingConfig.MinConfidence = minConfidence
	matchingConfig.MaxResults = maxResults

	serviceConfig := recon.DefaultConfig()
	serviceConfig.ProgressReporting = showProgress

	service, err := recon.NewService(matchingConfig, serviceConfig, nil)
	if err != nil {
		return err
	}

	result, err := service.Run(ctx, &recon.Request{
		TransactionsFile: transactionsFile,
		CandidatesFile:   candidatesFile,
	})
	if err != nil {
		return err
	}

	reportConfig := reporter.DefaultReportConfig()
	reportConfig.Format = reporter.OutputFormat(outputFormat)
	reportConfig.IncludeFactors = includeFactors

	generator, err := reporter.NewReportGenerator(reportConfig)
	if err != nil {
		return err
	}

	output := os.Stdout
	if outputFile != "" {
		output, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	}

	if err := generator.GenerateReport(result, output); err != nil {
		return err
	}

	if viper.GetBool("verbose") {
		s := result.Summary
		fmt.Fprintf(os.Stderr, "\nProcessed %d transactions against %d candidates.\n",
			s.TotalTransactions, s.TotalCandidates)
		fmt.Fprintf(os.Stderr, "Matched: %d, review: %d, manual: %d.\n",
			s.Matched, s.NeedsReview, s.NeedsManualCheck)
		if n := s.CategoryCounts[scoring.CategoryDarkGreen]; n > 0 {
			fmt.Fprintf(os.Stderr, "High-certainty matches: %d\n", n)
		}
		fmt.Fprintf(os.Stderr, "Processing time: %v\n", s.ProcessingDuration)
	}

	return nil
}
