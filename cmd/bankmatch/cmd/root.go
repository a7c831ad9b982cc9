package cmd

import (
	"fmt"
	"os"

	"bank-matching-engine/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bankmatch",
	Short: "Bank transaction matching engine",
	Long: `Bankmatch scores bank statement transactions against ledger candidate
entries across several analysis layers (amount, date, reference, party name,
description, transaction type) and ranks candidates by composite confidence.

Examples:
  bankmatch match --transactions-file statement.csv --candidates-file ledger.csv
  bankmatch match -t statement.csv -c ledger.csv --output-format json -o report.json
  bankmatch version`,
	Version: getVersionString(),
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in the config file and BANKMATCH_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)

		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
			os.Exit(1)
		}

		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	}

	viper.SetEnvPrefix("BANKMATCH")
	viper.AutomaticEnv()

	if viper.GetBool("verbose") {
		if log, err := logger.NewLogger(logger.DebugConfig()); err == nil {
			logger.SetGlobalLogger(log)
		}
	}
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

func getVersionString() string {
	if version == "dev" {
		return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	}
	return version
}
