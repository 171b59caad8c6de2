package cmd

import (
	"github.com/spf13/cobra"
)

var (
	configFile string
	dbURL      string
)

var rootCmd = &cobra.Command{
	Use:   "business-rules",
	Short: "Business rules evaluation service",
	Long:  `Evaluates declarative all/any condition trees against typed variables and reports the actions each triggered rule would fire.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "audit database URL (sqlite://path or postgres://...)")
}

func Execute() error {
	return rootCmd.Execute()
}
