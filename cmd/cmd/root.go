// Package cmd defines the careerly CLI.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"careerly/internal/config"
	"careerly/internal/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "careerly",
	Short: "Careerly is the AI career-coaching backend.",
	Long: `Careerly generates and refreshes AI-driven industry insights and
interview practice quizzes for the career-coaching web app.

Run "careerly serve" to start the HTTP API with the weekly refresh
scheduler, or use the subcommands for one-off operations.`,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./careerly.yaml or $HOME/.careerly.yaml)")
}

// initConfig reads the config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".careerly")
	}

	viper.AutomaticEnv()
	config.SetDefaults()

	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("config file loaded", "path", viper.ConfigFileUsed())
	}
}
