/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.1.0"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "prosemark",
	Short: "Offset-exact keyphrase analysis for web content",
	Long: `A CLI application that parses HTML content into an offset-annotated tree,
counts keyphrase occurrences sentence by sentence and reports highlight
marks whose positions map back to the original markup.

Locale rules cover case folding, letter equivalences, word joiners and
sentence segmentation. Japanese content is tokenized morphologically.

Use "prosemark analyze --help" for analysis options.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default $HOME/.prosemark.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("locale", "en", "Content locale (e.g. en_US, tr_TR, ja) or \"auto\"")
	rootCmd.PersistentFlags().String("db", "./data/prosemark.db", "Word form database path")

	viper.BindPFlag("locale", rootCmd.PersistentFlags().Lookup("locale"))
	viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))

	viper.SetDefault("format", "text")
	viper.SetDefault("workers", 4)
	viper.SetDefault("timeout", "30s")
}

// initConfig reads the config file and PROSEMARK_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".prosemark")
	}

	viper.SetEnvPrefix("PROSEMARK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

func initLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
