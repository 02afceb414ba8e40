// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the macro-tracker CLI.
// Every subcommand reads its configuration through viper; see config.go.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/macro-tracker/internal/logging"
	"github.com/pdiddy/macro-tracker/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the resolved configuration, populated before any subcommand runs.
	cfg types.Config

	logger *logrus.Logger

	// closeLog releases the logger's file and hooks; set with logger.
	closeLog = func() error { return nil }
)

// rootCmd is the base command for the macro-tracker CLI.
var rootCmd = &cobra.Command{
	Use:   "macro-tracker",
	Short: "Track meal plans and macros backed by FoodData Central",
	Long: `macro-tracker looks up foods in USDA FoodData Central, derives their
protein, carbohydrate, fat, energy and fiber values, and keeps users and meal
plans in a local SQLite database.

The same data is served over HTTP by the serve subcommand.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		l, closeFn, err := logging.New(c.Log)
		if err != nil {
			return err
		}
		logging.SetDefault(l)
		cfg, logger, closeLog = c, l, closeFn
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./macro-tracker.yaml or ~/.config/macro-tracker/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (overrides store.path)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (overrides log.level)")

	_ = viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("macro-tracker")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "macro-tracker"))
		}
	}

	viper.SetEnvPrefix("MACRO_TRACKER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if cerr := closeLog(); cerr != nil {
		fmt.Fprintln(os.Stderr, "closing log:", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}
