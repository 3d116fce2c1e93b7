package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Andy-177/ve/internal/config"
	"github.com/Andy-177/ve/internal/logger"
	"github.com/Andy-177/ve/internal/repl"
	"github.com/Andy-177/ve/internal/tui"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "ve [file]",
	Short: "A line-oriented text editor driven by textual commands",
	Long: `ve edits one document at a time through discrete commands (open, move,
line, break, write, space, del, copy, paste, save, quit). The root command
runs the console front end; the tui subcommand runs the windowed one.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := logger.Init(debug); err != nil {
			fmt.Fprintln(os.Stderr, "ve: log init:", err)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return repl.New(loadConfig(), os.Stdin, os.Stdout).Run(pathArg(args))
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui [file]",
	Short: "Run the windowed terminal front end",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(loadConfig(), pathArg(args))
	},
}

func pathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("config load failed, using defaults", "error", err)
		return config.Default()
	}
	return cfg
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug-level logs")
	rootCmd.AddCommand(tuiCmd)
}

func main() {
	err := rootCmd.Execute()
	logger.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ve:", err)
		os.Exit(1)
	}
}
