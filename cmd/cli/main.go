package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes read by cmd/benchmark
const (
	exitFeasible   = 10
	exitInfeasible = 15
)

var exitCode = 0

var rootCmd = &cobra.Command{
	Use:   "timetable",
	Short: "Genetic timetable generator",
	Long: `timetable places every weekly session of a set of courses into a day x period grid,
choosing a room and a qualified faculty member for each one, with a genetic algorithm.
Hard constraints (no clashes, capacity, qualification, availability, load) must hold;
soft constraints (idle gaps, uneven days, preferred times) are minimized.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(viper.GetString("log-level"))}))
		slog.SetDefault(logger)
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}

func initConfig() {
	viper.SetEnvPrefix("TIMETABLING")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func registerCommands() {
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(evaluateCmd())
	rootCmd.AddCommand(sampleCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(serveCmd())
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
