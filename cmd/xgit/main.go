package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/xgit-dev/xgit/pkg/config"
	"github.com/xgit-dev/xgit/pkg/repo"
)

var (
	flagDir      string
	flagLogLevel string

	cfg = config.Default()
)

func main() {
	root := &cobra.Command{
		Use:           "xgit",
		Short:         "Explore git repositories through their object database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.LoadDefault()
			if err != nil {
				return err
			}
			cfg = loaded
			repo.DefaultRefCandidates = cfg.DefaultRefCandidates
			level := cfg.LogLevel
			if flagLogLevel != "" {
				level = flagLogLevel
			}
			return setupLogging(level)
		},
	}
	root.PersistentFlags().StringVarP(&flagDir, "dir", "C", ".", "worktree or repository to explore")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newLsCmd())
	root.AddCommand(newPwdCmd())
	root.AddCommand(newCatCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newRefsCmd())
	root.AddCommand(newWorktreesCmd())
	root.AddCommand(newDescribeCmd())
	root.AddCommand(newVerifyCmd())
	root.AddCommand(newShellCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "xgit 0.1.0-dev")
		},
	}
}

func setupLogging(level string) error {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "", "info":
		l = slog.LevelInfo
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
	return nil
}
