// vfs is an interactive shell for a simulated single-disk file
// system held entirely in memory. Nothing persists; the disk and
// every account vanish on exit.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/rstms/vfs"
	"github.com/rstms/vfs/session"
	"github.com/rstms/vfs/shell"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configFile string
	diskSize   int64
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "vfs",
	Short: "In-memory virtual file system shell",
	Long: `vfs simulates a single-disk file system entirely in memory:
user accounts, per-user directory trees, and file contents backed by
a fixed-size virtual disk with a file allocation table.

Commands: register, login, logout, dir, create, del, open, close,
read, write, cd, md, rd, diskusage, showfat.`,
	SilenceUsage: true,
	RunE:         runShell,
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file (default vfs.yaml when present)")
	rootCmd.Flags().Int64Var(&diskSize, "disk-size", 0, "disk size in bytes (overrides config)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func newLogger(level string) (*zap.Logger, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = zapcore.InfoLevel
	}

	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(l)
	config.OutputPaths = []string{"stderr"}

	return config.Build()
}

func runShell(cmd *cobra.Command, args []string) error {
	cfg, err := shell.LoadConfig(configFile)
	if err != nil {
		return err
	}
	if diskSize > 0 {
		cfg.DiskSize = diskSize
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	disk, err := vfs.NewMemDisk(cfg.DiskSize)
	if err != nil {
		return err
	}
	defer disk.Close()

	store := session.NewStore(disk, logger)
	sh := shell.New(store)

	repl := liner.NewLiner()
	defer repl.Close()
	repl.SetCtrlCAborts(true)
	repl.SetCompleter(func(prefix string) []string {
		var matches []string
		for _, name := range shell.Commands() {
			if strings.HasPrefix(name, strings.ToLower(prefix)) {
				matches = append(matches, name)
			}
		}
		return matches
	})

	if cfg.HistoryFile != "" {
		if f, err := os.Open(cfg.HistoryFile); err == nil {
			repl.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Println(shell.Banner())
	for {
		input, err := repl.Prompt(cfg.Prompt)
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println()
				break
			}
			return fmt.Errorf("reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		repl.AppendHistory(input)

		if strings.EqualFold(input, "exit") {
			break
		}
		if out := sh.Dispatch(input); out != "" {
			fmt.Println(out)
		}
	}

	if cfg.HistoryFile != "" {
		if f, err := os.Create(cfg.HistoryFile); err == nil {
			repl.WriteHistory(f)
			f.Close()
		}
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
