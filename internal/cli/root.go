// Package cli implements the mpsc command: a stress and benchmark driver
// for the MPSC channel variants.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/randomizedcoder/go-mpsc/internal/workload"
)

// envPrefix prefixes every environment override, e.g. MPSC_PRODUCERS.
const envPrefix = "MPSC"

// app carries state shared by every subcommand.
type app struct {
	v   *viper.Viper
	log *logrus.Logger
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree with its own configuration.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New(), log: logrus.New()}

	root := &cobra.Command{
		Use:   "mpsc",
		Short: "Stress and benchmark MPSC channel variants",
		Long: `mpsc drives the weak and counted MPSC channels with many producers
and one consumer, verifies that every value arrives exactly once, and
compares their throughput against a buffered Go channel.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is ./mpsc.yaml if present)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text or json")

	def := workload.DefaultConfig()
	flags.Int("producers", def.Producers, "number of producer clones")
	flags.Int("messages", def.Messages, "values sent by each producer")
	flags.Int("workers", def.Workers, "producer goroutines running at once (0 = 4 x GOMAXPROCS)")
	flags.Int("chan-size", def.ChanSize, "buffer size of the Go channel baseline")
	flags.Duration("progress", def.Progress, "consumer progress log interval (0 disables)")

	for _, name := range []string{"config", "log-level", "log-format", "producers", "messages", "workers", "chan-size", "progress"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(newRunCommand(a), newBenchCommand(a))
	return root
}

func (a *app) init(logOut io.Writer) error {
	a.v.SetEnvPrefix(envPrefix)
	// MPSC_CHAN_SIZE for chan-size
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if cfgFile := a.v.GetString("config"); cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		a.v.SetConfigName("mpsc")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
		if err := a.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	return a.initLogger(logOut)
}

func (a *app) initLogger(out io.Writer) error {
	level, err := logrus.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return err
	}
	a.log.SetLevel(level)
	a.log.SetOutput(out)

	switch format := a.v.GetString("log-format"); format {
	case "json":
		a.log.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		a.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	return nil
}

// workloadConfig resolves the workload configuration from flags, env and
// config file, in viper's precedence order.
func (a *app) workloadConfig() (workload.Config, error) {
	cfg := workload.DefaultConfig()
	if err := a.v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// exitCode maps an error to a process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, workload.ErrMismatch) {
		return 2
	}
	return 1
}

// Main runs the command and exits the process.
func Main() {
	err := Execute()
	os.Exit(exitCode(err))
}
