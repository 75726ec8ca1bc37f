package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/sonido-tajweed/audio"
	"github.com/RyanBlaney/sonido-tajweed/config"
	"github.com/RyanBlaney/sonido-tajweed/engine"
	"github.com/RyanBlaney/sonido-tajweed/logging"
	"github.com/RyanBlaney/sonido-tajweed/transcode"
)

// app carries the state shared by every subcommand once flags are parsed
type app struct {
	configFile string
	logLevel   string
	logFormat  string
	output     string

	viper   *viper.Viper
	cfg     *config.Config
	engine  *engine.Engine
	decoder *transcode.Decoder
	logger  logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{viper: config.NewViper()}

	rootCmd := &cobra.Command{
		Use:   "tajweed",
		Short: "Offline Tajweed acoustic analysis",
		Long: `Extracts acoustic features from WAV recordings of Quranic recitation,
aligns a recitation against a reference with dynamic time warping, and scores
four Tajweed rules (madd, makharij, ghunna, qalqalah) with threshold heuristics.

Examples:
  tajweed extract recitation.wav
  tajweed compare user.wav reference.wav --output yaml
  tajweed analyze user.wav reference.wav --config tajweed.yaml
  tajweed detect recitation.wav --rules madd,qalqalah
  tajweed segment recitation.wav --boundaries 1.2,2.8 --texts bism,allah,rahman`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "YAML config file (defaults plus TAJWEED_* environment when empty)")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "text", "log format (text, json)")
	flags.StringVarP(&a.output, "output", "o", "json", "output format (json, yaml, table)")

	rootCmd.AddCommand(
		newExtractCmd(a),
		newCompareCmd(a),
		newAnalyzeCmd(a),
		newDetectCmd(a),
		newInfoCmd(a),
		newSegmentCmd(a),
	)

	return rootCmd
}

// initialize resolves configuration, logging and the engine after flags are parsed
func (a *app) initialize(cmd *cobra.Command) error {
	if err := bindFlags(cmd, a.viper); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	if a.configFile != "" {
		a.viper.SetConfigFile(a.configFile)
		if err := a.viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", a.configFile, err)
		}
	}

	cfg, err := config.FromViper(a.viper)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(a.viper.GetString("log-level"))
	if err != nil {
		return err
	}

	logger := logging.NewZapLogger(os.Stderr, a.viper.GetString("log-format") == "json")
	logger.SetLevel(level)
	logging.SetGlobalLogger(logger)
	a.logger = logger.WithFields(logging.Fields{
		"component": "cli",
		"command":   cmd.Name(),
	})

	a.output = a.viper.GetString("output")
	if !validOutput(a.output) {
		return fmt.Errorf("unsupported output format %q", a.output)
	}

	a.engine, err = engine.New(cfg, logger)
	if err != nil {
		return err
	}
	a.decoder = transcode.NewDecoder(transcode.DefaultDecoderConfig())

	a.logger.Debug("Initialized", logging.Fields{
		"config_file": a.configFile,
		"estimator":   cfg.Analysis.Estimator,
		"transform":   cfg.Analysis.Transform,
	})

	return nil
}

// load decodes a WAV file into a mono buffer
func (a *app) load(path string) (*audio.Buffer, error) {
	data, err := a.decoder.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return data.Buffer, nil
}

// bindFlags binds the global flags to viper so TAJWEED_LOG_LEVEL and
// friends apply when the flag is not given
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.Root().PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || f.Name == "help" {
			return
		}

		if err := v.BindPFlag(f.Name, f); err != nil {
			lastErr = err
		}

		envVar := config.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		if err := v.BindEnv(f.Name, envVar); err != nil {
			lastErr = err
		}
	})

	return lastErr
}
