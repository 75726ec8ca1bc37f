package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-tajweed/audio"
	"github.com/RyanBlaney/sonido-tajweed/features"
	"github.com/RyanBlaney/sonido-tajweed/logging"
	"github.com/RyanBlaney/sonido-tajweed/tajweed"
	"github.com/RyanBlaney/sonido-tajweed/transcode"
)

func newExtractCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <wav>...",
		Short: "Extract acoustic features from one or more recordings",
		Long: `Extract the feature record (cepstral coefficients, formants, energy,
pitch, spectral centroid and rolloff) of every file. Several files are
processed concurrently, bounded by engine.max_concurrency.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bufs := make([]*audio.Buffer, len(args))
			for i, path := range args {
				buf, err := a.load(path)
				if err != nil {
					return err
				}
				bufs[i] = buf
			}

			records, err := a.engine.ExtractBatch(cmd.Context(), bufs)
			if err != nil {
				return err
			}

			a.logger.Info("Extracted features", logging.Fields{
				"files": len(args),
			})

			if len(records) == 1 {
				return render(cmd.OutOrStdout(), a.output, records[0])
			}

			named := make([]namedRecord, len(records))
			for i, record := range records {
				named[i] = namedRecord{File: args[i], Features: record}
			}
			return render(cmd.OutOrStdout(), a.output, named)
		},
	}
}

func newCompareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <wav> <reference.wav>",
		Short: "Align two recordings and report their similarity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			first, err := a.load(args[0])
			if err != nil {
				return err
			}
			second, err := a.load(args[1])
			if err != nil {
				return err
			}

			result, err := a.engine.Compare(first, second)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, result)
		},
	}
}

func newAnalyzeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <user.wav> <reference.wav>",
		Short: "Score a recitation against a reference for every Tajweed rule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.load(args[0])
			if err != nil {
				return err
			}
			reference, err := a.load(args[1])
			if err != nil {
				return err
			}

			report, err := a.engine.Analyze(user, reference)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, report)
		},
	}
}

func newDetectCmd(a *app) *cobra.Command {
	var ruleNames []string

	cmd := &cobra.Command{
		Use:   "detect <wav>",
		Short: "Report which Tajweed rules are present in a single recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := parseRules(ruleNames)
			if err != nil {
				return err
			}

			buf, err := a.load(args[0])
			if err != nil {
				return err
			}

			detection, err := a.engine.DetectRules(buf, rules...)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, detection)
		},
	}

	cmd.Flags().StringSliceVar(&ruleNames, "rules", nil, "rules to check (madd, makharij, ghunna, qalqalah); default madd,ghunna,qalqalah")
	return cmd
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <wav>",
		Short: "Print duration, sample rate and channel count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decoder := transcode.NewDecoder(&transcode.DecoderConfig{KeepStereo: true})
			data, err := decoder.DecodeFile(args[0])
			if err != nil {
				return err
			}

			info, err := a.engine.Info(data.Buffer)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, info)
		},
	}
}

func newSegmentCmd(a *app) *cobra.Command {
	var (
		boundaries []float64
		texts      []string
	)

	cmd := &cobra.Command{
		Use:   "segment <wav>",
		Short: "Split a recording at cut points and analyze each piece",
		Long: `Split a recording at the given cut points (seconds, ascending) and
extract features and detected rules for every piece. N cut points give N+1
segments; --texts, when set, must label every segment.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := a.load(args[0])
			if err != nil {
				return err
			}

			segments, err := a.engine.Segment(buf, boundaries, texts)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, segments)
		},
	}

	cmd.Flags().Float64SliceVar(&boundaries, "boundaries", nil, "cut points in seconds, e.g. 1.2,2.8")
	cmd.Flags().StringSliceVar(&texts, "texts", nil, "text of each segment")
	return cmd
}

// namedRecord pairs a feature record with the file it came from
type namedRecord struct {
	File     string           `json:"file" yaml:"file"`
	Features *features.Record `json:"features" yaml:"features"`
}

func parseRules(names []string) ([]tajweed.Rule, error) {
	rules := make([]tajweed.Rule, 0, len(names))
	for _, name := range names {
		rule, err := tajweed.ParseRule(name)
		if err != nil {
			return nil, fmt.Errorf("invalid --rules value: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
