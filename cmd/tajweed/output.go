package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sonido-tajweed/algorithms/stats"
	"github.com/RyanBlaney/sonido-tajweed/comparison"
	"github.com/RyanBlaney/sonido-tajweed/engine"
	"github.com/RyanBlaney/sonido-tajweed/features"
	"github.com/RyanBlaney/sonido-tajweed/tajweed"
)

const (
	outputJSON  = "json"
	outputYAML  = "yaml"
	outputTable = "table"
)

func validOutput(format string) bool {
	switch format {
	case outputJSON, outputYAML, outputTable:
		return true
	}
	return false
}

// render writes value to w in the requested format
func render(w io.Writer, format string, value any) error {
	switch format {
	case outputJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	case outputYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			return err
		}
		return encoder.Close()
	case outputTable:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		if err := renderTable(tw, value); err != nil {
			return err
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func renderTable(w io.Writer, value any) error {
	switch v := value.(type) {
	case *features.Record:
		writeRecord(w, v)
	case []namedRecord:
		fmt.Fprintln(w, "FILE\tDURATION\tFRAMES\tMEAN PITCH\tFORMANTS")
		for _, r := range v {
			fmt.Fprintf(w, "%s\t%.3fs\t%d\t%.1f\t%s\n",
				r.File, r.Features.Duration, r.Features.Frames(), stats.Mean(r.Features.Pitch), joinFloats(r.Features.Formants, 0))
		}
	case *comparison.Result:
		fmt.Fprintf(w, "Similarity\t%.4f\n", v.Similarity)
		fmt.Fprintf(w, "Score\t%.2f\n", v.Score)
		fmt.Fprintf(w, "Distance\t%.4f\n", v.Distance)
		fmt.Fprintf(w, "Path length\t%d\n", len(v.Path))
		if v.Metrics.Comparable {
			fmt.Fprintf(w, "Vector distance (%s)\t%.4f\n", v.Metrics.Metric, v.Metrics.VectorDistance)
			fmt.Fprintf(w, "Euclidean\t%.4f\n", v.Metrics.Euclidean)
			fmt.Fprintf(w, "Cosine similarity\t%.4f\n", v.Metrics.CosineSimilarity)
		}
	case *tajweed.Report:
		fmt.Fprintf(w, "Overall score\t%.1f\n", v.OverallScore)
		fmt.Fprintf(w, "Confidence\t%.2f\n", v.Confidence)
		fmt.Fprintln(w, "RULE\tCORRECT\tSUGGESTION")
		for _, f := range v.Findings {
			fmt.Fprintf(w, "%s\t%t\t%s\n", f.Rule, f.Correct, f.Suggestion)
		}
	case *tajweed.Detection:
		fmt.Fprintf(w, "Checked\t%s\n", joinRules(v.Checked))
		fmt.Fprintf(w, "Detected\t%s\n", joinRules(v.Detected))
		if len(v.Unsupported) > 0 {
			fmt.Fprintf(w, "Unsupported\t%s\n", joinRules(v.Unsupported))
		}
	case *engine.Info:
		fmt.Fprintf(w, "Duration\t%.3fs\n", v.Duration)
		fmt.Fprintf(w, "Sample rate\t%d Hz\n", v.SampleRate)
		fmt.Fprintf(w, "Channels\t%d\n", v.Channels)
		fmt.Fprintf(w, "Samples\t%d\n", v.Samples)
	case []engine.Segment:
		fmt.Fprintln(w, "#\tSTART\tEND\tTEXT\tRULES")
		for _, s := range v {
			fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%s\t%s\n", s.Index, s.StartTime, s.EndTime, s.Text, joinRules(s.Rules))
		}
	default:
		return fmt.Errorf("no table layout for %T", value)
	}
	return nil
}

func writeRecord(w io.Writer, r *features.Record) {
	fmt.Fprintf(w, "Duration\t%.3fs\n", r.Duration)
	fmt.Fprintf(w, "Sample rate\t%d Hz\n", r.SampleRate)
	fmt.Fprintf(w, "Frames\t%d\n", r.Frames())
	fmt.Fprintf(w, "Energy blocks\t%d\n", len(r.Energy))
	pitch := stats.Summarize(r.Pitch)
	fmt.Fprintf(w, "Pitch\tmean %.1f, std %.1f, range %.1f-%.1f Hz\n", pitch.Mean, pitch.StdDev, pitch.Min, pitch.Max)
	energy := stats.Summarize(r.Energy)
	fmt.Fprintf(w, "Energy\tmean %.4f, std %.4f, range %.4f-%.4f\n", energy.Mean, energy.StdDev, energy.Min, energy.Max)
	fmt.Fprintf(w, "Mean centroid\t%.1f Hz\n", stats.Mean(r.SpectralCentroid))
	fmt.Fprintf(w, "Formants\t%s\n", joinFloats(r.Formants, 0))
	fmt.Fprintf(w, "Cepstral\t%s\n", joinFloats(r.CepstralCoefficients, 3))
}

func joinRules(rules []tajweed.Rule) string {
	if len(rules) == 0 {
		return "-"
	}
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.String()
	}
	return strings.Join(names, ", ")
}

func joinFloats(values []float64, precision int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%.*f", precision, v)
	}
	return strings.Join(parts, " ")
}
