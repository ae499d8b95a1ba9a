package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmitriimaksimovdevelop/healthai/internal/analytics"
	diffpkg "github.com/dmitriimaksimovdevelop/healthai/internal/diff"
	"github.com/dmitriimaksimovdevelop/healthai/internal/ingest"
	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
	"github.com/dmitriimaksimovdevelop/healthai/internal/output"
)

func newDashboardCmd(a *app) *cobra.Command {
	var (
		src     seriesFlags
		period  string
		asJSON  bool
		dist    bool
		binsArg int
	)
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show latest statuses, health score, statistics and breaches",
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := src.load()
			if err != nil {
				return err
			}
			d := analytics.New(a.log).Build(series, analytics.Options{
				Period:        period,
				Distributions: dist,
				Bins:          binsArg,
			})
			if asJSON {
				return output.EncodeJSON(cmd.OutOrStdout(), d)
			}
			output.WriteDashboard(cmd.OutOrStdout(), d)
			return nil
		},
	}
	src.register(cmd)
	cmd.Flags().StringVarP(&period, "period", "p", analytics.DefaultPeriod, "Look-back window: 7d, 14d, 30d, 90d")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the dashboard as JSON")
	cmd.Flags().BoolVar(&dist, "distributions", false, "Include per-metric histograms (JSON only)")
	cmd.Flags().IntVar(&binsArg, "bins", model.DefaultBins, "Histogram bins")
	return cmd
}

func newScoreCmd(a *app) *cobra.Command {
	var (
		hr, systolic, glucose, spo2 float64
		asJSON                      bool
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the health score for a set of vitals",
		Long:  "Compute the 0-100 health score and risk tier. Omitted vitals take normal defaults (hr 75, systolic 120, glucose 95, SpO2 98).",
		RunE: func(cmd *cobra.Command, args []string) error {
			vitals := make(map[string]float64)
			for flag, metric := range map[string]string{
				"hr":       model.MetricHeartRate,
				"systolic": model.MetricBloodPressureSystolic,
				"glucose":  model.MetricBloodGlucose,
				"spo2":     model.MetricOxygenSaturation,
			} {
				if !cmd.Flags().Changed(flag) {
					continue
				}
				v, _ := cmd.Flags().GetFloat64(flag)
				vitals[metric] = v
			}
			snap := model.SnapshotFromMap(vitals)
			score := model.ComputeHealthScore(snap)
			tier := model.RiskLevel(score)
			deductions := model.ScoreDeductions(snap)

			if asJSON {
				return output.EncodeJSON(cmd.OutOrStdout(), map[string]any{
					"snapshot":   snap,
					"score":      score,
					"risk":       tier,
					"deductions": deductions,
				})
			}
			output.WriteScore(cmd.OutOrStdout(), score, tier, deductions)
			return nil
		},
	}
	cmd.Flags().Float64Var(&hr, "hr", 0, "Heart rate (bpm)")
	cmd.Flags().Float64Var(&systolic, "systolic", 0, "Systolic blood pressure (mmHg)")
	cmd.Flags().Float64Var(&glucose, "glucose", 0, "Blood glucose (mg/dL)")
	cmd.Flags().Float64Var(&spo2, "spo2", 0, "Oxygen saturation (%)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func newClassifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <metric> <value>",
		Short: "Classify one value against its normal range",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("value %q is not a number", args[1])
			}
			st := model.ClassifyMetric(args[0], value)
			output.WriteStatuses(cmd.OutOrStdout(), []model.MetricStatus{st})
			return nil
		},
	}
}

func newRangesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ranges",
		Short: "List normal ranges",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, r := range model.MetricRanges() {
				fmt.Fprintf(w, "  %-26s %g-%g %s\n", r.Metric, r.Low, r.High, r.Unit)
			}
			return nil
		},
	}
}

func newGenerateCmd(a *app) *cobra.Command {
	var (
		src     seriesFlags
		out     string
		format  string
		publish bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic vital series",
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := src.load()
			if err != nil {
				return err
			}
			if publish {
				return publishSeries(a, series)
			}
			return writeSeries(cmd.OutOrStdout(), series, out, format)
		},
	}
	src.register(cmd)
	cmd.Flags().StringVarP(&out, "output", "o", "-", "Output file path (- for stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "csv, xlsx or json (default: from extension, else csv)")
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish samples to MQTT_BROKER on MQTT_TOPIC instead of writing")
	return cmd
}

func publishSeries(a *app, series model.VitalSeries) error {
	if a.cfg.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is not set")
	}
	client, err := ingest.NewClient(ingest.ClientConfig{
		Broker:   a.cfg.MQTTBroker,
		ClientID: a.cfg.MQTTClientID + "-publisher",
	}, nil)
	if err != nil {
		return err
	}
	defer client.Disconnect()

	ctx, stop := signalContext()
	defer stop()
	if err := ingest.PublishSeries(ctx, client, a.cfg.MQTTTopic, series); err != nil {
		return err
	}
	a.log.Info("series published", zap.String("topic", a.cfg.MQTTTopic), zap.Int("samples", series.Len()))
	return nil
}

func newExportCmd(a *app) *cobra.Command {
	var (
		src    seriesFlags
		out    string
		format string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a vital series as CSV, XLSX or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := src.load()
			if err != nil {
				return err
			}
			return writeSeries(cmd.OutOrStdout(), series, out, format)
		},
	}
	src.register(cmd)
	cmd.Flags().StringVarP(&out, "output", "o", "-", "Output file path (- for stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "csv, xlsx or json (default: from extension, else csv)")
	return cmd
}

func newDiffCmd(a *app) *cobra.Command {
	var diffOutput string
	cmd := &cobra.Command{
		Use:   "diff <baseline.csv> <current.csv>",
		Short: "Compare two vital series",
		Long:  "Compare per-metric means, breach rates and the latest health score of two series.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseline, err := output.LoadCSV(args[0])
			if err != nil {
				return fmt.Errorf("load baseline: %w", err)
			}
			current, err := output.LoadCSV(args[1])
			if err != nil {
				return fmt.Errorf("load current: %w", err)
			}

			result := diffpkg.Compare(baseline, current)
			if diffOutput == "-" {
				fmt.Fprint(cmd.OutOrStdout(), diffpkg.FormatDiff(result))
				return nil
			}
			return output.WriteJSON(result, diffOutput)
		},
	}
	cmd.Flags().StringVarP(&diffOutput, "output", "o", "-", "Write the diff as JSON to this path (- prints text)")
	return cmd
}
