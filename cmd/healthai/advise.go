package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dmitriimaksimovdevelop/healthai/internal/advisor"
	"github.com/dmitriimaksimovdevelop/healthai/internal/analytics"
	"github.com/dmitriimaksimovdevelop/healthai/internal/output"
	"github.com/dmitriimaksimovdevelop/healthai/internal/repl"
	"github.com/dmitriimaksimovdevelop/healthai/internal/session"
)

const disclaimer = "This is AI-generated information, not medical advice. Consult a healthcare provider."

func writeAdvice(w io.Writer, title, body string) {
	fmt.Fprintln(w, color.New(color.Bold).Sprint(title))
	fmt.Fprintln(w, body)
	fmt.Fprintln(w)
	fmt.Fprintln(w, color.New(color.Faint).Sprint(disclaimer))
}

// advisorError prints the user-facing status line for err and returns err so
// the command exits non-zero.
func advisorError(w io.Writer, err error) error {
	fmt.Fprintln(w, color.RedString(advisor.StatusText(err)))
	return err
}

func newSymptomsCmd(a *app) *cobra.Command {
	var (
		duration string
		severity int
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "symptoms <symptom>[, <symptom>...]",
		Short: "Analyze a list of symptoms",
		Long: `Analyze symptoms with the AI assistant.

Symptoms are comma-separated and may span several arguments:
  healthai symptoms fever, cough, fatigue --duration "1-3 days" --severity 6`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			symptoms := advisor.ParseSymptoms(strings.Join(args, " "))
			if len(symptoms) == 0 {
				return fmt.Errorf("no symptoms given")
			}
			if severity < 0 || severity > 10 {
				return fmt.Errorf("--severity must be between 1 and 10")
			}

			patient := a.sess.Profile().PatientInfo()
			patient.Duration = duration
			patient.Severity = severity

			res, err := a.provider.Advisor().AnalyzeSymptoms(cmd.Context(), symptoms, patient)
			if err != nil {
				return advisorError(w, err)
			}
			a.sess.AddPrediction(res)

			if asJSON {
				return output.EncodeJSON(w, map[string]any{
					"analysis":            res,
					"possible_conditions": advisor.MatchConditions(symptoms),
				})
			}
			if severity > 0 {
				fmt.Fprintf(w, "Severity: %d/10 (%s)\n", severity, advisor.SeverityLabel(severity))
			}
			if matches := advisor.MatchConditions(symptoms); len(matches) > 0 {
				fmt.Fprintf(w, "Related conditions: %s\n", strings.Join(matches, ", "))
			}
			fmt.Fprintln(w)
			writeAdvice(w, "Analysis of: "+advisor.FormatSymptoms(symptoms), res.Analysis)
			return nil
		},
	}
	cmd.Flags().StringVar(&duration, "duration", "", "How long symptoms have lasted (e.g. \"1-3 days\")")
	cmd.Flags().IntVar(&severity, "severity", 0, "Severity 1-10")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func newTreatmentCmd(a *app) *cobra.Command {
	var (
		goals     []string
		intensity string
		notes     string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "treatment <condition>",
		Short: "Generate a treatment plan for a condition",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			condition := strings.TrimSpace(strings.Join(args, " "))
			if condition == "" {
				return fmt.Errorf("condition is required")
			}

			patient := a.sess.Profile().PatientInfo()
			patient.Goals = goals
			patient.Intensity = intensity
			patient.Notes = notes

			plan, err := a.provider.Advisor().GenerateTreatmentPlan(cmd.Context(), condition, patient)
			if err != nil {
				return advisorError(w, err)
			}
			a.sess.AddTreatment(plan)

			if asJSON {
				return output.EncodeJSON(w, plan)
			}
			writeAdvice(w, "Treatment plan: "+plan.Condition, plan.Plan)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&goals, "goals", nil, "Treatment goals (comma-separated)")
	cmd.Flags().StringVar(&intensity, "intensity", "", "Condition severity: Mild, Moderate, Severe, Very Severe")
	cmd.Flags().StringVar(&notes, "notes", "", "Additional notes for the plan")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func newTrendsCmd(a *app) *cobra.Command {
	var (
		src    seriesFlags
		period string
	)
	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Ask the assistant to interpret a vital series",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			series, err := src.load()
			if err != nil {
				return err
			}
			window := series.Tail(analytics.GetPeriod(period).Days)
			if window.Len() == 0 {
				return fmt.Errorf("no samples in the selected period")
			}

			text, err := a.provider.Advisor().AnalyzeTrends(cmd.Context(), advisor.TrendDataFrom(window))
			if err != nil {
				return advisorError(w, err)
			}
			writeAdvice(w, "Trend analysis: "+analytics.GetPeriod(period).Label, text)
			return nil
		},
	}
	src.register(cmd)
	cmd.Flags().StringVarP(&period, "period", "p", analytics.DefaultPeriod, "Look-back window: 7d, 14d, 30d, 90d")
	return cmd
}

func newChatCmd(a *app) *cobra.Command {
	var src seriesFlags
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat with the health assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := src.load()
			if err != nil {
				return err
			}
			a.sess.ReplaceSeries(series)

			r, err := repl.New(&repl.Config{
				Advisor: a.provider.Advisor(),
				Session: a.sess,
				Out:     cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()
			return r.Run(ctx)
		},
	}
	src.register(cmd)
	return cmd
}

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the saved patient profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return output.EncodeJSON(cmd.OutOrStdout(), a.sess.Profile())
		},
	}

	var p session.Profile
	set := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields and save them",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := a.sess.Profile()
			f := cmd.Flags()
			if f.Changed("age") {
				if p.Age < 1 || p.Age > 120 {
					return fmt.Errorf("--age must be between 1 and 120")
				}
				profile.Age = p.Age
			}
			if f.Changed("gender") {
				profile.Gender = p.Gender
			}
			if f.Changed("conditions") {
				profile.Conditions = p.Conditions
			}
			if f.Changed("medications") {
				profile.Medications = p.Medications
			}
			if f.Changed("allergies") {
				profile.Allergies = p.Allergies
			}
			if f.Changed("weight") {
				profile.WeightKg = p.WeightKg
			}
			if f.Changed("height") {
				profile.HeightCm = p.HeightCm
			}
			if err := session.SaveProfile(a.cfg.ProfilePath, profile); err != nil {
				return err
			}
			a.sess.SetProfile(profile)
			return output.EncodeJSON(cmd.OutOrStdout(), profile)
		},
	}
	set.Flags().IntVar(&p.Age, "age", 0, "Age in years")
	set.Flags().StringVar(&p.Gender, "gender", "", "Gender")
	set.Flags().StringVar(&p.Conditions, "conditions", "", "Existing conditions")
	set.Flags().StringVar(&p.Medications, "medications", "", "Current medications")
	set.Flags().StringVar(&p.Allergies, "allergies", "", "Allergies")
	set.Flags().Float64Var(&p.WeightKg, "weight", 0, "Weight (kg)")
	set.Flags().Float64Var(&p.HeightCm, "height", 0, "Height (cm)")

	cmd.AddCommand(set)
	return cmd
}
