// Package repl is the interactive health-assistant chat shell.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/dmitriimaksimovdevelop/healthai/internal/advisor"
	"github.com/dmitriimaksimovdevelop/healthai/internal/analytics"
	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
	"github.com/dmitriimaksimovdevelop/healthai/internal/output"
	"github.com/dmitriimaksimovdevelop/healthai/internal/session"
)

// errExit ends the loop.
var errExit = errors.New("exit")

// CommandHandler handles a slash command.
type CommandHandler func(ctx context.Context, args []string) error

// Config holds REPL configuration.
type Config struct {
	Advisor advisor.Advisor
	Session *session.Session
	Out     io.Writer // defaults to stdout
}

// REPL is the interactive shell. Lines starting with "/" are commands;
// anything else is sent to the advisor as a chat message.
type REPL struct {
	advisor  advisor.Advisor
	sess     *session.Session
	out      io.Writer
	commands map[string]CommandHandler
}

// New creates a REPL.
func New(cfg *Config) (*REPL, error) {
	if cfg.Advisor == nil {
		return nil, fmt.Errorf("advisor is required")
	}
	if cfg.Session == nil {
		return nil, fmt.Errorf("session is required")
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	r := &REPL{
		advisor:  cfg.Advisor,
		sess:     cfg.Session,
		out:      out,
		commands: make(map[string]CommandHandler),
	}
	r.registerCommands()
	return r, nil
}

// Run starts the REPL loop.
func (r *REPL) Run(ctx context.Context) error {
	cyan := color.New(color.FgCyan).SprintFunc()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cyan("you> "),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		AutoComplete:      r.completer(),
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	r.printWelcome()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			} else if err == io.EOF {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := r.processInput(ctx, line); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			red := color.New(color.FgRed).SprintFunc()
			fmt.Fprintf(r.out, "%s %v\n", red("Error:"), err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// processInput handles one trimmed, non-empty line.
func (r *REPL) processInput(ctx context.Context, line string) error {
	if !strings.HasPrefix(line, "/") {
		return r.chat(ctx, line)
	}
	parts := strings.Fields(line)
	name := strings.TrimPrefix(parts[0], "/")
	handler, ok := r.commands[name]
	if !ok {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Fprintf(r.out, "%s unknown command /%s. Use /help for available commands.\n", yellow("Note:"), name)
		return nil
	}
	return handler(ctx, parts[1:])
}

func (r *REPL) chat(ctx context.Context, message string) error {
	reply, err := r.advisor.ChatResponse(ctx, message, r.sess.Exchanges())
	if err != nil {
		return errors.New(advisor.StatusText(err))
	}
	r.sess.AddChat(message, reply)
	r.printReply(reply)
	return nil
}

func (r *REPL) printReply(text string) {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(r.out, "%s %s\n\n", green("assistant>"), text)
}

// registerCommands registers all built-in commands.
func (r *REPL) registerCommands() {
	r.commands["help"] = r.cmdHelp
	r.commands["?"] = r.cmdHelp
	r.commands["exit"] = r.cmdExit
	r.commands["quit"] = r.cmdExit
	r.commands["history"] = r.cmdHistory
	r.commands["clear"] = r.cmdClear
	r.commands["symptoms"] = r.cmdSymptoms
	r.commands["treatment"] = r.cmdTreatment
	r.commands["trends"] = r.cmdTrends
	r.commands["score"] = r.cmdScore
	r.commands["profile"] = r.cmdProfile
}

func (r *REPL) completer() readline.AutoCompleter {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	items := make([]readline.PrefixCompleterInterface, len(names))
	for i, name := range names {
		items[i] = readline.PcItem("/" + name)
	}
	return readline.NewPrefixCompleter(items...)
}

func (r *REPL) printWelcome() {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintf(r.out, "\n%s\n", cyan("AI Health Assistant"))
	fmt.Fprintln(r.out, "Ask any health question. Responses are informational, not medical advice.")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Type /help for commands, /exit to quit")
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdHelp(_ context.Context, _ []string) error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(r.out, "\n%s\n\n", cyan("Available Commands:"))

	commands := []struct {
		name string
		desc string
	}{
		{"/help, /?", "Show this help message"},
		{"/symptoms a, b, c", "Analyze a comma-separated symptom list"},
		{"/treatment <condition>", "Generate a treatment plan"},
		{"/trends [period]", "Analyze vital trends (" + strings.Join(analytics.PeriodNames(), ", ") + ")"},
		{"/score hr sys glucose spo2", "Compute the health score; omitted values use defaults"},
		{"/profile", "Show the stored profile"},
		{"/history", "Show the chat history"},
		{"/clear", "Clear the chat history"},
		{"/exit, /quit", "Exit"},
	}
	for _, c := range commands {
		fmt.Fprintf(r.out, "  %-28s %s\n", green(c.name), c.desc)
	}
	fmt.Fprintln(r.out)
	return nil
}

func (r *REPL) cmdExit(_ context.Context, _ []string) error {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(r.out, "\n%s Goodbye!\n", green("✓"))
	return errExit
}

func (r *REPL) cmdHistory(_ context.Context, _ []string) error {
	hist := r.sess.ChatHistory()
	if len(hist) == 0 {
		fmt.Fprintln(r.out, "No chat history yet.")
		return nil
	}
	faint := color.New(color.Faint).SprintFunc()
	for _, h := range hist {
		fmt.Fprintf(r.out, "%s\n  you: %s\n  assistant: %s\n", faint(h.Timestamp.Format("15:04:05")), h.User, h.Assistant)
	}
	return nil
}

func (r *REPL) cmdClear(_ context.Context, _ []string) error {
	r.sess.ClearChat()
	fmt.Fprintln(r.out, "Chat history cleared.")
	return nil
}

func (r *REPL) cmdSymptoms(ctx context.Context, args []string) error {
	symptoms := advisor.ParseSymptoms(strings.Join(args, " "))
	if len(symptoms) == 0 {
		return fmt.Errorf("usage: /symptoms fever, cough")
	}
	res, err := r.advisor.AnalyzeSymptoms(ctx, symptoms, r.sess.Profile().PatientInfo())
	if err != nil {
		return errors.New(advisor.StatusText(err))
	}
	r.sess.AddPrediction(res)
	fmt.Fprintf(r.out, "Symptoms: %s\n", advisor.FormatSymptoms(res.Symptoms))
	if matches := advisor.MatchConditions(res.Symptoms); len(matches) > 0 {
		fmt.Fprintf(r.out, "Commonly associated with: %s\n", strings.Join(matches, ", "))
	}
	r.printReply(res.Analysis)
	return nil
}

func (r *REPL) cmdTreatment(ctx context.Context, args []string) error {
	condition := strings.Join(args, " ")
	if condition == "" {
		return fmt.Errorf("usage: /treatment <condition>")
	}
	plan, err := r.advisor.GenerateTreatmentPlan(ctx, condition, r.sess.Profile().PatientInfo())
	if err != nil {
		return errors.New(advisor.StatusText(err))
	}
	r.sess.AddTreatment(plan)
	r.printReply(plan.Plan)
	return nil
}

func (r *REPL) cmdTrends(ctx context.Context, args []string) error {
	name := analytics.DefaultPeriod
	if len(args) > 0 {
		name = args[0]
	}
	period := analytics.GetPeriod(name)
	window := r.sess.Series().Tail(period.Days)
	if window.Len() == 0 {
		return fmt.Errorf("no vital data loaded")
	}
	text, err := r.advisor.AnalyzeTrends(ctx, advisor.TrendDataFrom(window))
	if err != nil {
		return errors.New(advisor.StatusText(err))
	}
	fmt.Fprintf(r.out, "%s (%d samples)\n", period.Label, window.Len())
	r.printReply(text)
	return nil
}

// cmdScore takes up to four positional values: heart rate, systolic,
// glucose, SpO2. "-" skips a position.
func (r *REPL) cmdScore(_ context.Context, args []string) error {
	keys := []string{
		model.MetricHeartRate,
		model.MetricBloodPressureSystolic,
		model.MetricBloodGlucose,
		model.MetricOxygenSaturation,
	}
	if len(args) > len(keys) {
		return fmt.Errorf("usage: /score [hr] [systolic] [glucose] [spo2]")
	}
	vitals := make(map[string]float64)
	for i, a := range args {
		if a == "-" {
			continue
		}
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", keys[i], a)
		}
		vitals[keys[i]] = v
	}
	snap := model.SnapshotFromMap(vitals)
	score := model.ComputeHealthScore(snap)
	output.WriteScore(r.out, score, model.RiskLevel(score), model.ScoreDeductions(snap))
	return nil
}

func (r *REPL) cmdProfile(_ context.Context, _ []string) error {
	p := r.sess.Profile()
	fmt.Fprintf(r.out, "Age: %d\nGender: %s\nConditions: %s\nMedications: %s\nAllergies: %s\n",
		p.Age, p.Gender, p.Conditions, p.Medications, p.Allergies)
	if bmi, ok := advisor.BMI(p.WeightKg, p.HeightCm); ok {
		fmt.Fprintf(r.out, "BMI: %.1f (%s)\n", bmi, advisor.BMICategory(bmi))
	}
	return nil
}
