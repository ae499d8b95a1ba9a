package mcp

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/dmitriimaksimovdevelop/healthai/internal/advisor"
	"github.com/dmitriimaksimovdevelop/healthai/internal/analytics"
	"github.com/dmitriimaksimovdevelop/healthai/internal/session"
)

// Server wraps the MCP server instance.
type Server struct {
	mcpServer *server.MCPServer
	tools     *tools
}

// NewServer creates a new MCP server with registered tools. adv may be nil,
// in which case analyze_trends reports that the advisor is disabled.
func NewServer(version string, sess *session.Session, adv advisor.Advisor, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := server.NewMCPServer("healthai", version, server.WithLogging())

	t := &tools{
		sess:    sess,
		advisor: adv,
		dash:    analytics.New(log.Named("analytics")),
		log:     log,
	}
	registerTools(s, t)

	return &Server{
		mcpServer: s,
		tools:     t,
	}
}

// Start runs the server in stdio mode (blocking).
func (s *Server) Start(ctx context.Context) error {
	stdioServer := server.NewStdioServer(s.mcpServer)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// registerTools adds all supported tools to the server.
func registerTools(s *server.MCPServer, t *tools) {
	healthTool := mcp.NewTool("get_health",
		mcp.WithDescription("Compute the 0-100 health score, risk tier, triggered deductions and per-metric status for a vitals snapshot. Omitted vitals take normal defaults (hr 75, systolic 120, glucose 95, SpO2 98)."),
		mcp.WithNumber("heart_rate", mcp.Description("Heart rate in bpm")),
		mcp.WithNumber("blood_pressure_systolic", mcp.Description("Systolic blood pressure in mmHg")),
		mcp.WithNumber("blood_pressure_diastolic", mcp.Description("Diastolic blood pressure in mmHg (classified, not scored)")),
		mcp.WithNumber("blood_glucose", mcp.Description("Blood glucose in mg/dL")),
		mcp.WithNumber("temperature", mcp.Description("Body temperature in °F (classified, not scored)")),
		mcp.WithNumber("oxygen_saturation", mcp.Description("Oxygen saturation in %")),
	)
	s.AddTool(healthTool, t.handleGetHealth)

	classifyTool := mcp.NewTool("classify_metric",
		mcp.WithDescription("Classify one value against its normal range. Returns Low, Normal, High or Unknown with a display color."),
		mcp.WithString("metric",
			mcp.Required(),
			mcp.Description("Metric name (e.g., 'heart_rate', 'blood_glucose'). Use list_metrics to see all."),
		),
		mcp.WithNumber("value", mcp.Required(), mcp.Description("Measured value")),
	)
	s.AddTool(classifyTool, t.handleClassifyMetric)

	listTool := mcp.NewTool("list_metrics",
		mcp.WithDescription("List all metrics with normal ranges and units. Use with explain_metric for details."),
	)
	s.AddTool(listTool, t.handleListMetrics)

	explainTool := mcp.NewTool("explain_metric",
		mcp.WithDescription("Explain what a metric measures and common reasons it runs low or high."),
		mcp.WithString("metric", mcp.Required(), mcp.Description("Metric name from list_metrics")),
	)
	s.AddTool(explainTool, t.handleExplainMetric)

	summarizeTool := mcp.NewTool("summarize_series",
		mcp.WithDescription("Build the dashboard for the session's vital series: latest statuses, score, per-metric statistics, threshold breaches and correlations. Generates a synthetic series first if none is loaded."),
		mcp.WithString("period",
			mcp.Description("Look-back window"),
			mcp.DefaultString(analytics.DefaultPeriod),
			mcp.Enum(analytics.PeriodNames()...),
		),
		mcp.WithNumber("days", mcp.Description("Days to generate when no series is loaded (default 30)")),
		mcp.WithNumber("seed", mcp.Description("Generator seed for reproducible series")),
	)
	s.AddTool(summarizeTool, t.handleSummarizeSeries)

	trendsTool := mcp.NewTool("analyze_trends",
		mcp.WithDescription("Ask the AI advisor for observations and recommendations on the session's vital trends. May take up to a minute."),
		mcp.WithString("period",
			mcp.Description("Look-back window"),
			mcp.DefaultString(analytics.DefaultPeriod),
			mcp.Enum(analytics.PeriodNames()...),
		),
	)
	s.AddTool(trendsTool, t.handleAnalyzeTrends)
}
