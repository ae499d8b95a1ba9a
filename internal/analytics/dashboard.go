// Package analytics assembles dashboard views from a vital series.
package analytics

import (
	"time"

	"go.uber.org/zap"

	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
)

// Options controls one dashboard build.
type Options struct {
	Period        string // period name, see PeriodNames
	Distributions bool   // include per-metric histograms
	Bins          int    // histogram resolution; 0 uses model.DefaultBins
}

// Builder produces dashboards. The zero value is not usable; call New.
type Builder struct {
	log *zap.Logger
	now func() time.Time
}

// New creates a Builder. A nil logger disables logging.
func New(log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{log: log, now: time.Now}
}

// Build computes every derived view for the window of series selected by
// opts.Period. It never fails: an empty window yields a dashboard with
// HasData false, NoData summaries and the score of the default snapshot.
func (b *Builder) Build(series model.VitalSeries, opts Options) *model.Dashboard {
	period := GetPeriod(opts.Period)
	window := series.Tail(period.Days)

	d := &model.Dashboard{
		GeneratedAt: b.now().UTC(),
		Period:      period.Name,
		Days:        window.Len(),
	}

	snap := model.DefaultSnapshot()
	if latest, ok := window.Latest(); ok {
		d.HasData = true
		d.Latest = &latest
		d.Statuses = model.ClassifySample(latest)
		d.Breakdown = model.ScoreBreakdown(latest)
		snap = model.SnapshotFromSample(latest)
	}

	d.HealthScore = model.ComputeHealthScore(snap)
	d.Risk = model.RiskLevel(d.HealthScore)
	d.Deductions = model.ScoreDeductions(snap)
	d.Summaries = model.SummarizeAll(window)

	for _, rule := range model.DefaultBreachRules() {
		d.Breaches = append(d.Breaches, model.CountBreaches(window, rule))
	}
	d.Correlation = model.CorrelationMatrix(window)

	if opts.Distributions {
		d.Distributions = make(map[string]model.Distribution, len(model.SeriesMetrics))
		for _, m := range model.SeriesMetrics {
			d.Distributions[m] = model.Histogram(window, m, opts.Bins)
		}
	}
	if d.HasData {
		d.Insights = model.RuleInsights(model.MeansOf(d.Summaries))
	}

	b.log.Debug("dashboard built",
		zap.String("period", d.Period),
		zap.Int("samples", d.Days),
		zap.Int("score", d.HealthScore),
		zap.String("risk", d.Risk.Label),
		zap.Bool("has_data", d.HasData),
	)
	return d
}
