package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmitriimaksimovdevelop/healthai/internal/analytics"
	"github.com/dmitriimaksimovdevelop/healthai/internal/generator"
	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
	"github.com/dmitriimaksimovdevelop/healthai/internal/output"
	"github.com/dmitriimaksimovdevelop/healthai/internal/session"
)

// Bounds for POST /api/series/regenerate.
const (
	defaultDays = 30
	maxDays     = 365
)

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func (s *Server) handleRanges(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ranges": model.MetricRanges()})
}

func (s *Server) handleClassify(c *gin.Context) {
	metric := c.Query("metric")
	if metric == "" {
		badRequest(c, "metric is required")
		return
	}
	value, err := strconv.ParseFloat(c.Query("value"), 64)
	if err != nil {
		badRequest(c, "value must be a number")
		return
	}
	c.JSON(http.StatusOK, model.ClassifyMetric(metric, value))
}

type scoreResponse struct {
	Snapshot   model.Snapshot    `json:"snapshot"`
	Score      int               `json:"score"`
	Risk       model.RiskTier    `json:"risk"`
	Deductions []model.Deduction `json:"deductions"`
}

func (s *Server) handleScore(c *gin.Context) {
	var vitals map[string]float64
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&vitals); err != nil {
			badRequest(c, "body must be a JSON object of metric values")
			return
		}
	}
	snap := model.SnapshotFromMap(vitals)
	score := model.ComputeHealthScore(snap)
	c.JSON(http.StatusOK, scoreResponse{
		Snapshot:   snap,
		Score:      score,
		Risk:       model.RiskLevel(score),
		Deductions: model.ScoreDeductions(snap),
	})
}

func (s *Server) handleRisk(c *gin.Context) {
	score, err := strconv.Atoi(c.Query("score"))
	if err != nil {
		badRequest(c, "score must be an integer")
		return
	}
	c.JSON(http.StatusOK, model.RiskLevel(score))
}

func (s *Server) handleDashboard(c *gin.Context) {
	bins, _ := strconv.Atoi(c.Query("bins"))
	d := s.dash.Build(s.sess.Series(), analytics.Options{
		Period:        c.DefaultQuery("period", analytics.DefaultPeriod),
		Distributions: c.Query("distributions") == "true",
		Bins:          bins,
	})
	c.JSON(http.StatusOK, d)
}

func (s *Server) handleExportCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := output.WriteCSV(&buf, s.sess.Series()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", attachment("csv"))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

func (s *Server) handleExportXLSX(c *gin.Context) {
	var buf bytes.Buffer
	if err := output.WriteXLSX(&buf, s.sess.Series()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", attachment("xlsx"))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func attachment(ext string) string {
	return fmt.Sprintf(`attachment; filename="health_data_%s.%s"`, time.Now().Format("20060102"), ext)
}

func (s *Server) handleRegenerate(c *gin.Context) {
	days := defaultDays
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxDays {
			badRequest(c, fmt.Sprintf("days must be between 1 and %d", maxDays))
			return
		}
		days = n
	}
	var seed int64
	if v := c.Query("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			badRequest(c, "seed must be an integer")
			return
		}
		seed = n
	}

	series := generator.Generate(days, generator.Options{Seed: seed})
	s.sess.ReplaceSeries(series)
	s.log.Info("series regenerated", zap.Int("days", days))
	c.JSON(http.StatusOK, gin.H{"days": series.Len()})
}

// handleAppendSample decodes onto model.DefaultSample, so omitted columns keep
// their normal defaults.
func (s *Server) handleAppendSample(c *gin.Context) {
	sample := model.DefaultSample()
	if err := c.ShouldBindJSON(&sample); err != nil {
		badRequest(c, "invalid sample")
		return
	}
	if sample.Date.IsZero() {
		sample.Date = time.Now().UTC().Truncate(24 * time.Hour)
	}
	n := s.sess.AppendSample(sample)
	score := model.ComputeHealthScore(model.SnapshotFromSample(sample))
	c.JSON(http.StatusOK, gin.H{
		"days":     n,
		"score":    score,
		"risk":     model.RiskLevel(score),
		"statuses": model.ClassifySample(sample),
	})
}

func (s *Server) handleGetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, s.sess.Profile())
}

func (s *Server) handlePutProfile(c *gin.Context) {
	p := session.DefaultProfile()
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "invalid profile")
		return
	}
	s.sess.SetProfile(p)
	c.JSON(http.StatusOK, p)
}
