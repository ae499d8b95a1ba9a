package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmitriimaksimovdevelop/healthai/internal/advisor"
	"github.com/dmitriimaksimovdevelop/healthai/internal/analytics"
)

// advisorStatus maps an advisory failure to the HTTP status returned to the
// caller.
func advisorStatus(err error) int {
	switch {
	case errors.Is(err, advisor.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, advisor.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) advisorError(c *gin.Context, op string, err error) {
	s.log.Warn("advisor request failed", zap.String("op", op), zap.Error(err))
	c.JSON(advisorStatus(err), gin.H{"error": advisor.StatusText(err)})
}

func (s *Server) requireAdvisor(c *gin.Context) bool {
	if s.advisor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "advisor disabled"})
		return false
	}
	return true
}

// patientFor returns the request's patient context or, when absent, the
// session profile.
func (s *Server) patientFor(p *advisor.PatientInfo) *advisor.PatientInfo {
	if p != nil {
		return p
	}
	return s.sess.Profile().PatientInfo()
}

type symptomsRequest struct {
	Symptoms []string             `json:"symptoms"`
	Text     string               `json:"text"`
	Patient  *advisor.PatientInfo `json:"patient"`
}

func (s *Server) handleSymptoms(c *gin.Context) {
	if !s.requireAdvisor(c) {
		return
	}
	var req symptomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	symptoms := append(req.Symptoms, advisor.ParseSymptoms(req.Text)...)
	if len(symptoms) == 0 {
		badRequest(c, "at least one symptom is required")
		return
	}

	res, err := s.advisor.AnalyzeSymptoms(c.Request.Context(), symptoms, s.patientFor(req.Patient))
	if err != nil {
		s.advisorError(c, "symptoms", err)
		return
	}
	rec := s.sess.AddPrediction(res)
	c.JSON(http.StatusOK, gin.H{
		"id":         rec.ID,
		"analysis":   res.Analysis,
		"symptoms":   res.Symptoms,
		"conditions": advisor.MatchConditions(res.Symptoms),
		"timestamp":  res.Timestamp,
	})
}

type treatmentRequest struct {
	Condition string               `json:"condition"`
	Patient   *advisor.PatientInfo `json:"patient"`
}

func (s *Server) handleTreatment(c *gin.Context) {
	if !s.requireAdvisor(c) {
		return
	}
	var req treatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Condition == "" {
		badRequest(c, "condition is required")
		return
	}

	plan, err := s.advisor.GenerateTreatmentPlan(c.Request.Context(), req.Condition, s.patientFor(req.Patient))
	if err != nil {
		s.advisorError(c, "treatment", err)
		return
	}
	rec := s.sess.AddTreatment(plan)
	c.JSON(http.StatusOK, gin.H{"id": rec.ID, "condition": plan.Condition, "plan": plan.Plan, "timestamp": plan.Timestamp})
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(c *gin.Context) {
	if !s.requireAdvisor(c) {
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		badRequest(c, "message is required")
		return
	}

	reply, err := s.advisor.ChatResponse(c.Request.Context(), req.Message, s.sess.Exchanges())
	if err != nil {
		s.advisorError(c, "chat", err)
		return
	}
	rec := s.sess.AddChat(req.Message, reply)
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleChatHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": s.sess.ChatHistory()})
}

type trendsRequest struct {
	Period string `json:"period"`
}

func (s *Server) handleTrends(c *gin.Context) {
	if !s.requireAdvisor(c) {
		return
	}
	var req trendsRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request")
			return
		}
	}
	period := analytics.GetPeriod(req.Period)
	window := s.sess.Series().Tail(period.Days)
	if window.Len() == 0 {
		badRequest(c, "no vital data recorded")
		return
	}

	data := advisor.TrendDataFrom(window)
	text, err := s.advisor.AnalyzeTrends(c.Request.Context(), data)
	if err != nil {
		s.advisorError(c, "trends", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": period.Name, "analysis": text, "breaches": data.Breaches})
}
