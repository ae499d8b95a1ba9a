package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dmitriimaksimovdevelop/healthai/internal/advisor"
	"github.com/dmitriimaksimovdevelop/healthai/internal/generator"
	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
	"github.com/dmitriimaksimovdevelop/healthai/internal/output"
	"github.com/dmitriimaksimovdevelop/healthai/internal/session"
)

type fakeAdvisor struct {
	err      error
	reply    string
	lastChat []advisor.ChatExchange
	patient  *advisor.PatientInfo
	trends   advisor.TrendData
}

func (f *fakeAdvisor) GenerateText(_ context.Context, _ string, _ int) (string, error) {
	return f.reply, f.err
}

func (f *fakeAdvisor) AnalyzeSymptoms(_ context.Context, symptoms []string, p *advisor.PatientInfo) (*advisor.SymptomAnalysis, error) {
	f.patient = p
	if f.err != nil {
		return nil, f.err
	}
	return &advisor.SymptomAnalysis{Analysis: f.reply, Symptoms: symptoms, Timestamp: time.Now()}, nil
}

func (f *fakeAdvisor) GenerateTreatmentPlan(_ context.Context, condition string, p *advisor.PatientInfo) (*advisor.TreatmentPlan, error) {
	f.patient = p
	if f.err != nil {
		return nil, f.err
	}
	return &advisor.TreatmentPlan{Plan: f.reply, Condition: condition, Timestamp: time.Now()}, nil
}

func (f *fakeAdvisor) ChatResponse(_ context.Context, _ string, history []advisor.ChatExchange) (string, error) {
	f.lastChat = history
	return f.reply, f.err
}

func (f *fakeAdvisor) AnalyzeTrends(_ context.Context, data advisor.TrendData) (string, error) {
	f.trends = data
	return f.reply, f.err
}

func newTestServer(t *testing.T, adv advisor.Advisor) (*Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := New(session.New(), adv, nil)
	return s, s.Router()
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealthz(t *testing.T) {
	_, router := newTestServer(t, nil)
	w := do(router, "GET", "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRanges(t *testing.T) {
	_, router := newTestServer(t, nil)
	w := do(router, "GET", "/api/ranges", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Ranges []model.MetricRange `json:"ranges"`
	}
	decode(t, w, &body)
	assert.Equal(t, model.MetricRanges(), body.Ranges)
}

func TestClassify(t *testing.T) {
	_, router := newTestServer(t, nil)

	tests := []struct {
		query  string
		code   int
		status model.Status
	}{
		{"metric=heart_rate&value=72", http.StatusOK, model.StatusNormal},
		{"metric=heart_rate&value=55", http.StatusOK, model.StatusLow},
		{"metric=blood_glucose&value=140", http.StatusOK, model.StatusHigh},
		{"metric=nonsense&value=1", http.StatusOK, model.StatusUnknown},
		{"metric=heart_rate&value=abc", http.StatusBadRequest, ""},
		{"value=1", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		w := do(router, "GET", "/api/classify?"+tt.query, "")
		require.Equal(t, tt.code, w.Code, tt.query)
		if tt.code != http.StatusOK {
			continue
		}
		var st model.MetricStatus
		decode(t, w, &st)
		assert.Equal(t, tt.status, st.Status, tt.query)
	}
}

func TestScore(t *testing.T) {
	_, router := newTestServer(t, nil)

	w := do(router, "POST", "/api/score", `{"heart_rate": 110, "oxygen_saturation": 92}`)
	require.Equal(t, http.StatusOK, w.Code)
	var res scoreResponse
	decode(t, w, &res)
	assert.Equal(t, 70, res.Score)
	assert.Equal(t, model.RiskModerate, res.Risk)
	assert.Len(t, res.Deductions, 2)
	assert.Equal(t, 120.0, res.Snapshot.BloodPressureSystolic)

	w = do(router, "POST", "/api/score", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &res)
	assert.Equal(t, 100, res.Score)

	w = do(router, "POST", "/api/score", `[1,2]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRisk(t *testing.T) {
	_, router := newTestServer(t, nil)

	w := do(router, "GET", "/api/risk?score=65", "")
	require.Equal(t, http.StatusOK, w.Code)
	var tier model.RiskTier
	decode(t, w, &tier)
	assert.Equal(t, model.RiskModerate, tier)

	w = do(router, "GET", "/api/risk?score=high", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardEmptySeries(t *testing.T) {
	_, router := newTestServer(t, nil)

	w := do(router, "GET", "/api/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)
	var d model.Dashboard
	decode(t, w, &d)
	assert.False(t, d.HasData)
	assert.Equal(t, 100, d.HealthScore)
	assert.Equal(t, "30d", d.Period)
}

func TestRegenerateAndDashboard(t *testing.T) {
	s, router := newTestServer(t, nil)

	w := do(router, "POST", "/api/series/regenerate?days=45&seed=7", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 45, s.sess.Series().Len())

	w = do(router, "GET", "/api/dashboard?period=7d&distributions=true&bins=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	var d model.Dashboard
	decode(t, w, &d)
	assert.True(t, d.HasData)
	assert.Equal(t, 7, d.Days)
	assert.Len(t, d.Distributions, len(model.SeriesMetrics))

	for _, q := range []string{"days=0", "days=366", "days=x", "seed=abc"} {
		w = do(router, "POST", "/api/series/regenerate?"+q, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestAppendSample(t *testing.T) {
	s, router := newTestServer(t, nil)

	w := do(router, "POST", "/api/series/samples", `{"date":"2026-05-01T00:00:00Z","heart_rate":72,"blood_pressure_systolic":118,"blood_glucose":92,"oxygen_saturation":99}`)
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Days  int `json:"days"`
		Score int `json:"score"`
	}
	decode(t, w, &res)
	assert.Equal(t, 1, res.Days)
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, 1, s.sess.Series().Len())
}

func TestAppendPartialSampleUsesDefaults(t *testing.T) {
	s, router := newTestServer(t, nil)

	w := do(router, "POST", "/api/series/samples", `{"date":"2026-05-02T00:00:00Z","heart_rate":72}`)
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Score    int                  `json:"score"`
		Statuses []model.MetricStatus `json:"statuses"`
	}
	decode(t, w, &res)
	assert.Equal(t, 100, res.Score)
	for _, st := range res.Statuses {
		assert.Equal(t, model.StatusNormal, st.Status, st.Metric)
	}

	latest, ok := s.sess.Latest()
	require.True(t, ok)
	assert.Equal(t, 72, latest.HeartRate)
	assert.Equal(t, model.DefaultSample().Weight, latest.Weight)
}

func TestExportCSV(t *testing.T) {
	s, router := newTestServer(t, nil)
	s.sess.ReplaceSeries(generator.Generate(5, generator.Options{Seed: 1}))

	w := do(router, "GET", "/api/export.csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")

	series, err := output.ReadCSV(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 5, series.Len())
}

func TestExportXLSX(t *testing.T) {
	s, router := newTestServer(t, nil)
	s.sess.ReplaceSeries(generator.Generate(3, generator.Options{Seed: 1}))

	w := do(router, "GET", "/api/export.xlsx", "")
	require.Equal(t, http.StatusOK, w.Code)

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(output.VitalsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	assert.Equal(t, model.Columns(), rows[0])
}

func TestProfileEndpoints(t *testing.T) {
	s, router := newTestServer(t, nil)

	w := do(router, "PUT", "/api/profile", `{"age": 45, "gender": "Male"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 45, s.sess.Profile().Age)
	assert.Equal(t, "None", s.sess.Profile().Allergies)

	w = do(router, "GET", "/api/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"gender":"Male"`)
}

func TestSymptoms(t *testing.T) {
	adv := &fakeAdvisor{reply: "likely a cold"}
	s, router := newTestServer(t, adv)

	w := do(router, "POST", "/api/symptoms", `{"symptoms":["sneezing"],"text":"Runny Nose"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Analysis   string   `json:"analysis"`
		Symptoms   []string `json:"symptoms"`
		Conditions []string `json:"conditions"`
	}
	decode(t, w, &res)
	assert.Equal(t, "likely a cold", res.Analysis)
	assert.Equal(t, []string{"sneezing", "runny nose"}, res.Symptoms)
	assert.Equal(t, []string{"allergies", "cold"}, res.Conditions)
	assert.Len(t, s.sess.Predictions(), 1)
	// No patient in the request: the session profile is used.
	require.NotNil(t, adv.patient)
	assert.Equal(t, 30, adv.patient.Age)

	w = do(router, "POST", "/api/symptoms", `{"symptoms":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTreatment(t *testing.T) {
	adv := &fakeAdvisor{reply: "plan"}
	s, router := newTestServer(t, adv)

	w := do(router, "POST", "/api/treatment", `{"condition":"Migraine","patient":{"age":50}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"plan":"plan"`)
	assert.Equal(t, 50, adv.patient.Age)
	assert.Len(t, s.sess.Treatments(), 1)

	w = do(router, "POST", "/api/treatment", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatKeepsHistory(t *testing.T) {
	adv := &fakeAdvisor{reply: "hello there"}
	s, router := newTestServer(t, adv)

	for i := 0; i < 3; i++ {
		w := do(router, "POST", "/api/chat", fmt.Sprintf(`{"message":"msg %d"}`, i))
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Len(t, adv.lastChat, 2)
	assert.Len(t, s.sess.ChatHistory(), 3)

	w := do(router, "GET", "/api/chat/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "msg 2")

	w = do(router, "POST", "/api/chat", `{"message":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrends(t *testing.T) {
	adv := &fakeAdvisor{reply: "stable"}
	s, router := newTestServer(t, adv)

	w := do(router, "POST", "/api/trends", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.sess.ReplaceSeries(generator.Generate(20, generator.Options{Seed: 3}))
	w = do(router, "POST", "/api/trends", `{"period":"7d"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"analysis":"stable"`)
	assert.Equal(t, 7, adv.trends.Breaches[0].Total)
}

func TestAdvisorErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("x: %w", advisor.ErrAuth), http.StatusUnauthorized},
		{fmt.Errorf("x: %w", advisor.ErrTimeout), http.StatusGatewayTimeout},
		{fmt.Errorf("x: %w", advisor.ErrRemoteUnavailable), http.StatusBadGateway},
	}
	for _, tt := range tests {
		_, router := newTestServer(t, &fakeAdvisor{err: tt.err})
		w := do(router, "POST", "/api/chat", `{"message":"hi"}`)
		assert.Equal(t, tt.code, w.Code, tt.err.Error())
		assert.Contains(t, w.Body.String(), `"error"`)
	}
}

func TestAdvisorDisabled(t *testing.T) {
	_, router := newTestServer(t, nil)
	w := do(router, "POST", "/api/chat", `{"message":"hi"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestLimitBodySize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(limitBodySize(10))
	router.POST("/echo", func(c *gin.Context) {
		if _, err := c.GetRawData(); err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too large"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	assert.Equal(t, http.StatusOK, do(router, "POST", "/echo", "12345").Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, do(router, "POST", "/echo", "01234567890").Code)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	s := New(session.New(), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
