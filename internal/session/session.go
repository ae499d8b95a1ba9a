// Package session holds the per-user working state: the profile, the current
// vital series and bounded histories of advisory exchanges. A Session is an
// explicit value owned by the caller and safe for concurrent use.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitriimaksimovdevelop/healthai/internal/advisor"
	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
)

// History bounds.
const (
	MaxChatHistory = 10
	MaxPredictions = 5
	MaxTreatments  = 5
)

// ChatRecord is one stored chat exchange.
type ChatRecord struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Assistant string    `json:"assistant"`
	Timestamp time.Time `json:"timestamp"`
}

// PredictionRecord is one stored symptom analysis.
type PredictionRecord struct {
	ID        string    `json:"id"`
	Symptoms  []string  `json:"symptoms"`
	Analysis  string    `json:"analysis"`
	Timestamp time.Time `json:"timestamp"`
}

// TreatmentRecord is one stored treatment plan.
type TreatmentRecord struct {
	ID        string    `json:"id"`
	Condition string    `json:"condition"`
	Plan      string    `json:"plan"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the mutable state of one user.
type Session struct {
	mu          sync.RWMutex
	id          string
	profile     Profile
	series      model.VitalSeries
	chat        []ChatRecord
	predictions []PredictionRecord
	treatments  []TreatmentRecord
	now         func() time.Time
}

// New returns an empty session with the default profile.
func New() *Session {
	return &Session{
		id:      uuid.NewString(),
		profile: DefaultProfile(),
		now:     time.Now,
	}
}

// ID identifies the session.
func (s *Session) ID() string { return s.id }

// Profile returns the current profile.
func (s *Session) Profile() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// SetProfile replaces the profile.
func (s *Session) SetProfile(p Profile) {
	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()
}

// Series returns a copy of the current vital series.
func (s *Session) Series() model.VitalSeries {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.series.Tail(s.series.Len())
}

// ReplaceSeries installs vs as the current series. The caller's slice is
// copied.
func (s *Session) ReplaceSeries(vs model.VitalSeries) {
	cp := vs.Tail(vs.Len())
	s.mu.Lock()
	s.series = cp
	s.mu.Unlock()
}

// Latest returns the most recent sample of the current series.
func (s *Session) Latest() (model.VitalSample, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.series.Latest()
}

// AppendSample replaces the series with one that holds sample in date order
// and returns the new length. A sample for a day already recorded replaces
// that day's reading, so late or repeated deliveries keep the series
// ascending.
func (s *Session) AppendSample(sample model.VitalSample) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.series = s.series.Insert(sample)
	return s.series.Len()
}

// AddChat records an exchange, dropping the oldest beyond MaxChatHistory.
func (s *Session) AddChat(user, assistant string) ChatRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := ChatRecord{ID: uuid.NewString(), User: user, Assistant: assistant, Timestamp: s.now()}
	s.chat = bounded(append(s.chat, rec), MaxChatHistory)
	return rec
}

// ChatHistory returns the stored exchanges, oldest first.
func (s *Session) ChatHistory() []ChatRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ChatRecord(nil), s.chat...)
}

// Exchanges returns the chat history in the form the advisor takes.
func (s *Session) Exchanges() []advisor.ChatExchange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]advisor.ChatExchange, len(s.chat))
	for i, c := range s.chat {
		out[i] = advisor.ChatExchange{User: c.User, Assistant: c.Assistant}
	}
	return out
}

// ClearChat drops the chat history.
func (s *Session) ClearChat() {
	s.mu.Lock()
	s.chat = nil
	s.mu.Unlock()
}

// AddPrediction records a symptom analysis, keeping the last MaxPredictions.
func (s *Session) AddPrediction(a *advisor.SymptomAnalysis) PredictionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := PredictionRecord{
		ID:        uuid.NewString(),
		Symptoms:  append([]string(nil), a.Symptoms...),
		Analysis:  a.Analysis,
		Timestamp: stamp(a.Timestamp, s.now),
	}
	s.predictions = bounded(append(s.predictions, rec), MaxPredictions)
	return rec
}

// Predictions returns the stored analyses, oldest first.
func (s *Session) Predictions() []PredictionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PredictionRecord, len(s.predictions))
	for i, p := range s.predictions {
		p.Symptoms = append([]string(nil), p.Symptoms...)
		out[i] = p
	}
	return out
}

// AddTreatment records a treatment plan, keeping the last MaxTreatments.
func (s *Session) AddTreatment(p *advisor.TreatmentPlan) TreatmentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := TreatmentRecord{
		ID:        uuid.NewString(),
		Condition: p.Condition,
		Plan:      p.Plan,
		Timestamp: stamp(p.Timestamp, s.now),
	}
	s.treatments = bounded(append(s.treatments, rec), MaxTreatments)
	return rec
}

// Treatments returns the stored plans, oldest first.
func (s *Session) Treatments() []TreatmentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]TreatmentRecord(nil), s.treatments...)
}

func bounded[T any](items []T, limit int) []T {
	if len(items) <= limit {
		return items
	}
	out := make([]T, limit)
	copy(out, items[len(items)-limit:])
	return out
}

func stamp(t time.Time, now func() time.Time) time.Time {
	if t.IsZero() {
		return now()
	}
	return t
}
