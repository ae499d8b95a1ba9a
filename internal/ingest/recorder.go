// Package ingest records vital samples arriving over MQTT into a session.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
	"github.com/dmitriimaksimovdevelop/healthai/internal/session"
)

// QoS used for vital samples: at least once.
const QoS byte = 1

// ErrEmptySample is returned for payloads that carry no vital values.
var ErrEmptySample = errors.New("sample has no vital values")

// Subscriber is the part of an MQTT client the Recorder needs.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler MessageHandler) error
	Unsubscribe(topics ...string) error
}

// Publisher is the part of an MQTT client PublishSeries needs.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// Payload is the wire form of one sample. Date accepts YYYY-MM-DD or
// RFC 3339; a missing date means today (UTC).
type Payload struct {
	Date                   string   `json:"date,omitempty"`
	HeartRate              *int     `json:"heart_rate,omitempty"`
	BloodPressureSystolic  *int     `json:"blood_pressure_systolic,omitempty"`
	BloodPressureDiastolic *int     `json:"blood_pressure_diastolic,omitempty"`
	BloodGlucose           *int     `json:"blood_glucose,omitempty"`
	Temperature            *float64 `json:"temperature,omitempty"`
	OxygenSaturation       *int     `json:"oxygen_saturation,omitempty"`
	Weight                 *float64 `json:"weight,omitempty"`
}

// PayloadFrom converts a sample to its wire form.
func PayloadFrom(s model.VitalSample) Payload {
	return Payload{
		Date:                   s.Date.Format(model.DateLayout),
		HeartRate:              &s.HeartRate,
		BloodPressureSystolic:  &s.BloodPressureSystolic,
		BloodPressureDiastolic: &s.BloodPressureDiastolic,
		BloodGlucose:           &s.BloodGlucose,
		Temperature:            &s.Temperature,
		OxygenSaturation:       &s.OxygenSaturation,
		Weight:                 &s.Weight,
	}
}

// DecodeSample parses a JSON payload into a sample. Columns the payload
// leaves out take their model.DefaultSample values, so a partial reading is
// never scored as zeros.
func DecodeSample(data []byte, now time.Time) (model.VitalSample, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return model.VitalSample{}, fmt.Errorf("decode sample: %w", err)
	}

	s := model.DefaultSample()
	set := 0
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
			set++
		}
	}
	setFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
			set++
		}
	}
	setInt(&s.HeartRate, p.HeartRate)
	setInt(&s.BloodPressureSystolic, p.BloodPressureSystolic)
	setInt(&s.BloodPressureDiastolic, p.BloodPressureDiastolic)
	setInt(&s.BloodGlucose, p.BloodGlucose)
	setFloat(&s.Temperature, p.Temperature)
	setInt(&s.OxygenSaturation, p.OxygenSaturation)
	setFloat(&s.Weight, p.Weight)
	if set == 0 {
		return model.VitalSample{}, ErrEmptySample
	}

	switch {
	case p.Date == "":
		s.Date = now.UTC().Truncate(24 * time.Hour)
	default:
		d, err := time.Parse(model.DateLayout, p.Date)
		if err != nil {
			d, err = time.Parse(time.RFC3339, p.Date)
		}
		if err != nil {
			return model.VitalSample{}, fmt.Errorf("decode sample: bad date %q", p.Date)
		}
		s.Date = d.UTC()
	}
	return s, nil
}

// Recorder appends decoded samples to a session.
type Recorder struct {
	sess *session.Session
	log  *zap.Logger
	now  func() time.Time
}

// NewRecorder creates a Recorder writing into sess.
func NewRecorder(sess *session.Session, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{sess: sess, log: log, now: time.Now}
}

// HandleMessage implements MessageHandler. Malformed payloads are logged and
// reported; the session is left unchanged.
func (r *Recorder) HandleMessage(topic string, payload []byte) error {
	sample, err := DecodeSample(payload, r.now())
	if err != nil {
		r.log.Warn("skipping malformed sample", zap.String("topic", topic), zap.Error(err))
		return err
	}

	n := r.sess.AppendSample(sample)
	score := model.ComputeHealthScore(model.SnapshotFromSample(sample))
	fields := []zap.Field{
		zap.String("topic", topic),
		zap.String("date", sample.Date.Format(model.DateLayout)),
		zap.Int("samples", n),
		zap.Int("score", score),
		zap.String("risk", model.RiskLevel(score).Label),
	}
	for _, st := range model.ClassifySample(sample) {
		if st.Status != model.StatusNormal {
			fields = append(fields, zap.String(st.Metric, string(st.Status)))
		}
	}
	r.log.Info("sample recorded", fields...)
	return nil
}

// Run subscribes to topic and records samples until ctx is canceled.
func (r *Recorder) Run(ctx context.Context, sub Subscriber, topic string) error {
	if err := sub.Subscribe(topic, QoS, r.HandleMessage); err != nil {
		return err
	}
	r.log.Info("ingest started", zap.String("topic", topic))

	<-ctx.Done()

	if err := sub.Unsubscribe(topic); err != nil {
		r.log.Warn("unsubscribe failed", zap.Error(err))
	}
	r.log.Info("ingest stopped", zap.Int("samples", r.sess.Series().Len()))
	return nil
}

// PublishSeries sends every sample of series to topic, oldest first.
func PublishSeries(ctx context.Context, pub Publisher, topic string, series model.VitalSeries) error {
	for i, s := range series {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := json.Marshal(PayloadFrom(s))
		if err != nil {
			return fmt.Errorf("encode sample %d: %w", i, err)
		}
		if err := pub.Publish(topic, QoS, false, data); err != nil {
			return err
		}
	}
	return nil
}
