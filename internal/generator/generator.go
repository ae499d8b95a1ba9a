// Package generator produces synthetic vital series for demos and tests.
package generator

import (
	"math"
	"math/rand"
	"time"

	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
)

// Options controls generation. The zero value generates a random series
// ending today.
type Options struct {
	Seed int64     // 0 picks a time-based seed
	End  time.Time // last sample date; zero means today
}

// normal describes one generated column.
type normal struct {
	mean, sd float64
}

var (
	heartRate   = normal{75, 10}
	systolic    = normal{120, 15}
	diastolic   = normal{80, 10}
	glucose     = normal{95, 15}
	temperature = normal{98.6, 0.5}
	oxygen      = normal{98, 2}
	weight      = normal{70, 2}
)

// Generate returns days samples, one per calendar day, ending at opts.End.
// days <= 0 yields an empty series. Values are not clamped.
func Generate(days int, opts Options) model.VitalSeries {
	if days <= 0 {
		return model.VitalSeries{}
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	end := opts.End
	if end.IsZero() {
		end = time.Now()
	}
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -(days - 1))

	out := make(model.VitalSeries, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, model.VitalSample{
			Date:                   start.AddDate(0, 0, i),
			HeartRate:              heartRate.intn(rng),
			BloodPressureSystolic:  systolic.intn(rng),
			BloodPressureDiastolic: diastolic.intn(rng),
			BloodGlucose:           glucose.intn(rng),
			Temperature:            temperature.round1(rng),
			OxygenSaturation:       oxygen.intn(rng),
			Weight:                 weight.round1(rng),
		})
	}
	return out
}

func (n normal) draw(rng *rand.Rand) float64 {
	return n.mean + rng.NormFloat64()*n.sd
}

// intn truncates toward zero, like an integer cast of the draw.
func (n normal) intn(rng *rand.Rand) int {
	return int(n.draw(rng))
}

func (n normal) round1(rng *rand.Rand) float64 {
	return math.Round(n.draw(rng)*10) / 10
}
