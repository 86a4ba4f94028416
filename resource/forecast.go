package resource

import (
	"math/rand"
	"sync"
	"time"
)

const forecastDays = 5

// Summaries describe how a temperature feels.
var Summaries = []string{
	"Freezing", "Bracing", "Chilly", "Cool", "Mild", "Warm", "Balmy", "Hot", "Sweltering", "Scorching",
}

// A Forecast is one day of sample weather.
type Forecast struct {
	Date         string `json:"date"`
	TemperatureC int    `json:"temperatureC"`
	TemperatureF int    `json:"temperatureF"`
	Summary      string `json:"summary"`
}

// Fahrenheit converts c the way the forecast reports it, truncating toward zero.
func Fahrenheit(c int) int {
	return 32 + int(float64(c)/0.5556)
}

// A Forecaster generates sample forecasts.
// It is safe for concurrent use.
type Forecaster struct {
	mu   sync.Mutex
	intn func(n int) int
	now  func() time.Time
}

// NewForecaster constructs a Forecaster drawing from rnd and dating forecasts from now.
//
// A nil rnd or now uses the package-level source or time.Now.
func NewForecaster(rnd *rand.Rand, now func() time.Time) *Forecaster {
	f := &Forecaster{intn: rand.Intn, now: now}
	if rnd != nil {
		f.intn = rnd.Intn
	}
	if f.now == nil {
		f.now = time.Now
	}

	return f
}

// Next returns forecasts for the five days after today.
//
// Temperatures fall in [-20, 55) °C.
func (f *Forecaster) Next() []Forecast {
	f.mu.Lock()
	defer f.mu.Unlock()

	today := f.now()
	out := make([]Forecast, 0, forecastDays)
	for i := 1; i <= forecastDays; i++ {
		c := f.intn(75) - 20
		out = append(out, Forecast{
			Date:         today.AddDate(0, 0, i).Format(time.DateOnly),
			TemperatureC: c,
			TemperatureF: Fahrenheit(c),
			Summary:      Summaries[f.intn(len(Summaries))],
		})
	}

	return out
}
