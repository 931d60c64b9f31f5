package sampling

import (
	"time"

	"github.com/ledgerforge/datasynth/internal/ids"
)

// TimeOfDayMode selects how a time-of-day is drawn within a day.
type TimeOfDayMode int

const (
	// BusinessHours draws from a dual-peak mixture around mid-morning
	// and mid-afternoon, for manual/human-entered documents.
	BusinessHours TimeOfDayMode = iota
	// Uniform draws uniformly across the full 24h day, for automated
	// sources.
	Uniform
)

// TemporalConfig parameterizes the temporal sampler.
type TemporalConfig struct {
	Start, End            time.Time
	MonthlySeasonality    [12]float64 // multiplier per calendar month, 1=neutral
	WeekendWeight         float64     // relative weight of a weekend day vs weekday (default 0.3)
	MonthEndSpike         float64     // multiplier for the last 3 days of a month
	QuarterEndSpike       float64     // multiplier for the last 4 days of a quarter-end month
	YearEndSpike          float64     // multiplier for the last 4 days of December
}

// TemporalSampler draws posting dates and times per spec.md §4.2.
type TemporalSampler struct {
	cfg  TemporalConfig
	rng  *ids.Stream
	days []time.Time
	cdf  []float64
}

// NewTemporalSampler builds a sampler seeded from seed.
func NewTemporalSampler(seed uint64, cfg TemporalConfig) *TemporalSampler {
	t := &TemporalSampler{cfg: cfg}
	t.rng = ids.NewStream(seed)
	t.buildDayWeights()
	return t
}

func (t *TemporalSampler) buildDayWeights() {
	if t.cfg.WeekendWeight <= 0 {
		t.cfg.WeekendWeight = 0.3
	}
	if t.cfg.MonthEndSpike <= 0 {
		t.cfg.MonthEndSpike = 1.6
	}
	if t.cfg.QuarterEndSpike <= 0 {
		t.cfg.QuarterEndSpike = 2.0
	}
	if t.cfg.YearEndSpike <= 0 {
		t.cfg.YearEndSpike = 2.4
	}

	start, end := t.cfg.Start, t.cfg.End
	if end.Before(start) {
		start, end = end, start
	}
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	if len(days) == 0 {
		days = []time.Time{start}
	}
	t.days = days
	t.cdf = make([]float64, len(days))

	var total float64
	for i, d := range days {
		w := 1.0
		month := d.Month()
		if t.cfg.MonthlySeasonality != [12]float64{} {
			w *= t.cfg.MonthlySeasonality[month-1]
		}
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
			w *= t.cfg.WeekendWeight
		}
		if isMonthEnd(d, 3) {
			w *= t.cfg.MonthEndSpike
		}
		if isQuarterEnd(d) {
			w *= t.cfg.QuarterEndSpike
		}
		if month == time.December && isMonthEnd(d, 4) {
			w *= t.cfg.YearEndSpike
		}
		total += w
		t.cdf[i] = total
	}
	if total <= 0 {
		total = 1
	}
	for i := range t.cdf {
		t.cdf[i] /= total
	}
}

func isMonthEnd(d time.Time, window int) bool {
	lastDay := time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return d.Day() > lastDay-window
}

func isQuarterEnd(d time.Time) bool {
	switch d.Month() {
	case time.March, time.June, time.September, time.December:
		return isMonthEnd(d, 4)
	}
	return false
}

// Reset returns the sampler to a byte-identical freshly-constructed state.
func (t *TemporalSampler) Reset(seed uint64) {
	t.rng.Reset(seed)
}

// SampleDate draws a posting date weighted per the configured seasonality.
func (t *TemporalSampler) SampleDate() time.Time {
	x := t.rng.Float64()
	lo, hi := 0, len(t.cdf)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if x <= t.cdf[mid] {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return t.days[lo]
}

// SampleTimeOfDay draws a time-of-day duration-since-midnight.
func (t *TemporalSampler) SampleTimeOfDay(mode TimeOfDayMode) time.Duration {
	if mode == Uniform {
		secs := t.rng.IntRange(0, 86399)
		return time.Duration(secs) * time.Second
	}
	// Dual-peak business-hours mixture: mid-morning (~10:00) and
	// mid-afternoon (~14:30), each a narrow window, with the two peaks
	// equally likely.
	var centerMinutes int
	if t.rng.Bool(0.5) {
		centerMinutes = 10 * 60
	} else {
		centerMinutes = 14*60 + 30
	}
	jitter := t.rng.IntRange(-90, 90)
	minutes := centerMinutes + jitter
	if minutes < 7*60 {
		minutes = 7 * 60
	}
	if minutes > 19*60 {
		minutes = 19 * 60
	}
	seconds := t.rng.IntRange(0, 59)
	return time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second
}

// DateTime combines a sampled date with a sampled time-of-day.
func (t *TemporalSampler) DateTime(mode TimeOfDayMode) time.Time {
	d := t.SampleDate()
	tod := t.SampleTimeOfDay(mode)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).Add(tod)
}
