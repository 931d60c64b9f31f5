package journal

import "time"

// Persona is a behavioral class of user, per the GLOSSARY: junior/
// senior accountant, controller, manager, executive, automated,
// auditor, fraud actor.
type Persona struct {
	Name      string
	ErrorRate float64
	Weight    float64
}

// DefaultPersonas mirrors a typical accounting-department mix.
func DefaultPersonas() []Persona {
	return []Persona{
		{Name: "junior_accountant", ErrorRate: 0.06, Weight: 0.30},
		{Name: "senior_accountant", ErrorRate: 0.02, Weight: 0.30},
		{Name: "controller", ErrorRate: 0.01, Weight: 0.15},
		{Name: "manager", ErrorRate: 0.015, Weight: 0.10},
		{Name: "executive", ErrorRate: 0.005, Weight: 0.05},
		{Name: "automated", ErrorRate: 0.0, Weight: 0.10},
	}
}

// StressFactor computes the calendar-driven multiplicative boost to a
// persona's error rate, per spec.md §4.5 step 17:
//   - year-end last 4 days                -> x2.0, capped 0.5 absolute
//   - other quarter-end last 4 days       -> x1.75, capped 0.4
//   - other month-end last 3 days         -> x1.5
//   - Monday                              -> x1.2
//   - Friday                              -> x1.3
// Multiple calendar conditions compose multiplicatively except the
// month/quarter/year-end bands, which are mutually exclusive (the
// most specific band wins).
func StressFactor(postingDate time.Time) (multiplier float64, cap float64) {
	multiplier = 1.0
	cap = 1.0

	lastDay := time.Date(postingDate.Year(), postingDate.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	daysFromEnd := lastDay - postingDate.Day()
	isQuarterMonth := postingDate.Month()%3 == 0

	switch {
	case postingDate.Month() == time.December && daysFromEnd < 4:
		multiplier, cap = 2.0, 0.5
	case isQuarterMonth && daysFromEnd < 4:
		multiplier, cap = 1.75, 0.4
	case daysFromEnd < 3:
		multiplier, cap = 1.5, 1.0
	}

	switch postingDate.Weekday() {
	case time.Monday:
		multiplier *= 1.2
	case time.Friday:
		multiplier *= 1.3
	}
	return multiplier, cap
}

// EffectiveErrorRate applies the stress factor to a persona's base
// error rate, capped per StressFactor's band.
func EffectiveErrorRate(p Persona, postingDate time.Time) float64 {
	mult, cap := StressFactor(postingDate)
	rate := p.ErrorRate * mult
	if rate > cap {
		rate = cap
	}
	return rate
}
