// Package rules applies fixed clinical threshold bands to a single reading,
// independent of the risk model.
package rules

import (
	"fmt"

	"github.com/sentinelcare/pulse/internal/vitals"
)

// Severity is the coarse outcome of evaluating one reading.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
)

// Normal bands, inclusive of both bounds. A vital violates its band only
// when strictly outside it.
const (
	heartRateMin       = 50.0
	heartRateMax       = 110.0
	respiratoryRateMin = 10.0
	respiratoryRateMax = 24.0
	systolicMin        = 90.0
	systolicMax        = 160.0
	diastolicMin       = 50.0
	diastolicMax       = 100.0
	spo2Min            = 94.0
	temperatureMin     = 35.5
	temperatureMax     = 38.5
)

// Single-condition triggers that escalate any violation set to high, plus
// the violation count that does the same.
const (
	spo2HighTrigger     = 90.0
	systolicHighTrigger = 80.0
	tempHighTrigger     = 39.5
	highViolationCount  = 3
)

// Finding is the result of evaluating one reading: the violated bands in
// fixed check order and the derived severity.
type Finding struct {
	Issues   []string
	Severity Severity
}

// Evaluate checks a reading against the bands. It is pure and deterministic;
// issues always appear in the order HR, RR, systolic, diastolic, SpO2,
// temperature so alert messages are stable.
func Evaluate(r *vitals.Reading) Finding {
	var issues []string

	if r.HeartRate < heartRateMin || r.HeartRate > heartRateMax {
		issues = append(issues, fmt.Sprintf("HR %g", r.HeartRate))
	}
	if r.RespiratoryRate < respiratoryRateMin || r.RespiratoryRate > respiratoryRateMax {
		issues = append(issues, fmt.Sprintf("RR %g", r.RespiratoryRate))
	}
	if r.SystolicBP < systolicMin || r.SystolicBP > systolicMax {
		issues = append(issues, fmt.Sprintf("Systolic %g", r.SystolicBP))
	}
	if r.DiastolicBP < diastolicMin || r.DiastolicBP > diastolicMax {
		issues = append(issues, fmt.Sprintf("Diastolic %g", r.DiastolicBP))
	}
	if r.SpO2 < spo2Min {
		issues = append(issues, fmt.Sprintf("SpO2 %g%%", r.SpO2))
	}
	if r.TemperatureC < temperatureMin || r.TemperatureC > temperatureMax {
		issues = append(issues, fmt.Sprintf("Temp %g°C", r.TemperatureC))
	}

	if len(issues) == 0 {
		return Finding{Severity: SeverityNone}
	}

	// High on very low perfusion/oxygenation, dangerous fever, or multiple
	// simultaneous deviations.
	severity := SeverityModerate
	if r.SpO2 < spo2HighTrigger ||
		r.SystolicBP < systolicHighTrigger ||
		r.TemperatureC > tempHighTrigger ||
		len(issues) >= highViolationCount {
		severity = SeverityHigh
	}

	return Finding{Issues: issues, Severity: severity}
}
