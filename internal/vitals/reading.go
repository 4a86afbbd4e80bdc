// Package vitals defines the vital-sign reading shared by the scoring and
// rule evaluation components.
package vitals

import (
	"errors"
	"time"
)

// Feature names a model artifact may declare weights for. A weight key
// outside this set reads as zero for every reading.
const (
	FeatureHeartRate       = "heart_rate"
	FeatureRespiratoryRate = "respiratory_rate"
	FeatureSystolicBP      = "systolic_bp"
	FeatureDiastolicBP     = "diastolic_bp"
	FeatureSpO2            = "spo2"
	FeatureTemperatureC    = "temperature_c"
)

// Reading is one timestamped set of vital-sign measurements for a patient.
// It is owned by the caller of the pipeline and immutable for the duration
// of one evaluation.
type Reading struct {
	PatientID       string    `json:"patient_id"`
	HeartRate       float64   `json:"heart_rate"`
	RespiratoryRate float64   `json:"respiratory_rate"`
	SystolicBP      float64   `json:"systolic_bp"`
	DiastolicBP     float64   `json:"diastolic_bp"`
	SpO2            float64   `json:"spo2"`
	TemperatureC    float64   `json:"temperature_c"`
	DeviceID        string    `json:"device_id,omitempty"`
	RecordedAt      time.Time `json:"recorded_at"`
}

// Feature returns the named measurement. Unknown names report ok=false so
// they contribute zero to scoring rather than failing the run.
func (r *Reading) Feature(name string) (float64, bool) {
	switch name {
	case FeatureHeartRate:
		return r.HeartRate, true
	case FeatureRespiratoryRate:
		return r.RespiratoryRate, true
	case FeatureSystolicBP:
		return r.SystolicBP, true
	case FeatureDiastolicBP:
		return r.DiastolicBP, true
	case FeatureSpO2:
		return r.SpO2, true
	case FeatureTemperatureC:
		return r.TemperatureC, true
	default:
		return 0, false
	}
}

// Validate checks a caller-supplied reading before it enters the pipeline.
func (r *Reading) Validate() error {
	if r.PatientID == "" {
		return errors.New("patient_id is required")
	}
	return nil
}
