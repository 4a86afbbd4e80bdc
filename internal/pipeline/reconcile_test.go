package pipeline

import (
	"reflect"
	"testing"

	"github.com/sentinelcare/pulse/internal/riskmodel"
	"github.com/sentinelcare/pulse/internal/rules"
)

func TestReconcile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		modelLabel   string
		finding      rules.Finding
		wantSeverity rules.Severity
		wantReasons  []string
	}{
		{
			name:         "both clear",
			modelLabel:   riskmodel.LabelNormal,
			finding:      rules.Finding{Severity: rules.SeverityNone},
			wantSeverity: rules.SeverityNone,
			wantReasons:  nil,
		},
		{
			name:         "model high alone",
			modelLabel:   riskmodel.LabelHigh,
			finding:      rules.Finding{Severity: rules.SeverityNone},
			wantSeverity: rules.SeverityHigh,
			wantReasons:  []string{"Model risk flagged high"},
		},
		{
			name:       "rules moderate alone",
			modelLabel: riskmodel.LabelNormal,
			finding: rules.Finding{
				Issues:   []string{"HR 120"},
				Severity: rules.SeverityModerate,
			},
			wantSeverity: rules.SeverityModerate,
			wantReasons:  []string{"Abnormal vitals: HR 120"},
		},
		{
			name:       "rules high alone",
			modelLabel: riskmodel.LabelNormal,
			finding: rules.Finding{
				Issues:   []string{"SpO2 85%"},
				Severity: rules.SeverityHigh,
			},
			wantSeverity: rules.SeverityHigh,
			wantReasons:  []string{"Abnormal vitals: SpO2 85%"},
		},
		{
			name:       "model high overrides moderate rules",
			modelLabel: riskmodel.LabelHigh,
			finding: rules.Finding{
				Issues:   []string{"HR 120", "RR 26"},
				Severity: rules.SeverityModerate,
			},
			wantSeverity: rules.SeverityHigh,
			wantReasons: []string{
				"Model risk flagged high",
				"Abnormal vitals: HR 120, RR 26",
			},
		},
		{
			name:       "both high keeps reason order",
			modelLabel: riskmodel.LabelHigh,
			finding: rules.Finding{
				Issues:   []string{"Systolic 70", "SpO2 85%"},
				Severity: rules.SeverityHigh,
			},
			wantSeverity: rules.SeverityHigh,
			wantReasons: []string{
				"Model risk flagged high",
				"Abnormal vitals: Systolic 70, SpO2 85%",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := Reconcile(tt.modelLabel, tt.finding)
			if v.Severity != tt.wantSeverity {
				t.Errorf("Severity = %q, want %q", v.Severity, tt.wantSeverity)
			}
			if !reflect.DeepEqual(v.Reasons, tt.wantReasons) {
				t.Errorf("Reasons = %v, want %v", v.Reasons, tt.wantReasons)
			}
		})
	}
}

func TestVerdict_Message(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		verdict Verdict
		want    string
	}{
		{
			name:    "no reasons",
			verdict: Verdict{Severity: rules.SeverityNone},
			want:    "",
		},
		{
			name: "single reason",
			verdict: Verdict{
				Severity: rules.SeverityHigh,
				Reasons:  []string{"Model risk flagged high"},
			},
			want: "Model risk flagged high",
		},
		{
			name: "two reasons joined with pipe",
			verdict: Verdict{
				Severity: rules.SeverityHigh,
				Reasons: []string{
					"Model risk flagged high",
					"Abnormal vitals: HR 130, SpO2 85%",
				},
			},
			want: "Model risk flagged high | Abnormal vitals: HR 130, SpO2 85%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.verdict.Message(); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}
