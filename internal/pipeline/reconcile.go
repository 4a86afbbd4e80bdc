package pipeline

import (
	"strings"

	"github.com/sentinelcare/pulse/internal/riskmodel"
	"github.com/sentinelcare/pulse/internal/rules"
)

const (
	modelReason      = "Model risk flagged high"
	ruleReasonPrefix = "Abnormal vitals: "
	issueDelimiter   = ", "
	messageDelimiter = " | "
)

// Reconcile merges the model label with the rule finding into one verdict.
// The model contributes only "high": a "normal" label with moderate rule
// findings stays moderate, and the model alone can never escalate to
// moderate. Reason order is fixed: the model flag first when the model
// triggered, then a single combined abnormal-vitals summary when any bands
// were violated.
func Reconcile(modelLabel string, finding rules.Finding) Verdict {
	v := Verdict{Severity: finding.Severity}
	if modelLabel == riskmodel.LabelHigh {
		v.Severity = rules.SeverityHigh
		v.Reasons = append(v.Reasons, modelReason)
	}
	if len(finding.Issues) > 0 {
		v.Reasons = append(v.Reasons, ruleReasonPrefix+strings.Join(finding.Issues, issueDelimiter))
	}
	return v
}

// Message renders the verdict reasons as a single alert message.
func (v Verdict) Message() string {
	return strings.Join(v.Reasons, messageDelimiter)
}
