// Package pipeline provides the business boundary for Pulse's risk
// evaluation and alert orchestration. It defines the Service (stage
// sequencing with per-stage failure policies), the severity reconciler,
// the collaborator contracts (vitals, alerts, audit), the Store interface
// for run records, and the domain models.
package pipeline
