package cfg

import (
	"errors"
	"flag"
	"fmt"
)

// Config adds app-specific configuration fields to the
// common cfg.Registerable and cfg.Validatable interfaces
type Config struct {
	DrainSeconds          int
	ShutdownBudgetSeconds int
	APIPort               int
	ModelArtifactPath     string
	VitalsEndpoint        string
	AlertsEndpoint        string
	AuditEndpoint         string
	DatabaseURL           string
	APIToken              string
}

// RegisterFlags binds Config fields to the given FlagSet with defaults inline
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.DrainSeconds, "drain-seconds", 60, "seconds to wait for in-flight requests to drain before shutdown (1..300)")
	fs.IntVar(&c.ShutdownBudgetSeconds, "shutdown-budget-seconds", 90, "total seconds for component shutdown after drain (1..300)")
	fs.IntVar(&c.APIPort, "http-port", 8080, "API listen TCP port (1..65535)")
	fs.StringVar(&c.ModelArtifactPath, "model-artifact", "models/sepsis_model.json", "path to the risk model artifact JSON")
	fs.StringVar(&c.VitalsEndpoint, "vitals-endpoint", "", "vitals collaborator base URL")
	fs.StringVar(&c.AlertsEndpoint, "alerts-endpoint", "", "alert store collaborator base URL")
	fs.StringVar(&c.AuditEndpoint, "audit-endpoint", "", "audit collaborator base URL (empty = audit disabled)")
	fs.StringVar(&c.DatabaseURL, "database-url", "", "PostgreSQL connection URL for run records (empty = in-memory store)")
	fs.StringVar(&c.APIToken, "api-token", "", "static bearer token required on API routes (empty = auth disabled)")
}

// Validate checks all configuration fields for correctness.
// It returns an error if any field is invalid, or nil if all fields are valid.
func (c *Config) Validate() error {
	var errs []error

	// Drain and shutdown budgets
	if c.DrainSeconds <= 0 || c.DrainSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid DRAIN_SECONDS %d (must be 1..300)", c.DrainSeconds))
	}
	if c.ShutdownBudgetSeconds <= 0 || c.ShutdownBudgetSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid SHUTDOWN_BUDGET_SECONDS %d (must be 1..300)", c.ShutdownBudgetSeconds))
	}

	// Shutdown budget must be greater than drain time
	if c.ShutdownBudgetSeconds <= c.DrainSeconds {
		errs = append(errs, fmt.Errorf("SHUTDOWN_BUDGET_SECONDS %d must be greater than DRAIN_SECONDS %d", c.ShutdownBudgetSeconds, c.DrainSeconds))
	}

	// API port must be valid TCP port number
	if c.APIPort <= 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT %d (must be 1..65535)", c.APIPort))
	}

	// The model artifact is loaded at startup; a missing path is fatal there,
	// but an empty one is a config error here.
	if c.ModelArtifactPath == "" {
		errs = append(errs, errors.New("MODEL_ARTIFACT is required"))
	}

	// Both fatal-stage collaborators are required
	if c.VitalsEndpoint == "" {
		errs = append(errs, errors.New("VITALS_ENDPOINT is required"))
	}
	if c.AlertsEndpoint == "" {
		errs = append(errs, errors.New("ALERTS_ENDPOINT is required"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
