package cfg

import (
	"flag"
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		DrainSeconds:          60,
		ShutdownBudgetSeconds: 90,
		APIPort:               8080,
		ModelArtifactPath:     "models/sepsis_model.json",
		VitalsEndpoint:        "http://vitals:8000",
		AlertsEndpoint:        "http://alerts:8000",
	}
}

func TestRegisterFlags_Defaults(t *testing.T) {
	t.Parallel()

	var c Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlags(fs)
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if c.DrainSeconds != 60 {
		t.Errorf("DrainSeconds = %d, want 60", c.DrainSeconds)
	}
	if c.ShutdownBudgetSeconds != 90 {
		t.Errorf("ShutdownBudgetSeconds = %d, want 90", c.ShutdownBudgetSeconds)
	}
	if c.APIPort != 8080 {
		t.Errorf("APIPort = %d, want 8080", c.APIPort)
	}
	if c.ModelArtifactPath != "models/sepsis_model.json" {
		t.Errorf("ModelArtifactPath = %q, want models/sepsis_model.json", c.ModelArtifactPath)
	}
	if c.VitalsEndpoint != "" || c.AlertsEndpoint != "" || c.AuditEndpoint != "" {
		t.Error("collaborator endpoints should default empty")
	}
	if c.DatabaseURL != "" || c.APIToken != "" {
		t.Error("database URL and API token should default empty")
	}
}

func TestRegisterFlags_Override(t *testing.T) {
	t.Parallel()

	var c Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlags(fs)
	err := fs.Parse([]string{
		"-http-port=9090",
		"-vitals-endpoint=http://vitals:8000",
		"-alerts-endpoint=http://alerts:8000",
		"-audit-endpoint=http://audit:8000",
		"-database-url=postgres://localhost/pulse",
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if c.APIPort != 9090 {
		t.Errorf("APIPort = %d, want 9090", c.APIPort)
	}
	if c.VitalsEndpoint != "http://vitals:8000" {
		t.Errorf("VitalsEndpoint = %q", c.VitalsEndpoint)
	}
	if c.DatabaseURL != "postgres://localhost/pulse" {
		t.Errorf("DatabaseURL = %q", c.DatabaseURL)
	}
}

func TestValidate_Valid(t *testing.T) {
	t.Parallel()

	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidate_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"zero drain", func(c *Config) { c.DrainSeconds = 0 }, "DRAIN_SECONDS"},
		{"drain too large", func(c *Config) { c.DrainSeconds = 301 }, "DRAIN_SECONDS"},
		{"zero shutdown budget", func(c *Config) { c.ShutdownBudgetSeconds = 0 }, "SHUTDOWN_BUDGET_SECONDS"},
		{"budget not above drain", func(c *Config) { c.ShutdownBudgetSeconds = c.DrainSeconds }, "must be greater than"},
		{"zero port", func(c *Config) { c.APIPort = 0 }, "HTTP_PORT"},
		{"port too large", func(c *Config) { c.APIPort = 70000 }, "HTTP_PORT"},
		{"empty model artifact", func(c *Config) { c.ModelArtifactPath = "" }, "MODEL_ARTIFACT"},
		{"empty vitals endpoint", func(c *Config) { c.VitalsEndpoint = "" }, "VITALS_ENDPOINT"},
		{"empty alerts endpoint", func(c *Config) { c.AlertsEndpoint = "" }, "ALERTS_ENDPOINT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := validConfig()
			tt.mutate(&c)
			err := c.Validate()
			if err == nil {
				t.Fatal("Validate() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Validate() error = %q, want mention of %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	t.Parallel()

	var c Config
	err := c.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil, want joined errors")
	}
	for _, want := range []string{"DRAIN_SECONDS", "HTTP_PORT", "MODEL_ARTIFACT", "VITALS_ENDPOINT", "ALERTS_ENDPOINT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error missing %q: %v", want, err)
		}
	}
}
