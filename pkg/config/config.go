// Package config handles loading and managing charapi configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for charapi.
type Config struct {
	MockMode    bool                   `yaml:"mock_mode"`
	ProPublica  ServiceConfig          `yaml:"propublica"`
	CharityAPI  ServiceConfig          `yaml:"charityapi"`
	ManualData  ManualDataConfig       `yaml:"manual_data"`
	Caching     CachingConfig          `yaml:"caching"`
	Archive     ArchiveConfig          `yaml:"archive"`
	DataFields  map[string]FieldConfig `yaml:"data_fields"`
	Scoring     ScoringConfig          `yaml:"scoring"`
	Preferences PreferencesConfig      `yaml:"preferences"`
}

// ServiceConfig controls one external registry client.
type ServiceConfig struct {
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
	Timeout  int    `yaml:"timeout"` // seconds
	TTLHours int    `yaml:"ttl_hours"`
	MockMode bool   `yaml:"mock_mode"`
}

// ManualDataConfig points at the manual override document.
type ManualDataConfig struct {
	Path string `yaml:"path"`
}

// CachingConfig controls the on-disk registry response cache.
type CachingConfig struct {
	Enabled          bool   `yaml:"enabled"`
	Directory        string `yaml:"directory"`
	DefaultTTLHours  int    `yaml:"default_ttl_hours"`
	ErrorTTLHours    int    `yaml:"error_ttl_hours"`
	CleanupOnStartup bool   `yaml:"cleanup_on_startup"`
}

// ArchiveConfig controls report archival storage.
type ArchiveConfig struct {
	Backend   string   `yaml:"backend"` // local, s3, or gcs
	LocalDir  string   `yaml:"local_dir"`
	GCSBucket string   `yaml:"gcs_bucket"`
	S3        S3Config `yaml:"s3"`
}

// S3Config holds S3 (or S3-compatible) connection settings.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// FieldConfig maps a named data field to its source.
// Source is one of "manual", "propublica", or "charityapi"; Path is the
// dot-path (manual) or attribute name (registry payloads) to read.
type FieldConfig struct {
	Source string `yaml:"source"`
	Path   string `yaml:"path"`
}

// ScoringConfig controls scoring behavior.
type ScoringConfig struct {
	Mode             string           `yaml:"mode"` // "percentage" (default) or "weighted"
	Financial        FinancialConfig  `yaml:"financial"`
	Compliance       ComplianceConfig `yaml:"compliance"`
	OrganizationType OrgTypeConfig    `yaml:"organization_type"`
}

// Benchmarks holds financial ratio thresholds, expressed as percentages.
type Benchmarks struct {
	ProgramOutstanding     float64 `yaml:"program_outstanding"`
	ProgramAcceptable      float64 `yaml:"program_acceptable"`
	AdminOutstanding       float64 `yaml:"admin_outstanding"`
	AdminAcceptable        float64 `yaml:"admin_acceptable"`
	FundraisingOutstanding float64 `yaml:"fundraising_outstanding"`
	FundraisingAcceptable  float64 `yaml:"fundraising_acceptable"`
}

// SectorOverride replaces selected benchmark thresholds for one NTEE sector
// letter. Nil fields inherit the defaults.
type SectorOverride struct {
	ProgramOutstanding     *float64 `yaml:"program_outstanding"`
	ProgramAcceptable      *float64 `yaml:"program_acceptable"`
	AdminOutstanding       *float64 `yaml:"admin_outstanding"`
	AdminAcceptable        *float64 `yaml:"admin_acceptable"`
	FundraisingOutstanding *float64 `yaml:"fundraising_outstanding"`
	FundraisingAcceptable  *float64 `yaml:"fundraising_acceptable"`
}

// FinancialConfig holds benchmark thresholds plus the legacy weighted-formula
// weights. SectorOverrides is keyed by the first letter of the NTEE code.
type FinancialConfig struct {
	Benchmarks      Benchmarks                `yaml:"benchmarks"`
	SectorOverrides map[string]SectorOverride `yaml:"sector_overrides"`
	Weights         FinancialWeights          `yaml:"weights"`
}

// FinancialWeights parameterizes the legacy weighted financial score.
type FinancialWeights struct {
	ProgramMax       float64 `yaml:"program_max"`
	ProgramTarget    float64 `yaml:"program_target"`
	AdminMax         float64 `yaml:"admin_max"`
	AdminLimit       float64 `yaml:"admin_limit"`
	FundraisingMax   float64 `yaml:"fundraising_max"`
	FundraisingLimit float64 `yaml:"fundraising_limit"`
	StabilityMax     float64 `yaml:"stability_max"`
}

// ComplianceRule adjusts how one compliance condition is bucketed.
// A failing condition is normally UNACCEPTABLE; AcceptableIfAbsent downgrades
// the failure to ACCEPTABLE instead.
type ComplianceRule struct {
	AcceptableIfAbsent bool `yaml:"acceptable_if_absent"`
}

// ComplianceConfig controls compliance checking.
type ComplianceConfig struct {
	NonCompliantPenalty float64        `yaml:"non_compliant_penalty"`
	Pub78               ComplianceRule `yaml:"pub78"`
	Revocation          ComplianceRule `yaml:"revocation"`
	RecentFiling        ComplianceRule `yaml:"recent_filing"`
}

// OrgTypeConfig controls organization type scoring.
type OrgTypeConfig struct {
	Non501c3Penalty            float64 `yaml:"non_501c3_penalty"`
	PublicCharityCode          int     `yaml:"public_charity_code"`
	PrivateFoundationPenalty   float64 `yaml:"private_foundation_penalty"`
	NoFilingRequirementPenalty float64 `yaml:"no_filing_requirement_penalty"`
	EstablishedYearsThreshold  int     `yaml:"established_years_threshold"`
	EstablishedBonus           float64 `yaml:"established_bonus"`
}

// PreferencesConfig holds the donor preference toggles.
type PreferencesConfig struct {
	MissionAlignment    MissionConfig `yaml:"mission_alignment"`
	GeographicAlignment GeoConfig     `yaml:"geographic_alignment"`
	OrganizationSize    SizeConfig    `yaml:"organization_size"`
}

// MissionConfig maps NTEE sector letters to priority tiers (high/medium/low).
type MissionConfig struct {
	Enabled    bool              `yaml:"enabled"`
	Priorities map[string]string `yaml:"priorities"`
}

// GeoConfig holds preferred and acceptable state lists.
type GeoConfig struct {
	Enabled          bool     `yaml:"enabled"`
	PreferredStates  []string `yaml:"preferred_states"`
	AcceptableStates []string `yaml:"acceptable_states"`
}

// SizeConfig holds revenue thresholds for the size preference.
type SizeConfig struct {
	Enabled   bool  `yaml:"enabled"`
	SmallMax  int64 `yaml:"small_max"`
	MediumMax int64 `yaml:"medium_max"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ProPublica: ServiceConfig{
			BaseURL:  "https://projects.propublica.org/nonprofits/api/v2",
			Timeout:  30,
			TTLHours: 24,
		},
		CharityAPI: ServiceConfig{
			BaseURL:  "https://api.charityapi.org/api",
			Timeout:  30,
			TTLHours: 24,
		},
		ManualData: ManualDataConfig{
			Path: "manual/manual_data.yaml",
		},
		Caching: CachingConfig{
			Directory:       "cache",
			DefaultTTLHours: 24,
			ErrorTTLHours:   1,
		},
		Archive: ArchiveConfig{
			Backend:  "local",
			LocalDir: "reports",
		},
		DataFields: defaultDataFields(),
		Scoring: ScoringConfig{
			Mode: "percentage",
			Financial: FinancialConfig{
				Benchmarks: Benchmarks{
					ProgramOutstanding:     80,
					ProgramAcceptable:      75,
					AdminOutstanding:       10,
					AdminAcceptable:        15,
					FundraisingOutstanding: 10,
					FundraisingAcceptable:  15,
				},
				Weights: FinancialWeights{
					ProgramMax:       40,
					ProgramTarget:    75,
					AdminMax:         20,
					AdminLimit:       15,
					FundraisingMax:   20,
					FundraisingLimit: 15,
					StabilityMax:     20,
				},
			},
			Compliance: ComplianceConfig{
				NonCompliantPenalty: 50,
			},
			OrganizationType: OrgTypeConfig{
				Non501c3Penalty:            25,
				PublicCharityCode:          15,
				PrivateFoundationPenalty:   15,
				NoFilingRequirementPenalty: 10,
				EstablishedYearsThreshold:  20,
				EstablishedBonus:           5,
			},
		},
	}
}

// defaultDataFields declares the standard field routing. Expense breakdowns
// come from the manual document because ProPublica filings do not carry the
// Form 990 functional expense split.
func defaultDataFields() map[string]FieldConfig {
	return map[string]FieldConfig{
		"program_expenses":         {Source: "manual", Path: "financials.{current_fiscal_year}.program_expenses"},
		"admin_expenses":           {Source: "manual", Path: "financials.{current_fiscal_year}.admin_expenses"},
		"fundraising_expenses":     {Source: "manual", Path: "financials.{current_fiscal_year}.fundraising_expenses"},
		"charity_navigator_rating": {Source: "manual", Path: "charity_navigator.rating"},
		"in_pub78":                 {Source: "charityapi", Path: "deductibility"},
		"is_revoked":               {Source: "charityapi", Path: "status"},
		"has_recent_filing":        {Source: "charityapi", Path: "tax_period"},
		"total_revenue":            {Source: "propublica", Path: "totrevenue"},
		"total_expenses":           {Source: "propublica", Path: "totfuncexpns"},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate rejects configurations that would make scoring arithmetic
// undefined. Misconfiguration surfaces here, at load time, rather than as a
// runtime crash inside a classifier.
func (c *Config) Validate() error {
	w := c.Scoring.Financial.Weights
	if w.ProgramTarget <= 0 {
		return fmt.Errorf("scoring.financial.weights.program_target must be > 0, got %v", w.ProgramTarget)
	}
	if w.AdminLimit <= 0 {
		return fmt.Errorf("scoring.financial.weights.admin_limit must be > 0, got %v", w.AdminLimit)
	}
	if w.FundraisingLimit <= 0 {
		return fmt.Errorf("scoring.financial.weights.fundraising_limit must be > 0, got %v", w.FundraisingLimit)
	}
	switch c.Scoring.Mode {
	case "", "percentage", "weighted":
	default:
		return fmt.Errorf("scoring.mode must be \"percentage\" or \"weighted\", got %q", c.Scoring.Mode)
	}
	for name, fc := range c.DataFields {
		switch fc.Source {
		case "manual", "propublica", "charityapi":
		default:
			return fmt.Errorf("data_fields.%s: unknown source %q", name, fc.Source)
		}
	}
	return nil
}

// FindConfigFile looks for .charapi/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".charapi", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// CacheDir resolves the registry response cache directory. Relative cache
// directories resolve against the config file's directory; without a config
// path the cache lands under the user cache root.
func (c *Config) CacheDir(configPath string) string {
	dir := c.Caching.Directory
	if filepath.IsAbs(dir) {
		return dir
	}
	if configPath != "" {
		return filepath.Join(filepath.Dir(configPath), dir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".cache", "charapi", dir)
}
