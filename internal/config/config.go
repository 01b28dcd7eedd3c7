package config

// Config 应用配置
type Config struct {
	Addr      string `koanf:"addr"`
	DBPath    string `koanf:"db_path"`
	ModelPath string `koanf:"model_path"`
	DataDir   string `koanf:"data_dir"`

	// Comparator windows
	BaselineBeforeDays int `koanf:"baseline_before_days"` // baseline window length before the event
	BaselineGapDays    int `koanf:"baseline_gap_days"`    // gap between baseline window and event start

	// Deterministic analyzer windows
	ImpactWindowBeforeDays int `koanf:"impact_window_before_days"`
	ImpactWindowAfterDays  int `koanf:"impact_window_after_days"`

	// Empirical constants, overridable for calibration (see prediction docs).
	// The breakdown shares and the baseline multiplier come from historical
	// event studies, not from a derivation.
	DirectShare        float64 `koanf:"direct_share"`
	IndirectShare      float64 `koanf:"indirect_share"`
	InducedShare       float64 `koanf:"induced_share"`
	BaselineMultiplier float64 `koanf:"baseline_multiplier"`

	// Rate limiting for prediction endpoints
	RateLimitPerMinute int `koanf:"rate_limit_per_minute"`
}

// New returns the default configuration
func New() *Config {
	return &Config{
		Addr:                   ":8080",
		DBPath:                 "./data/evently.db",
		ModelPath:              "./data/models/economic_impact_model.json",
		DataDir:                "./data/examples",
		BaselineBeforeDays:     30,
		BaselineGapDays:        0,
		ImpactWindowBeforeDays: 14,
		ImpactWindowAfterDays:  14,
		DirectShare:            0.64,
		IndirectShare:          0.25,
		InducedShare:           0.11,
		BaselineMultiplier:     1.7,
		RateLimitPerMinute:     120,
	}
}
