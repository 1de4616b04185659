package domain

// BatchConfig is the per-request pipeline configuration. Process-wide defaults
// come from the service configuration; a request may override individual
// fields. Immutable once a transform call starts.
type BatchConfig struct {
	EnableTechnicalIndicators bool `json:"enable_technical_indicators" yaml:"enable_technical_indicators" envconfig:"ENABLE_TECHNICAL_INDICATORS" default:"true"`
	EnableSectorAnalysis      bool `json:"enable_sector_analysis" yaml:"enable_sector_analysis" envconfig:"ENABLE_SECTOR_ANALYSIS" default:"true"`
	EnableRiskMetrics         bool `json:"enable_risk_metrics" yaml:"enable_risk_metrics" envconfig:"ENABLE_RISK_METRICS" default:"true"`

	MAShortPeriod    int `json:"ma_short_period" yaml:"ma_short_period" envconfig:"MA_SHORT_PERIOD" default:"7" validate:"gt=0"`
	MALongPeriod     int `json:"ma_long_period" yaml:"ma_long_period" envconfig:"MA_LONG_PERIOD" default:"30" validate:"gt=0"`
	VolatilityWindow int `json:"volatility_window" yaml:"volatility_window" envconfig:"VOLATILITY_WINDOW" default:"30" validate:"gt=0"`
	RSIPeriod        int `json:"rsi_period" yaml:"rsi_period" envconfig:"RSI_PERIOD" default:"14" validate:"gt=0"`

	MaxBatchSize int `json:"max_batch_size" yaml:"max_batch_size" envconfig:"MAX_BATCH_SIZE" default:"10000" validate:"gt=0"`
}

// DefaultBatchConfig returns the process defaults used when neither the
// environment nor the request overrides a field.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		EnableTechnicalIndicators: true,
		EnableSectorAnalysis:      true,
		EnableRiskMetrics:         true,
		MAShortPeriod:             7,
		MALongPeriod:              30,
		VolatilityWindow:          30,
		RSIPeriod:                 14,
		MaxBatchSize:              10000,
	}
}

// BatchConfigPatch carries optional per-request overrides for BatchConfig.
// Nil fields keep the process default. Window and size overrides must be
// positive; handlers validate the patch before it reaches the pipeline.
type BatchConfigPatch struct {
	EnableTechnicalIndicators *bool `json:"enable_technical_indicators"`
	EnableSectorAnalysis      *bool `json:"enable_sector_analysis"`
	EnableRiskMetrics         *bool `json:"enable_risk_metrics"`

	MAShortPeriod    *int `json:"ma_short_period" validate:"omitempty,gt=0"`
	MALongPeriod     *int `json:"ma_long_period" validate:"omitempty,gt=0"`
	VolatilityWindow *int `json:"volatility_window" validate:"omitempty,gt=0"`
	RSIPeriod        *int `json:"rsi_period" validate:"omitempty,gt=0"`

	MaxBatchSize *int `json:"max_batch_size" validate:"omitempty,gt=0"`
}

// Apply returns a copy of base with the patch's non-nil fields applied.
func (p *BatchConfigPatch) Apply(base BatchConfig) BatchConfig {
	if p == nil {
		return base
	}
	out := base
	if p.EnableTechnicalIndicators != nil {
		out.EnableTechnicalIndicators = *p.EnableTechnicalIndicators
	}
	if p.EnableSectorAnalysis != nil {
		out.EnableSectorAnalysis = *p.EnableSectorAnalysis
	}
	if p.EnableRiskMetrics != nil {
		out.EnableRiskMetrics = *p.EnableRiskMetrics
	}
	if p.MAShortPeriod != nil {
		out.MAShortPeriod = *p.MAShortPeriod
	}
	if p.MALongPeriod != nil {
		out.MALongPeriod = *p.MALongPeriod
	}
	if p.VolatilityWindow != nil {
		out.VolatilityWindow = *p.VolatilityWindow
	}
	if p.RSIPeriod != nil {
		out.RSIPeriod = *p.RSIPeriod
	}
	if p.MaxBatchSize != nil {
		out.MaxBatchSize = *p.MaxBatchSize
	}
	return out
}
