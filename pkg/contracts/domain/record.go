package domain

// RawRecord is one daily OHLCV row as delivered by the extract service or a
// direct caller. Every field is optional at the wire level; the pipeline's
// validator decides which rows survive. JSON names match the upstream feed
// verbatim (capitalized price fields, camelCase fundamentals).
type RawRecord struct {
	Ticker        *string  `json:"Ticker"`
	Date          *string  `json:"Date"`
	Open          *float64 `json:"Open"`
	High          *float64 `json:"High"`
	Low           *float64 `json:"Low"`
	Close         *float64 `json:"Close"`
	Volume        *float64 `json:"Volume"`
	Dividend      *float64 `json:"Dividend"`
	Industry      *string  `json:"industry"`
	Sector        *string  `json:"sector"`
	MarketCap     *float64 `json:"marketCap"`
	TrailingPE    *float64 `json:"trailingPE"`
	ForwardPE     *float64 `json:"forwardPE"`
	DividendYield *float64 `json:"dividendYield"`
	DividendRate  *float64 `json:"dividendRate"`
	AverageVolume *float64 `json:"averageVolume"`
	PreviousClose *float64 `json:"previousClose"`
}

// EnrichedRecord is a validated row plus every metric the pipeline phases add.
// Metric fields are pointers so an undefined or disabled metric serializes as
// an explicit JSON null; the boundary never carries NaN or infinity. Input
// fields are carried through unmodified except Ticker (upper-cased) and Date
// (normalized to UTC ISO-8601 with a trailing Z).
type EnrichedRecord struct {
	Ticker        string   `json:"Ticker"`
	Date          string   `json:"Date"`
	Open          float64  `json:"Open"`
	High          float64  `json:"High"`
	Low           float64  `json:"Low"`
	Close         float64  `json:"Close"`
	Volume        int64    `json:"Volume"`
	Dividend      float64  `json:"Dividend"`
	Industry      string   `json:"industry"`
	Sector        string   `json:"sector"`
	MarketCap     *float64 `json:"marketCap"`
	TrailingPE    *float64 `json:"trailingPE"`
	ForwardPE     *float64 `json:"forwardPE"`
	DividendYield *float64 `json:"dividendYield"`
	DividendRate  *float64 `json:"dividendRate"`
	AverageVolume *float64 `json:"averageVolume"`
	PreviousClose *float64 `json:"previousClose"`

	// Phase 2: per-row basic metrics.
	DailyReturn         *float64 `json:"Daily_Return"`
	PriceRange          *float64 `json:"Price_Range"`
	TypicalPrice        *float64 `json:"Typical_Price"`
	RelativeVolume      *float64 `json:"Relative_Volume"`
	VolumeWeightedPrice *float64 `json:"Volume_Weighted_Price"`
	PEGrowth            *float64 `json:"PE_Growth"`
	MarketCapCategory   *string  `json:"Market_Cap_Category"`

	// Phase 3: windowed technical indicators. JSON names carry the default
	// window sizes; the windows themselves are configurable.
	MAShort         *float64 `json:"MA_7"`
	MALong          *float64 `json:"MA_30"`
	VolatilityShort *float64 `json:"Volatility_7"`
	VolatilityLong  *float64 `json:"Volatility_30"`
	PriceChangePct  *float64 `json:"Price_Change_Pct"`
	PriceVsMAShort  *float64 `json:"Price_vs_MA7"`
	PriceVsMALong   *float64 `json:"Price_vs_MA30"`
	VolumeMA        *float64 `json:"Volume_MA_7"`
	VolumeTrend     *float64 `json:"Volume_Trend"`
	RSI             *float64 `json:"RSI_14"`

	// Phase 4: cross-sectional comparison within (sector, date) and
	// (industry, date) groups.
	SectorAvgReturn     *float64 `json:"Sector_Avg_Return"`
	SectorRelPerf       *float64 `json:"Sector_Relative_Performance"`
	IndustryAvgReturn   *float64 `json:"Industry_Avg_Return"`
	IndustryRelPerf     *float64 `json:"Industry_Relative_Performance"`
	PEVsSectorAvg       *float64 `json:"PE_vs_Sector_Avg"`

	// Phase 5: per-ticker risk metrics over the full batch history.
	// Constant for every record of a ticker within one batch.
	MaxDrawdown    *float64 `json:"Max_Drawdown"`
	SharpeRatio    *float64 `json:"Sharpe_Ratio"`
	ValueAtRisk5   *float64 `json:"Value_at_Risk_5"`
	ReturnSkewness *float64 `json:"Return_Skewness"`
	ReturnKurtosis *float64 `json:"Return_Kurtosis"`

	TransformationTimestamp string `json:"transformation_timestamp"`
	TransformationVersion   string `json:"transformation_version"`
}
