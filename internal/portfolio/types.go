// Package portfolio provides the domain model for the launchdeck client and
// the pure presentation logic the screens are built on: setting grouping,
// facet derivation, client-side filtering, pagination, and selection
// aggregation. Nothing in this package talks to the network; the backend is
// the single source of truth and these types are a cache of the last
// successful fetch.
package portfolio

// Market holds the per-market economics row edited on the Config Library
// screen. market_name is the identity used in PUT paths.
type Market struct {
	MarketName      string  `json:"market_name"`
	Currency        string  `json:"currency"`
	PriceMultiplier float64 `json:"price_multiplier"`
	ImportFreight   float64 `json:"import_freight_pct"`
	DutiesTaxes     float64 `json:"duties_taxes_pct"`
	DocDistributor  float64 `json:"doc_distributor"`
	DocRetail       float64 `json:"doc_retail"`
}

// Channel holds one channel row of a market: demand drivers plus the
// cost-to-serve percentage stack.
type Channel struct {
	Channel string `json:"channel"`

	// Demand drivers
	BaseUnitsMonth     float64 `json:"base_units_month"`
	ChannelWeight      float64 `json:"channel_weight"`
	RetailAdoptionRate float64 `json:"retail_adoption_rate"`
	MarketingLift      float64 `json:"marketing_lift"`
	CompetitorActivity float64 `json:"competitor_activity_idx"`

	// Cost to serve
	Commission       float64 `json:"commission_pct"`
	Fulfillment      float64 `json:"fulfillment_pct"`
	COD              float64 `json:"cod_pct"`
	ReturnsAllowance float64 `json:"returns_allowance_pct"`
	ListingFees      float64 `json:"listing_fees_pct"`
	TradeTerms       float64 `json:"trade_terms_pct"`
	Rebates          float64 `json:"rebates_pct"`
	PromoAccrual     float64 `json:"promo_accrual_pct"`
}

// Sku is one portfolio row. Descriptive fields and raw inputs are editable;
// Cache is server-computed and replaced wholesale after every save
// round-trip, never mutated locally.
type Sku struct {
	SkuID          string `json:"sku_id"`
	SkuName        string `json:"sku_name"`
	Brand          string `json:"brand"`
	Category       string `json:"category"`
	TargetMarket   string `json:"target_market"`
	PrimaryChannel string `json:"primary_channel"`

	// Raw inputs
	LocalListPrice  float64 `json:"local_list_price"`
	LandedCost      float64 `json:"landed_cost"`
	MOQ             int     `json:"moq"`
	LeadTimeDays    int     `json:"lead_time_days"`
	ShelfLifeMonths int     `json:"shelf_life_months"`
	RampMonth       int     `json:"ramp_month"`
	SuggestedWave   int     `json:"suggested_launch_wave"`

	// Eligibility flags. RegulatoryEligible is tri-state: nil means the
	// backend has not assessed the SKU yet.
	RegulatoryEligible    *bool `json:"regulatory_eligible"`
	RegulatoryProhibition bool  `json:"regulatory_prohibition"`
	IPRiskHigh            bool  `json:"ip_risk_high"`
	SupplyReady           bool  `json:"supply_ready"`

	// Embedded so the fifteen score_* fields stay flat on the wire.
	Scores

	Cache *Cache `json:"cache"`
}

// Scores holds the fifteen raw 1-5 inputs feeding layers B, C and D.
type Scores struct {
	ConsumerTrend      int `json:"score_consumer_trend"`
	PointOfDiff        int `json:"score_point_of_diff"`
	ChannelSuitability int `json:"score_channel_suitability"`
	StrategicRole      int `json:"score_strategic_role"`
	MarketingLeverage  int `json:"score_marketing_leverage"`
	PriceLadder        int `json:"score_price_ladder"`
	UsageOccasion      int `json:"score_usage_occasion"`
	ChannelDiff        int `json:"score_channel_diff"`
	StoryCohesion      int `json:"score_story_cohesion"`
	OperationalSynergy int `json:"score_operational_synergy"`
	RegulatoryDelay    int `json:"score_regulatory_delay"`
	RetailListing      int `json:"score_retail_listing"`
	Competitive        int `json:"score_competitive"`
	SupplyChain        int `json:"score_supply_chain"`
	PriceWar           int `json:"score_price_war"`
}

// Cache carries the server-computed outputs attached to a SKU. A nil Cache
// means the engine has not produced results for the record; aggregation
// treats it as all zeros.
type Cache struct {
	GMDollarPerUnit float64 `json:"gm_dollar_per_unit"`
	GMPct           float64 `json:"gm_pct"`

	WeightedScoreLayerB  float64 `json:"weighted_score_layer_b"`
	ChannelWeightedScore float64 `json:"channel_weighted_score"`
	SynergyScoreLayerC   float64 `json:"synergy_score_layer_c"`
	RiskScoreLayerD      float64 `json:"risk_score_layer_d"`
	RiskFactor           float64 `json:"risk_factor"`

	AdjUnitsWorst float64 `json:"adj_units_worst"`
	AdjUnitsBase  float64 `json:"adj_units_base"`
	AdjUnitsBest  float64 `json:"adj_units_best"`

	MonthlyRevenue  float64 `json:"monthly_revenue"`
	MonthlyGMDollar float64 `json:"monthly_gm_dollar"`
	MonthlyGMWorst  float64 `json:"monthly_gm_worst"`
	MonthlyGMBase   float64 `json:"monthly_gm_base"`
	MonthlyGMBest   float64 `json:"monthly_gm_best"`

	PassRegulatory bool `json:"pass_regulatory"`
	PassSupply     bool `json:"pass_supply_ready"`
	PassGMFloor    bool `json:"pass_gm_floor"`

	FinalRecommendation string `json:"final_recommendation"`
	SelectForWave1      bool   `json:"select_for_wave_1"`
}

// Recommendation verdicts produced by the backend engine.
const (
	RecommendLaunchNow   = "Launch Now"
	RecommendPhaseLater  = "Phase Later"
	RecommendDoNotLaunch = "Do Not Launch"
)

// Clone returns a deep copy suitable for staging edits. The modal edits the
// copy and discards it on cancel; pointer fields must not alias the
// original.
func (s Sku) Clone() Sku {
	out := s
	if s.RegulatoryEligible != nil {
		v := *s.RegulatoryEligible
		out.RegulatoryEligible = &v
	}
	if s.Cache != nil {
		c := *s.Cache
		out.Cache = &c
	}
	return out
}

// Recommendation returns the engine verdict, or "" when no cache exists.
func (s Sku) Recommendation() string {
	if s.Cache == nil {
		return ""
	}
	return s.Cache.FinalRecommendation
}
