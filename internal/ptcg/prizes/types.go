package prizes

// Evaluation buckets how good a single prize trade is.
type Evaluation string

const (
	EvaluationExcellent   Evaluation = "excellent"
	EvaluationFavorable   Evaluation = "favorable"
	EvaluationEven        Evaluation = "even"
	EvaluationUnfavorable Evaluation = "unfavorable"
	EvaluationTerrible    Evaluation = "terrible"
)

// Approach is the deck's overall prize plan.
type Approach string

const (
	ApproachSinglePrize Approach = "single-prize"
	ApproachMultiPrize  Approach = "multi-prize"
	ApproachMixed       Approach = "mixed"
)

// Risk labels how exposed a liability is.
type Risk string

const (
	RiskCritical Risk = "critical"
	RiskHigh     Risk = "high"
)

// Trader is an attacking Pokémon ranked by damage per prize given up.
type Trader struct {
	Name       string  `json:"name"`
	PrizeValue int     `json:"prizeValue"`
	MaxDamage  int     `json:"maxDamage"`
	Efficiency float64 `json:"efficiency"`
}

// Liability is a multi-prize Pokémon that is easy to knock out.
type Liability struct {
	Name       string `json:"name"`
	PrizeValue int    `json:"prizeValue"`
	HP         int    `json:"hp"`
	Risk       Risk   `json:"risk"`
	Reason     string `json:"reason"`
}

// TradeScenario pits one of the deck's attackers against a meta threat.
type TradeScenario struct {
	Attacker           string     `json:"attacker"`
	YourPrizeValue     int        `json:"yourPrizeValue"`
	OpponentTarget     string     `json:"opponentTarget"`
	OpponentPrizeValue int        `json:"opponentPrizeValue"`
	TurnsToKO          int        `json:"turnsToKO"`
	TradeRatio         float64    `json:"tradeRatio"`
	Evaluation         Evaluation `json:"evaluation"`
}

// Strategy summarises how the deck should take its prizes.
type Strategy struct {
	PrimaryApproach Approach `json:"primaryApproach"`
	IdealGameplan   []string `json:"idealGameplan"`
	CriticalTurns   []string `json:"criticalTurns"`
}

// Report is the result of a prize economy analysis.
type Report struct {
	OverallEfficiency int             `json:"overallEfficiency"` // 0-100
	AveragePrizeValue float64         `json:"averagePrizeValue"`
	PrizeLiability    int             `json:"prizeLiability"` // capped at 6
	BestTraders       []Trader        `json:"bestTraders"`
	WorstLiabilities  []Liability     `json:"worstLiabilities"`
	Scenarios         []TradeScenario `json:"scenarios"`
	Strategy          Strategy        `json:"strategy"`
	Recommendations   []string        `json:"recommendations"`
}
