package model

// Action is what the caller should do with an identification result.
// It is a closed set so the escalation state machine can be checked
// exhaustively; never compare against ad-hoc strings.
type Action string

const (
	// ActionAutoPopulate means confidence is high enough to accept the
	// record without user confirmation.
	ActionAutoPopulate Action = "auto_populate"

	// ActionSuggest means the record should be shown pre-filled but requires
	// user confirmation.
	ActionSuggest Action = "suggest"

	// ActionUserChoice means the engine is unsure and offers the user the
	// next steps (premium retry or conversational refinement).
	ActionUserChoice Action = "user_choice"

	// ActionDisambiguate means candidate matches should be shown for the
	// user to pick from.
	ActionDisambiguate Action = "disambiguate"
)

// IsValid reports whether a is a recognised action.
func (a Action) IsValid() bool {
	switch a {
	case ActionAutoPopulate, ActionSuggest, ActionUserChoice, ActionDisambiguate:
		return true
	}
	return false
}

// Tier identifies one rung of the escalation ladder.
type Tier string

const (
	Tier1  Tier = "tier1"   // fastest/cheapest model
	Tier15 Tier = "tier1_5" // same provider, more deliberate settings
	Tier2  Tier = "tier2"   // alternate provider
	Tier3  Tier = "tier3"   // premium model, user-triggered only
)

// CandidateSource says where a disambiguation candidate came from.
type CandidateSource string

const (
	CandidateSourceCollection CandidateSource = "collection"
	CandidateSourceReference  CandidateSource = "reference"
)

// Candidate is one disambiguation match offered to the user.
type Candidate struct {
	Source     CandidateSource   `json:"source"`
	Confidence float64           `json:"confidence"` // 0-100
	Data       *ParsedWineRecord `json:"data"`
}

// Inference records a single gap-filling rule application so callers can
// distinguish "the model said this" from "we inferred this".
type Inference struct {
	Rule  string `json:"rule"`
	Field string `json:"field"`
	Value string `json:"value"`
}

// Inference rule tags.
const (
	InferenceAppellationRegion  = "appellation_region"
	InferenceAppellationCountry = "appellation_country"
	InferenceRegionCountry      = "region_country"
	InferenceGrapeWineType      = "grape_wine_type"
	InferenceRegionRollUp       = "region_roll_up"
	InferenceHintRegion         = "hint_region"
	InferenceHintCountry        = "hint_country"
	InferenceHintWineType       = "hint_wine_type"
	InferenceHintGrape          = "hint_grape"
)

// TierOutcome is the recorded result of one escalation tier attempt.
type TierOutcome struct {
	Model      string `json:"model"`
	Provider   string `json:"provider"`
	Confidence int    `json:"confidence"`
	CostUSD    float64 `json:"cost_usd"`
	LatencyMs  int64  `json:"latency_ms"`
	Error      string `json:"error,omitempty"`
}

// EscalationSummary reports which tiers ran and what they cost.
type EscalationSummary struct {
	Tiers        map[Tier]TierOutcome `json:"tiers"`
	FinalTier    Tier                 `json:"final_tier"`
	TotalCostUSD float64              `json:"total_cost"`
}

// IdentifyResult is the shape returned to every caller of the engine.
// User-visible behaviour is always a confidence score plus an action; raw
// provider failures never escape as exceptions.
type IdentifyResult struct {
	Success           bool              `json:"success"`
	Parsed            *ParsedWineRecord `json:"parsed,omitempty"`
	Confidence        int               `json:"confidence"`
	Action            Action            `json:"action"`
	Candidates        []Candidate       `json:"candidates,omitempty"`
	Escalation        EscalationSummary `json:"escalation"`
	InferencesApplied []Inference       `json:"inferences_applied,omitempty"`
	Error             string            `json:"error,omitempty"`
	ErrorKind         ErrorKind         `json:"error_kind,omitempty"`
}
