package request

// CalculateRequest selects the session to calculate. OtherIncome, when
// present, asks for a marginal-liability estimate on top of the capital-gains
// figures.
type CalculateRequest struct {
	SessionID   string   `json:"session_id"`
	OtherIncome *float64 `json:"other_income,omitempty"`
}
