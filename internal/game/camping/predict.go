package camping

// Prediction is everything shown to the player for one evaluation.
type Prediction struct {
	Score           Score   `json:"score"`
	SurvivalPercent float64 `json:"survival_percent"`
	Defence         Defence `json:"defence"`
}

// Evaluate validates in and, if it is valid, runs both calculators.
//
// Postcondition: Returns a ValidationErrors error for out-of-domain input,
// ErrUnrepresentableNights (wrapped) for the undefined novice penalty, or a
// complete Prediction.
func Evaluate(in Input, t *Tables) (Prediction, error) {
	if err := Validate(in, t); err != nil {
		return Prediction{}, err
	}
	score, err := ComputeScore(in, t)
	if err != nil {
		return Prediction{}, err
	}
	return Prediction{
		Score:           score,
		SurvivalPercent: score.SurvivalPercent(),
		Defence:         ComputeDefence(in.OD, in.Improvements, in.PreviousCarry),
	}, nil
}
