package scoring

const (
	PointsExact    = 4
	PointsGoalDiff = 3
	PointsTendency = 2
	PointsMiss     = 0
)

// Grade applies the first matching rule: exact score, goal difference, tendency.
func Grade(predicted, actual Outcome) int {
	switch {
	case predicted == actual:
		return PointsExact
	case predicted.GoalDiff() == actual.GoalDiff():
		return PointsGoalDiff
	case predicted.Tendency() == actual.Tendency():
		return PointsTendency
	default:
		return PointsMiss
	}
}
