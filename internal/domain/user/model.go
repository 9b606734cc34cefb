package user

// User is a competition participant. Credentials live elsewhere.
type User struct {
	ID       int64
	Username string
	Stats    Stats
}

// Stats is the cached projection of a user's graded predictions.
type Stats struct {
	TotalPoints       int
	ExactResults      int
	CorrectGoalDiffs  int
	CorrectTendencies int
}
