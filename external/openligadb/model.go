package openligadb

import (
	"fmt"
	"strings"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/footballdata"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/match"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/team"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/timestamp"
)

// finalResultTypeID marks the full-time entry in matchResults.
const finalResultTypeID = 2

type groupPayload struct {
	GroupName    string `json:"groupName"`
	GroupOrderID int    `json:"groupOrderID"`
	GroupID      int64  `json:"groupID"`
}

type teamRef struct {
	TeamID      int64  `json:"teamId"`
	TeamName    string `json:"teamName"`
	ShortName   string `json:"shortName"`
	TeamIconURL string `json:"teamIconUrl"`
}

type resultPayload struct {
	ResultID     int64  `json:"resultID"`
	ResultName   string `json:"resultName"`
	PointsTeam1  int    `json:"pointsTeam1"`
	PointsTeam2  int    `json:"pointsTeam2"`
	ResultOrder  int    `json:"resultOrderID"`
	ResultTypeID int    `json:"resultTypeID"`
}

type matchPayload struct {
	MatchID            int64           `json:"matchID"`
	MatchDateTime      string          `json:"matchDateTime"`
	MatchDateTimeUTC   string          `json:"matchDateTimeUTC"`
	LeagueID           int64           `json:"leagueId"`
	LeagueShortcut     string          `json:"leagueShortcut"`
	LeagueSeason       int             `json:"leagueSeason"`
	Group              groupPayload    `json:"group"`
	Team1              teamRef         `json:"team1"`
	Team2              teamRef         `json:"team2"`
	LastUpdateDateTime *string         `json:"lastUpdateDateTime"`
	MatchIsFinished    bool            `json:"matchIsFinished"`
	MatchResults       []resultPayload `json:"matchResults"`
}

type tableRowPayload struct {
	TeamInfoID    int64  `json:"teamInfoId"`
	TeamName      string `json:"teamName"`
	ShortName     string `json:"shortName"`
	TeamIconURL   string `json:"teamIconUrl"`
	Points        int    `json:"points"`
	OpponentGoals int    `json:"opponentGoals"`
	Goals         int    `json:"goals"`
	Matches       int    `json:"matches"`
	Won           int    `json:"won"`
	Lost          int    `json:"lost"`
	Draw          int    `json:"draw"`
	GoalDiff      int    `json:"goalDiff"`
}

// finalResult picks the full-time entry, falling back to the second entry the
// provider lists after the half-time score.
func (p matchPayload) finalResult() (resultPayload, bool) {
	for _, r := range p.MatchResults {
		if r.ResultTypeID == finalResultTypeID {
			return r, true
		}
	}
	if len(p.MatchResults) > 1 {
		return p.MatchResults[1], true
	}
	return resultPayload{}, false
}

func (p matchPayload) toMatch(loc *time.Location) (match.Match, error) {
	if p.MatchID <= 0 {
		return match.Match{}, fmt.Errorf("%w: match without id", footballdata.ErrMalformed)
	}

	kickoff, err := parseKickoff(p, loc)
	if err != nil {
		return match.Match{}, fmt.Errorf("%w: match %d kickoff: %w", footballdata.ErrMalformed, p.MatchID, err)
	}

	out := match.Match{
		ID:        p.MatchID,
		Matchday:  p.Group.GroupOrderID,
		Team1ID:   p.Team1.TeamID,
		Team2ID:   p.Team2.TeamID,
		KickoffAt: kickoff,
		Finished:  p.MatchIsFinished,
	}
	if p.LastUpdateDateTime != nil {
		// unparseable values stay absent and force an update downstream
		if ts, err := timestamp.ParseIn(*p.LastUpdateDateTime, loc); err == nil {
			out.SourceUpdatedAt = ts
		}
	}

	if p.MatchIsFinished {
		result, ok := p.finalResult()
		if !ok {
			return match.Match{}, fmt.Errorf("%w: finished match %d has no final result", footballdata.ErrMalformed, p.MatchID)
		}
		t1, t2 := result.PointsTeam1, result.PointsTeam2
		out.Team1Score = &t1
		out.Team2Score = &t2
	}
	return out, nil
}

func parseKickoff(p matchPayload, loc *time.Location) (time.Time, error) {
	if raw := strings.TrimSpace(p.MatchDateTimeUTC); raw != "" {
		if ts, err := timestamp.Parse(raw); err == nil {
			return ts.Time(), nil
		}
	}
	ts, err := timestamp.ParseIn(p.MatchDateTime, loc)
	if err != nil {
		return time.Time{}, err
	}
	return ts.Time(), nil
}

func (r tableRowPayload) toStanding() team.Standing {
	return team.Standing{
		TeamID:        r.TeamInfoID,
		Points:        r.Points,
		Goals:         r.Goals,
		OpponentGoals: r.OpponentGoals,
		GoalDiff:      r.GoalDiff,
		Matches:       r.Matches,
		Won:           r.Won,
		Lost:          r.Lost,
		Draw:          r.Draw,
	}
}

func (r teamRef) toTeam() team.Team {
	return team.Team{
		ID:        r.TeamID,
		Name:      strings.TrimSpace(r.TeamName),
		ShortName: strings.TrimSpace(r.ShortName),
		IconURL:   strings.TrimSpace(r.TeamIconURL),
	}
}
