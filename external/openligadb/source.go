package openligadb

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/footballdata"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/match"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/team"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/timestamp"
)

var _ footballdata.Source = (*Client)(nil)

const (
	endpointCurrentGroup  = "getcurrentgroup"
	endpointLastChange    = "getlastchangedate"
	endpointNextMatch     = "getnextmatchbyleagueteam"
	endpointMatch         = "getmatchdata_by_id"
	endpointSeasonMatches = "getmatchdata_by_team"
	endpointTable         = "getbltable"
	endpointTeams         = "getavailableteams"
)

// fetch maps the transport outcome onto a Result. Empty responses are Absent.
func fetch[T any](ctx context.Context, c *Client, endpoint, path string) (T, footballdata.Status, error) {
	var out T
	err := c.doJSON(ctx, endpoint, path, &out)
	switch {
	case err == nil:
		return out, footballdata.StatusSucceeded, nil
	case stderrors.Is(err, errNoContent):
		return out, footballdata.StatusAbsent, nil
	default:
		return out, footballdata.StatusFailed, err
	}
}

func (c *Client) CurrentMatchday(ctx context.Context) footballdata.Result[int] {
	group, status, err := fetch[groupPayload](ctx, c, endpointCurrentGroup, "/getcurrentgroup/"+escape(c.league))
	switch status {
	case footballdata.StatusAbsent:
		return footballdata.Absent[int]()
	case footballdata.StatusFailed:
		return footballdata.Failed[int](err)
	}
	if group.GroupOrderID <= 0 {
		return footballdata.Failed[int](fmt.Errorf("%w: current group without order id", footballdata.ErrMalformed))
	}
	return footballdata.Succeeded(group.GroupOrderID)
}

// LastChange succeeds with an absent timestamp when the provider value cannot be parsed.
func (c *Client) LastChange(ctx context.Context, matchday int) footballdata.Result[timestamp.Timestamp] {
	path := "/getlastchangedate/" + escape(c.league) + "/" + itoa(c.season) + "/" + itoa(matchday)
	raw, status, err := fetch[string](ctx, c, endpointLastChange, path)
	switch status {
	case footballdata.StatusAbsent:
		return footballdata.Absent[timestamp.Timestamp]()
	case footballdata.StatusFailed:
		return footballdata.Failed[timestamp.Timestamp](err)
	}

	ts, err := timestamp.ParseIn(raw, c.location)
	if err != nil {
		c.logger.WarnContext(ctx, "unparseable last change date", "matchday", matchday, "value", raw, "error", err)
		return footballdata.Succeeded(timestamp.Timestamp{})
	}
	return footballdata.Succeeded(ts)
}

func (c *Client) NextMatch(ctx context.Context) footballdata.Result[match.Match] {
	path := "/getnextmatchbyleagueteam/" + strconv.FormatInt(c.leagueID, 10) + "/" + strconv.FormatInt(c.teamID, 10)
	return c.matchResult(ctx, endpointNextMatch, path)
}

func (c *Client) Match(ctx context.Context, id int64) footballdata.Result[match.Match] {
	return c.matchResult(ctx, endpointMatch, "/getmatchdata/"+strconv.FormatInt(id, 10))
}

func (c *Client) matchResult(ctx context.Context, endpoint, path string) footballdata.Result[match.Match] {
	payload, status, err := fetch[matchPayload](ctx, c, endpoint, path)
	switch status {
	case footballdata.StatusAbsent:
		return footballdata.Absent[match.Match]()
	case footballdata.StatusFailed:
		return footballdata.Failed[match.Match](err)
	}
	if payload.MatchID == 0 {
		return footballdata.Absent[match.Match]()
	}

	m, err := payload.toMatch(c.location)
	if err != nil {
		return footballdata.Failed[match.Match](err)
	}
	return footballdata.Succeeded(m)
}

// SeasonMatches skips entries that cannot be mapped and logs them.
func (c *Client) SeasonMatches(ctx context.Context) footballdata.Result[[]match.Match] {
	path := "/getmatchdata/" + escape(c.league) + "/" + itoa(c.season) + "/" + escape(c.teamName)
	payloads, status, err := fetch[[]matchPayload](ctx, c, endpointSeasonMatches, path)
	switch status {
	case footballdata.StatusAbsent:
		return footballdata.Absent[[]match.Match]()
	case footballdata.StatusFailed:
		return footballdata.Failed[[]match.Match](err)
	}

	out := make([]match.Match, 0, len(payloads))
	for _, p := range payloads {
		m, err := p.toMatch(c.location)
		if err != nil {
			c.logger.WarnContext(ctx, "skip season match", "match_id", p.MatchID, "error", err)
			continue
		}
		out = append(out, m)
	}
	if len(out) == 0 {
		return footballdata.Absent[[]match.Match]()
	}
	return footballdata.Succeeded(out)
}

func (c *Client) Table(ctx context.Context) footballdata.Result[[]team.Standing] {
	path := "/getbltable/" + escape(c.league) + "/" + itoa(c.season)
	rows, status, err := fetch[[]tableRowPayload](ctx, c, endpointTable, path)
	switch status {
	case footballdata.StatusAbsent:
		return footballdata.Absent[[]team.Standing]()
	case footballdata.StatusFailed:
		return footballdata.Failed[[]team.Standing](err)
	}
	if len(rows) == 0 {
		return footballdata.Absent[[]team.Standing]()
	}

	out := make([]team.Standing, 0, len(rows))
	for _, row := range rows {
		if row.TeamInfoID <= 0 {
			return footballdata.Failed[[]team.Standing](fmt.Errorf("%w: table row without team id", footballdata.ErrMalformed))
		}
		out = append(out, row.toStanding())
	}
	return footballdata.Succeeded(out)
}

func (c *Client) Teams(ctx context.Context) footballdata.Result[[]team.Team] {
	path := "/getavailableteams/" + escape(c.league) + "/" + itoa(c.season)
	refs, status, err := fetch[[]teamRef](ctx, c, endpointTeams, path)
	switch status {
	case footballdata.StatusAbsent:
		return footballdata.Absent[[]team.Team]()
	case footballdata.StatusFailed:
		return footballdata.Failed[[]team.Team](err)
	}

	out := make([]team.Team, 0, len(refs))
	for _, ref := range refs {
		out = append(out, ref.toTeam())
	}
	if len(out) == 0 {
		return footballdata.Absent[[]team.Team]()
	}
	return footballdata.Succeeded(out)
}
