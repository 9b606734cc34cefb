package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/match"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/logging"
)

type stubSyncer struct {
	tableCalls int
	matchCalls int
	err        error
}

func (s *stubSyncer) SyncLeagueTableIfIdle(context.Context) (SyncReport, error) {
	s.tableCalls++
	return SyncReport{}, s.err
}

func (s *stubSyncer) SyncMatchesIfIdle(context.Context) (SyncReport, error) {
	s.matchCalls++
	return SyncReport{}, s.err
}

func TestMatchService_ListJoinsTeams(t *testing.T) {
	t.Parallel()

	store := seedStore(t, nil, []match.Match{openMatch(3, 3), openMatch(1, 1), openMatch(2, 2)})
	seedTable(t, store, 0, time.Now().UTC())

	syncer := &stubSyncer{}
	got, err := NewMatchService(store.Matches(), store.Teams(), syncer, false, logging.NewNop()).List(context.Background())
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("unexpected match count: got=%d want=3", len(got))
	}
	for i, view := range got {
		if view.Match.Matchday != i+1 {
			t.Fatalf("unexpected order at %d: matchday=%d", i, view.Match.Matchday)
		}
	}
	if got[0].Team1.Name != "1. FC Heidenheim 1846" {
		t.Fatalf("unexpected home team: %+v", got[0].Team1)
	}
	if got[0].Team2.ID != 101 || got[0].Team2.Name != "" {
		t.Fatalf("unknown club must fall back to id only: %+v", got[0].Team2)
	}
	if syncer.matchCalls != 0 {
		t.Fatalf("sync must not run without automatic updates")
	}
}

func TestReadServices_AutomaticUpdates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := seedStore(t, nil, []match.Match{openMatch(1, 1)})
	seedTable(t, store, 0, time.Now().UTC())
	syncer := &stubSyncer{err: errors.New("provider down")}

	if _, err := NewMatchService(store.Matches(), store.Teams(), syncer, true, logging.NewNop()).List(ctx); err != nil {
		t.Fatalf("list matches: %v", err)
	}
	teams, err := NewLeagueTableService(store.Teams(), syncer, true, logging.NewNop()).List(ctx)
	if err != nil {
		t.Fatalf("list table: %v", err)
	}
	if syncer.matchCalls != 1 || syncer.tableCalls != 1 {
		t.Fatalf("unexpected sync calls: matches=%d table=%d", syncer.matchCalls, syncer.tableCalls)
	}
	if len(teams) != 2 || teams[0].Standing.Rank != 1 {
		t.Fatalf("stored table must still be served: %+v", teams)
	}
}
