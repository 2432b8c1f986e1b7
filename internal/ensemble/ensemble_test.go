package ensemble

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stopgate/stopgate/internal/models"
	"github.com/stretchr/testify/require"
)

// fakeClient is a hand-rolled Client for tests.
type fakeClient struct {
	id    string
	vote  models.Vote
	err   error
	delay time.Duration
}

func (f *fakeClient) ID() string { return f.id }

func (f *fakeClient) Judge(ctx context.Context, window string) (models.Vote, error) {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return models.Vote{}, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return models.Vote{}, f.err
	}
	return f.vote, nil
}

func voter(id string, shouldContinue bool) *fakeClient {
	return &fakeClient{
		id:   id,
		vote: models.Vote{ProviderID: id, ModelID: "m", ShouldContinue: shouldContinue},
	}
}

func abstainer(id string) *fakeClient {
	return &fakeClient{id: id, err: errors.New("boom")}
}

func TestConsult_Majority(t *testing.T) {
	e := New(voter("a", true), voter("b", false), voter("c", true))

	tally, err := e.Consult(context.Background(), "window")
	require.NoError(t, err)
	require.Len(t, tally.Votes, 3)
	require.True(t, tally.ShouldContinue())

	resume, stop := tally.Counts()
	require.Equal(t, 2, resume)
	require.Equal(t, 1, stop)
}

func TestConsult_TieContinues(t *testing.T) {
	e := New(voter("a", true), voter("b", false))

	tally, err := e.Consult(context.Background(), "window")
	require.NoError(t, err)
	require.True(t, tally.ShouldContinue())
}

func TestConsult_MajorityStop(t *testing.T) {
	e := New(voter("a", false), voter("b", false), voter("c", true))

	tally, err := e.Consult(context.Background(), "window")
	require.NoError(t, err)
	require.False(t, tally.ShouldContinue())
}

func TestConsult_AbstentionsExcluded(t *testing.T) {
	e := New(abstainer("a"), voter("b", false), abstainer("c"))

	tally, err := e.Consult(context.Background(), "window")
	require.NoError(t, err)
	require.Len(t, tally.Votes, 1)
	require.False(t, tally.ShouldContinue())
}

func TestConsult_AllAbstain(t *testing.T) {
	e := New(abstainer("a"), abstainer("b"))

	_, err := e.Consult(context.Background(), "window")
	require.ErrorIs(t, err, ErrNoVotes)
}

func TestConsult_NoClients(t *testing.T) {
	_, err := New().Consult(context.Background(), "window")
	require.ErrorIs(t, err, ErrNoVotes)
}

func TestConsult_SlowClientAbstainsOnCancel(t *testing.T) {
	slow := &fakeClient{
		id:    "slow",
		delay: time.Minute,
		vote:  models.Vote{ShouldContinue: false},
	}
	e := New(voter("fast", true), slow)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	tally, err := e.Consult(ctx, "window")
	require.NoError(t, err)
	require.Len(t, tally.Votes, 1)
	require.True(t, tally.ShouldContinue())
}

func TestTally_OrderInvariant(t *testing.T) {
	votes := []models.Vote{
		{ProviderID: "a", ShouldContinue: true},
		{ProviderID: "b", ShouldContinue: false},
		{ProviderID: "c", ShouldContinue: true},
	}

	forward := Tally{Votes: votes}
	reversed := Tally{Votes: []models.Vote{votes[2], votes[1], votes[0]}}

	require.Equal(t, forward.ShouldContinue(), reversed.ShouldContinue())
	fr, fs := forward.Counts()
	rr, rs := reversed.Counts()
	require.Equal(t, fr, rr)
	require.Equal(t, fs, rs)
}

func TestTally_Reason(t *testing.T) {
	tally := Tally{Votes: []models.Vote{
		{ShouldContinue: true, Rationale: "output was cut off"},
		{ShouldContinue: false, Rationale: "looks finished"},
		{ShouldContinue: true},
	}}

	reason := tally.Reason()
	require.Contains(t, reason, "2-1")
	require.Contains(t, reason, "resume")
	require.Contains(t, reason, "output was cut off")
}
