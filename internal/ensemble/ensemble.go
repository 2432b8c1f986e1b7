// Package ensemble fans the transcript window out to every configured
// model concurrently and reduces their verdicts by majority vote.
package ensemble

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/stopgate/stopgate/internal/config"
	"github.com/stopgate/stopgate/internal/models"
)

// ErrNoVotes indicates every configured model abstained (timed out, failed,
// or returned an unparseable verdict). The caller falls back to its local
// signal.
var ErrNoVotes = errors.New("ensemble produced no usable votes")

// Ensemble queries a fixed set of clients and tallies their votes.
type Ensemble struct {
	clients []Client
}

// New builds an ensemble over the given clients.
func New(clients ...Client) *Ensemble {
	return &Ensemble{clients: clients}
}

// FromConfig builds one client per configured (provider, model) pair.
func FromConfig(cfg *config.Config) (*Ensemble, error) {
	var clients []Client
	for _, p := range cfg.Providers {
		timeout := p.EffectiveTimeout(cfg.TimeoutSeconds)
		for _, model := range p.Models {
			c, err := NewOpenAIClient(p, model, timeout, cfg.SystemPrompt)
			if err != nil {
				return nil, err
			}
			clients = append(clients, c)
		}
	}
	return New(clients...), nil
}

// Size returns the number of configured voters.
func (e *Ensemble) Size() int {
	return len(e.clients)
}

// Consult sends the window to every client concurrently and collects the
// votes that arrive. Failed or timed-out clients abstain; the tally proceeds
// with whatever arrived. Zero usable votes is ErrNoVotes.
func (e *Ensemble) Consult(ctx context.Context, window string) (Tally, error) {
	if len(e.clients) == 0 {
		return Tally{}, ErrNoVotes
	}

	// Each client writes only its own slot; no locking needed.
	votes := make([]models.Vote, len(e.clients))
	valid := make([]bool, len(e.clients))

	var eg errgroup.Group
	for i, c := range e.clients {
		eg.Go(func() error {
			vote, err := c.Judge(ctx, window)
			if err != nil {
				slog.Debug("provider abstained", "client", c.ID(), "error", err)
				return nil
			}
			votes[i] = vote
			valid[i] = true
			return nil
		})
	}
	// Judge errors become abstentions, so Wait never returns an error.
	_ = eg.Wait()

	var tally Tally
	for i := range votes {
		if valid[i] {
			tally.Votes = append(tally.Votes, votes[i])
		}
	}
	if len(tally.Votes) == 0 {
		return Tally{}, ErrNoVotes
	}

	slog.Debug("ensemble consulted",
		"configured", len(e.clients),
		"voted", len(tally.Votes),
		"should_continue", tally.ShouldContinue())
	return tally, nil
}
