package app

import (
	"context"

	"dominoscore/internal/domain"
	"dominoscore/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// HistoryGateway is the session's view of the archive store for one owner.
// It never reports failures to its caller: the in-memory session stays the
// source of truth and storage problems are only logged.
type HistoryGateway struct {
	store   ports.HistoryStore
	ownerID string
	logger  runtime.Logger
}

// NewHistoryGateway binds a store to an owner. A nil logger discards.
func NewHistoryGateway(store ports.HistoryStore, ownerID string, logger runtime.Logger) *HistoryGateway {
	if logger == nil {
		logger = discardLogger{}
	}
	return &HistoryGateway{store: store, ownerID: ownerID, logger: logger}
}

type discardLogger struct{}

func (discardLogger) Debug(string, ...interface{})                       {}
func (discardLogger) Info(string, ...interface{})                        {}
func (discardLogger) Warn(string, ...interface{})                        {}
func (discardLogger) Error(string, ...interface{})                       {}
func (d discardLogger) WithField(string, interface{}) runtime.Logger     { return d }
func (d discardLogger) WithFields(map[string]interface{}) runtime.Logger { return d }
func (discardLogger) Fields() map[string]interface{}                     { return nil }

// Load returns the owner's archive, or an empty archive if it cannot be read.
func (g *HistoryGateway) Load(ctx context.Context) []domain.MatchRecord {
	if g == nil || g.store == nil {
		return []domain.MatchRecord{}
	}
	records, err := g.store.Load(ctx, g.ownerID)
	if err != nil {
		g.logger.Warn("HistoryGateway: Failed to load history for %s, starting empty: %v", g.ownerID, err)
		return []domain.MatchRecord{}
	}
	if records == nil {
		return []domain.MatchRecord{}
	}
	return records
}

// Save writes the archive on a best-effort basis.
func (g *HistoryGateway) Save(ctx context.Context, records []domain.MatchRecord) {
	if g == nil || g.store == nil {
		return
	}
	if err := g.store.Save(ctx, g.ownerID, records); err != nil {
		g.logger.Error("HistoryGateway: Failed to save %d records for %s: %v", len(records), g.ownerID, err)
		return
	}
	g.logger.Debug("HistoryGateway: Saved %d records for %s", len(records), g.ownerID)
}

// Clear removes the archive on a best-effort basis.
func (g *HistoryGateway) Clear(ctx context.Context) {
	if g == nil || g.store == nil {
		return
	}
	if err := g.store.Clear(ctx, g.ownerID); err != nil {
		g.logger.Error("HistoryGateway: Failed to clear history for %s: %v", g.ownerID, err)
	}
}

// Persist performs the storage side effect implied by session events. Call it
// after the transition that produced the events has been committed.
func (g *HistoryGateway) Persist(ctx context.Context, session Session, events []Event) {
	for _, ev := range events {
		switch ev.Kind {
		case EventMatchCompleted:
			g.Save(ctx, session.History)
		case EventHistoryCleared:
			g.Clear(ctx)
		}
	}
}
