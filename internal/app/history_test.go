package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"dominoscore/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/stretchr/testify/assert"
)

// recordingLogger captures warnings and errors.
type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Debug(string, ...interface{}) {}
func (l *recordingLogger) Info(string, ...interface{})  {}
func (l *recordingLogger) Warn(format string, v ...interface{}) {
	l.lines = append(l.lines, "WARN "+fmt.Sprintf(format, v...))
}
func (l *recordingLogger) Error(format string, v ...interface{}) {
	l.lines = append(l.lines, "ERROR "+fmt.Sprintf(format, v...))
}
func (l *recordingLogger) WithField(string, interface{}) runtime.Logger      { return l }
func (l *recordingLogger) WithFields(map[string]interface{}) runtime.Logger { return l }
func (l *recordingLogger) Fields() map[string]interface{}                   { return nil }

type fakeHistoryStore struct {
	records map[string][]domain.MatchRecord
	loadErr error
	saveErr  error
	clearErr error
	cleared  []string
}

func (f *fakeHistoryStore) Load(_ context.Context, ownerID string) ([]domain.MatchRecord, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.records[ownerID], nil
}

func (f *fakeHistoryStore) Save(_ context.Context, ownerID string, records []domain.MatchRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.records == nil {
		f.records = map[string][]domain.MatchRecord{}
	}
	f.records[ownerID] = records
	return nil
}

func (f *fakeHistoryStore) Clear(_ context.Context, ownerID string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cleared = append(f.cleared, ownerID)
	delete(f.records, ownerID)
	return nil
}

func TestHistoryGatewayLoadFailureStartsEmpty(t *testing.T) {
	logger := &recordingLogger{}
	gw := NewHistoryGateway(&fakeHistoryStore{loadErr: errors.New("corrupt")}, "owner", logger)

	records := gw.Load(context.Background())
	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.Len(t, logger.lines, 1)
	assert.Contains(t, logger.lines[0], "corrupt")
}

func TestHistoryGatewayMissingArchive(t *testing.T) {
	gw := NewHistoryGateway(&fakeHistoryStore{}, "owner", &recordingLogger{})
	assert.Equal(t, []domain.MatchRecord{}, gw.Load(context.Background()))
}

func TestHistoryGatewaySaveFailureIsLogged(t *testing.T) {
	logger := &recordingLogger{}
	gw := NewHistoryGateway(&fakeHistoryStore{saveErr: errors.New("disk full")}, "owner", logger)

	gw.Save(context.Background(), []domain.MatchRecord{{ID: "a"}})
	assert.Len(t, logger.lines, 1)
	assert.Contains(t, logger.lines[0], "disk full")
}

func TestHistoryGatewayPersistFollowsEvents(t *testing.T) {
	store := &fakeHistoryStore{}
	gw := NewHistoryGateway(store, "owner", &recordingLogger{})
	svc := newTestService()
	ctx := context.Background()

	s := NewSession(gw.Load(ctx))
	for _, a := range []Action{
		StartMatch{Players: [4]string{"a", "b", "c", "d"}},
		round(40, 10),
	} {
		var evs []Event
		s, evs = mustApply(t, svc, s, a)
		gw.Persist(ctx, s, evs)
	}
	assert.Empty(t, store.records["owner"], "nothing is written before a match completes")

	s, evs := mustApply(t, svc, s, round(70, 0))
	gw.Persist(ctx, s, evs)
	assert.Len(t, store.records["owner"], 1)

	// A reloaded session sees the same archive.
	reloaded := NewSession(gw.Load(ctx))
	assert.Equal(t, s.History, reloaded.History)

	s, evs = mustApply(t, svc, s, ClearHistory{})
	gw.Persist(ctx, s, evs)
	assert.Equal(t, []string{"owner"}, store.cleared)
	assert.Empty(t, gw.Load(ctx))
}

func TestNilHistoryGateway(t *testing.T) {
	var gw *HistoryGateway
	assert.Empty(t, gw.Load(context.Background()))
	gw.Save(context.Background(), nil)
	gw.Clear(context.Background())
}

func TestHistoryGatewayWithoutLogger(t *testing.T) {
	down := errors.New("store down")
	gw := NewHistoryGateway(&fakeHistoryStore{loadErr: down, saveErr: down, clearErr: down}, "owner", nil)
	ctx := context.Background()

	assert.NotPanics(t, func() {
		assert.Empty(t, gw.Load(ctx))
		gw.Save(ctx, []domain.MatchRecord{{ID: "a"}})
		gw.Clear(ctx)
	})
}
