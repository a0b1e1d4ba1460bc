package nakama

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type sentMessage struct {
	opCode     int64
	data       []byte
	recipients []runtime.Presence
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	sent       []sentMessage
	lastLabel  string
	labelCount int
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.sent = append(md.sent, sentMessage{opCode: opCode, data: append([]byte(nil), data...), recipients: presences})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelCount++
	md.lastLabel = label
	return nil
}

// last returns the most recent message with opCode, decoded.
func (md *mockDispatcher) last(opCode int64) (*structpb.Struct, []runtime.Presence, bool) {
	for i := len(md.sent) - 1; i >= 0; i-- {
		if md.sent[i].opCode != opCode {
			continue
		}
		s := &structpb.Struct{}
		if err := proto.Unmarshal(md.sent[i].data, s); err != nil {
			return nil, nil, false
		}
		return s, md.sent[i].recipients, true
	}
	return nil, nil, false
}

func (md *mockDispatcher) count(opCode int64) int {
	n := 0
	for _, m := range md.sent {
		if m.opCode == opCode {
			n++
		}
	}
	return n
}

type testPresence struct {
	runtime.Presence
	userID string
}

func (p testPresence) GetUserId() string    { return p.userID }
func (p testPresence) GetSessionId() string { return "session-" + p.userID }
func (p testPresence) GetUsername() string  { return p.userID }

type testMessage struct {
	runtime.MatchData
	userID string
	opCode int64
	data   []byte
}

func (m testMessage) GetUserId() string { return m.userID }
func (m testMessage) GetOpCode() int64  { return m.opCode }
func (m testMessage) GetData() []byte   { return m.data }

// fakeNakama implements the parts of runtime.NakamaModule the adapters use.
type fakeNakama struct {
	runtime.NakamaModule
	objects  map[string]*api.StorageObject
	readErr  error
	tables   map[string]string // match id -> owner
	signals  map[string]string // match id -> owner answered by MatchSignal
	live     map[string]*liveTable
	profiles map[string]string
}

// liveTable routes MatchSignal calls to a running handler.
type liveTable struct {
	handler    *matchHandler
	state      *TableState
	dispatcher *mockDispatcher
}

// run registers a running table so MatchList and MatchSignal can reach it.
func (f *fakeNakama) run(handler *matchHandler, state *TableState, dispatcher *mockDispatcher) {
	f.tables[state.MatchID] = state.OwnerID
	f.live[state.MatchID] = &liveTable{handler: handler, state: state, dispatcher: dispatcher}
}

func newFakeNakama() *fakeNakama {
	return &fakeNakama{
		objects:  map[string]*api.StorageObject{},
		tables:   map[string]string{},
		signals:  map[string]string{},
		live:     map[string]*liveTable{},
		profiles: map[string]string{},
	}
}

func storageKey(collection, key, userID string) string {
	return collection + "/" + key + "/" + userID
}

func (f *fakeNakama) StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	var out []*api.StorageObject
	for _, r := range reads {
		if obj, ok := f.objects[storageKey(r.Collection, r.Key, r.UserID)]; ok {
			out = append(out, obj)
		}
	}
	return out, nil
}

func (f *fakeNakama) StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error) {
	acks := make([]*api.StorageObjectAck, 0, len(writes))
	for _, w := range writes {
		k := storageKey(w.Collection, w.Key, w.UserID)
		if _, exists := f.objects[k]; exists && w.Version == "*" {
			return nil, runtime.ErrStorageRejectedVersion
		}
		f.objects[k] = &api.StorageObject{Collection: w.Collection, Key: w.Key, UserId: w.UserID, Value: w.Value}
		acks = append(acks, &api.StorageObjectAck{Collection: w.Collection, Key: w.Key, UserId: w.UserID})
	}
	return acks, nil
}

func (f *fakeNakama) StorageDelete(ctx context.Context, deletes []*runtime.StorageDelete) error {
	for _, d := range deletes {
		delete(f.objects, storageKey(d.Collection, d.Key, d.UserID))
	}
	return nil
}

func (f *fakeNakama) MultiUpdate(ctx context.Context, accountUpdates []*runtime.AccountUpdate, storageWrites []*runtime.StorageWrite, storageDeletes []*runtime.StorageDelete, walletUpdates []*runtime.WalletUpdate, updateLedger bool) ([]*api.StorageObjectAck, []*runtime.WalletUpdateResult, error) {
	acks, err := f.StorageWrite(ctx, storageWrites)
	return acks, nil, err
}

func (f *fakeNakama) AccountUpdateId(ctx context.Context, userID, username string, metadata map[string]interface{}, displayName, timezone, location, langTag, avatarUrl string) error {
	f.profiles[userID] = displayName
	return nil
}

func (f *fakeNakama) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	if module != MatchNameDominoTable {
		return "", fmt.Errorf("unknown module %s", module)
	}
	id := fmt.Sprintf("table-%d.node", len(f.tables)+1)
	owner, _ := params["owner_id"].(string)
	f.tables[id] = owner
	f.signals[id] = owner
	return id, nil
}

func (f *fakeNakama) MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error) {
	var out []*api.Match
	for id, owner := range f.tables {
		if owner != "" && strings.Contains(query, owner) {
			out = append(out, &api.Match{MatchId: id, Authoritative: true})
		}
	}
	return out, nil
}

func (f *fakeNakama) MatchSignal(ctx context.Context, id string, data string) (string, error) {
	if table, ok := f.live[id]; ok {
		_, result := table.handler.MatchSignal(ctx, noopLogger{}, nil, f, table.dispatcher, 0, table.state, data)
		return result, nil
	}
	owner, ok := f.signals[id]
	if !ok {
		return "", errors.New("match not found")
	}
	if data != SignalOwner {
		return "", nil
	}
	return owner, nil
}
