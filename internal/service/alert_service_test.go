package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noopishere/vector-mobile/internal/domain"
	"github.com/noopishere/vector-mobile/internal/notify"
)

type recordingSender struct {
	mu   sync.Mutex
	msgs []notify.Message
	err  error
}

func (s *recordingSender) Name() string { return "recorder" }

func (s *recordingSender) Send(_ context.Context, msg notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return s.err
}

func moveMarket(ms []domain.Market, id string, p float64) []domain.Market {
	for i := range ms {
		if ms[i].ID == id {
			ms[i].Probability = p
		}
	}
	return ms
}

func TestAlertsOnWatchedMoves(t *testing.T) {
	ctx := context.Background()
	state := seededState()
	state.ToggleWatch("1")
	sender := &recordingSender{}
	alerts := NewAlertService(state, notify.NewNotifier([]notify.Sender{sender}, nil, quietLogger()), 0.05, quietLogger())

	markets := state.Markets()
	assert.Zero(t, alerts.Observe(ctx, markets), "first sighting sets the baseline")

	// Small drifts accumulate against the baseline.
	assert.Zero(t, alerts.Observe(ctx, moveMarket(markets, "1", 0.74)))
	assert.Zero(t, alerts.Observe(ctx, moveMarket(markets, "1", 0.76)))
	assert.Equal(t, 1, alerts.Observe(ctx, moveMarket(markets, "1", 0.77)))

	// Unwatched markets never alert.
	assert.Zero(t, alerts.Observe(ctx, moveMarket(markets, "3", 0.90)))

	require.Len(t, sender.msgs, 1)
	assert.Equal(t, notify.EventPriceMove, sender.msgs[0].Event)
	assert.Equal(t, "Will Fed cut rates in March 2026?", sender.msgs[0].Title)
	assert.Equal(t, "YES moved 72¢ -> 77¢ (+5¢)", sender.msgs[0].Body)
}

func TestAlertsRewatchStartsFreshBaseline(t *testing.T) {
	ctx := context.Background()
	state := seededState()
	state.ToggleWatch("1")
	sender := &recordingSender{}
	alerts := NewAlertService(state, notify.NewNotifier([]notify.Sender{sender}, nil, quietLogger()), 0.05, quietLogger())

	markets := state.Markets()
	assert.Zero(t, alerts.Observe(ctx, markets))

	state.ToggleWatch("1")
	assert.Zero(t, alerts.Observe(ctx, moveMarket(markets, "1", 0.90)))

	state.ToggleWatch("1")
	assert.Zero(t, alerts.Observe(ctx, markets), "first tick after re-watch only records the baseline")
	assert.Equal(t, 1, alerts.Observe(ctx, moveMarket(markets, "1", 0.96)))

	require.Len(t, sender.msgs, 1)
	assert.Equal(t, "YES moved 90¢ -> 96¢ (+6¢)", sender.msgs[0].Body)
}

func TestAlertsRespectSettings(t *testing.T) {
	ctx := context.Background()
	state := seededState()
	state.ToggleWatch("1")
	off := false
	state.UpdateSettings(domain.SettingsPatch{Notifications: &off})
	sender := &recordingSender{}
	alerts := NewAlertService(state, notify.NewNotifier([]notify.Sender{sender}, nil, quietLogger()), 0.05, quietLogger())

	markets := state.Markets()
	alerts.Observe(ctx, markets)
	assert.Zero(t, alerts.Observe(ctx, moveMarket(markets, "1", 0.30)))
	assert.Empty(t, sender.msgs)
}

func TestAlertsWithoutNotifier(t *testing.T) {
	state := seededState()
	state.ToggleWatch("1")
	alerts := NewAlertService(state, nil, 0.05, quietLogger())
	assert.Zero(t, alerts.Observe(context.Background(), moveMarket(state.Markets(), "1", 0.10)))
}

func TestAlertsFailedSendNotCounted(t *testing.T) {
	ctx := context.Background()
	state := seededState()
	state.ToggleWatch("1")
	sender := &recordingSender{err: errors.New("boom")}
	alerts := NewAlertService(state, notify.NewNotifier([]notify.Sender{sender}, nil, quietLogger()), 0.05, quietLogger())

	markets := state.Markets()
	alerts.Observe(ctx, markets)
	assert.Zero(t, alerts.Observe(ctx, moveMarket(markets, "1", 0.50)))
	assert.Len(t, sender.msgs, 1)
}

type memBlob struct {
	path        string
	contentType string
	body        string
	err         error
}

func (b *memBlob) Put(_ context.Context, path string, r io.Reader, contentType string) error {
	if b.err != nil {
		return b.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.path, b.contentType, b.body = path, contentType, string(data)
	return nil
}

func TestSnapshotKey(t *testing.T) {
	at := time.Date(2026, 7, 4, 9, 5, 3, 0, time.UTC)
	assert.Equal(t, "snapshots/2026/07/04/board-090503.json", SnapshotKey("snapshots", at))
	assert.Equal(t, "a/b/2026/07/04/board-090503.json", SnapshotKey("a/b/", at))
}

func TestSnapshotUploadsBoard(t *testing.T) {
	blob := &memBlob{}
	snap := NewSnapshotter(seededState(), blob, "", quietLogger())
	snap.now = func() time.Time { return testNow }

	key, err := snap.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "snapshots/2026/03/02/board-120000.json", key)
	assert.Equal(t, key, blob.path)
	assert.Equal(t, "application/json", blob.contentType)
	assert.True(t, strings.HasPrefix(blob.body, `{"taken_at":"2026-03-02T12:00:00Z"`))
	assert.Contains(t, blob.body, `"active_positions":4`)
}

func TestSnapshotUploadError(t *testing.T) {
	snap := NewSnapshotter(seededState(), &memBlob{err: domain.ErrStorageUnavailable}, "x", quietLogger())
	_, err := snap.Snapshot(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}
