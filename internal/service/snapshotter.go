package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/noopishere/vector-mobile/internal/domain"
	"github.com/noopishere/vector-mobile/internal/store/memory"
)

// Board is the serialised snapshot of the market board and portfolio.
type Board struct {
	TakenAt   time.Time                 `json:"taken_at"`
	Markets   []domain.Market           `json:"markets"`
	Positions []domain.Position         `json:"positions"`
	Stats     domain.PortfolioStats     `json:"stats"`
	History   []domain.TradeHistoryItem `json:"history"`
}

// Snapshotter writes the board to object storage under
// <prefix>/YYYY/MM/DD/board-HHMMSS.json.
type Snapshotter struct {
	state  *memory.State
	writer domain.BlobWriter
	prefix string
	logger *slog.Logger
	now    func() time.Time
}

// NewSnapshotter creates a Snapshotter.
func NewSnapshotter(state *memory.State, writer domain.BlobWriter, prefix string, logger *slog.Logger) *Snapshotter {
	if prefix == "" {
		prefix = "snapshots"
	}
	return &Snapshotter{
		state:  state,
		writer: writer,
		prefix: prefix,
		logger: logger.With(slog.String("component", "snapshotter")),
		now:    time.Now,
	}
}

// Snapshot uploads the current board and returns the object key.
func (s *Snapshotter) Snapshot(ctx context.Context) (string, error) {
	now := s.now().UTC()
	positions := s.state.Positions()
	history := s.state.TradeHistory()
	board := Board{
		TakenAt:   now,
		Markets:   s.state.Markets(),
		Positions: positions,
		Stats:     ComputeStats(positions, history),
		History:   history,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(board); err != nil {
		return "", fmt.Errorf("snapshotter: encode: %w", err)
	}

	key := SnapshotKey(s.prefix, now)
	if err := s.writer.Put(ctx, key, &buf, "application/json"); err != nil {
		return "", fmt.Errorf("snapshotter: upload %s: %w", key, err)
	}
	s.logger.InfoContext(ctx, "snapshotter: board uploaded",
		slog.String("key", key),
		slog.Int("markets", len(board.Markets)),
	)
	return key, nil
}

// SnapshotKey builds the object key for a snapshot taken at t.
func SnapshotKey(prefix string, t time.Time) string {
	return path.Join(prefix, t.Format("2006/01/02"), "board-"+t.Format("150405")+".json")
}
