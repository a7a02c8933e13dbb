package market

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sink receives state-change notifications after each store commit. Calls are
// made from the serialized write path with already-copied values, so an
// implementation can hold them without racing the store; it should still
// return quickly to keep the ingestion path moving.
type Sink interface {
	CatalogReplaced(assets []Asset)
	AssetUpdated(asset Asset)
	ConnectionChanged(connected bool)
	StreamError(message string)
}

// Store is the authoritative in-memory asset table. All mutations are
// serialized behind one mutex; reads return value copies, and committed
// series slices are never mutated afterwards, so snapshots are safe to share.
type Store struct {
	logger *zap.Logger
	now    func() time.Time

	mu     sync.RWMutex
	assets map[string]Asset
	order  []string // catalog order, for stable listings
	status ConnectionStatus
	sinks  []Sink
}

func NewStore(logger *zap.Logger) *Store {
	return &Store{
		logger: logger,
		now:    time.Now,
		assets: make(map[string]Asset),
	}
}

// AddSink registers a sink for subsequent state-change notifications.
func (s *Store) AddSink(sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, sink)
}

// SetCatalog replaces the entire table. Used once at startup; clears any
// recorded stream error.
func (s *Store) SetCatalog(assets []Asset) {
	s.mu.Lock()
	now := s.now().UnixMilli()
	s.assets = make(map[string]Asset, len(assets))
	s.order = make([]string, 0, len(assets))
	for _, a := range assets {
		if a.LastUpdate == 0 {
			a.LastUpdate = now
		}
		s.assets[a.ID] = a
		s.order = append(s.order, a.ID)
	}
	s.status.LastError = ""
	sinks := append([]Sink(nil), s.sinks...)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("catalog loaded", zap.Int("assets", len(assets)))
	for _, sink := range sinks {
		sink.CatalogReplaced(snap)
	}
}

// ApplyPriceSample commits one price observation for the given asset. A miss
// is a no-op: the feed may reference symbols outside the tracked catalog.
func (s *Store) ApplyPriceSample(id string, price float64, timestamp int64) {
	s.mu.Lock()
	old, ok := s.assets[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	next := ApplySample(old, Sample{Price: price, Timestamp: timestamp}, s.now())
	s.assets[id] = next
	sinks := append([]Sink(nil), s.sinks...)
	s.mu.Unlock()

	for _, sink := range sinks {
		sink.AssetUpdated(next)
	}
}

// SetConnected flips the feed connectivity flag.
func (s *Store) SetConnected(connected bool) {
	s.mu.Lock()
	s.status.Connected = connected
	sinks := append([]Sink(nil), s.sinks...)
	s.mu.Unlock()

	for _, sink := range sinks {
		sink.ConnectionChanged(connected)
	}
}

// SetStreamError records a stream error description. It does not imply a
// connectivity change; the stream client issues both signals independently.
func (s *Store) SetStreamError(message string) {
	s.mu.Lock()
	s.status.LastError = message
	sinks := append([]Sink(nil), s.sinks...)
	s.mu.Unlock()

	for _, sink := range sinks {
		sink.StreamError(message)
	}
}

// Snapshot returns a copy of every tracked asset in catalog order.
func (s *Store) Snapshot() []Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() []Asset {
	out := make([]Asset, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.assets[id])
	}
	return out
}

// Get returns a copy of one asset's state.
func (s *Store) Get(id string) (Asset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assets[id]
	return a, ok
}

// Status returns the current feed connection status.
func (s *Store) Status() ConnectionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}
