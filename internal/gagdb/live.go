package gagdb

import (
	"sync"

	"go.uber.org/zap"
)

// Opener loads a fresh snapshot.
type Opener func() (*DB, error)

// Live holds the current snapshot and swaps in a new one on Reload. Readers keep
// using the snapshot they got from Current, so a search never sees a half-built index.
type Live struct {
	mu       sync.RWMutex
	current  *DB
	open     Opener
	logger   *zap.Logger
	onReload []func(*DB, error)
}

// LiveOption configures a Live.
type LiveOption func(*Live)

// WithLiveLogger sets the logger for reload outcomes.
func WithLiveLogger(l *zap.Logger) LiveOption {
	return func(lv *Live) {
		lv.logger = l
	}
}

// OnReload registers fn to run after every reload attempt with the new snapshot
// (nil on failure) and the error.
func OnReload(fn func(*DB, error)) LiveOption {
	return func(lv *Live) {
		lv.onReload = append(lv.onReload, fn)
	}
}

// NewLive opens the first snapshot.
func NewLive(open Opener, opts ...LiveOption) (*Live, error) {
	lv := &Live{open: open, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(lv)
	}
	db, err := open()
	if err != nil {
		return nil, err
	}
	lv.current = db
	return lv, nil
}

// Current returns the active snapshot.
func (lv *Live) Current() *DB {
	lv.mu.RLock()
	defer lv.mu.RUnlock()
	return lv.current
}

// Reload opens a new snapshot and makes it current. On failure the previous snapshot
// stays active. The previous snapshot's raw-text index is not closed because readers
// may still hold it.
func (lv *Live) Reload() (*DB, error) {
	db, err := lv.open()
	for _, fn := range lv.onReload {
		fn(db, err)
	}
	if err != nil {
		lv.logger.Warn("reload failed, keeping previous catalog", zap.Error(err))
		return nil, err
	}
	lv.mu.Lock()
	lv.current = db
	lv.mu.Unlock()
	lv.logger.Info("catalog reloaded", zap.Int("gags", db.Store.Count()))
	return db, nil
}
