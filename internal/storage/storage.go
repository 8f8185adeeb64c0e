// /internal/storage/storage.go
package storage

import (
	"encoding/json"
	"fmt"
	"sync"

	"reactbot/datastore"
	"reactbot/internal/metrics"
	st "reactbot/internal/storagetypes"

	"github.com/rs/zerolog"
)

// Options tune how the snapshot file is kept.
type Options struct {
	BackupCount int
	Logger      zerolog.Logger
}

// Storage owns the roster and per-user behaviors. All state lives in memory
// and every change is written to disk as a full snapshot before the
// mutating call returns.
type Storage struct {
	ds   *datastore.DataStore
	mu   sync.RWMutex
	snap *st.Snapshot
	log  zerolog.Logger
}

func New(filePath string, opts Options) (*Storage, error) {
	log := opts.Logger.With().Str("component", "storage").Logger()

	cfg := datastore.DefaultConfig(filePath)
	cfg.BackupCount = opts.BackupCount
	cfg.Logger = log

	ds, err := datastore.NewWithConfig(cfg)
	if err != nil {
		return nil, err
	}

	s := &Storage{ds: ds, log: log}
	s.load()

	stats := ds.Stats()
	log.Info().
		Str("file", filePath).
		Int("keys", stats["keys"].(int)).
		Int("users", len(s.snap.CommandUsers)).
		Int("roles", len(s.snap.CommandRoles)).
		Int("emoji_targets", len(s.snap.UserEmojis)).
		Int("mock_targets", len(s.snap.MockTargets)).
		Msg("Storage loaded")
	return s, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// load decodes the four snapshot fields. Missing fields default to empty;
// a field of the wrong shape resets the whole snapshot.
func (s *Storage) load() {
	snap := st.Empty()

	fields := []struct {
		key string
		dst any
	}{
		{st.KeyUserEmojis, &snap.UserEmojis},
		{st.KeyCommandUsers, &snap.CommandUsers},
		{st.KeyCommandRoles, &snap.CommandRoles},
		{st.KeyMockTargets, &snap.MockTargets},
	}

	for _, f := range fields {
		if err := s.decodeKey(f.key, f.dst); err != nil {
			s.log.Error().Err(err).Str("field", f.key).Msg("Snapshot field is malformed, resetting to defaults")
			snap = st.Empty()
			break
		}
	}

	if snap.UserEmojis == nil {
		snap.UserEmojis = map[string][]string{}
	}
	if snap.CommandUsers == nil {
		snap.CommandUsers = []int64{}
	}
	if snap.CommandRoles == nil {
		snap.CommandRoles = []int64{}
	}
	if snap.MockTargets == nil {
		snap.MockTargets = st.MockTargets{}
	}

	s.snap = snap
}

func (s *Storage) decodeKey(key string, dst any) error {
	data, exists := s.ds.Get(key)
	if !exists {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("error marshalling %s: %w", key, err)
	}
	if err := json.Unmarshal(jsonData, dst); err != nil {
		return fmt.Errorf("error unmarshalling %s: %w", key, err)
	}
	return nil
}

// persistLocked writes the full snapshot. Callers hold s.mu.
func (s *Storage) persistLocked() error {
	s.ds.Set(st.KeyUserEmojis, s.snap.UserEmojis)
	s.ds.Set(st.KeyCommandUsers, s.snap.CommandUsers)
	s.ds.Set(st.KeyCommandRoles, s.snap.CommandRoles)
	s.ds.Set(st.KeyMockTargets, s.snap.MockTargets)

	if err := s.ds.Save(); err != nil {
		metrics.SnapshotSaves.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Msg("Failed to save snapshot")
		return fmt.Errorf("save snapshot: %w", err)
	}
	metrics.SnapshotSaves.WithLabelValues("ok").Inc()
	return nil
}
