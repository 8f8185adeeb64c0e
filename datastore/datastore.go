// Package datastore keeps a flat JSON object on disk. Each top-level key
// holds one value; the whole object is rewritten on Save.
package datastore

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrClosed is returned by Save after Close.
var ErrClosed = errors.New("datastore is closed")

// Config holds configuration options for the DataStore
type Config struct {
	FilePath    string
	BackupCount int // Number of backup files to keep
	Logger      zerolog.Logger
}

// DefaultConfig returns a default configuration
func DefaultConfig(filePath string) *Config {
	return &Config{
		FilePath:    filePath,
		BackupCount: 3,
		Logger:      zerolog.Nop(),
	}
}

type DataStore struct {
	data         map[string]any // top-level keys; loaded values are json.RawMessage
	file         string
	mu           sync.RWMutex
	config       *Config
	lastChecksum string
	recovered    bool // file was unreadable JSON at load time
	closed       bool
}

// New creates a new DataStore with default configuration
func New(filePath string) (*DataStore, error) {
	return NewWithConfig(DefaultConfig(filePath))
}

// NewWithConfig opens the file at config.FilePath, creating it as "{}" when
// absent. A file that is not a JSON object is moved aside and the store
// starts empty.
func NewWithConfig(config *Config) (*DataStore, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.FilePath == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	dir := filepath.Dir(config.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	store := &DataStore{
		data:   make(map[string]any),
		file:   config.FilePath,
		config: config,
	}

	_, err := os.Stat(config.FilePath)
	switch {
	case os.IsNotExist(err):
		if err := store.writeFileAtomic([]byte("{}")); err != nil {
			return nil, fmt.Errorf("failed to create empty JSON file: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to check file existence: %w", err)
	default:
		if err := store.loadFromFile(); err != nil {
			return nil, err
		}
	}

	return store, nil
}

// Get retrieves a value by key
func (ds *DataStore) Get(key string) (any, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	value, exists := ds.data[key]
	return value, exists
}

// Set stores value under key. It is not written until Save.
func (ds *DataStore) Set(key string, value any) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if ds.closed {
		return
	}
	ds.data[key] = value
}

// Delete removes a key-value pair
func (ds *DataStore) Delete(key string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.data, key)
}

// Recovered reports whether the file on disk was corrupt when opened.
func (ds *DataStore) Recovered() bool {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.recovered
}

// Save writes the current data to disk synchronously.
func (ds *DataStore) Save() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if ds.closed {
		return ErrClosed
	}
	return ds.saveLocked()
}

// Close writes pending data and marks the store closed.
func (ds *DataStore) Close() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if ds.closed {
		return nil
	}
	err := ds.saveLocked()
	ds.closed = true
	return err
}

func (ds *DataStore) saveLocked() error {
	data, err := json.MarshalIndent(ds.data, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	checksum := calculateChecksum(data)
	if checksum == ds.lastChecksum {
		return nil
	}

	if ds.config.BackupCount > 0 {
		if err := ds.createBackup(); err != nil {
			ds.config.Logger.Warn().Err(err).Msg("Failed to create backup")
		}
	}

	if err := ds.writeFileAtomic(data); err != nil {
		return err
	}

	if err := ds.verifyFile(checksum); err != nil {
		return fmt.Errorf("file verification failed: %w", err)
	}

	ds.lastChecksum = checksum
	return nil
}

func (ds *DataStore) loadFromFile() error {
	raw, err := os.ReadFile(ds.file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	// Values stay raw so key order inside nested objects survives until a
	// typed decoder sees them.
	var temp map[string]json.RawMessage
	if err := json.Unmarshal(raw, &temp); err != nil || temp == nil {
		ds.quarantine(raw, err)
		return nil
	}

	for k, v := range temp {
		ds.data[k] = v
	}
	ds.lastChecksum = calculateChecksum(raw)
	return nil
}

// quarantine keeps the unreadable bytes next to the data file and resets
// the store to empty.
func (ds *DataStore) quarantine(raw []byte, cause error) {
	ds.recovered = true
	if cause == nil {
		cause = errors.New("top-level value is not an object")
	}

	dst := fmt.Sprintf("%s.corrupt.%s", ds.file, time.Now().Format("20060102_150405"))
	if err := os.WriteFile(dst, raw, 0644); err != nil {
		ds.config.Logger.Error().Err(err).Str("file", ds.file).Msg("Failed to preserve corrupt data file")
	}
	ds.config.Logger.Error().
		Err(cause).
		Str("file", ds.file).
		Str("preserved_as", dst).
		Msg("Data file is corrupted, resetting to defaults")
}

// writeFileAtomic writes to a temp file, syncs it, then renames over the target.
func (ds *DataStore) writeFileAtomic(data []byte) error {
	tmpFile := ds.file + ".tmp"

	file, err := os.OpenFile(tmpFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open temp file: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	file.Close()

	if err := os.Rename(tmpFile, ds.file); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

func (ds *DataStore) verifyFile(expected string) error {
	actual, err := os.ReadFile(ds.file)
	if err != nil {
		return fmt.Errorf("failed to read file for verification: %w", err)
	}
	if calculateChecksum(actual) != expected {
		return fmt.Errorf("file checksum mismatch")
	}
	return nil
}

// createBackup copies the current file to a timestamped backup.
func (ds *DataStore) createBackup() error {
	current, err := os.ReadFile(ds.file)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(current)) == 0 || bytes.Equal(bytes.TrimSpace(current), []byte("{}")) {
		return nil
	}

	backupFile := fmt.Sprintf("%s.backup.%s", ds.file, time.Now().Format("20060102_150405"))

	dst, err := os.Create(backupFile)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, bytes.NewReader(current)); err != nil {
		return err
	}

	ds.cleanupOldBackups()
	return nil
}

// cleanupOldBackups removes the oldest backups beyond the configured limit.
func (ds *DataStore) cleanupOldBackups() {
	matches, err := filepath.Glob(ds.file + ".backup.*")
	if err != nil || len(matches) <= ds.config.BackupCount {
		return
	}

	type fileInfo struct {
		path    string
		modTime time.Time
	}

	files := make([]fileInfo, 0, len(matches))
	for _, match := range matches {
		if info, err := os.Stat(match); err == nil {
			files = append(files, fileInfo{match, info.ModTime()})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].modTime.Equal(files[j].modTime) {
			return files[i].path < files[j].path
		}
		return files[i].modTime.Before(files[j].modTime)
	})

	for i := 0; i < len(files)-ds.config.BackupCount; i++ {
		os.Remove(files[i].path)
	}
}

func calculateChecksum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Stats returns statistics about the DataStore
func (ds *DataStore) Stats() map[string]any {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	return map[string]any{
		"keys":      len(ds.data),
		"file_path": ds.file,
		"recovered": ds.recovered,
		"last_save": ds.lastChecksum != "",
	}
}
