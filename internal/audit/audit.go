package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/roomkit/roombook/pkg/logger"
	"go.uber.org/zap"
)

// Entry records one admin moderation decision.
type Entry struct {
	UserID    string    `json:"user_id"`
	AdminID   string    `json:"admin_id"`
	Decision  string    `json:"decision"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Log is an append-only JSON-lines file of moderation decisions, kept
// alongside the UserApproval rows in the database. Each write is synced
// to disk before returning.
type Log struct {
	filePath string
	file     *os.File
	mu       sync.Mutex
}

// Open creates the log file (and its directory) if needed and opens it
// for appending.
func Open(filePath string) (*Log, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &Log{
		filePath: filePath,
		file:     file,
	}, nil
}

// Record appends one decision and fsyncs.
func (l *Log) Record(entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Log.Error("audit: failed to marshal entry",
			zap.String("user_id", entry.UserID),
			zap.Error(err),
		)
		return err
	}

	if _, err := l.file.WriteString(string(data) + "\n"); err != nil {
		logger.Log.Error("audit: failed to write entry",
			zap.String("user_id", entry.UserID),
			zap.Error(err),
		)
		return err
	}

	if err := l.file.Sync(); err != nil {
		logger.Log.Error("audit: failed to sync to disk",
			zap.String("user_id", entry.UserID),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// ReadAll returns every recorded entry in write order. Lines that fail
// to decode are skipped; a partial trailing line from a crashed process
// must not poison the whole log.
func (l *Log) ReadAll() ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.file.Seek(0, 0); err != nil {
		return nil, err
	}

	var entries []Entry
	scanner := bufio.NewScanner(l.file)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// Restore append position
	if _, err := l.file.Seek(0, 2); err != nil {
		return nil, err
	}

	return entries, nil
}

// Close releases the underlying file handle.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
