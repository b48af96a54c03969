package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/hucklog/hucklog/internal/domain/model"
	"github.com/hucklog/hucklog/pkg/logger"
	"github.com/hucklog/hucklog/pkg/metrics"
)

// Base columns of the activity log. Columns beyond these are carried
// through merges untouched (union schema).
var baseColumns = []string{"text", "user", "ts", "thread_ts"}

// FileStore implements Store on a single CSV file. Writes go to a temp
// file in the same directory followed by a rename, so a crash mid-write
// never corrupts the existing log.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger logger.Logger
}

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewFileStore creates a store backed by the CSV file at path.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{path: path}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// Merge implements Store.
func (s *FileStore) Merge(ctx context.Context, msgs []model.Message) (model.MergeStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.load()
	if err != nil {
		return model.MergeStats{}, err
	}
	oldLen := len(rows)

	index := make(map[string]int, len(rows))
	for i, r := range rows {
		index[r.TS] = i
	}

	stats := model.MergeStats{}
	for _, msg := range msgs {
		if msg.TS == "" {
			return model.MergeStats{}, ErrMissingKey
		}
		if i, ok := index[msg.TS]; ok {
			if rows[i].Text != msg.Text {
				rows[i] = msg
				stats.Updated++
			}
			continue
		}
		index[msg.TS] = len(rows)
		rows = append(rows, msg)
		stats.New++
	}
	stats.Final = len(rows)

	if err := s.persist(rows); err != nil {
		return model.MergeStats{}, err
	}

	s.logger.Info(ctx, "activity log merged",
		logger.Int("before", oldLen),
		logger.Int("after", stats.Final),
		logger.Int("new", stats.New),
		logger.Int("edits", stats.Updated),
	)
	metrics.RecordMerge(stats.New, stats.Updated, stats.Final)
	return stats, nil
}

// List implements Store.
func (s *FileStore) List(ctx context.Context) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Count implements Store.
func (s *FileStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.load()
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// load reads the log file; a missing file is an empty store.
func (s *FileStore) load() ([]model.Message, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open activity log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptLog, err)
	}

	var rows []model.Message
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptLog, err)
		}

		var msg model.Message
		for i, col := range header {
			if i >= len(record) {
				break
			}
			val := record[i]
			switch col {
			case "text":
				msg.Text = val
			case "user":
				msg.User = val
			case "ts":
				msg.TS = val
			case "thread_ts":
				msg.ThreadTS = val
			default:
				if val == "" {
					continue
				}
				if msg.Extra == nil {
					msg.Extra = make(map[string]string)
				}
				msg.Extra[col] = val
			}
		}
		rows = append(rows, msg)
	}
	return rows, nil
}

// persist writes the full log atomically: temp file in the same directory,
// then rename over the old one.
func (s *FileStore) persist(rows []model.Message) error {
	header := append([]string(nil), baseColumns...)
	for _, col := range extraColumns(rows) {
		header = append(header, col)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".messages-*.csv")
	if err != nil {
		return fmt.Errorf("create temp log: %w", err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	writeErr := w.Write(header)
	for _, msg := range rows {
		if writeErr != nil {
			break
		}
		record := make([]string, 0, len(header))
		for _, col := range header {
			switch col {
			case "text":
				record = append(record, msg.Text)
			case "user":
				record = append(record, msg.User)
			case "ts":
				record = append(record, msg.TS)
			case "thread_ts":
				record = append(record, msg.ThreadTS)
			default:
				record = append(record, msg.Extra[col])
			}
		}
		writeErr = w.Write(record)
	}
	if writeErr == nil {
		w.Flush()
		writeErr = w.Error()
	}
	if err := tmp.Close(); writeErr == nil {
		writeErr = err
	}
	if writeErr != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write activity log: %w", writeErr)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace activity log: %w", err)
	}
	return nil
}

// extraColumns returns the sorted union of unknown columns across rows.
func extraColumns(rows []model.Message) []string {
	seen := make(map[string]struct{})
	for _, msg := range rows {
		for col := range msg.Extra {
			seen[col] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for col := range seen {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}
