package directory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const periodFile = "info.json"

// Period is the persisted tracking-period anchor: the moment the current
// semester accounting started.
type Period struct {
	path string
}

// NewPeriod creates the anchor backed by dataDir.
func NewPeriod(dataDir string) *Period {
	return &Period{path: filepath.Join(dataDir, periodFile)}
}

type periodRecord struct {
	Start float64 `json:"start"`
}

// Start returns the tracking-period start. A missing anchor yields
// ErrNoPeriod; run a reset to create one.
func (p *Period) Start() (time.Time, error) {
	raw, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return time.Time{}, ErrNoPeriod
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read period anchor: %w", err)
	}

	var rec periodRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	sec := int64(rec.Start)
	nsec := int64((rec.Start - float64(sec)) * 1e9)
	return time.Unix(sec, nsec), nil
}

// Reset rewrites the anchor to the given moment, replacing any previous
// period wholesale. Like the other shared files, the write goes through a
// temp file and a rename.
func (p *Period) Reset(now time.Time) error {
	raw, err := json.Marshal(periodRecord{
		Start: float64(now.UnixMicro()) / 1e6,
	})
	if err != nil {
		return fmt.Errorf("encode period anchor: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p.path), ".info-*.json")
	if err != nil {
		return fmt.Errorf("create temp anchor: %w", err)
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.Write(raw)
	if err := tmp.Close(); writeErr == nil {
		writeErr = err
	}
	if writeErr != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write period anchor: %w", writeErr)
	}
	if err := os.Rename(tmpName, p.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace period anchor: %w", err)
	}
	return nil
}
