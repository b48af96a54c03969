// Package directory maintains the person roster: a persisted id -> name
// snapshot, circularly masked avatars, and the tracking-period anchor.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"

	"github.com/hucklog/hucklog/internal/adapters/slack"
	"github.com/hucklog/hucklog/internal/domain/model"
	"github.com/hucklog/hucklog/pkg/logger"
	"github.com/hucklog/hucklog/pkg/metrics"
)

const (
	snapshotFile = "people.json"
	profilesDir  = "profiles"
)

// Roster is the workspace capability the directory needs.
type Roster interface {
	ListChannelMembers(ctx context.Context, channel string) ([]string, error)
	GetProfile(ctx context.Context, id string) (slack.Profile, error)
}

// Source loads the roster snapshot and rebuilds it from the workspace.
type Source struct {
	roster  Roster
	channel string
	dataDir string
	http    *http.Client
	logger  logger.Logger
}

// Option applies a configuration option to the Source.
type Option func(*Source)

// WithLogger sets a custom logger for the source.
func WithLogger(l logger.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHTTPClient sets the client used to download avatars.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Source) {
		if c != nil {
			s.http = c
		}
	}
}

// NewSource creates a directory source persisting under dataDir and
// refreshing from the given channel's membership.
func NewSource(roster Roster, channel, dataDir string, opts ...Option) *Source {
	s := &Source{
		roster:  roster,
		channel: channel,
		dataDir: dataDir,
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// Get returns the persisted roster, refreshing from the workspace when no
// snapshot exists yet.
func (s *Source) Get(ctx context.Context) (model.Directory, error) {
	raw, err := os.ReadFile(s.snapshotPath())
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Info(ctx, "no roster snapshot, refreshing from workspace")
		return s.Refresh(ctx)
	}
	if err != nil {
		return model.Directory{}, fmt.Errorf("read roster snapshot: %w", err)
	}

	var names map[string]string
	if err := json.Unmarshal(raw, &names); err != nil {
		return model.Directory{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return model.NewDirectory(names), nil
}

// Refresh rebuilds the roster from the channel membership, downloads and
// masks every member's avatar, and replaces the snapshot wholesale. Avatar
// failures are logged and counted but do not abort the refresh.
func (s *Source) Refresh(ctx context.Context) (model.Directory, error) {
	ids, err := s.roster.ListChannelMembers(ctx, s.channel)
	if err != nil {
		return model.Directory{}, err
	}

	if err := os.MkdirAll(filepath.Join(s.dataDir, profilesDir), 0o755); err != nil {
		return model.Directory{}, fmt.Errorf("create profiles dir: %w", err)
	}

	names := make(map[string]string, len(ids))
	for _, id := range ids {
		profile, err := s.roster.GetProfile(ctx, id)
		if err != nil {
			return model.Directory{}, err
		}
		names[id] = profile.RealName

		if err := s.saveAvatar(ctx, profile); err != nil {
			s.logger.Warn(ctx, "avatar refresh failed",
				logger.String("member", id),
				logger.Error(err),
			)
			metrics.RecordAvatarFailure()
		}
	}

	if err := s.writeSnapshot(names); err != nil {
		return model.Directory{}, err
	}

	s.logger.Info(ctx, "roster refreshed", logger.Int("members", len(names)))
	metrics.RecordDirectoryRefresh()
	return model.NewDirectory(names), nil
}

// AvatarPath returns where a member's masked avatar lives; the file may be
// absent when the avatar download failed.
func (s *Source) AvatarPath(id string) string {
	return filepath.Join(s.dataDir, profilesDir, id+".png")
}

func (s *Source) snapshotPath() string {
	return filepath.Join(s.dataDir, snapshotFile)
}

func (s *Source) writeSnapshot(names map[string]string) error {
	raw, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		return fmt.Errorf("encode roster snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(s.dataDir, ".people-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.Write(raw)
	if err := tmp.Close(); writeErr == nil {
		writeErr = err
	}
	if writeErr != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write roster snapshot: %w", writeErr)
	}
	if err := os.Rename(tmpName, s.snapshotPath()); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace roster snapshot: %w", err)
	}
	return nil
}

// saveAvatar downloads the member's avatar and persists it under a
// circular mask, sized to the smaller image dimension.
func (s *Source) saveAvatar(ctx context.Context, profile slack.Profile) error {
	if profile.AvatarURL == "" {
		return fmt.Errorf("member %s has no avatar", profile.ID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profile.AvatarURL, nil)
	if err != nil {
		return fmt.Errorf("build avatar request: %w", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("download avatar: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download avatar: status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return fmt.Errorf("decode avatar: %w", err)
	}

	masked := maskCircular(img)
	if err := gg.SavePNG(s.AvatarPath(profile.ID), masked); err != nil {
		return fmt.Errorf("save avatar: %w", err)
	}
	return nil
}

func maskCircular(img image.Image) image.Image {
	bounds := img.Bounds()
	size := bounds.Dx()
	if bounds.Dy() < size {
		size = bounds.Dy()
	}

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()
	dc.DrawImage(img, -bounds.Min.X, -bounds.Min.Y)
	return dc.Image()
}
