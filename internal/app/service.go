// Package app wires the tracker's passes: ingestion, weekly reminders, the
// full leaderboard, the captains report and the period reset.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/hucklog/hucklog/internal/adapters/chart"
	"github.com/hucklog/hucklog/internal/adapters/directory"
	slackadapter "github.com/hucklog/hucklog/internal/adapters/slack"
	"github.com/hucklog/hucklog/internal/config"
	"github.com/hucklog/hucklog/internal/domain/aggregate"
	"github.com/hucklog/hucklog/internal/domain/model"
	"github.com/hucklog/hucklog/internal/domain/rules"
	"github.com/hucklog/hucklog/internal/domain/scoring"
	"github.com/hucklog/hucklog/internal/report"
	"github.com/hucklog/hucklog/pkg/logger"
	"github.com/hucklog/hucklog/pkg/metrics"
)

// Transport is the workspace capability the service needs.
type Transport interface {
	FetchPage(ctx context.Context, channel, oldest, cursor string, limit int) (slackadapter.Page, error)
	FetchThreadReplies(ctx context.Context, channel, ts string) ([]model.Message, error)
	LatestMessageTS(ctx context.Context, channel string) (string, error)
	PostText(ctx context.Context, channel, text, threadTS string) (string, error)
	PostImage(ctx context.Context, channel, path, comment, threadTS string) error
}

// Store is the activity-log capability the service needs.
type Store interface {
	Merge(ctx context.Context, msgs []model.Message) (model.MergeStats, error)
	List(ctx context.Context) ([]model.Message, error)
}

// Roster is the person-directory capability the service needs.
type Roster interface {
	Get(ctx context.Context) (model.Directory, error)
	Refresh(ctx context.Context) (model.Directory, error)
	AvatarPath(id string) string
}

// Period is the tracking-period capability the service needs.
type Period interface {
	Start() (time.Time, error)
	Reset(now time.Time) error
}

// Service runs the tracker's passes against one workout channel.
type Service struct {
	cfg       *config.Config
	transport Transport
	store     Store
	roster    Roster
	period    Period
	renderer  *chart.Renderer

	rules     rules.Ruleset
	agg       *aggregate.Aggregator
	scorer    scoring.Scorer
	formatter report.Formatter

	loc    *time.Location
	now    func() time.Time
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the service clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates the service from its adapters.
func New(cfg *config.Config, transport Transport, store Store, roster Roster, period Period, opts ...Option) (*Service, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	rs, err := rules.ForVersion(cfg.RulesVersion)
	if err != nil {
		return nil, err
	}

	s := &Service{
		cfg:       cfg,
		transport: transport,
		store:     store,
		roster:    roster,
		period:    period,
		renderer:  chart.NewRenderer(),
		rules:     rs,
		scorer:    scoring.New(rs),
		formatter: report.New(rs),
		loc:       loc,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("tracker")
	}
	s.agg = aggregate.New(store, rs, aggregate.WithLogger(s.logger))
	return s, nil
}

// Ingest fetches the workout channel since the configured lookback, expands
// every thread, and merges the haul into the activity log. A transport
// failure mid-pagination aborts the pass before anything is merged, so the
// log never absorbs a partial fetch.
func (s *Service) Ingest(ctx context.Context) error {
	pass := uuid.NewString()
	started := s.now()
	defer func() {
		metrics.RecordPassDuration(time.Since(started).Seconds())
	}()

	oldest := strconv.FormatFloat(model.Epoch(started.AddDate(0, 0, -s.cfg.FetchDays)), 'f', 6, 64)
	s.logger.Info(ctx, "ingestion pass started",
		logger.String("pass", pass),
		logger.String("oldest", oldest),
	)

	var (
		haul   []model.Message
		cursor string
	)
	for {
		page, err := s.transport.FetchPage(ctx, s.cfg.WorkoutChannel, oldest, cursor, s.cfg.PageSize)
		if err != nil {
			return fmt.Errorf("ingestion pass %s: %w", pass, err)
		}

		for _, msg := range page.Messages {
			if msg.User != "" {
				haul = append(haul, msg)
			}
			if msg.ThreadTS != msg.TS || msg.ThreadTS == "" {
				continue
			}
			replies, err := s.transport.FetchThreadReplies(ctx, s.cfg.WorkoutChannel, msg.TS)
			if err != nil {
				return fmt.Errorf("ingestion pass %s: %w", pass, err)
			}
			for _, reply := range replies {
				if reply.User != "" {
					haul = append(haul, reply)
				}
			}
		}

		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
		if err := s.pause(ctx, s.cfg.PageDelay()); err != nil {
			return err
		}
	}

	stats, err := s.store.Merge(ctx, haul)
	if err != nil {
		return fmt.Errorf("ingestion pass %s: %w", pass, err)
	}
	s.logger.Info(ctx, "ingestion pass finished",
		logger.String("pass", pass),
		logger.Int("fetched", len(haul)),
		logger.Int("new", stats.New),
		logger.Int("edits", stats.Updated),
		logger.Int("rows", stats.Final),
	)
	return nil
}

// WeeklyReminders posts the weekly update for one metric to the channel:
// the summary with the capped progress chart as the headline post, and the
// behind list threaded under it.
func (s *Service) WeeklyReminders(ctx context.Context, channel string, metric rules.Category) error {
	dir, err := s.roster.Get(ctx)
	if err != nil {
		return err
	}
	week := model.WeekOf(s.now().In(s.loc))
	totals, err := s.agg.Totals(ctx, dir, week)
	if err != nil {
		return err
	}

	var (
		summary string
		behind  string
		goal    float64
	)
	switch metric {
	case rules.Lift:
		summary = s.formatter.WeeklyLiftSummary(dir, totals)
		behind = s.formatter.LiftBehindList(dir, totals)
		goal = s.rules.WeeklyLiftGoal()
	default:
		metric = rules.Throw
		summary = s.formatter.WeeklyThrowSummary(dir, totals)
		behind = s.formatter.ThrowBehindList(dir, totals)
		goal = s.rules.WeeklyThrowGoal()
	}

	res := s.scorer.Score(scoring.Input{
		Tallies:       totals,
		People:        dir.Len(),
		GoalPerPerson: goal,
		Metric:        metric,
		Weekly:        true,
		Cap:           true,
	})
	progressPath := filepath.Join(s.cfg.DataDir, "progress.png")
	if err := s.renderer.Progress(progressPath, res); err != nil {
		return err
	}

	// The headline post stays top-level; only the behind list threads
	// under it.
	if err := s.transport.PostImage(ctx, channel, progressPath, summary, ""); err != nil {
		return err
	}
	if err := s.pause(ctx, s.cfg.PostDelay()); err != nil {
		return err
	}
	anchor, err := s.transport.LatestMessageTS(ctx, channel)
	if err != nil {
		return err
	}
	_, err = s.transport.PostText(ctx, channel, behind, anchor)
	return err
}

// PostLeaderboard posts the full semester leaderboard to the channel: the
// avatar scatter plot, both ranked lists, and semester progress.
func (s *Service) PostLeaderboard(ctx context.Context, channel string) error {
	dir, err := s.roster.Get(ctx)
	if err != nil {
		return err
	}
	start, err := s.period.Start()
	if errors.Is(err, directory.ErrNoPeriod) {
		// A missing anchor starts a fresh period instead of failing the
		// pass.
		start = s.now()
		if err := s.period.Reset(start); err != nil {
			return err
		}
		s.logger.Warn(ctx, "no tracking period recorded, starting one now")
	} else if err != nil {
		return err
	}
	totals, err := s.agg.Totals(ctx, dir, model.Since(model.Epoch(start)))
	if err != nil {
		return err
	}

	points := make([]chart.Point, 0, dir.Len())
	for _, m := range dir.Members() {
		t := totals[m.ID]
		points = append(points, chart.Point{
			Label:      m.Name,
			X:          s.agg.GymPoints(t),
			Y:          t.Throw,
			AvatarPath: s.roster.AvatarPath(m.ID),
		})
	}
	plotPath := filepath.Join(s.cfg.DataDir, "plot.png")
	err = s.renderer.ScatterPlot(plotPath, chart.Scatter{
		Title:  "Fitness Leaderboard",
		XLabel: "Workout Points",
		YLabel: "Throwing Minutes",
		Points: points,
	})
	if err != nil {
		return err
	}

	res := s.scorer.Score(scoring.Input{
		Tallies:       totals,
		People:        dir.Len(),
		GoalPerPerson: s.rules.SemesterGoal(),
	})
	progressPath := filepath.Join(s.cfg.DataDir, "progress.png")
	if err := s.renderer.Progress(progressPath, res); err != nil {
		return err
	}

	// The plot leads top-level; the lists and progress thread under it.
	if err := s.transport.PostImage(ctx, channel, plotPath, "Fitness Leaderboard", ""); err != nil {
		return err
	}
	if err := s.pause(ctx, s.cfg.PostDelay()); err != nil {
		return err
	}
	anchor, err := s.transport.LatestMessageTS(ctx, channel)
	if err != nil {
		return err
	}
	if _, err := s.transport.PostText(ctx, channel, s.formatter.ThrowingLeaderboard(dir, totals), anchor); err != nil {
		return err
	}
	if err := s.pause(ctx, s.cfg.PostDelay()); err != nil {
		return err
	}
	if _, err := s.transport.PostText(ctx, channel, s.formatter.WorkoutLeaderboard(dir, totals, s.agg.GymPoints), anchor); err != nil {
		return err
	}
	if err := s.pause(ctx, s.cfg.PostDelay()); err != nil {
		return err
	}
	return s.transport.PostImage(ctx, channel, progressPath, res.Summary(), anchor)
}

// ReportCaptains posts last week's compliance report to the captains
// channel. Last week is anchored four days before now, so a Monday run
// reports on the week that just ended.
func (s *Service) ReportCaptains(ctx context.Context, channel string) error {
	if channel == "" {
		return ErrNoCaptainsChannel
	}
	dir, err := s.roster.Get(ctx)
	if err != nil {
		return err
	}
	week := model.WeekOf(s.now().In(s.loc).AddDate(0, 0, -4))
	totals, err := s.agg.Totals(ctx, dir, week)
	if err != nil {
		return err
	}
	_, err = s.transport.PostText(ctx, channel, s.formatter.CaptainsReport(dir, totals, week, s.loc), "")
	return err
}

// RunScheduled runs one full pass: ingest, then whatever the weekday calls
// for. Saturdays post both weekly reminders; Mondays post the leaderboard
// and the captains report. The trigger itself stays external.
func (s *Service) RunScheduled(ctx context.Context) error {
	if err := s.Ingest(ctx); err != nil {
		return err
	}

	switch s.now().In(s.loc).Weekday() {
	case time.Saturday:
		if err := s.WeeklyReminders(ctx, s.cfg.WorkoutChannel, rules.Throw); err != nil {
			return err
		}
		if err := s.pause(ctx, s.cfg.PostDelay()); err != nil {
			return err
		}
		return s.WeeklyReminders(ctx, s.cfg.WorkoutChannel, rules.Lift)
	case time.Monday:
		if err := s.PostLeaderboard(ctx, s.cfg.WorkoutChannel); err != nil {
			return err
		}
		if s.cfg.CaptainsChannel == "" {
			s.logger.Warn(ctx, "captains channel not configured, skipping report")
			return nil
		}
		if err := s.pause(ctx, s.cfg.PostDelay()); err != nil {
			return err
		}
		return s.ReportCaptains(ctx, s.cfg.CaptainsChannel)
	default:
		return nil
	}
}

// Reset starts a new tracking period: the anchor is rewritten to now and
// the roster snapshot is rebuilt from the channel membership.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.period.Reset(s.now()); err != nil {
		return err
	}
	dir, err := s.roster.Refresh(ctx)
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "tracking period reset", logger.Int("members", dir.Len()))
	return nil
}

// Handlers returns the slash-command table served by the listener. Both
// commands post back to the channel they were invoked from.
func (s *Service) Handlers() map[string]slackadapter.CommandHandler {
	return map[string]slackadapter.CommandHandler{
		"/getleaderboard": func(ctx context.Context, cmd slackadapter.Command) (string, error) {
			if err := s.PostLeaderboard(ctx, cmd.ChannelID); err != nil {
				return "", err
			}
			return "Leaderboard posted.", nil
		},
		"/getrequirements": func(ctx context.Context, cmd slackadapter.Command) (string, error) {
			if err := s.WeeklyReminders(ctx, cmd.ChannelID, rules.Throw); err != nil {
				return "", err
			}
			if err := s.pause(ctx, s.cfg.PostDelay()); err != nil {
				return "", err
			}
			if err := s.WeeklyReminders(ctx, cmd.ChannelID, rules.Lift); err != nil {
				return "", err
			}
			return "Requirements posted.", nil
		},
	}
}

// pause sleeps for d unless the context ends first.
func (s *Service) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
