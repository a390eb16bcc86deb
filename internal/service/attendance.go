package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/IkonicR/ClanOS-sub001/internal/config"
	"github.com/IkonicR/ClanOS-sub001/internal/constants"
	"github.com/IkonicR/ClanOS-sub001/internal/domain"
	"github.com/IkonicR/ClanOS-sub001/internal/scoring"
)

type AttendanceService struct {
	history HistoryStore
	cfg     scoring.Config
	logger  zerolog.Logger
	now     func() time.Time
}

func NewAttendanceService(history HistoryStore, cfg *config.Config, logger zerolog.Logger) *AttendanceService {
	return &AttendanceService{
		history: history,
		cfg:     cfg.Scoring.Normalize(),
		logger:  logger,
		now:     time.Now,
	}
}

// Analyze scores missed attacks over the last windowDays. Zero uses the configured default.
func (s *AttendanceService) Analyze(ctx context.Context, clanTag string, windowDays int) (domain.AttendanceReport, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if windowDays <= 0 {
		windowDays = s.cfg.AttendanceWindowDays
	}
	windowDays = scoring.ClampWindowDays(windowDays)

	now := s.now().UTC()
	since := now.AddDate(0, 0, -windowDays)

	var (
		roster  []domain.RosterEntry
		attacks []domain.AttackRecord
		events  []domain.WarEvent
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roster, err = s.history.ListRoster(gCtx, clanTag, since)
		return err
	})
	g.Go(func() error {
		var err error
		attacks, err = s.history.ListAttacks(gCtx, clanTag, since)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.history.ListEvents(gCtx, clanTag, since)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("clan", clanTag).Msg("failed to load war history")
		return domain.AttendanceReport{}, fmt.Errorf("failed to load war history: %w", err)
	}

	report := scoring.AnalyzeAttendance(roster, attacks, events, windowDays, s.cfg, now)

	s.logger.Debug().
		Str("clan", clanTag).
		Int("window_days", windowDays).
		Int("events", report.Summary.EventsAnalyzed).
		Int("members", report.Summary.MembersAnalyzed).
		Msg("attendance analyzed")
	return report, nil
}
