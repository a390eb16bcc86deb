package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/IkonicR/ClanOS-sub001/internal/api"
	"github.com/IkonicR/ClanOS-sub001/internal/constants"
	"github.com/IkonicR/ClanOS-sub001/internal/domain"
)

// IngestService copies the live clan and war state into the history and snapshot stores.
type IngestService struct {
	source    RosterSource
	history   HistoryStore
	snapshots SnapshotStore
	clans     ClanStore
	logger    zerolog.Logger
	now       func() time.Time
}

func NewIngestService(source RosterSource, history HistoryStore, snapshots SnapshotStore, clans ClanStore, logger zerolog.Logger) *IngestService {
	return &IngestService{
		source:    source,
		history:   history,
		snapshots: snapshots,
		clans:     clans,
		logger:    logger,
		now:       time.Now,
	}
}

// SyncClan stores today's activity snapshot for every member and any started
// war the clan is in, regular or league.
func (s *IngestService) SyncClan(ctx context.Context, clanTag string) (domain.SyncResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	result := domain.SyncResult{ClanTag: clanTag}

	apiCtx, apiCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer apiCancel()

	g, gCtx := errgroup.WithContext(apiCtx)
	var clan *api.ClanResponse
	var war *api.WarResponse

	g.Go(func() error {
		var err error
		clan, err = s.source.GetClan(gCtx, clanTag)
		if err != nil {
			return upstreamError("fetch clan", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		war, err = s.source.GetCurrentWar(gCtx, clanTag)
		if api.StatusCode(err) == http.StatusForbidden {
			// private war log: snapshots are still worth keeping
			result.WarSkipped = "war log is private"
			return nil
		}
		if err != nil {
			return upstreamError("fetch current war", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("clan", clanTag).Msg("failed to fetch clan state")
		return result, err
	}

	if err := s.registerClan(ctx, clan); err != nil {
		return result, err
	}

	snapshots := clan.Snapshots(s.now().UTC())
	if err := s.snapshots.UpsertBatch(ctx, snapshots); err != nil {
		return result, fmt.Errorf("failed to store snapshots: %w", err)
	}
	result.Members = len(snapshots)

	var wars []*api.WarResponse
	switch {
	case war == nil:
	case war.HasHistory():
		oriented := war.OrientTo(clanTag)
		wars = append(wars, &oriented)
	case war.State == api.WarStateNotInWar:
		league, failed, err := leagueWars(apiCtx, s.source, clanTag, s.logger)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("clan", clanTag).Msg("failed to fetch league group")
			result.WarSkipped = "league wars unavailable"
		case len(failed) > 0:
			result.WarSkipped = "league wars unavailable: " + strings.Join(failed, ", ")
		}
		for _, w := range league {
			if w.HasHistory() {
				wars = append(wars, w)
			}
		}
	default:
		result.WarSkipped = "war has not started"
	}

	for _, w := range wars {
		event, roster, attacks, err := w.History()
		if err != nil {
			s.logger.Warn().Err(err).Str("clan", clanTag).Str("end_time", w.EndTime).Msg("skipping war with bad end time")
			continue
		}
		if err := s.history.UpsertWar(ctx, event, roster, attacks); err != nil {
			return result, fmt.Errorf("failed to store war ending %s: %w", event.EndTime.Format(time.RFC3339), err)
		}
		result.Wars++
		result.Attacks += len(attacks)
	}

	s.logger.Info().
		Str("clan", clanTag).
		Int("members", result.Members).
		Int("wars", result.Wars).
		Int("attacks", result.Attacks).
		Str("war_skipped", result.WarSkipped).
		Msg("clan synced")
	return result, nil
}

func (s *IngestService) registerClan(ctx context.Context, clan *api.ClanResponse) error {
	existing, err := s.clans.Get(ctx, clan.Tag)
	if err != nil {
		return fmt.Errorf("failed to get clan: %w", err)
	}

	record := &domain.Clan{Tag: clan.Tag, Name: clan.Name, Tracked: true}
	if existing != nil {
		record.Tracked = existing.Tracked
		record.CreatedAt = existing.CreatedAt
	}
	if err := s.clans.Upsert(ctx, record); err != nil {
		return fmt.Errorf("failed to register clan: %w", err)
	}
	return nil
}

// leagueWars returns the clan's wars of the current league week, oriented so
// the clan is on the Clan side, in round order. A clan outside league week has none.
// A war that cannot be fetched is logged and its tag returned in failed; the
// rest are still returned. err is set only when the group itself is unavailable.
func leagueWars(ctx context.Context, source RosterSource, clanTag string, logger zerolog.Logger) (wars []*api.WarResponse, failed []string, err error) {
	group, err := source.GetLeagueGroup(ctx, clanTag)
	if api.StatusCode(err) == http.StatusNotFound {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, upstreamError("fetch league group", err)
	}

	tags := group.PlayedWarTags()
	fetched := make([]*api.WarResponse, len(tags))
	errs := make([]error, len(tags))

	var g errgroup.Group
	g.SetLimit(constants.BatchConcurrency)
	for i, tag := range tags {
		g.Go(func() error {
			war, err := source.GetLeagueWar(ctx, tag)
			if err != nil {
				errs[i] = upstreamError("fetch league war "+tag, err)
				return nil
			}
			if war.Involves(clanTag) {
				oriented := war.OrientTo(clanTag)
				fetched[i] = &oriented
			}
			return nil
		})
	}
	// failures are collected per tag
	g.Wait()

	for i, w := range fetched {
		if errs[i] != nil {
			logger.Warn().Err(errs[i]).Str("clan", clanTag).Str("war_tag", tags[i]).Msg("skipping league war")
			failed = append(failed, tags[i])
			continue
		}
		if w != nil {
			wars = append(wars, w)
		}
	}
	return wars, failed, nil
}
