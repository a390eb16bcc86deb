package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/IkonicR/ClanOS-sub001/internal/config"
	"github.com/IkonicR/ClanOS-sub001/internal/constants"
	"github.com/IkonicR/ClanOS-sub001/internal/domain"
	"github.com/IkonicR/ClanOS-sub001/internal/scoring"
)

type LineupService struct {
	source   RosterSource
	profiles ProfileStore
	cfg      scoring.Config
	logger   zerolog.Logger
}

func NewLineupService(source RosterSource, profiles ProfileStore, cfg *config.Config, logger zerolog.Logger) *LineupService {
	return &LineupService{
		source:   source,
		profiles: profiles,
		cfg:      cfg.Scoring.Normalize(),
		logger:   logger,
	}
}

// Build ranks the clan's current members. A non-positive teamSize uses the configured default.
func (s *LineupService) Build(ctx context.Context, clanTag string, teamSize int) (domain.Lineup, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if teamSize <= 0 {
		teamSize = s.cfg.DefaultTeamSize
	}

	apiCtx, apiCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer apiCancel()

	clan, err := s.source.GetClan(apiCtx, clanTag)
	if err != nil {
		s.logger.Error().Err(err).Str("clan", clanTag).Msg("failed to fetch clan")
		return domain.Lineup{}, upstreamError("fetch clan", err)
	}

	members := clan.LiveMembers()
	tags := make([]string, len(members))
	for i, m := range members {
		tags[i] = m.ID
	}

	profiles, err := s.profiles.GetMany(ctx, tags)
	if err != nil {
		return domain.Lineup{}, fmt.Errorf("failed to get profiles: %w", err)
	}

	lineup := scoring.SelectLineup(members, profiles, teamSize)

	s.logger.Debug().
		Str("clan", clanTag).
		Int("members", len(members)).
		Int("profiled", len(profiles)).
		Int("team_size", lineup.TeamSize).
		Msg("lineup selected")
	return lineup, nil
}
