package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/IkonicR/ClanOS-sub001/internal/api"
	"github.com/IkonicR/ClanOS-sub001/internal/constants"
	"github.com/IkonicR/ClanOS-sub001/internal/domain"
	"github.com/IkonicR/ClanOS-sub001/internal/scoring"
)

type AssignmentService struct {
	source   RosterSource
	profiles ProfileStore
	logger   zerolog.Logger
}

func NewAssignmentService(source RosterSource, profiles ProfileStore, logger zerolog.Logger) *AssignmentService {
	return &AssignmentService{
		source:   source,
		profiles: profiles,
		logger:   logger,
	}
}

// Plan pairs our attackers with opponent bases for the war in preparation or
// battle day. During league week that is the clan's current league war.
func (s *AssignmentService) Plan(ctx context.Context, clanTag string) (domain.LiveWar, domain.AssignmentPlan, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	war, err := s.activeWar(ctx, clanTag)
	if err != nil {
		return domain.LiveWar{}, domain.AssignmentPlan{}, err
	}
	live := war.LiveWar()

	tags := make([]string, len(live.OurMembers))
	for i, m := range live.OurMembers {
		tags[i] = m.ID
	}
	profiles, err := s.profiles.GetMany(ctx, tags)
	if err != nil {
		return domain.LiveWar{}, domain.AssignmentPlan{}, fmt.Errorf("failed to get profiles: %w", err)
	}

	plan := scoring.AssignTargets(live, profiles)

	s.logger.Info().
		Str("clan", clanTag).
		Str("opponent", live.OpponentTag).
		Int("team_size", plan.TeamSize).
		Int("assigned", len(plan.Assignments)).
		Int("alternates", len(plan.Alternates)).
		Msg("targets assigned")
	return live, plan, nil
}

func (s *AssignmentService) activeWar(ctx context.Context, clanTag string) (*api.WarResponse, error) {
	apiCtx, apiCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer apiCancel()

	war, err := s.source.GetCurrentWar(apiCtx, clanTag)
	if err != nil {
		return nil, upstreamError("fetch current war", err)
	}
	if isActive(war) {
		oriented := war.OrientTo(clanTag)
		return &oriented, nil
	}

	wars, failed, err := leagueWars(apiCtx, s.source, clanTag, s.logger)
	if err != nil {
		return nil, err
	}
	// battle day first, then the round being prepared
	for _, state := range []string{api.WarStateInWar, api.WarStatePreparation} {
		for i := len(wars) - 1; i >= 0; i-- {
			if wars[i].State == state {
				return wars[i], nil
			}
		}
	}
	if len(failed) > 0 {
		return nil, fmt.Errorf("%w: league wars %s", ErrUpstreamUnavailable, strings.Join(failed, ", "))
	}
	return nil, ErrNoActiveWar
}

func isActive(war *api.WarResponse) bool {
	return war.State == api.WarStatePreparation || war.State == api.WarStateInWar
}
