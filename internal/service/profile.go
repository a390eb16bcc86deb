package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/IkonicR/ClanOS-sub001/internal/config"
	"github.com/IkonicR/ClanOS-sub001/internal/constants"
	"github.com/IkonicR/ClanOS-sub001/internal/domain"
	"github.com/IkonicR/ClanOS-sub001/internal/scoring"
)

type ProfileService struct {
	history   HistoryStore
	snapshots SnapshotStore
	profiles  ProfileStore
	cfg       scoring.Config
	logger    zerolog.Logger
	now       func() time.Time
}

func NewProfileService(history HistoryStore, snapshots SnapshotStore, profiles ProfileStore, cfg *config.Config, logger zerolog.Logger) *ProfileService {
	return &ProfileService{
		history:   history,
		snapshots: snapshots,
		profiles:  profiles,
		cfg:       cfg.Scoring.Normalize(),
		logger:    logger,
		now:       time.Now,
	}
}

// Recompute rebuilds every profile of the clan from the trailing window and
// overwrites the stored ones. Running it twice on the same rows is a no-op.
func (s *ProfileService) Recompute(ctx context.Context, clanTag string) ([]domain.SkillProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	now := s.now().UTC()
	since := now.AddDate(0, 0, -s.cfg.ProfileWindowDays)

	attacks, err := s.history.ListAttacks(ctx, clanTag, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list attacks: %w", err)
	}
	snapshots, err := s.snapshots.ListSince(ctx, clanTag, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	profiles := scoring.BuildProfiles(attacks, snapshots, s.cfg, now)
	if len(profiles) == 0 {
		s.logger.Info().Str("clan", clanTag).Msg("no history in profile window")
		return profiles, nil
	}

	if err := s.profiles.UpsertMany(ctx, profiles); err != nil {
		return nil, fmt.Errorf("failed to store profiles: %w", err)
	}

	s.logger.Info().
		Str("clan", clanTag).
		Int("attacks", len(attacks)).
		Int("snapshots", len(snapshots)).
		Int("profiles", len(profiles)).
		Msg("skill profiles recomputed")
	return profiles, nil
}

func (s *ProfileService) GetProfiles(ctx context.Context, memberTags []string) (map[string]domain.SkillProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	profiles, err := s.profiles.GetMany(ctx, memberTags)
	if err != nil {
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}
	return profiles, nil
}

// ClanProfiles returns the stored profiles of the members seen on the clan's latest snapshot day.
func (s *ProfileService) ClanProfiles(ctx context.Context, clanTag string) ([]domain.SkillProfile, error) {
	since := s.now().UTC().AddDate(0, 0, -s.cfg.ProfileWindowDays)
	snapshots, err := s.snapshots.ListSince(ctx, clanTag, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	var latest time.Time
	for _, snap := range snapshots {
		if snap.SnapshotDay.After(latest) {
			latest = snap.SnapshotDay
		}
	}
	var members []string
	for _, snap := range snapshots {
		if snap.SnapshotDay.Equal(latest) {
			members = append(members, snap.MemberID)
		}
	}

	byMember, err := s.GetProfiles(ctx, members)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SkillProfile, 0, len(byMember))
	for _, p := range byMember {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberID < out[j].MemberID })
	return out, nil
}

// ResolveClan picks the clan a request is about: the explicit tag, else the
// clan of the player's most recent snapshot.
func (s *ProfileService) ResolveClan(ctx context.Context, clanTag, playerTag string) (string, error) {
	if clanTag != "" {
		return clanTag, nil
	}
	if playerTag == "" {
		return "", ErrNotInGroup
	}

	resolved, err := s.snapshots.ResolveClan(ctx, playerTag)
	if err != nil {
		return "", fmt.Errorf("failed to resolve clan for %s: %w", playerTag, err)
	}
	if resolved == "" {
		return "", ErrNotInGroup
	}
	return resolved, nil
}
