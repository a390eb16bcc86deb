package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/IkonicR/ClanOS-sub001/internal/config"
	"github.com/IkonicR/ClanOS-sub001/internal/constants"
	"github.com/IkonicR/ClanOS-sub001/internal/domain"
	"github.com/IkonicR/ClanOS-sub001/internal/metrics"
)

// RecomputeJob syncs and recomputes every tracked clan.
type RecomputeJob struct {
	clans    ClanStore
	ingest   *IngestService
	profiles *ProfileService
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	configured []string
	sync       bool
	interval   time.Duration
}

func NewRecomputeJob(clans ClanStore, ingest *IngestService, profiles *ProfileService, m *metrics.Metrics, cfg *config.Config, logger zerolog.Logger) *RecomputeJob {
	return &RecomputeJob{
		clans:      clans,
		ingest:     ingest,
		profiles:   profiles,
		metrics:    m,
		logger:     logger,
		configured: cfg.ClanTags,
		sync:       cfg.SyncOnRecompute,
		interval:   cfg.RecomputeInterval,
	}
}

// Run handles each clan independently. A failing clan is logged and counted;
// the error return is reserved for failing to list clans at all.
func (j *RecomputeJob) Run(ctx context.Context) (domain.BatchResult, error) {
	start := time.Now()
	j.metrics.BatchRuns.Inc()
	defer func() { j.metrics.BatchDuration.Observe(time.Since(start).Seconds()) }()

	tags, err := j.clanTags(ctx)
	if err != nil {
		j.logger.Error().Err(err).Msg("failed to list tracked clans")
		return domain.BatchResult{}, err
	}

	var (
		mu     sync.Mutex
		result domain.BatchResult
	)

	var g errgroup.Group
	g.SetLimit(constants.BatchConcurrency)
	for _, tag := range tags {
		g.Go(func() error {
			err := j.runOne(ctx, tag)

			mu.Lock()
			defer mu.Unlock()
			result.Processed++
			if err != nil {
				result.Failed++
				j.metrics.BatchItems.WithLabelValues("failed").Inc()
				j.logger.Warn().Err(err).Str("clan", tag).Msg("skipping clan in recompute batch")
				return nil
			}
			result.Succeeded++
			j.metrics.BatchItems.WithLabelValues("succeeded").Inc()
			return nil
		})
	}
	// failures are counted per clan, never returned
	g.Wait()

	j.logger.Info().
		Int("processed", result.Processed).
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Dur("duration", time.Since(start)).
		Msg("recompute batch finished")
	return result, nil
}

func (j *RecomputeJob) runOne(ctx context.Context, clanTag string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.BatchItemTimeout)
	defer cancel()

	if j.sync {
		if _, err := j.ingest.SyncClan(ctx, clanTag); err != nil {
			return err
		}
	}
	_, err := j.profiles.Recompute(ctx, clanTag)
	return err
}

// clanTags merges configured tags with tracked clans from the store, sorted and deduplicated.
func (j *RecomputeJob) clanTags(ctx context.Context) ([]string, error) {
	tracked, err := j.clans.ListTracked(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(tracked)+len(j.configured))
	var tags []string
	add := func(tag string) {
		if tag != "" && !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	for _, tag := range j.configured {
		add(tag)
	}
	for _, c := range tracked {
		add(c.Tag)
	}
	sort.Strings(tags)
	return tags, nil
}

// Loop runs the batch immediately and then on every interval tick until ctx is done.
func (j *RecomputeJob) Loop(ctx context.Context) {
	if j.interval <= 0 {
		j.logger.Info().Msg("periodic recompute disabled")
		return
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		if _, err := j.Run(ctx); err != nil {
			j.logger.Error().Err(err).Msg("recompute batch failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
