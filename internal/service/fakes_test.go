package service

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/IkonicR/ClanOS-sub001/internal/api"
	"github.com/IkonicR/ClanOS-sub001/internal/domain"
)

var testNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func daysAgo(n int) time.Time { return testNow.AddDate(0, 0, -n) }

type fakeSource struct {
	clans        map[string]*api.ClanResponse
	wars         map[string]*api.WarResponse
	leagueGroups map[string]*api.LeagueGroupResponse
	leagueWars   map[string]*api.WarResponse
	errs         map[string]error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		clans:        map[string]*api.ClanResponse{},
		wars:         map[string]*api.WarResponse{},
		leagueGroups: map[string]*api.LeagueGroupResponse{},
		leagueWars:   map[string]*api.WarResponse{},
		errs:         map[string]error{},
	}
}

var errNotFound = &api.APIError{StatusCode: http.StatusNotFound, Reason: "notFound"}

func lookup[T any](f *fakeSource, m map[string]*T, key, kind string) (*T, error) {
	if err := f.errs[kind+":"+key]; err != nil {
		return nil, err
	}
	v, ok := m[key]
	if !ok {
		return nil, errNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeSource) GetClan(_ context.Context, tag string) (*api.ClanResponse, error) {
	return lookup(f, f.clans, tag, "clan")
}

func (f *fakeSource) GetCurrentWar(_ context.Context, tag string) (*api.WarResponse, error) {
	return lookup(f, f.wars, tag, "war")
}

func (f *fakeSource) GetLeagueGroup(_ context.Context, tag string) (*api.LeagueGroupResponse, error) {
	return lookup(f, f.leagueGroups, tag, "group")
}

func (f *fakeSource) GetLeagueWar(_ context.Context, warTag string) (*api.WarResponse, error) {
	war, err := lookup(f, f.leagueWars, warTag, "leaguewar")
	if err != nil {
		return nil, err
	}
	war.League = true
	return war, nil
}

type memHistory struct {
	mu      sync.Mutex
	events  map[string]domain.WarEvent
	roster  []domain.RosterEntry
	attacks []domain.AttackRecord
}

func newMemHistory() *memHistory {
	return &memHistory{events: map[string]domain.WarEvent{}}
}

func eventKey(clanTag string, end time.Time) string {
	return clanTag + "|" + end.UTC().Format(time.RFC3339)
}

func (m *memHistory) UpsertWar(_ context.Context, event domain.WarEvent, roster []domain.RosterEntry, attacks []domain.AttackRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := eventKey(event.ClanTag, event.EndTime)
	m.events[key] = event

	keptRoster := m.roster[:0]
	for _, r := range m.roster {
		if eventKey(r.ClanTag, r.EventEndTime) != key {
			keptRoster = append(keptRoster, r)
		}
	}
	m.roster = append(keptRoster, roster...)

	keptAttacks := m.attacks[:0]
	for _, a := range m.attacks {
		if eventKey(a.ClanTag, a.EventEndTime) != key {
			keptAttacks = append(keptAttacks, a)
		}
	}
	m.attacks = append(keptAttacks, attacks...)
	return nil
}

func (m *memHistory) ListEvents(_ context.Context, clanTag string, since time.Time) ([]domain.WarEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.WarEvent
	for _, e := range m.events {
		if e.ClanTag == clanTag && !e.EndTime.Before(since) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndTime.Before(out[j].EndTime) })
	return out, nil
}

func (m *memHistory) ListRoster(_ context.Context, clanTag string, since time.Time) ([]domain.RosterEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.RosterEntry
	for _, r := range m.roster {
		if r.ClanTag == clanTag && !r.EventEndTime.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memHistory) ListAttacks(_ context.Context, clanTag string, since time.Time) ([]domain.AttackRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.AttackRecord
	for _, a := range m.attacks {
		if a.ClanTag == clanTag && !a.EventEndTime.Before(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

type memSnapshots struct {
	mu   sync.Mutex
	rows map[string]domain.ActivitySnapshot
}

func newMemSnapshots() *memSnapshots {
	return &memSnapshots{rows: map[string]domain.ActivitySnapshot{}}
}

func utcDay(t time.Time) time.Time {
	y, mo, d := t.UTC().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func (m *memSnapshots) UpsertBatch(_ context.Context, snapshots []domain.ActivitySnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range snapshots {
		s.SnapshotDay = utcDay(s.SnapshotDay)
		m.rows[s.SnapshotDay.Format("2006-01-02")+"|"+s.MemberID] = s
	}
	return nil
}

func (m *memSnapshots) ListSince(_ context.Context, clanTag string, since time.Time) ([]domain.ActivitySnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ActivitySnapshot
	for _, s := range m.rows {
		if s.ClanTag == clanTag && !s.SnapshotDay.Before(utcDay(since)) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SnapshotDay.Equal(out[j].SnapshotDay) {
			return out[i].SnapshotDay.Before(out[j].SnapshotDay)
		}
		return out[i].MemberID < out[j].MemberID
	})
	return out, nil
}

func (m *memSnapshots) ResolveClan(_ context.Context, memberTag string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest domain.ActivitySnapshot
	for _, s := range m.rows {
		if s.MemberID == memberTag && s.SnapshotDay.After(latest.SnapshotDay) {
			latest = s
		}
	}
	return latest.ClanTag, nil
}

type memProfiles struct {
	mu   sync.Mutex
	rows map[string]domain.SkillProfile
}

func newMemProfiles() *memProfiles {
	return &memProfiles{rows: map[string]domain.SkillProfile{}}
}

func (m *memProfiles) UpsertMany(_ context.Context, profiles []domain.SkillProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range profiles {
		m.rows[p.MemberID] = p
	}
	return nil
}

func (m *memProfiles) GetMany(_ context.Context, memberTags []string) (map[string]domain.SkillProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]domain.SkillProfile{}
	for _, tag := range memberTags {
		if p, ok := m.rows[tag]; ok {
			out[tag] = p
		}
	}
	return out, nil
}

type memClans struct {
	mu   sync.Mutex
	rows map[string]domain.Clan
	err  error
}

func newMemClans() *memClans {
	return &memClans{rows: map[string]domain.Clan{}}
}

func (m *memClans) Upsert(_ context.Context, clan *domain.Clan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[clan.Tag] = *clan
	return nil
}

func (m *memClans) Get(_ context.Context, tag string) (*domain.Clan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[tag]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memClans) ListTracked(_ context.Context) ([]domain.Clan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Clan
	for _, c := range m.rows {
		if c.Tracked {
			out = append(out, c)
		}
	}
	return out, nil
}
