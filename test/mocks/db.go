// Package mocks provides in-memory test doubles for the persistence layer
// and the model client.
package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"careerly/internal/core"
	"careerly/internal/persistence"
)

// MemoryDB is an in-memory persistence.Database with the same uniqueness
// semantics as the real stores: creating an insight for an existing industry
// fails with core.ErrDuplicateKey.
type MemoryDB struct {
	mu          sync.Mutex
	users       map[string]*core.User
	insights    map[string]*core.IndustryInsight
	assessments []core.Assessment

	// CreateInsightErr, when set, is returned by the next insight Create
	// call and then cleared. Used to simulate losing a creation race.
	CreateInsightErr error

	InsightCreates int
	InsightUpdates int
}

// NewMemoryDB creates an empty in-memory database.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		users:    make(map[string]*core.User),
		insights: make(map[string]*core.IndustryInsight),
	}
}

// AddUser seeds a user record.
func (m *MemoryDB) AddUser(user *core.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	m.users[user.ID] = &copied
}

// AddInsight seeds an insight record.
func (m *MemoryDB) AddInsight(insight *core.IndustryInsight) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *insight
	m.insights[insight.Industry] = &copied
}

// InsightCount reports how many insight records exist.
func (m *MemoryDB) InsightCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.insights)
}

func (m *MemoryDB) Users() persistence.UserRepository             { return (*memoryUserRepo)(m) }
func (m *MemoryDB) Insights() persistence.InsightRepository       { return (*memoryInsightRepo)(m) }
func (m *MemoryDB) Assessments() persistence.AssessmentRepository { return (*memoryAssessmentRepo)(m) }
func (m *MemoryDB) Ping(ctx context.Context) error                { return nil }
func (m *MemoryDB) Close() error                                  { return nil }

// InTx runs fn against the same database; the in-memory store has no real
// transactions, which is fine for the behaviors under test.
func (m *MemoryDB) InTx(ctx context.Context, timeout time.Duration, fn func(tx persistence.Database) error) error {
	return fn(m)
}

type memoryUserRepo MemoryDB

func (r *memoryUserRepo) Get(ctx context.Context, id string) (*core.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memoryUserRepo) Create(ctx context.Context, user *core.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		return core.ErrDuplicateKey
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memoryUserRepo) UpdateProfile(ctx context.Context, id string, update core.ProfileUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return core.ErrUserNotFound
	}
	user.Industry = update.Industry
	user.Experience = update.Experience
	user.Bio = update.Bio
	user.Skills = update.Skills
	return nil
}

type memoryInsightRepo MemoryDB

func (r *memoryInsightRepo) GetByIndustry(ctx context.Context, industry string) (*core.IndustryInsight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	insight, ok := r.insights[industry]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *insight
	return &copied, nil
}

func (r *memoryInsightRepo) Create(ctx context.Context, insight *core.IndustryInsight) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.InsightCreates++
	if err := r.CreateInsightErr; err != nil {
		r.CreateInsightErr = nil
		return err
	}
	if _, ok := r.insights[insight.Industry]; ok {
		return core.ErrDuplicateKey
	}
	copied := *insight
	r.insights[insight.Industry] = &copied
	return nil
}

func (r *memoryInsightRepo) Update(ctx context.Context, insight *core.IndustryInsight) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.InsightUpdates++
	if _, ok := r.insights[insight.Industry]; !ok {
		return core.ErrNotFound
	}
	copied := *insight
	r.insights[insight.Industry] = &copied
	return nil
}

func (r *memoryInsightRepo) ListIndustries(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	industries := make([]string, 0, len(r.insights))
	for industry := range r.insights {
		industries = append(industries, industry)
	}
	sort.Strings(industries)
	return industries, nil
}

type memoryAssessmentRepo MemoryDB

func (r *memoryAssessmentRepo) Create(ctx context.Context, assessment *core.Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assessments = append(r.assessments, *assessment)
	return nil
}

func (r *memoryAssessmentRepo) ListByUser(ctx context.Context, userID string) ([]core.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.Assessment
	for _, a := range r.assessments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
