package service

import (
	"context"
	"encoding/json"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/projecthub/project-hub-backend/internal/config"
	"github.com/projecthub/project-hub-backend/internal/db"
	"github.com/projecthub/project-hub-backend/internal/repository"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:   "test",
		JWTSecret:     "test-secret",
		JWTExpiry:     24,
		RefreshExpiry: 7,
		BcryptCost:    4,
		StatsCacheTTL: time.Minute,
		RateFrontend:  decimal.NewFromInt(25),
		RateBackend:   decimal.NewFromInt(30),
		RateFullstack: decimal.NewFromInt(35),
		RateDesign:    decimal.NewFromInt(20),
		RateTesting:   decimal.NewFromInt(18),
	}
}

// fakeCache mimics the Redis cache with JSON round-trips.
type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	sets    int
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) GetCache(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return db.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *fakeCache) SetCache(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	c.sets++
	return nil
}

func (c *fakeCache) DeleteCache(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.deletes++
	return nil
}

func (c *fakeCache) InvalidateCache(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.data {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.data, key)
			c.deletes++
		}
	}
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type event struct {
	Name   string
	Room   string
	Target string
}

// recordingBroadcaster captures every event the services emit.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []event
}

func (b *recordingBroadcaster) add(name, room, target string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event{Name: name, Room: room, Target: target})
}

func (b *recordingBroadcaster) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.events))
	for i, e := range b.events {
		out[i] = e.Name
	}
	return out
}

func (b *recordingBroadcaster) BroadcastEstimationCreated(tenantID string, _ map[string]interface{}, _ string) {
	b.add("estimation_created", tenantID, "")
}

func (b *recordingBroadcaster) BroadcastEstimationDeleted(tenantID, id, _ string) {
	b.add("estimation_deleted", tenantID, id)
}

func (b *recordingBroadcaster) BroadcastProjectCreated(tenantID string, _ map[string]interface{}, _ string) {
	b.add("project_created", tenantID, "")
}

func (b *recordingBroadcaster) BroadcastProjectUpdated(tenantID string, _ map[string]interface{}, _ string) {
	b.add("project_updated", tenantID, "")
}

func (b *recordingBroadcaster) BroadcastProjectDeleted(tenantID, id, _ string) {
	b.add("project_deleted", tenantID, id)
}

func (b *recordingBroadcaster) BroadcastTaskCreated(tenantID, projectID string, _ map[string]interface{}, _ string) {
	b.add("task_created", tenantID, projectID)
}

func (b *recordingBroadcaster) BroadcastTaskUpdated(tenantID, projectID string, _ map[string]interface{}, _ []string, _ string) {
	b.add("task_updated", tenantID, projectID)
}

func (b *recordingBroadcaster) BroadcastTaskStatusChanged(tenantID, projectID string, _ map[string]interface{}, _, _, _ string) {
	b.add("task_status_changed", tenantID, projectID)
}

func (b *recordingBroadcaster) BroadcastTaskDeleted(tenantID, projectID, _, _ string) {
	b.add("task_deleted", tenantID, projectID)
}

func (b *recordingBroadcaster) BroadcastTaskAssigned(assigneeID string, _ map[string]interface{}, _ string) {
	b.add("task_assigned", "", assigneeID)
}

func (b *recordingBroadcaster) BroadcastDocumentationPublished(tenantID, projectID string, _ map[string]interface{}, _ string) {
	b.add("documentation_published", tenantID, projectID)
}

type fixture struct {
	repos       *repository.Repositories
	cache       *fakeCache
	broadcaster *recordingBroadcaster
	services    *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repos:       repository.NewMemoryRepositories(),
		cache:       newFakeCache(),
		broadcaster: &recordingBroadcaster{},
	}
	f.services = NewServices(&ServiceDeps{
		Config:      testConfig(),
		Repos:       f.repos,
		Cache:       f.cache,
		Broadcaster: f.broadcaster,
	})
	return f
}

func (f *fixture) user(t *testing.T, tenantID, email, role string) *repository.User {
	t.Helper()
	u := &repository.User{
		TenantID:  tenantID,
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, f.repos.UserRepo.Create(context.Background(), u))
	return u
}

func (f *fixture) project(t *testing.T, tenantID, name string) *repository.Project {
	t.Helper()
	p := &repository.Project{TenantID: tenantID, Name: name, Status: "active"}
	require.NoError(t, f.repos.ProjectRepo.Create(context.Background(), p))
	return p
}

var _ Broadcaster = (*recordingBroadcaster)(nil)
var _ StatsCache = (*fakeCache)(nil)
