package repository

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// In-memory implementations of the repositories. They back the test suites
// and local runs without Postgres; every method is safe for concurrent use.

// NewMemoryRepositories wires a full set of in-memory repositories.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		CompanyRepo:       NewMemoryCompanyRepository(),
		UserRepo:          NewMemoryUserRepository(),
		ProjectRepo:       NewMemoryProjectRepository(),
		TaskRepo:          NewMemoryTaskRepository(),
		DocumentationRepo: NewMemoryDocumentationRepository(),
		EstimationRepo:    NewMemoryEstimationRepository(),
	}
}

// ============================================
// Estimations
// ============================================

type memoryEstimationRepository struct {
	mu    sync.RWMutex
	items []*Estimation
	now   func() time.Time
}

func NewMemoryEstimationRepository() EstimationRepository {
	return &memoryEstimationRepository{now: time.Now}
}

func (r *memoryEstimationRepository) Insert(_ context.Context, e *Estimation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.ID = uuid.NewString()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.now()
	}
	r.items = append(r.items, cloneEstimation(e))
	return nil
}

// cloneEstimation copies e including its slices, so callers never share
// backing arrays with the store.
func cloneEstimation(e *Estimation) *Estimation {
	cp := *e
	cp.Result.Metadata.Factors = slices.Clone(e.Result.Metadata.Factors)
	cp.Result.Metadata.Recommendations = slices.Clone(e.Result.Metadata.Recommendations)
	return &cp
}

func (r *memoryEstimationRepository) FindAll(_ context.Context, filter EstimationFilter) ([]*Estimation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Estimation
	for i := len(r.items) - 1; i >= 0; i-- {
		e := r.items[i]
		if e.TenantID != filter.TenantID {
			continue
		}
		if filter.ProjectType != nil && e.ProjectType != *filter.ProjectType {
			continue
		}
		if filter.TechnologyStack != nil && e.TechnologyStack != *filter.TechnologyStack {
			continue
		}
		if filter.Since != nil && e.CreatedAt.Before(*filter.Since) {
			continue
		}
		out = append(out, cloneEstimation(e))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *memoryEstimationRepository) FindByID(_ context.Context, tenantID, id string) (*Estimation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.items {
		if e.ID == id && e.TenantID == tenantID {
			return cloneEstimation(e), nil
		}
	}
	return nil, nil
}

func (r *memoryEstimationRepository) Delete(_ context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = slices.DeleteFunc(r.items, func(e *Estimation) bool {
		return e.ID == id && e.TenantID == tenantID
	})
	return nil
}

// ============================================
// Companies
// ============================================

type memoryCompanyRepository struct {
	mu    sync.RWMutex
	items []*Company
}

func NewMemoryCompanyRepository() CompanyRepository {
	return &memoryCompanyRepository{}
}

func (r *memoryCompanyRepository) Create(_ context.Context, company *Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	company.ID = uuid.NewString()
	company.CreatedAt = time.Now()
	company.UpdatedAt = company.CreatedAt
	cp := *company
	r.items = append(r.items, &cp)
	return nil
}

func (r *memoryCompanyRepository) FindByID(_ context.Context, id string) (*Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.items {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memoryCompanyRepository) FindAll(_ context.Context) ([]*Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Company, 0, len(r.items))
	for _, c := range r.items {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memoryCompanyRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = slices.DeleteFunc(r.items, func(c *Company) bool { return c.ID == id })
	return nil
}

// ============================================
// Users
// ============================================

type memoryUserRepository struct {
	mu     sync.RWMutex
	users  []*User
	tokens map[string]*RefreshToken
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{tokens: map[string]*RefreshToken{}}
}

func (r *memoryUserRepository) Create(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = uuid.NewString()
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users = append(r.users, &cp)
	return nil
}

func (r *memoryUserRepository) find(match func(*User) bool) *User {
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.find(func(u *User) bool { return u.ID == id }), nil
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.find(func(u *User) bool { return strings.EqualFold(u.Email, email) }), nil
}

func (r *memoryUserRepository) FindByTenant(_ context.Context, tenantID string) ([]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*User
	for _, u := range r.users {
		if u.TenantID == tenantID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memoryUserRepository) UpdateLastLogin(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == userID {
			now := time.Now()
			u.LastLoginAt = &now
			u.UpdatedAt = now
		}
	}
	return nil
}

func (r *memoryUserRepository) SaveRefreshToken(_ context.Context, token *RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	token.ID = uuid.NewString()
	token.CreatedAt = time.Now()
	cp := *token
	r.tokens[token.Token] = &cp
	return nil
}

func (r *memoryUserRepository) FindRefreshToken(_ context.Context, token string) (*RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rt, ok := r.tokens[token]; ok {
		cp := *rt
		return &cp, nil
	}
	return nil, nil
}

func (r *memoryUserRepository) DeleteRefreshToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

func (r *memoryUserRepository) DeleteUserRefreshTokens(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k, rt := range r.tokens {
		if rt.UserID == userID {
			delete(r.tokens, k)
		}
	}
	return nil
}

func (r *memoryUserRepository) DeleteExpiredRefreshTokens(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	now := time.Now()
	for k, rt := range r.tokens {
		if rt.ExpiresAt.Before(now) {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}

// ============================================
// Projects
// ============================================

type memoryProjectRepository struct {
	mu    sync.RWMutex
	items []*Project
}

func NewMemoryProjectRepository() ProjectRepository {
	return &memoryProjectRepository{}
}

func (r *memoryProjectRepository) Create(_ context.Context, project *Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	project.ID = uuid.NewString()
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	if project.TeamMembers == nil {
		project.TeamMembers = []string{}
	}
	cp := *project
	cp.TeamMembers = slices.Clone(project.TeamMembers)
	r.items = append(r.items, &cp)
	return nil
}

func (r *memoryProjectRepository) FindByID(_ context.Context, tenantID, id string) (*Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.items {
		if p.ID == id && p.TenantID == tenantID {
			cp := *p
			cp.TeamMembers = slices.Clone(p.TeamMembers)
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memoryProjectRepository) FindAll(_ context.Context, filter ProjectFilter) ([]*Project, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Project
	for i := len(r.items) - 1; i >= 0; i-- {
		p := r.items[i]
		if p.TenantID != filter.TenantID {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if filter.Search != nil && *filter.Search != "" {
			q := strings.ToLower(*filter.Search)
			desc := ""
			if p.Description != nil {
				desc = *p.Description
			}
			if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(desc), q) {
				continue
			}
		}
		cp := *p
		cp.TeamMembers = slices.Clone(p.TeamMembers)
		matched = append(matched, &cp)
	}
	return paginate(matched, filter.Page), len(matched), nil
}

func (r *memoryProjectRepository) Update(_ context.Context, project *Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.items {
		if p.ID == project.ID && p.TenantID == project.TenantID {
			project.UpdatedAt = time.Now()
			cp := *project
			cp.TeamMembers = slices.Clone(project.TeamMembers)
			r.items[i] = &cp
			return nil
		}
	}
	return nil
}

func (r *memoryProjectRepository) Delete(_ context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = slices.DeleteFunc(r.items, func(p *Project) bool {
		return p.ID == id && p.TenantID == tenantID
	})
	return nil
}

func (r *memoryProjectRepository) CountByStatus(_ context.Context, tenantID string) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := map[string]int{}
	for _, p := range r.items {
		if p.TenantID == tenantID {
			counts[p.Status]++
		}
	}
	return counts, nil
}

// ============================================
// Tasks
// ============================================

type memoryTaskRepository struct {
	mu    sync.RWMutex
	items []*Task
}

func NewMemoryTaskRepository() TaskRepository {
	return &memoryTaskRepository{}
}

func (r *memoryTaskRepository) Create(_ context.Context, task *Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task.ID = uuid.NewString()
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	cp := *task
	r.items = append(r.items, &cp)
	return nil
}

func (r *memoryTaskRepository) FindByID(_ context.Context, tenantID, id string) (*Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.items {
		if t.ID == id && t.TenantID == tenantID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memoryTaskRepository) FindWithFilters(_ context.Context, filter TaskFilter) ([]*Task, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	eq := func(want *string, got string) bool { return want == nil || *want == got }

	var matched []*Task
	for i := len(r.items) - 1; i >= 0; i-- {
		t := r.items[i]
		assignee := ""
		if t.AssigneeID != nil {
			assignee = *t.AssigneeID
		}
		if t.TenantID != filter.TenantID ||
			!eq(filter.ProjectID, t.ProjectID) ||
			!eq(filter.AssigneeID, assignee) ||
			!eq(filter.Status, t.Status) ||
			!eq(filter.Priority, t.Priority) {
			continue
		}
		cp := *t
		matched = append(matched, &cp)
	}
	return paginate(matched, filter.Page), len(matched), nil
}

func (r *memoryTaskRepository) Update(_ context.Context, task *Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.items {
		if t.ID == task.ID && t.TenantID == task.TenantID {
			task.UpdatedAt = time.Now()
			cp := *task
			r.items[i] = &cp
			return nil
		}
	}
	return nil
}

func (r *memoryTaskRepository) Delete(_ context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = slices.DeleteFunc(r.items, func(t *Task) bool {
		return t.ID == id && t.TenantID == tenantID
	})
	return nil
}

// ============================================
// Documentation
// ============================================

type memoryDocumentationRepository struct {
	mu    sync.RWMutex
	items []*Documentation
}

func NewMemoryDocumentationRepository() DocumentationRepository {
	return &memoryDocumentationRepository{}
}

func (r *memoryDocumentationRepository) Create(_ context.Context, doc *Documentation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc.ID = uuid.NewString()
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt
	cp := *doc
	cp.Tags = slices.Clone(doc.Tags)
	r.items = append(r.items, &cp)
	return nil
}

func (r *memoryDocumentationRepository) FindByID(_ context.Context, tenantID, id string) (*Documentation, error) {
	docs := r.filter(func(d *Documentation) bool { return d.ID == id && d.TenantID == tenantID })
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0], nil
}

func (r *memoryDocumentationRepository) FindByProject(_ context.Context, tenantID, projectID string) ([]*Documentation, error) {
	return r.filter(func(d *Documentation) bool { return d.TenantID == tenantID && d.ProjectID == projectID }), nil
}

func (r *memoryDocumentationRepository) FindByType(_ context.Context, tenantID, docType string) ([]*Documentation, error) {
	return r.filter(func(d *Documentation) bool { return d.TenantID == tenantID && d.Type == docType }), nil
}

func (r *memoryDocumentationRepository) Search(_ context.Context, tenantID, query string) ([]*Documentation, error) {
	q := strings.ToLower(query)
	return r.filter(func(d *Documentation) bool {
		if d.TenantID != tenantID {
			return false
		}
		desc := ""
		if d.Description != nil {
			desc = *d.Description
		}
		return strings.Contains(strings.ToLower(d.Title), q) ||
			strings.Contains(strings.ToLower(d.Content), q) ||
			strings.Contains(strings.ToLower(desc), q)
	}), nil
}

func (r *memoryDocumentationRepository) Update(_ context.Context, doc *Documentation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, d := range r.items {
		if d.ID == doc.ID && d.TenantID == doc.TenantID {
			doc.UpdatedAt = time.Now()
			cp := *doc
			cp.Tags = slices.Clone(doc.Tags)
			r.items[i] = &cp
			return nil
		}
	}
	return nil
}

func (r *memoryDocumentationRepository) Delete(_ context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = slices.DeleteFunc(r.items, func(d *Documentation) bool {
		return d.ID == id && d.TenantID == tenantID
	})
	return nil
}

// filter returns copies of matching documents, most recently updated first.
func (r *memoryDocumentationRepository) filter(match func(*Documentation) bool) []*Documentation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Documentation
	for i := len(r.items) - 1; i >= 0; i-- {
		if d := r.items[i]; match(d) {
			cp := *d
			cp.Tags = slices.Clone(d.Tags)
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

func paginate[T any](items []T, page Page) []T {
	if page.Limit <= 0 {
		return items
	}
	if page.Offset >= len(items) {
		return []T{}
	}
	end := min(page.Offset+page.Limit, len(items))
	return items[page.Offset:end]
}
