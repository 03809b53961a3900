package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/usecase"
)

// MockProjectRepository is an in-memory ProjectRepository with a real
// compare-and-swap, safe for concurrent use.
type MockProjectRepository struct {
	mu       sync.RWMutex
	projects map[string]domain.Project
	order    []string

	// CASCalls counts CompareAndSwapSoldShares calls, GetCalls counts GetByID calls.
	CASCalls int
	GetCalls int

	CreateFunc                   func(ctx context.Context, tx usecase.Transaction, project *domain.Project) error
	GetByIDFunc                  func(ctx context.Context, id string) (*domain.Project, error)
	ListFunc                     func(ctx context.Context, filter domain.ProjectFilter) ([]*domain.Project, error)
	ListIDsAfterFunc             func(ctx context.Context, afterID string, limit int) ([]string, error)
	CompareAndSwapSoldSharesFunc func(ctx context.Context, id string, expected, next int64, updatedAt time.Time) (bool, error)
}

func NewMockProjectRepository() *MockProjectRepository {
	return &MockProjectRepository{
		projects: make(map[string]domain.Project),
	}
}

// Seed stores a project directly, bypassing transactions.
func (m *MockProjectRepository) Seed(project *domain.Project) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[project.ID]; !ok {
		m.order = append(m.order, project.ID)
	}
	m.projects[project.ID] = *project
}

// Snapshot returns the stored project without touching call counters.
func (m *MockProjectRepository) Snapshot(id string) (domain.Project, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	return p, ok
}

func (m *MockProjectRepository) Create(ctx context.Context, tx usecase.Transaction, project *domain.Project) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, project)
	}
	apply := func() { m.Seed(project) }
	if t, ok := tx.(*MockTransaction); ok {
		t.OnCommit(apply)
		return nil
	}
	apply()
	return nil
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	p, ok := m.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return &p, nil
}

func (m *MockProjectRepository) List(ctx context.Context, filter domain.ProjectFilter) ([]*domain.Project, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matched []*domain.Project
	for _, id := range m.order {
		p := m.projects[id]
		if filter.Matches(&p) {
			matched = append(matched, &p)
		}
	}
	if filter.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (m *MockProjectRepository) ListIDsAfter(ctx context.Context, afterID string, limit int) ([]string, error) {
	if m.ListIDsAfterFunc != nil {
		return m.ListIDsAfterFunc(ctx, afterID, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.projects))
	for id := range m.projects {
		if id > afterID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (m *MockProjectRepository) CompareAndSwapSoldShares(ctx context.Context, id string, expected, next int64, updatedAt time.Time) (bool, error) {
	if m.CompareAndSwapSoldSharesFunc != nil {
		return m.CompareAndSwapSoldSharesFunc(ctx, id, expected, next, updatedAt)
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CASCalls++
	p, ok := m.projects[id]
	if !ok {
		return false, domain.ErrProjectNotFound
	}
	if p.SoldShares != expected || next > p.AvailableShares || next < 0 {
		return false, nil
	}
	p.SoldShares = next
	p.Version++
	p.UpdatedAt = updatedAt
	m.projects[id] = p
	return true, nil
}

// MockInvestmentRepository is an in-memory InvestmentRepository.
type MockInvestmentRepository struct {
	mu          sync.RWMutex
	investments map[string]*domain.Investment

	CreateFunc             func(ctx context.Context, tx usecase.Transaction, investment *domain.Investment) error
	GetByIDFunc            func(ctx context.Context, id string) (*domain.Investment, error)
	SumSharesByProjectFunc func(ctx context.Context, projectID string) (int64, error)
}

func NewMockInvestmentRepository() *MockInvestmentRepository {
	return &MockInvestmentRepository{
		investments: make(map[string]*domain.Investment),
	}
}

// All returns every stored investment ordered by ID.
func (m *MockInvestmentRepository) All() []*domain.Investment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make([]*domain.Investment, 0, len(m.investments))
	for _, inv := range m.investments {
		all = append(all, inv)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

func (m *MockInvestmentRepository) Create(ctx context.Context, tx usecase.Transaction, investment *domain.Investment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, investment)
	}
	apply := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.investments[investment.ID] = investment
	}
	if t, ok := tx.(*MockTransaction); ok {
		t.OnCommit(apply)
		return nil
	}
	apply()
	return nil
}

func (m *MockInvestmentRepository) GetByID(ctx context.Context, id string) (*domain.Investment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if inv, ok := m.investments[id]; ok {
		return inv, nil
	}
	return nil, domain.ErrInvestmentNotFound
}

func (m *MockInvestmentRepository) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*domain.Investment, error) {
	return m.list(func(inv *domain.Investment) bool { return inv.BuyerID == buyerID }, limit, offset), nil
}

func (m *MockInvestmentRepository) ListByProject(ctx context.Context, projectID string, limit, offset int) ([]*domain.Investment, error) {
	return m.list(func(inv *domain.Investment) bool { return inv.ProjectID == projectID }, limit, offset), nil
}

func (m *MockInvestmentRepository) SumSharesByProject(ctx context.Context, projectID string) (int64, error) {
	if m.SumSharesByProjectFunc != nil {
		return m.SumSharesByProjectFunc(ctx, projectID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total int64
	for _, inv := range m.investments {
		if inv.ProjectID == projectID {
			total += inv.SharesPurchased
		}
	}
	return total, nil
}

func (m *MockInvestmentRepository) list(match func(*domain.Investment) bool, limit, offset int) []*domain.Investment {
	var matched []*domain.Investment
	for _, inv := range m.All() {
		if match(inv) {
			matched = append(matched, inv)
		}
	}
	if offset >= len(matched) {
		return nil
	}
	matched = matched[offset:]
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	apply := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.logs = append(m.logs, log)
	}
	if t, ok := tx.(*MockTransaction); ok {
		t.OnCommit(apply)
		return nil
	}
	apply()
	return nil
}

func (m *MockAuditRepository) ListByResource(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var logs []*domain.AuditLog
	for _, l := range m.logs {
		if l.ResourceType == resourceType && l.ResourceID == resourceID {
			logs = append(logs, l)
		}
	}
	return logs, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
	// CommitErr, when set, fails every commit of transactions begun afterwards.
	CommitErr error
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tx := &MockTransaction{}
	if m.CommitErr != nil {
		err := m.CommitErr
		tx.CommitFunc = func(context.Context) error { return err }
	}
	return tx, nil
}

// MockTransaction is a mock implementation of Transaction. Writes registered
// with OnCommit become visible only after a successful Commit.
type MockTransaction struct {
	mu        sync.Mutex
	pending   []func()
	done      bool
	Commits   int
	Rollbacks int

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

// OnCommit stages fn until Commit.
func (m *MockTransaction) OnCommit(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, fn)
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		if err := m.CommitFunc(ctx); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return fmt.Errorf("transaction already closed")
	}
	for _, fn := range m.pending {
		fn()
	}
	m.pending = nil
	m.done = true
	m.Commits++
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return nil
	}
	m.pending = nil
	m.done = true
	m.Rollbacks++
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%06d", m.counter)
}

// MockProjectCache is an in-memory ProjectCache.
type MockProjectCache struct {
	mu       sync.Mutex
	projects map[string]domain.Project

	Invalidated []string
	GetFunc     func(ctx context.Context, id string) (*domain.Project, error)
}

func NewMockProjectCache() *MockProjectCache {
	return &MockProjectCache{projects: make(map[string]domain.Project)}
}

func (m *MockProjectCache) Get(ctx context.Context, id string) (*domain.Project, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *MockProjectCache) Set(ctx context.Context, project *domain.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[project.ID] = *project
	return nil
}

func (m *MockProjectCache) Invalidate(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.projects, id)
	m.Invalidated = append(m.Invalidated, id)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Value returns the stored value for key.
func (m *MockIdempotencyStore) Value(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}
