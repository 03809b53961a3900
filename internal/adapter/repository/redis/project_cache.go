package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/iho/sharefund/internal/domain"
)

// ProjectCache implements usecase.ProjectCache using Redis.
// Snapshots are for display only and may lag the ledger by up to ttl.
type ProjectCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewProjectCache creates a new ProjectCache.
func NewProjectCache(client redis.Cmdable, ttl time.Duration) *ProjectCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ProjectCache{
		client: client,
		prefix: "cache:project:",
		ttl:    ttl,
	}
}

type projectSnapshot struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Location        string          `json:"location"`
	CapacityKW      decimal.Decimal `json:"capacity_kw"`
	PricePerShare   decimal.Decimal `json:"price_per_share"`
	AvailableShares int64           `json:"available_shares"`
	SoldShares      int64           `json:"sold_shares"`
	ExpectedROI     decimal.Decimal `json:"expected_roi"`
	Status          string          `json:"status"`
	Version         int64           `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Get returns the cached snapshot, or nil on a miss.
func (c *ProjectCache) Get(ctx context.Context, id string) (*domain.Project, error) {
	data, err := c.client.Get(ctx, c.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s projectSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		// A corrupt entry is a miss.
		_ = c.client.Del(ctx, c.prefix+id).Err()
		return nil, nil
	}

	return &domain.Project{
		ID:              s.ID,
		Title:           s.Title,
		Location:        s.Location,
		CapacityKW:      s.CapacityKW,
		PricePerShare:   s.PricePerShare,
		AvailableShares: s.AvailableShares,
		SoldShares:      s.SoldShares,
		ExpectedROI:     s.ExpectedROI,
		Status:          domain.ProjectStatus(s.Status),
		Version:         s.Version,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}, nil
}

// Set stores a snapshot with the cache TTL.
func (c *ProjectCache) Set(ctx context.Context, p *domain.Project) error {
	data, err := json.Marshal(projectSnapshot{
		ID:              p.ID,
		Title:           p.Title,
		Location:        p.Location,
		CapacityKW:      p.CapacityKW,
		PricePerShare:   p.PricePerShare,
		AvailableShares: p.AvailableShares,
		SoldShares:      p.SoldShares,
		ExpectedROI:     p.ExpectedROI,
		Status:          string(p.Status),
		Version:         p.Version,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+p.ID, data, c.ttl).Err()
}

// Invalidate removes a snapshot.
func (c *ProjectCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.prefix+id).Err()
}
