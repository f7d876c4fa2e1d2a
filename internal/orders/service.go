package orders

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const summaryCacheKey = "meridian:orders:summary"

// Service implements the base order operations.
type Service struct {
	repo     Repository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *slog.Logger
	group    singleflight.Group
}

// NewService builds a Service. cache may be nil, summaries then bypass Redis.
func NewService(repo Repository, cache *redis.Client, cacheTTL time.Duration, logger *slog.Logger) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Service{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListRequest) ([]Order, int, error) {
	return s.repo.List(ctx, req)
}

// Update applies a pointer-field patch to a base order. The order type is
// immutable and not patchable. Set pointers always write, including zero values.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (*Order, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	updates := BaseUpdates(input)
	if len(updates) > 0 {
		err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			return tx.Update(ctx, id, updates)
		})
		if err != nil {
			return nil, err
		}
		s.invalidateSummary(ctx)
	}
	return s.repo.GetByID(ctx, id)
}

// BaseUpdates converts an UpdateInput into column updates.
// Shared with the subtype services that patch base orders in their own tx.
func BaseUpdates(input UpdateInput) map[string]interface{} {
	updates := map[string]interface{}{}
	if input.OrderNumber != nil {
		updates["order_number"] = *input.OrderNumber
	}
	if input.OrderDate != nil {
		updates["order_date"] = *input.OrderDate
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.TotalAmount != nil {
		updates["total_amount"] = *input.TotalAmount
	}
	if input.Items != nil {
		encoded, err := EncodeItems(*input.Items)
		if err == nil {
			updates["items"] = encoded
		}
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	return updates
}

// Summary returns aggregate order counts, served from Redis when warm.
// Concurrent cold hits collapse into a single database query.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, summaryCacheKey).Bytes(); err == nil {
			var summary Summary
			if err := json.Unmarshal(cached, &summary); err == nil {
				return &summary, nil
			}
		}
	}

	v, err, _ := s.group.Do(summaryCacheKey, func() (interface{}, error) {
		summary, err := s.repo.Summarize(ctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if encoded, err := json.Marshal(summary); err == nil {
				if err := s.cache.Set(ctx, summaryCacheKey, encoded, s.cacheTTL).Err(); err != nil && s.logger != nil {
					s.logger.Warn("summary cache set", slog.Any("error", err))
				}
			}
		}
		return summary, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Summary), nil
}

func (s *Service) invalidateSummary(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, summaryCacheKey).Err(); err != nil && s.logger != nil {
		s.logger.Warn("summary cache invalidate", slog.Any("error", err))
	}
}
