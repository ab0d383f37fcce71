package places

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/hubmap/pkg/cache"
)

// Cached returns a Source serving src through c under key. Cache errors fall
// through to src.
func Cached(src Source, c cache.Cache, key string, ttl time.Duration) Source {
	return SourceFunc(func(ctx context.Context) ([]Place, error) {
		if data, ok, err := c.Get(ctx, key); err == nil && ok {
			var ps []Place
			if json.Unmarshal(data, &ps) == nil {
				return ps, nil
			}
		}
		ps, err := src.Places(ctx)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(ps); err == nil {
			_ = c.Set(ctx, key, data, ttl)
		}
		return ps, nil
	})
}
