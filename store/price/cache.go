package price

import (
	"context"
	"fmt"
	"time"

	"tandem/core"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// Cache read-through cache over a price store
func Cache(store core.IPriceStore, exp time.Duration) core.IPriceStore {
	return &cachePriceStore{
		IPriceStore: store,
		cache:       gcache.New(64).LRU().Expiration(exp).Build(),
		sf:          &singleflight.Group{},
	}
}

type cachePriceStore struct {
	core.IPriceStore
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cachePriceStore) Save(ctx context.Context, round *core.PriceRound) error {
	if err := s.IPriceStore.Save(ctx, round); err != nil {
		return err
	}
	s.cache.Remove(s.feedKey(round.FeedID))
	return nil
}

func (s *cachePriceStore) Latest(ctx context.Context, feedID string) (*core.PriceRound, error) {
	if v, err := s.cache.Get(s.feedKey(feedID)); err == nil {
		if round, ok := v.(*core.PriceRound); ok {
			return round, nil
		}
	}

	v, err, _ := s.sf.Do(s.feedKey(feedID), func() (interface{}, error) {
		round, err := s.IPriceStore.Latest(ctx, feedID)
		if err != nil {
			return nil, err
		}
		if round != nil {
			s.cache.Set(s.feedKey(feedID), round)
		}
		return round, nil
	})
	if err != nil {
		return nil, err
	}

	round, _ := v.(*core.PriceRound)
	return round, nil
}

func (s *cachePriceStore) feedKey(feedID string) string {
	return fmt.Sprintf("price:latest:%s", feedID)
}
