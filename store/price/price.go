package price

import (
	"context"

	"tandem/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type priceStore struct {
	db *db.DB
}

// New new price round store
func New(db *db.DB) core.IPriceStore {
	return &priceStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.PriceRound{})
		if err := tx.AutoMigrate(core.PriceRound{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *priceStore) Save(ctx context.Context, round *core.PriceRound) error {
	latest, err := s.Latest(ctx, round.FeedID)
	if err != nil {
		return err
	}

	// rounds only move forward
	if latest != nil && round.RoundID <= latest.RoundID {
		return nil
	}

	return s.db.Update().Create(round).Error
}

func (s *priceStore) Latest(ctx context.Context, feedID string) (*core.PriceRound, error) {
	var round core.PriceRound
	if err := s.db.View().Where("feed_id=?", feedID).Order("round_id desc").First(&round).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	return &round, nil
}
