package pool

import (
	"context"

	"tandem/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

type poolStore struct {
	db *db.DB
}

// New new pool store
func New(db *db.DB) core.IPoolStore {
	return &poolStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Pool{})
		if err := tx.AutoMigrate(core.Pool{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *poolStore) Load(ctx context.Context) (*core.Pool, error) {
	var pool core.Pool
	if err := s.db.View().First(&pool).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			pool = core.Pool{
				UnderlyingBalance:   decimal.Zero,
				TotalShares:         decimal.Zero,
				TotalLoanOriginated: decimal.Zero,
				CurrentTotalDebt:    decimal.Zero,
				TotalBadDebt:        decimal.Zero,
			}
			if err := s.db.Update().Create(&pool).Error; err != nil {
				return nil, err
			}
			return &pool, nil
		}
		return nil, err
	}

	return &pool, nil
}

func (s *poolStore) Update(ctx context.Context, tx *db.DB, pool *core.Pool) error {
	version := pool.Version
	pool.Version++
	update := tx.Update().Model(core.Pool{}).Where("id=? and version=?", pool.ID, version).Update(pool)
	if update.Error != nil {
		return update.Error
	}
	if update.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
