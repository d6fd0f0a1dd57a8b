package param

import (
	"context"

	"tandem/core"

	"github.com/fox-one/pkg/store/db"
)

type paramStore struct {
	db *db.DB
}

// New new param store
func New(db *db.DB) core.IParamStore {
	return &paramStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().Model(core.RiskParams{}).AutoMigrate(core.RiskParams{}).Error; err != nil {
			return err
		}
		if err := db.Update().Model(core.RateParams{}).AutoMigrate(core.RateParams{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// SaveRiskParams appends a new version; existing loans keep their locked rate,
// future evaluations read the new row
func (s *paramStore) SaveRiskParams(ctx context.Context, params *core.RiskParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	return s.db.Update().Create(params).Error
}

func (s *paramStore) CurrentRiskParams(ctx context.Context) (*core.RiskParams, error) {
	var params core.RiskParams
	if err := s.db.View().Order("id desc").First(&params).Error; err != nil {
		return nil, err
	}

	return &params, nil
}

func (s *paramStore) SaveRateParams(ctx context.Context, params *core.RateParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	return s.db.Update().Create(params).Error
}

func (s *paramStore) CurrentRateParams(ctx context.Context) (*core.RateParams, error) {
	var params core.RateParams
	if err := s.db.View().Order("id desc").First(&params).Error; err != nil {
		return nil, err
	}

	return &params, nil
}
