package share

import (
	"context"

	"tandem/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

type shareStore struct {
	db *db.DB
}

// New new share account store
func New(db *db.DB) core.IShareStore {
	return &shareStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.ShareAccount{})
		if err := tx.AutoMigrate(core.ShareAccount{}).Error; err != nil {
			return err
		}

		if err := db.Update().Model(core.ShareAllowance{}).AutoMigrate(core.ShareAllowance{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *shareStore) Find(ctx context.Context, holder string) (*core.ShareAccount, error) {
	var account core.ShareAccount
	if err := s.db.View().Where("holder=?", holder).First(&account).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.ShareAccount{Holder: holder, Shares: decimal.Zero}, nil
		}
		return nil, err
	}

	return &account, nil
}

func (s *shareStore) Save(ctx context.Context, tx *db.DB, account *core.ShareAccount) error {
	if account.ID == 0 {
		return tx.Update().Create(account).Error
	}

	version := account.Version
	account.Version++
	update := tx.Update().Model(core.ShareAccount{}).Where("id=? and version=?", account.ID, version).Update(account)
	if update.Error != nil {
		return update.Error
	}
	if update.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *shareStore) Allowance(ctx context.Context, owner, spender string) (decimal.Decimal, error) {
	var allowance core.ShareAllowance
	if err := s.db.View().Where("owner=? and spender=?", owner, spender).First(&allowance).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	return allowance.Shares, nil
}

func (s *shareStore) Approve(ctx context.Context, owner, spender string, shares decimal.Decimal) error {
	if shares.IsNegative() {
		return core.ErrInvalidAmount
	}

	allowance := core.ShareAllowance{Owner: owner, Spender: spender}
	return s.db.Update().
		Where("owner=? and spender=?", owner, spender).
		Assign(map[string]interface{}{"shares": shares}).
		FirstOrCreate(&allowance).Error
}

func (s *shareStore) SpendAllowance(ctx context.Context, tx *db.DB, owner, spender string, shares decimal.Decimal) error {
	var allowance core.ShareAllowance
	if err := tx.Update().Where("owner=? and spender=?", owner, spender).First(&allowance).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return core.ErrInsufficientAllowance
		}
		return err
	}
	if allowance.Shares.LessThan(shares) {
		return core.ErrInsufficientAllowance
	}

	allowance.Shares = allowance.Shares.Sub(shares)
	version := allowance.Version
	allowance.Version++
	update := tx.Update().Model(core.ShareAllowance{}).Where("id=? and version=?", allowance.ID, version).Update(&allowance)
	if update.Error != nil {
		return update.Error
	}
	if update.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *shareStore) All(ctx context.Context) ([]*core.ShareAccount, error) {
	var accounts []*core.ShareAccount
	if err := s.db.View().Find(&accounts).Error; err != nil {
		return nil, err
	}

	return accounts, nil
}
