package token

import (
	"context"
	"time"

	"tandem/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

// Balance one account's balance of one asset
type Balance struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Account   string          `sql:"size:36;unique_index:token_balance_idx" json:"account"`
	AssetID   string          `sql:"size:36;unique_index:token_balance_idx" json:"asset_id"`
	Amount    decimal.Decimal `sql:"type:decimal(32,16)" json:"amount"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Allowance spending approval from owner to spender for one asset
type Allowance struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Owner     string          `sql:"size:36;unique_index:token_allowance_idx" json:"owner"`
	Spender   string          `sql:"size:36;unique_index:token_allowance_idx" json:"spender"`
	AssetID   string          `sql:"size:36;unique_index:token_allowance_idx" json:"asset_id"`
	Amount    decimal.Decimal `sql:"type:decimal(32,16)" json:"amount"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

type Store struct {
	db *db.DB
}

// New gorm-backed fungible token ledger
func New(db *db.DB) *Store {
	return &Store{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().Model(Balance{}).AutoMigrate(Balance{}).Error; err != nil {
			return err
		}
		if err := db.Update().Model(Allowance{}).AutoMigrate(Allowance{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *Store) BalanceOf(ctx context.Context, account, assetID string) (decimal.Decimal, error) {
	balance, err := s.findBalance(s.db, account, assetID)
	if err != nil {
		return decimal.Zero, err
	}

	return balance.Amount, nil
}

func (s *Store) Allowance(ctx context.Context, owner, spender, assetID string) (decimal.Decimal, error) {
	var allowance Allowance
	if err := s.db.View().Where("owner=? and spender=? and asset_id=?", owner, spender, assetID).First(&allowance).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	return allowance.Amount, nil
}

func (s *Store) Approve(ctx context.Context, owner, spender, assetID string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return core.ErrInvalidAmount
	}

	allowance := Allowance{Owner: owner, Spender: spender, AssetID: assetID}
	return s.db.Update().
		Where("owner=? and spender=? and asset_id=?", owner, spender, assetID).
		Assign(map[string]interface{}{"amount": amount}).
		FirstOrCreate(&allowance).Error
}

func (s *Store) Transfer(ctx context.Context, tx *db.DB, from, to, assetID string, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return core.ErrInvalidAmount
	}

	return s.move(tx, from, to, assetID, amount)
}

func (s *Store) TransferFrom(ctx context.Context, tx *db.DB, spender, from, to, assetID string, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return core.ErrInvalidAmount
	}

	if spender != from {
		var allowance Allowance
		if err := tx.Update().Where("owner=? and spender=? and asset_id=?", from, spender, assetID).First(&allowance).Error; err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return core.ErrInsufficientFunds
			}
			return err
		}
		if allowance.Amount.LessThan(amount) {
			return core.ErrInsufficientFunds
		}

		allowance.Amount = allowance.Amount.Sub(amount)
		version := allowance.Version
		allowance.Version++
		update := tx.Update().Model(Allowance{}).Where("id=? and version=?", allowance.ID, version).Update(&allowance)
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return db.ErrOptimisticLock
		}
	}

	return s.move(tx, from, to, assetID, amount)
}

func (s *Store) move(tx *db.DB, from, to, assetID string, amount decimal.Decimal) error {
	fromBalance, err := s.findBalance(tx, from, assetID)
	if err != nil {
		return err
	}
	if fromBalance.Amount.LessThan(amount) {
		return core.ErrInsufficientFunds
	}

	toBalance, err := s.findBalance(tx, to, assetID)
	if err != nil {
		return err
	}

	fromBalance.Amount = fromBalance.Amount.Sub(amount)
	if err := s.saveBalance(tx, fromBalance); err != nil {
		return err
	}

	toBalance.Amount = toBalance.Amount.Add(amount)
	return s.saveBalance(tx, toBalance)
}

func (s *Store) findBalance(tx *db.DB, account, assetID string) (*Balance, error) {
	var balance Balance
	if err := tx.View().Where("account=? and asset_id=?", account, assetID).First(&balance).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &Balance{Account: account, AssetID: assetID, Amount: decimal.Zero}, nil
		}
		return nil, err
	}

	return &balance, nil
}

func (s *Store) saveBalance(tx *db.DB, balance *Balance) error {
	if balance.ID == 0 {
		return tx.Update().Create(balance).Error
	}

	version := balance.Version
	balance.Version++
	update := tx.Update().Model(Balance{}).Where("id=? and version=?", balance.ID, version).Update(balance)
	if update.Error != nil {
		return update.Error
	}
	if update.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

// Mint credits freshly issued tokens to an account. Not part of the
// core.TokenLedger surface; used by the mint command and tests.
func (s *Store) Mint(ctx context.Context, account, assetID string, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return core.ErrInvalidAmount
	}

	return s.db.Tx(func(tx *db.DB) error {
		balance, err := s.findBalance(tx, account, assetID)
		if err != nil {
			return err
		}

		balance.Amount = balance.Amount.Add(amount)
		return s.saveBalance(tx, balance)
	})
}
