package loan

import (
	"context"

	"tandem/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type loanStore struct {
	db *db.DB
}

// New new loan store
func New(db *db.DB) core.ILoanStore {
	return &loanStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Loan{})
		if err := tx.AutoMigrate(core.Loan{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *loanStore) Create(ctx context.Context, tx *db.DB, loan *core.Loan) error {
	return tx.Update().Create(loan).Error
}

func (s *loanStore) Find(ctx context.Context, id uint64) (*core.Loan, error) {
	var loan core.Loan
	if err := s.db.View().Where("id=?", id).First(&loan).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrLoanNotFound
		}
		return nil, err
	}

	return &loan, nil
}

func (s *loanStore) FindByBorrower(ctx context.Context, borrower string) ([]*core.Loan, error) {
	var loans []*core.Loan
	if err := s.db.View().Where("borrower=?", borrower).Find(&loans).Error; err != nil {
		return nil, err
	}

	return loans, nil
}

func (s *loanStore) All(ctx context.Context) ([]*core.Loan, error) {
	var loans []*core.Loan
	if err := s.db.View().Find(&loans).Error; err != nil {
		return nil, err
	}

	return loans, nil
}

func (s *loanStore) Update(ctx context.Context, tx *db.DB, loan *core.Loan) error {
	version := loan.Version
	loan.Version++
	update := tx.Update().Model(core.Loan{}).Where("id=? and version=?", loan.ID, version).Update(loan)
	if update.Error != nil {
		return update.Error
	}
	if update.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
