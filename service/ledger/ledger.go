package ledger

import (
	"context"
	"time"

	"tandem/core"
	"tandem/pkg/concurrency"
	"tandem/pkg/lending"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Service the loan ledger and its liquidation engine. All mutating operations
// run as one atomic unit against the shared pool state; a non-blocking guard
// rejects re-entry for the duration of a call, including re-entry attempted
// from inside the liquidation callback.
type Service struct {
	db     *db.DB
	system *core.System
	guard  *concurrency.Guard
	clock  func() time.Time

	poolStore  core.IPoolStore
	shareStore core.IShareStore
	loanStore  core.ILoanStore
	paramStore core.IParamStore
	eventStore core.IEventStore

	tokens core.TokenLedger
	quotes core.IQuoteService
}

// New new ledger service
func New(
	db *db.DB,
	system *core.System,
	poolStore core.IPoolStore,
	shareStore core.IShareStore,
	loanStore core.ILoanStore,
	paramStore core.IParamStore,
	eventStore core.IEventStore,
	tokens core.TokenLedger,
	quotes core.IQuoteService) *Service {
	return &Service{
		db:         db,
		system:     system,
		guard:      concurrency.NewGuard(),
		clock:      time.Now,
		poolStore:  poolStore,
		shareStore: shareStore,
		loanStore:  loanStore,
		paramStore: paramStore,
		eventStore: eventStore,
		tokens:     tokens,
		quotes:     quotes,
	}
}

// enter loads the pool, rejects paused or re-entrant calls, and takes the
// guard; the returned release must be deferred by the caller
func (s *Service) enter(ctx context.Context) (*core.Pool, func(), error) {
	pool, err := s.poolStore.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	if pool.Paused {
		return nil, nil, core.ErrPaused
	}

	if !s.guard.Enter() {
		return nil, nil, core.ErrReentrantCall
	}

	return pool, s.guard.Exit, nil
}

// TotalSupply pool underlying value backing the share supply
func (s *Service) TotalSupply(ctx context.Context) (decimal.Decimal, error) {
	pool, err := s.poolStore.Load(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return pool.UnderlyingBalance, nil
}

// CurrentTotalDebt outstanding obligations of all non-terminal loans
func (s *Service) CurrentTotalDebt(ctx context.Context) (decimal.Decimal, error) {
	pool, err := s.poolStore.Load(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return pool.CurrentTotalDebt, nil
}

// UtilizationRate utilization in bps; markup previews the utilization after
// an additional debt of that size
func (s *Service) UtilizationRate(ctx context.Context, markup decimal.Decimal) (decimal.Decimal, error) {
	pool, err := s.poolStore.Load(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return lending.UtilizationRate(pool.CurrentTotalDebt, markup, pool.TotalShares), nil
}

// InterestRate annual rate in bps resolved for a utilization in bps
func (s *Service) InterestRate(ctx context.Context, utilizationBps decimal.Decimal) (decimal.Decimal, error) {
	params, err := s.paramStore.CurrentRateParams(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return s.resolveRate(utilizationBps, params), nil
}

func (s *Service) resolveRate(utilizationBps decimal.Decimal, params *core.RateParams) decimal.Decimal {
	return lending.InterestRate(
		utilizationBps,
		decimal.NewFromInt(params.MinRateBps),
		decimal.NewFromInt(params.OptimalRateBps),
		decimal.NewFromInt(params.MaxRateBps),
		decimal.NewFromInt(params.OptimalUtilizationBps),
	)
}

func (s *Service) now() time.Time {
	return s.clock()
}
