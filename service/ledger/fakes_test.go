package ledger

import (
	"context"
	"testing"
	"time"

	"tandem/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

func testDB(t *testing.T) *db.DB {
	t.Helper()
	return db.MustOpen(db.Config{Dialect: "sqlite3", Host: ":memory:"})
}

type fakePoolStore struct {
	pool *core.Pool
}

func (s *fakePoolStore) Load(ctx context.Context) (*core.Pool, error) {
	if s.pool == nil {
		s.pool = &core.Pool{ID: 1}
	}
	return s.pool, nil
}

func (s *fakePoolStore) Update(ctx context.Context, tx *db.DB, pool *core.Pool) error {
	s.pool = pool
	return nil
}

type fakeShareStore struct {
	accounts   map[string]*core.ShareAccount
	allowances map[string]decimal.Decimal
}

func newFakeShareStore() *fakeShareStore {
	return &fakeShareStore{
		accounts:   make(map[string]*core.ShareAccount),
		allowances: make(map[string]decimal.Decimal),
	}
}

func (s *fakeShareStore) Find(ctx context.Context, holder string) (*core.ShareAccount, error) {
	if account, ok := s.accounts[holder]; ok {
		return account, nil
	}
	return &core.ShareAccount{Holder: holder}, nil
}

func (s *fakeShareStore) Save(ctx context.Context, tx *db.DB, account *core.ShareAccount) error {
	if account.ID == 0 {
		account.ID = uint64(len(s.accounts) + 1)
	}
	s.accounts[account.Holder] = account
	return nil
}

func (s *fakeShareStore) Allowance(ctx context.Context, owner, spender string) (decimal.Decimal, error) {
	return s.allowances[owner+"/"+spender], nil
}

func (s *fakeShareStore) Approve(ctx context.Context, owner, spender string, shares decimal.Decimal) error {
	s.allowances[owner+"/"+spender] = shares
	return nil
}

func (s *fakeShareStore) SpendAllowance(ctx context.Context, tx *db.DB, owner, spender string, shares decimal.Decimal) error {
	key := owner + "/" + spender
	if s.allowances[key].LessThan(shares) {
		return core.ErrInsufficientAllowance
	}
	s.allowances[key] = s.allowances[key].Sub(shares)
	return nil
}

func (s *fakeShareStore) All(ctx context.Context) ([]*core.ShareAccount, error) {
	accounts := make([]*core.ShareAccount, 0, len(s.accounts))
	for _, account := range s.accounts {
		accounts = append(accounts, account)
	}
	return accounts, nil
}

type fakeLoanStore struct {
	loans  map[uint64]*core.Loan
	nextID uint64
}

func newFakeLoanStore() *fakeLoanStore {
	return &fakeLoanStore{loans: make(map[uint64]*core.Loan)}
}

func (s *fakeLoanStore) Create(ctx context.Context, tx *db.DB, loan *core.Loan) error {
	s.nextID++
	loan.ID = s.nextID
	s.loans[loan.ID] = loan
	return nil
}

func (s *fakeLoanStore) Find(ctx context.Context, id uint64) (*core.Loan, error) {
	loan, ok := s.loans[id]
	if !ok {
		return nil, core.ErrLoanNotFound
	}
	return loan, nil
}

func (s *fakeLoanStore) FindByBorrower(ctx context.Context, borrower string) ([]*core.Loan, error) {
	var loans []*core.Loan
	for _, loan := range s.loans {
		if loan.Borrower == borrower {
			loans = append(loans, loan)
		}
	}
	return loans, nil
}

func (s *fakeLoanStore) All(ctx context.Context) ([]*core.Loan, error) {
	var loans []*core.Loan
	for _, loan := range s.loans {
		loans = append(loans, loan)
	}
	return loans, nil
}

func (s *fakeLoanStore) Update(ctx context.Context, tx *db.DB, loan *core.Loan) error {
	s.loans[loan.ID] = loan
	return nil
}

type fakeParamStore struct {
	risk *core.RiskParams
	rate *core.RateParams
}

func (s *fakeParamStore) SaveRiskParams(ctx context.Context, params *core.RiskParams) error {
	s.risk = params
	return nil
}

func (s *fakeParamStore) CurrentRiskParams(ctx context.Context) (*core.RiskParams, error) {
	return s.risk, nil
}

func (s *fakeParamStore) SaveRateParams(ctx context.Context, params *core.RateParams) error {
	s.rate = params
	return nil
}

func (s *fakeParamStore) CurrentRateParams(ctx context.Context) (*core.RateParams, error) {
	return s.rate, nil
}

type fakeEventStore struct {
	events []*core.Event
}

func (s *fakeEventStore) Create(ctx context.Context, tx *db.DB, event *core.Event) error {
	event.ID = uint64(len(s.events) + 1)
	s.events = append(s.events, event)
	return nil
}

func (s *fakeEventStore) List(ctx context.Context, fromID uint64, limit int) ([]*core.Event, error) {
	var events []*core.Event
	for _, event := range s.events {
		if event.ID > fromID && len(events) < limit {
			events = append(events, event)
		}
	}
	return events, nil
}

func (s *fakeEventStore) types() []string {
	types := make([]string, 0, len(s.events))
	for _, event := range s.events {
		types = append(types, event.Type)
	}
	return types
}

type fakeTokens struct {
	balances        map[string]decimal.Decimal
	allowances      map[string]decimal.Decimal
	transferFromErr error
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{
		balances:   make(map[string]decimal.Decimal),
		allowances: make(map[string]decimal.Decimal),
	}
}

func (f *fakeTokens) set(account, assetID string, amount decimal.Decimal) {
	f.balances[account+"/"+assetID] = amount
}

func (f *fakeTokens) BalanceOf(ctx context.Context, account, assetID string) (decimal.Decimal, error) {
	return f.balances[account+"/"+assetID], nil
}

func (f *fakeTokens) Allowance(ctx context.Context, owner, spender, assetID string) (decimal.Decimal, error) {
	return f.allowances[owner+"/"+spender+"/"+assetID], nil
}

func (f *fakeTokens) Approve(ctx context.Context, owner, spender, assetID string, amount decimal.Decimal) error {
	f.allowances[owner+"/"+spender+"/"+assetID] = amount
	return nil
}

func (f *fakeTokens) Transfer(ctx context.Context, tx *db.DB, from, to, assetID string, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return core.ErrInvalidAmount
	}
	if f.balances[from+"/"+assetID].LessThan(amount) {
		return core.ErrInsufficientFunds
	}
	f.balances[from+"/"+assetID] = f.balances[from+"/"+assetID].Sub(amount)
	f.balances[to+"/"+assetID] = f.balances[to+"/"+assetID].Add(amount)
	return nil
}

func (f *fakeTokens) TransferFrom(ctx context.Context, tx *db.DB, spender, from, to, assetID string, amount decimal.Decimal) error {
	if f.transferFromErr != nil {
		err := f.transferFromErr
		f.transferFromErr = nil
		return err
	}
	if spender != from {
		key := from + "/" + spender + "/" + assetID
		if f.allowances[key].LessThan(amount) {
			return core.ErrInsufficientFunds
		}
		f.allowances[key] = f.allowances[key].Sub(amount)
	}
	return f.Transfer(ctx, tx, from, to, assetID, amount)
}

type fakeQuotes struct {
	quote decimal.Decimal
	err   error
}

func (f *fakeQuotes) GetQuote(ctx context.Context) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return f.quote, nil
}

type liquidatorFunc func(ctx context.Context, notice *core.SeizureNotice) error

func (f liquidatorFunc) LiquidateCollateral(ctx context.Context, notice *core.SeizureNotice) error {
	return f(ctx, notice)
}

type fixture struct {
	svc    *Service
	db     *db.DB
	system *core.System
	pool   *fakePoolStore
	shares *fakeShareStore
	loans  *fakeLoanStore
	params *fakeParamStore
	events *fakeEventStore
	tokens *fakeTokens
	quotes *fakeQuotes
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	system := &core.System{
		Admins:            []string{"admin"},
		PoolAccountID:     "pool",
		BorrowAssetID:     "usd",
		CollateralAssetID: "btc",
		QuoteFreshness:    time.Hour,
	}

	f := &fixture{
		system: system,
		pool:   &fakePoolStore{},
		shares: newFakeShareStore(),
		loans:  newFakeLoanStore(),
		params: &fakeParamStore{
			risk: &core.RiskParams{
				LtvBps:                        8000,
				LiquidationThresholdMarkupBps: 11000,
				LiquidationThresholdCapBps:    9000,
				LiquidationFeeBps:             500,
				LiquidationMaxSlippageBps:     500,
			},
			rate: &core.RateParams{
				MinRateBps:            200,
				OptimalRateBps:        800,
				MaxRateBps:            1500,
				OptimalUtilizationBps: 8000,
			},
		},
		events: &fakeEventStore{},
		tokens: newFakeTokens(),
		quotes: &fakeQuotes{quote: decimal.NewFromInt(2)},
	}

	f.db = testDB(t)
	f.svc = New(
		f.db,
		system,
		f.pool,
		f.shares,
		f.loans,
		f.params,
		f.events,
		f.tokens,
		f.quotes,
	)

	// frozen clock, interest assertions stay exact
	now := time.Unix(1700000000, 0)
	f.svc.clock = func() time.Time { return now }

	return f
}

// deposit funds and approves the lender, then adds liquidity
func (f *fixture) deposit(t *testing.T, lender string, amount decimal.Decimal) decimal.Decimal {
	t.Helper()
	ctx := context.Background()

	f.tokens.set(lender, f.system.BorrowAssetID, amount)
	if err := f.tokens.Approve(ctx, lender, f.system.PoolAccountID, f.system.BorrowAssetID, amount); err != nil {
		t.Fatal(err)
	}

	shares, err := f.svc.AddLiquidity(ctx, lender, amount)
	if err != nil {
		t.Fatal(err)
	}
	return shares
}
