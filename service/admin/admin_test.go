package admin

import (
	"context"
	"testing"

	"tandem/core"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

type fakeParamStore struct {
	risk *core.RiskParams
	rate *core.RateParams
}

func (s *fakeParamStore) SaveRiskParams(ctx context.Context, params *core.RiskParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	s.risk = params
	return nil
}

func (s *fakeParamStore) CurrentRiskParams(ctx context.Context) (*core.RiskParams, error) {
	return s.risk, nil
}

func (s *fakeParamStore) SaveRateParams(ctx context.Context, params *core.RateParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
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
	s.events = append(s.events, event)
	return nil
}

func (s *fakeEventStore) List(ctx context.Context, fromID uint64, limit int) ([]*core.Event, error) {
	return s.events, nil
}

type fakeProperties struct {
	saved map[string]interface{}
}

func (s *fakeProperties) Get(ctx context.Context, key string) (property.Value, error) {
	return property.Value(""), nil
}

func (s *fakeProperties) Save(ctx context.Context, key string, value interface{}) error {
	if s.saved == nil {
		s.saved = make(map[string]interface{})
	}
	s.saved[key] = value
	return nil
}

func (s *fakeProperties) Expire(ctx context.Context, key string) error {
	return nil
}

func (s *fakeProperties) List(ctx context.Context) (map[string]property.Value, error) {
	return nil, nil
}

func testDB(t *testing.T) *db.DB {
	t.Helper()
	return db.MustOpen(db.Config{Dialect: "sqlite3", Host: ":memory:"})
}

func newService(t *testing.T) (core.IAdminService, *fakePoolStore, *fakeParamStore, *fakeEventStore, *fakeProperties) {
	t.Helper()

	system := &core.System{Admins: []string{"admin"}}
	pools := &fakePoolStore{}
	params := &fakeParamStore{}
	events := &fakeEventStore{}
	properties := &fakeProperties{}

	svc := New(testDB(t), system, properties, pools, params, events)
	return svc, pools, params, events, properties
}

func TestAdminOnly(t *testing.T) {
	svc, _, _, _, _ := newService(t)
	ctx := context.Background()

	assert.Equal(t, core.ErrOperationForbidden, svc.Pause(ctx, "mallory"))
	assert.Equal(t, core.ErrOperationForbidden, svc.SetPriceFeed(ctx, "mallory", "btc-usd"))
	assert.Equal(t, core.ErrOperationForbidden, svc.SetRiskParams(ctx, "mallory", &core.RiskParams{}))
	assert.Equal(t, core.ErrOperationForbidden, svc.SetRateParams(ctx, "mallory", &core.RateParams{}))
}

func TestPauseUnpause(t *testing.T) {
	svc, pools, _, events, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Pause(ctx, "admin"))
	assert.True(t, pools.pool.Paused)

	// repeated pause is a no-op, no duplicate event
	require.NoError(t, svc.Pause(ctx, "admin"))
	assert.Len(t, events.events, 1)
	assert.Equal(t, core.EventPaused, events.events[0].Type)

	require.NoError(t, svc.Unpause(ctx, "admin"))
	assert.False(t, pools.pool.Paused)
	assert.Equal(t, core.EventUnpaused, events.events[1].Type)
}

func TestSetParamsValidates(t *testing.T) {
	svc, _, params, _, _ := newService(t)
	ctx := context.Background()

	err := svc.SetRiskParams(ctx, "admin", &core.RiskParams{LtvBps: 0})
	assert.Equal(t, core.ErrInvalidParams, err)

	require.NoError(t, svc.SetRiskParams(ctx, "admin", &core.RiskParams{
		LtvBps:                        8000,
		LiquidationThresholdMarkupBps: 11000,
		LiquidationFeeBps:             500,
		LiquidationMaxSlippageBps:     500,
	}))
	assert.Equal(t, int64(8000), params.risk.LtvBps)

	err = svc.SetRateParams(ctx, "admin", &core.RateParams{MinRateBps: 0})
	assert.Equal(t, core.ErrInvalidParams, err)

	require.NoError(t, svc.SetRateParams(ctx, "admin", &core.RateParams{
		MinRateBps:            200,
		OptimalRateBps:        800,
		MaxRateBps:            1500,
		OptimalUtilizationBps: 8000,
	}))
	assert.Equal(t, int64(1500), params.rate.MaxRateBps)
}

func TestSetPriceFeed(t *testing.T) {
	svc, _, _, events, properties := newService(t)
	ctx := context.Background()

	assert.Equal(t, core.ErrInvalidParams, svc.SetPriceFeed(ctx, "admin", ""))

	require.NoError(t, svc.SetPriceFeed(ctx, "admin", "eth-usd"))
	assert.Equal(t, "eth-usd", properties.saved[core.PropertyPriceFeed])
	assert.Equal(t, core.EventPriceFeedUpdated, events.events[0].Type)
}
