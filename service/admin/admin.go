package admin

import (
	"context"

	"tandem/core"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
)

type adminService struct {
	db            *db.DB
	system        *core.System
	propertyStore property.Store
	poolStore     core.IPoolStore
	paramStore    core.IParamStore
	eventStore    core.IEventStore
}

// New privileged configuration service; every call checks the caller against
// the configured admin list
func New(
	db *db.DB,
	system *core.System,
	propertyStore property.Store,
	poolStore core.IPoolStore,
	paramStore core.IParamStore,
	eventStore core.IEventStore) core.IAdminService {
	return &adminService{
		db:            db,
		system:        system,
		propertyStore: propertyStore,
		poolStore:     poolStore,
		paramStore:    paramStore,
		eventStore:    eventStore,
	}
}

func (s *adminService) SetRiskParams(ctx context.Context, caller string, params *core.RiskParams) error {
	if !s.system.IsAdmin(caller) {
		return core.ErrOperationForbidden
	}

	if err := s.paramStore.SaveRiskParams(ctx, params); err != nil {
		return err
	}

	logger.FromContext(ctx).WithField("admin", caller).Infoln("risk params updated")
	return s.db.Tx(func(tx *db.DB) error {
		return s.eventStore.Create(ctx, tx, core.NewEvent(core.EventRiskParamsUpdated, 0, params))
	})
}

func (s *adminService) SetRateParams(ctx context.Context, caller string, params *core.RateParams) error {
	if !s.system.IsAdmin(caller) {
		return core.ErrOperationForbidden
	}

	if err := s.paramStore.SaveRateParams(ctx, params); err != nil {
		return err
	}

	logger.FromContext(ctx).WithField("admin", caller).Infoln("rate params updated")
	return s.db.Tx(func(tx *db.DB) error {
		return s.eventStore.Create(ctx, tx, core.NewEvent(core.EventRateParamsUpdated, 0, params))
	})
}

func (s *adminService) SetPriceFeed(ctx context.Context, caller, feedID string) error {
	if !s.system.IsAdmin(caller) {
		return core.ErrOperationForbidden
	}
	if feedID == "" {
		return core.ErrInvalidParams
	}

	if err := s.propertyStore.Save(ctx, core.PropertyPriceFeed, feedID); err != nil {
		return err
	}

	return s.db.Tx(func(tx *db.DB) error {
		return s.eventStore.Create(ctx, tx, core.NewEvent(core.EventPriceFeedUpdated, 0, map[string]interface{}{
			"feed_id": feedID,
		}))
	})
}

func (s *adminService) Pause(ctx context.Context, caller string) error {
	return s.setPaused(ctx, caller, true)
}

func (s *adminService) Unpause(ctx context.Context, caller string) error {
	return s.setPaused(ctx, caller, false)
}

// setPaused flips the pool pause flag; admin calls bypass the flag itself so
// a paused ledger can always be configured and resumed
func (s *adminService) setPaused(ctx context.Context, caller string, paused bool) error {
	if !s.system.IsAdmin(caller) {
		return core.ErrOperationForbidden
	}

	pool, err := s.poolStore.Load(ctx)
	if err != nil {
		return err
	}
	if pool.Paused == paused {
		return nil
	}

	pool.Paused = paused

	typ := core.EventPaused
	if !paused {
		typ = core.EventUnpaused
	}

	return s.db.Tx(func(tx *db.DB) error {
		if err := s.poolStore.Update(ctx, tx, pool); err != nil {
			return err
		}
		return s.eventStore.Create(ctx, tx, core.NewEvent(typ, 0, map[string]interface{}{
			"admin": caller,
		}))
	})
}
