package cmd

import (
	"time"

	"tandem/core"
	"tandem/service/admin"
	"tandem/service/ledger"
	"tandem/service/oracle"
	"tandem/store/event"
	"tandem/store/loan"
	"tandem/store/param"
	"tandem/store/pool"
	"tandem/store/price"
	"tandem/store/share"
	"tandem/store/token"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideConfig() *core.Config {
	return &cfg
}

func provideSystem() *core.System {
	freshness := cfg.Oracle.Freshness
	if freshness <= 0 {
		freshness = time.Hour
	}

	return &core.System{
		Admins:            cfg.Admins,
		PoolAccountID:     cfg.App.PoolAccountID,
		BorrowAssetID:     cfg.App.BorrowAssetID,
		CollateralAssetID: cfg.App.CollateralAssetID,
		QuoteFreshness:    freshness,
		Version:           rootCmd.Version,
	}
}

// ---------------store-----------------------------------------

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func providePoolStore(db *db.DB) core.IPoolStore {
	return pool.New(db)
}

func provideShareStore(db *db.DB) core.IShareStore {
	return share.New(db)
}

func provideLoanStore(db *db.DB) core.ILoanStore {
	return loan.New(db)
}

func provideParamStore(db *db.DB) core.IParamStore {
	return param.New(db)
}

func provideEventStore(db *db.DB) core.IEventStore {
	return event.New(db)
}

func providePriceStore(db *db.DB) core.IPriceStore {
	return price.Cache(price.New(db), 5*time.Second)
}

func provideTokenStore(db *db.DB) *token.Store {
	return token.New(db)
}

// ------------------service------------------------------------

func provideQuoteService(db *db.DB, system *core.System) core.IQuoteService {
	return oracle.New(system, providePropertyStore(db), providePriceStore(db), cfg.Oracle.FeedID)
}

func provideLedgerService(db *db.DB, system *core.System) *ledger.Service {
	return ledger.New(
		db,
		system,
		providePoolStore(db),
		provideShareStore(db),
		provideLoanStore(db),
		provideParamStore(db),
		provideEventStore(db),
		provideTokenStore(db),
		provideQuoteService(db, system),
	)
}

func provideAdminService(db *db.DB, system *core.System) core.IAdminService {
	return admin.New(
		db,
		system,
		providePropertyStore(db),
		providePoolStore(db),
		provideParamStore(db),
		provideEventStore(db),
	)
}
