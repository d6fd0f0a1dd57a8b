package core

import (
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/store/db"
)

// Config tandem config
type Config struct {
	App    App       `json:"app"`
	DB     db.Config `json:"db"`
	Oracle Oracle    `json:"oracle"`
	Admins []string  `json:"admins"`
}

// App app config
type App struct {
	// PoolAccountID token ledger account held by the lending pool itself
	PoolAccountID string `json:"pool_account_id"`
	// BorrowAssetID asset lent out of the pool
	BorrowAssetID string `json:"borrow_asset_id"`
	// CollateralAssetID asset pledged by borrowers
	CollateralAssetID string `json:"collateral_asset_id"`
	Location          string `json:"location"`
}

// Oracle price oracle config
type Oracle struct {
	EndPoint string `json:"end_point"`
	FeedID   string `json:"feed_id"`
	// Freshness how old a quote may be before borrows reject it
	Freshness time.Duration `json:"freshness"`
}

// IsAdmin check if the user is admin
func (c *Config) IsAdmin(userID string) bool {
	return govalidator.IsIn(userID, c.Admins...)
}
