package core

import (
	"time"

	"github.com/asaskevich/govalidator"
)

// System stores system information.
type System struct {
	Admins            []string
	PoolAccountID     string
	BorrowAssetID     string
	CollateralAssetID string
	QuoteFreshness    time.Duration
	Version           string
}

// IsAdmin is admin
func (s *System) IsAdmin(userID string) bool {
	return govalidator.IsIn(userID, s.Admins...)
}
