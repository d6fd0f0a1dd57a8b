package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/jmoiron/sqlx/types"
)

const (
	// EventLoanCreated loan created (pending or active)
	EventLoanCreated = "loan_created"
	// EventLoanMatched pending p2p loan matched by its lender
	EventLoanMatched = "loan_matched"
	// EventLoanRepaid loan repaid
	EventLoanRepaid = "loan_repaid"
	// EventLoanLiquidated loan liquidated; payload carries the shortfall
	EventLoanLiquidated = "loan_liquidated"
	// EventLoanCanceled pending loan canceled by the borrower
	EventLoanCanceled = "loan_canceled"
	// EventLiquidityAdded liquidity added
	EventLiquidityAdded = "liquidity_added"
	// EventLiquidityRemoved liquidity removed
	EventLiquidityRemoved = "liquidity_removed"
	// EventSharesTransferred share value moved between holders
	EventSharesTransferred = "shares_transferred"
	// EventSharesApproved share allowance granted
	EventSharesApproved = "shares_approved"
	// EventRiskParamsUpdated risk parameters updated
	EventRiskParamsUpdated = "risk_params_updated"
	// EventRateParamsUpdated rate parameters updated
	EventRateParamsUpdated = "rate_params_updated"
	// EventPriceFeedUpdated active price feed switched
	EventPriceFeedUpdated = "price_feed_updated"
	// EventPaused every mutating entry point blocked
	EventPaused = "paused"
	// EventUnpaused mutating entry points unblocked
	EventUnpaused = "unpaused"
)

// Event observable side effect other components may react to
type Event struct {
	ID        uint64         `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Type      string         `sql:"size:36;index:event_type_idx" json:"type"`
	LoanID    uint64         `sql:"default:0" json:"loan_id,omitempty"`
	Payload   types.JSONText `sql:"type:TEXT" json:"payload,omitempty"`
	CreatedAt time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// NewEvent event with a json-encoded payload
func NewEvent(typ string, loanID uint64, payload interface{}) *Event {
	e := &Event{Type: typ, LoanID: loanID}
	if payload != nil {
		if bs, err := json.Marshal(payload); err == nil {
			e.Payload = bs
		}
	}

	return e
}

// IEventStore event store interface
type IEventStore interface {
	Create(ctx context.Context, tx *db.DB, event *Event) error
	List(ctx context.Context, fromID uint64, limit int) ([]*Event, error)
}
