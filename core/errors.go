package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrOperationForbidden operation forbidden
	ErrOperationForbidden ErrorCode = 100001
	// ErrPaused ledger paused
	ErrPaused ErrorCode = 100002
	// ErrReentrantCall mutating call re-entered while another is in progress
	ErrReentrantCall ErrorCode = 100003

	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100101
	// ErrInvalidDuration invalid loan duration
	ErrInvalidDuration ErrorCode = 100102
	// ErrInvalidParams invalid risk or rate parameters
	ErrInvalidParams ErrorCode = 100103
	// ErrLoanNotFound no loan
	ErrLoanNotFound ErrorCode = 100104
	// ErrInvalidLoanStatus loan status does not allow the operation
	ErrInvalidLoanStatus ErrorCode = 100105

	// ErrInsufficientCollateral insufficient collateral balance
	ErrInsufficientCollateral ErrorCode = 100201
	// ErrInsufficientLiquidity insufficient pool liquidity
	ErrInsufficientLiquidity ErrorCode = 100202
	// ErrInsufficientShares share balance below requested amount
	ErrInsufficientShares ErrorCode = 100203
	// ErrInsufficientFunds insufficient balance or allowance
	ErrInsufficientFunds ErrorCode = 100204
	// ErrInsufficientAllowance share allowance below requested amount
	ErrInsufficientAllowance ErrorCode = 100205

	// ErrInvalidPrice non-positive oracle price
	ErrInvalidPrice ErrorCode = 100301
	// ErrStalePrice oracle price older than the freshness window
	ErrStalePrice ErrorCode = 100302
	// ErrStaleRound oracle round answered in an earlier round
	ErrStaleRound ErrorCode = 100303

	// ErrNoLiquidationCriteria no liquidation criteria met
	ErrNoLiquidationCriteria ErrorCode = 100401
	// ErrLiquidationSlippage recovered amount below the slippage floor
	ErrLiquidationSlippage ErrorCode = 100402
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}
