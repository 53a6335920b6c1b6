package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrOperationForbidden caller is not the owner nor an active position manager
	ErrOperationForbidden ErrorCode = 100001

	// ErrReserveNotFound no reserve listed for the asset
	ErrReserveNotFound ErrorCode = 100100
	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100101
	// ErrPositionNotFound no position
	ErrPositionNotFound ErrorCode = 100102
	// ErrReserveDuplicated reserve already listed for the asset
	ErrReserveDuplicated ErrorCode = 100103
	// ErrInvalidConfig collateral factor, bonus and fee do not combine into a valid config
	ErrInvalidConfig ErrorCode = 100104
	// ErrConfigNotFound no dynamic config version under the key
	ErrConfigNotFound ErrorCode = 100105
	// ErrInvalidPrice oracle price missing or not positive
	ErrInvalidPrice ErrorCode = 100106

	// ErrReservePaused reserve paused
	ErrReservePaused ErrorCode = 100200
	// ErrReserveFrozen reserve frozen
	ErrReserveFrozen ErrorCode = 100201
	// ErrBorrowNotAllowed reserve not borrowable
	ErrBorrowNotAllowed ErrorCode = 100202
	// ErrInsufficientBalance balance too low for the requested amount
	ErrInsufficientBalance ErrorCode = 100203
	// ErrHealthFactorTooLow the action would leave health factor below 1
	ErrHealthFactorTooLow ErrorCode = 100204
	// ErrHealthyPosition liquidation attempted while health factor >= 1
	ErrHealthyPosition ErrorCode = 100205
	// ErrNotCollateral reserve not flagged as the user's collateral
	ErrNotCollateral ErrorCode = 100206
	// ErrInsufficientLiquidity pool cash too low
	ErrInsufficientLiquidity ErrorCode = 100207

	// ErrRemainingDebtDust liquidation would leave a debt sliver below the floor
	ErrRemainingDebtDust ErrorCode = 100300
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}
