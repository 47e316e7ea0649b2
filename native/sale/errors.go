package sale

import "errors"

var (
	// ErrIncorrectPrice indicates the attached payment does not exactly equal
	// price * amount. Overpayment is rejected the same as underpayment; there
	// is no refund path.
	ErrIncorrectPrice = errors.New("sale: incorrect price")
	// ErrMintLimitExceeded indicates the requested amount exceeds the
	// per-transaction mint limit.
	ErrMintLimitExceeded = errors.New("sale: mint limit exceeded")
	// ErrAmountExceedsReserve indicates a reserve mint larger than the
	// remaining reserve pool.
	ErrAmountExceedsReserve = errors.New("sale: amount exceeds reserve")
	// ErrFundTransferFailed indicates the external value transfer during
	// CollectFunds did not complete.
	ErrFundTransferFailed = errors.New("sale: fund transfer failed")
)
