package domain

import "errors"

var (
	// ErrInsufficientEscrow is returned when withdrawing from an order more
	// than its escrowed balance.
	ErrInsufficientEscrow = errors.New("insufficient escrow balance for order")
	// ErrLengthMismatch is returned when the parallel sequences of a batch
	// have different lengths.
	ErrLengthMismatch = errors.New("order ids and amounts must have the same length")
	// ErrTransferFailed is returned when the treasury could not move tokens.
	ErrTransferFailed = errors.New("token transfer failed")
	// ErrInvalidAsset is returned when the asset registry has no royalty info
	// for an asset.
	ErrInvalidAsset = errors.New("asset has no royalty info")
	// ErrInvalidRate is returned for rates out of range [0, 10000] basis points.
	ErrInvalidRate = errors.New("rate must be in range [0, 10000] basis points")
	// ErrUnauthorized is returned when the caller lacks the permission for an
	// operation.
	ErrUnauthorized = errors.New("caller is not authorized for this operation")
	// ErrArithmeticOverflow is returned when an amount does not fit 256 bits.
	ErrArithmeticOverflow = errors.New("amount exceeds the representable range")
	// ErrUnsupportedToken is returned when escrowing a token that was not
	// added to the supported ones.
	ErrUnsupportedToken = errors.New("token is not supported by the escrow")
	// ErrAmbiguousOrderToken is returned when the token of an order can't be
	// resolved because it escrows more than one.
	ErrAmbiguousOrderToken = errors.New("order escrows more than one token")
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("invalid amount")
)
