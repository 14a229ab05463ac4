package roadnet

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidIdentification is returned when a road identification does not match the format rules of its network.
	ErrInvalidIdentification = errors.New("invalid identification")
	// ErrDuplicateIdentification is returned when an identification is already registered for an active road.
	ErrDuplicateIdentification = errors.New("identification already in use")
	// ErrInvalidSpeedLimit is returned when a speed limit is non-positive or faster than light.
	ErrInvalidSpeedLimit = errors.New("invalid speed limit")
	// ErrInvalidAverageSpeed is returned when an average speed is negative or exceeds the speed limit.
	ErrInvalidAverageSpeed = errors.New("invalid average speed")
	// ErrInvalidLength is returned when a custom identification length is non-positive or too large.
	ErrInvalidLength = errors.New("invalid length")
	// ErrInvalidEndpoint is returned when a coordinate pair is outside the supported degree range.
	ErrInvalidEndpoint = errors.New("endpoint out of bounds")
	// ErrInvalidState is returned when an operation is invoked in a state that does not allow it:
	// derived route queries while the chaining invariant does not hold, mutations that would break
	// it, or renaming a terminated road.
	ErrInvalidState = errors.New("state does not allow the operation")
	// ErrSegmentMismatch is returned when a segment cannot be chained onto a route.
	ErrSegmentMismatch = errors.New("segment does not fit the route")
	// ErrOperation is the uniform error signal of the facade layer.
	ErrOperation = errors.New("operation failed")
)
