package gmm

import "errors"

var (
	ErrEmptySet                 = errors.New("empty observation set")
	ErrDimensionMismatch        = errors.New("dimension mismatch")
	ErrInvalidLabel             = errors.New("label out of range")
	ErrInvalidConfig            = errors.New("invalid config")
	ErrInvalidModel             = errors.New("invalid model")
	ErrSingularCovariance       = errors.New("singular covariance")
	ErrEmptyComponent           = errors.New("empty component")
	ErrDegenerateResponsibility = errors.New("zero density mass for observation")
)
