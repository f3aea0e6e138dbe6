package domain

import "errors"

// Authentication and authorization failure kinds. These form a closed set:
// every error that crosses a service boundary either matches one of these
// via errors.Is or is wrapped as ErrInternal before reaching the caller.
var (
	ErrMissingToken            = errors.New("authentication token was not provided")
	ErrInvalidToken            = errors.New("invalid token")
	ErrInvalidCredentials      = errors.New("username or password is incorrect")
	ErrAccountDisabled         = errors.New("account has been disabled")
	ErrUserNotFound            = errors.New("user does not exist or has been disabled")
	ErrInsufficientPermissions = errors.New("you do not have permission to access this resource")
	ErrRateLimited             = errors.New("too many login attempts, please try again later")
	ErrUserAlreadyExists       = errors.New("this username is already taken")
	ErrInternal                = errors.New("internal server error")
)

var knownErrors = []error{
	ErrMissingToken,
	ErrInvalidToken,
	ErrInvalidCredentials,
	ErrAccountDisabled,
	ErrUserNotFound,
	ErrInsufficientPermissions,
	ErrRateLimited,
	ErrUserAlreadyExists,
	ErrInternal,
}

// Classify passes errors that already carry a recognized kind through
// unchanged and collapses everything else into ErrInternal. It is the single
// conversion boundary applied at each public service entry point, so store
// and driver errors never leak to callers.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	return ErrInternal
}
