package members

import "errors"

var (
	ErrUnauthorized         = errors.New("operation requires admin role")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrMemberNotFound       = errors.New("member not found")
)
