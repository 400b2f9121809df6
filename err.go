package mbaas

import (
	"errors"

	"github.com/mbaas/mbaas.go/pkg/connection"
	"github.com/mbaas/mbaas.go/pkg/constants"
)

var (
	ErrNoObjectID  = constants.ErrNoObjectID
	ErrNoTransport = constants.ErrNoTransport
)

// Service error codes.
const (
	CodeNotFound       = "E404001"
	CodeAuthentication = "E401002"
	CodeDuplicated     = "E409001"
)

// IsNotFound reports whether err is the service saying the object does not exist.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsDuplicated reports a value that collides with a unique field, such as a
// taken userName.
func IsDuplicated(err error) bool {
	return hasCode(err, CodeDuplicated)
}

// IsAuthenticationFailed reports a rejected user name or password.
func IsAuthenticationFailed(err error) bool {
	return hasCode(err, CodeAuthentication)
}

func hasCode(err error, code string) bool {
	var se *connection.ServiceError
	return errors.As(err, &se) && se.Code == code
}
