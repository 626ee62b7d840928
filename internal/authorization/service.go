package authorization

import (
	"context"
	"errors"

	authdomain "github.com/smallbiznis/agencydesk/internal/auth/domain"
)

type Service interface {
	// Authorize checks a capability for the session's role. Denials are
	// returned as *authdomain.Failure carrying the roles that would pass.
	Authorize(ctx context.Context, session authdomain.Session, object string, action string) error
	AllowedRoles(object string, action string) []authdomain.RoleID
}

var (
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
)
