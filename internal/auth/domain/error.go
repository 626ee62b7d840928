package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrIdentityNotFound = errors.New("identity_not_found")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not_found")
	ErrInternal         = errors.New("internal_error")
	ErrInvalidToken     = errors.New("invalid_token")
)

// Failure is a gate rejection that already knows its HTTP shape.
type Failure struct {
	Status  int
	Message string
	Details map[string]any

	kind  error
	cause error
}

func (f *Failure) Error() string {
	if f.cause != nil {
		return fmt.Sprintf("%s: %v", f.Message, f.cause)
	}
	return f.Message
}

func (f *Failure) Unwrap() []error {
	if f.cause != nil {
		return []error{f.kind, f.cause}
	}
	return []error{f.kind}
}

// Body renders {"error": message, ...details}.
func (f *Failure) Body() map[string]any {
	body := make(map[string]any, len(f.Details)+1)
	for key, value := range f.Details {
		body[key] = value
	}
	body["error"] = f.Message
	return body
}

// Reason is a low-cardinality label for metrics.
func (f *Failure) Reason() string {
	return f.kind.Error()
}

func Unauthenticated(cause error) *Failure {
	return &Failure{Status: http.StatusUnauthorized, Message: "Non authentifié", kind: ErrUnauthenticated, cause: cause}
}

func IdentityNotFound() *Failure {
	return &Failure{Status: http.StatusUnauthorized, Message: "Utilisateur introuvable", kind: ErrIdentityNotFound}
}

func Forbidden(allowed []RoleID, actual RoleID) *Failure {
	names := make([]string, 0, len(allowed))
	for _, role := range allowed {
		names = append(names, role.String())
	}
	return &Failure{
		Status:  http.StatusForbidden,
		Message: "Accès refusé",
		Details: map[string]any{
			"allowed_roles": names,
			"role":          actual.String(),
		},
		kind: ErrForbidden,
	}
}

func ForbiddenResource(kind ResourceKind) *Failure {
	return &Failure{
		Status:  http.StatusForbidden,
		Message: fmt.Sprintf("Accès refusé à cette ressource (%s)", kind),
		Details: map[string]any{"resource": string(kind)},
		kind:    ErrForbidden,
	}
}

func NotFound(kind ResourceKind) *Failure {
	return &Failure{
		Status:  http.StatusNotFound,
		Message: "Ressource introuvable",
		Details: map[string]any{"resource": string(kind)},
		kind:    ErrNotFound,
	}
}

func Internal(cause error) *Failure {
	return &Failure{Status: http.StatusInternalServerError, Message: "Erreur interne", kind: ErrInternal, cause: cause}
}

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure, true
	}
	return nil, false
}
