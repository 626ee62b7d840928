package server

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	auditdomain "github.com/smallbiznis/agencydesk/internal/audit/domain"
	authdomain "github.com/smallbiznis/agencydesk/internal/auth/domain"
	"github.com/smallbiznis/agencydesk/internal/authorization"
	clientdomain "github.com/smallbiznis/agencydesk/internal/client/domain"
	invoicedomain "github.com/smallbiznis/agencydesk/internal/invoice/domain"
	mandatedomain "github.com/smallbiznis/agencydesk/internal/mandate/domain"
	obsmetrics "github.com/smallbiznis/agencydesk/internal/observability/metrics"
	provisioningdomain "github.com/smallbiznis/agencydesk/internal/provisioning/domain"
	servicepackagedomain "github.com/smallbiznis/agencydesk/internal/servicepackage/domain"
	"github.com/smallbiznis/agencydesk/pkg/db"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

// ErrorHandlingMiddleware renders the last handler error. Gate failures keep
// their own body so clients see the diagnostics they carry.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		if failure, ok := authdomain.AsFailure(lastErr.Err); ok {
			c.AbortWithStatusJSON(failure.Status, failure.Body())
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

// newValidator reports fields by their json name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fromValidator converts struct tag failures into field errors keyed by the
// json name.
func fromValidator(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return invalidRequestError()
	}
	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Field()
		out = append(out, ValidationError{
			Field:   field,
			Code:    "invalid_" + field,
			Message: field + " failed " + fe.Tag(),
		})
	}
	return &ValidationErrors{Errors: out}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrUnauthenticated),
		errors.Is(err, authorization.ErrInvalidActor):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, authdomain.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, invoicedomain.ErrInvalidTransition),
		db.IsDuplicateKeyErr(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, provisioningdomain.ErrInvalidRequest),
		errors.Is(err, provisioningdomain.ErrInvalidBillingFrequency),
		errors.Is(err, servicepackagedomain.ErrInvalidID),
		errors.Is(err, clientdomain.ErrInvalidID),
		errors.Is(err, mandatedomain.ErrInvalidID),
		errors.Is(err, invoicedomain.ErrInvalidStatus),
		errors.Is(err, invoicedomain.ErrInvalidPageToken),
		errors.Is(err, auditdomain.ErrInvalidPageToken):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, authdomain.ErrNotFound),
		errors.Is(err, servicepackagedomain.ErrNotFound),
		errors.Is(err, clientdomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, mandatedomain.ErrNotFound),
		errors.Is(err, provisioningdomain.ErrPackageNotFound),
		errors.Is(err, provisioningdomain.ErrClientNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, provisioningdomain.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, provisioningdomain.ErrInvalidBillingFrequency):
		return "invalid_billing_frequency"
	case errors.Is(err, servicepackagedomain.ErrInvalidID),
		errors.Is(err, clientdomain.ErrInvalidID),
		errors.Is(err, mandatedomain.ErrInvalidID):
		return "invalid_id"
	case errors.Is(err, invoicedomain.ErrInvalidStatus):
		return "invalid_status"
	default:
		return "invalid_page_token"
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	return strings.TrimPrefix(code, "invalid_")
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog labels request logs without leaking error text.
func classifyErrorForLog(err error) (string, string) {
	if failure, ok := authdomain.AsFailure(err); ok {
		return "auth", failure.Reason()
	}
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		return payload.Type, obsmetrics.ClassifyStorageReason(err)
	}
	return payload.Type, validationCodeOrType(payload)
}

func validationCodeOrType(payload errorPayload) string {
	if len(payload.Errors) > 0 {
		return payload.Errors[0].Code
	}
	return payload.Type
}
