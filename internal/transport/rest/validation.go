package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"ar-dashboard/internal/domain"
	"ar-dashboard/internal/service"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "uuid":
		return "must be a UUID"
	case "oneof":
		return "must be one of: " + e.Param()
	case "max":
		return "must be at most " + e.Param() + " characters"
	default:
		return "is invalid"
	}
}

// decodeJSON reads a single JSON object into dst. Decoding problems come back
// as *ValidationError so handlers answer them with 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &ValidationError{Message: "request body is required"}
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &ValidationError{Field: typeErr.Field, Message: "has the wrong type"}
		}
		return &ValidationError{Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Field: verrs[0].Field(), Message: validationMessage(verrs[0])}
	}
	return err
}

func ValidateNewCustomer(w http.ResponseWriter, r *http.Request) (*domain.NewCustomer, error) {
	var in domain.NewCustomer
	if err := decodeJSON(w, r, &in); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	return &in, nil
}

func ValidateNewReceivable(w http.ResponseWriter, r *http.Request) (*domain.NewReceivable, error) {
	var in domain.NewReceivable
	if err := decodeJSON(w, r, &in); err != nil {
		return nil, err
	}
	in.ReceiptNumber = strings.TrimSpace(in.ReceiptNumber)
	if in.Status == "" {
		in.Status = domain.StatusPending
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.OriginalAmount.IsNegative() {
		return nil, &ValidationError{Field: "original_amount", Message: "must not be negative"}
	}
	if in.BalanceDue.IsNegative() {
		return nil, &ValidationError{Field: "balance_due", Message: "must not be negative"}
	}
	return &in, nil
}

func ValidateNewFollowUp(w http.ResponseWriter, r *http.Request) (*domain.NewFollowUp, error) {
	var in domain.NewFollowUp
	if err := decodeJSON(w, r, &in); err != nil {
		return nil, err
	}
	if in.ScheduledDate.IsZero() {
		return nil, &ValidationError{Field: "scheduled_date", Message: "is required"}
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.CompletedDate != nil && !in.Completed {
		return nil, &ValidationError{Field: "completed_date", Message: "requires completed to be true"}
	}
	return &in, nil
}

func ValidateAgingExportRequest(w http.ResponseWriter, r *http.Request) (*service.AgingExportRequest, error) {
	var req service.AgingExportRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			var ve *ValidationError
			// an empty body means "defaults"
			if !(errors.As(err, &ve) && ve.Message == "request body is required") {
				return nil, err
			}
		}
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, &ValidationError{Field: "status", Message: "must be one of: pending overdue paid"}
	}
	return &req, nil
}

// parseStatus reads the optional ?status= filter.
func parseStatus(r *http.Request) (*domain.ReceivableStatus, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("status"))
	if raw == "" {
		return nil, nil
	}
	status := domain.ReceivableStatus(strings.ToLower(raw))
	if !status.Valid() {
		return nil, &ValidationError{Field: "status", Message: "must be one of: pending overdue paid"}
	}
	return &status, nil
}
