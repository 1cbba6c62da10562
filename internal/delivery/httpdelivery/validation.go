package httpdelivery

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/bmuptt/be-app-management/pkg/response"
	"github.com/bmuptt/be-app-management/pkg/safeconv"
)

const maxBodyBytes = 1 << 20

// Validator decodes and validates request bodies.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator reporting fields by their JSON names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Decode reads the JSON body into dst and validates it. On failure it writes
// the 400 response itself and returns false.
func (v *Validator) Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, http.StatusBadRequest, "Invalid request body", response.FieldError{Field: "body", Message: err.Error()})
		return false
	}
	if errs := v.Struct(dst); len(errs) > 0 {
		response.Error(w, http.StatusBadRequest, "Validation failed", errs...)
		return false
	}
	return true
}

// Struct validates s and converts failures into field errors.
func (v *Validator) Struct(s any) []response.FieldError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return []response.FieldError{{Field: "unknown", Message: err.Error()}}
	}

	out := make([]response.FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		out = append(out, response.FieldError{Field: fieldPath(fe), Message: fieldMessage(fe)})
	}
	return out
}

// fieldPath drops the top-level struct name: "CreateMenuRequest.key_menu" becomes "key_menu".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// pathID parses a positive integer path variable. It writes a 400 and
// returns false when the value is not one.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, ok := safeconv.ParseID(mux.Vars(r)[name])
	if !ok {
		response.Error(w, http.StatusBadRequest, "Validation failed",
			response.FieldError{Field: name, Message: name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}

// parentVar reads a parent path variable where "0" or any non-numeric value
// means the root level.
func parentVar(r *http.Request, name string) *int64 {
	id, ok := safeconv.ParseID(mux.Vars(r)[name])
	if !ok {
		return nil
	}
	return &id
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string) int {
	return safeconv.ParseIntDefault(r.URL.Query().Get(name), 0)
}
