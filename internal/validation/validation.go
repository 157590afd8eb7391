// Package validation checks request input before it reaches the services.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ndewijer/wealth-manager-backend/internal/model"
)

// Common validation errors
var (
	ErrInvalidUUID = fmt.Errorf("invalid UUID format")
	ErrEmptySlice  = fmt.Errorf("slice cannot be empty")
)

// Error carries one message per invalid field.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, field := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return strings.Join(msgs, "; ")
}

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}

// ValidateUUIDs validates a slice of UUIDs
func ValidateUUIDs(ids []string) error {
	if len(ids) == 0 {
		return ErrEmptySlice
	}
	for _, id := range ids {
		if err := ValidateUUID(id); err != nil {
			return err
		}
	}
	return nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("asset_group", validateAssetGroup)
		_ = v.RegisterValidation("ownership_mode", validateOwnershipMode)
		_ = v.RegisterValidation("lcb_key", validateLCBKey)
		_ = v.RegisterValidation("sort_key", validateSortKey)
		_ = v.RegisterValidation("sort_dir", validateSortDir)
		validate = v
	})
	return validate
}

// fieldName reports a field by its json name, else its query name.
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "query"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

// Struct validates s against its `validate` tags and converts failures into
// an *Error keyed by the json (or query) field name.
func Struct(s any) error {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = message(fe)
	}
	return &Error{Fields: fields}
}

// fieldPath drops the struct name from the namespace: "rows[1].ownership".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "asset_group":
		return fmt.Sprintf("unknown asset group %q", fe.Value())
	case "ownership_mode":
		return fmt.Sprintf("unknown ownership mode %q", fe.Value())
	case "lcb_key":
		return fmt.Sprintf("unknown questionnaire key %q", fe.Value())
	case "sort_key":
		return fmt.Sprintf("unknown sort key %q", fe.Value())
	case "sort_dir":
		return "must be asc or desc"
	case "unique":
		return "must not contain duplicates"
	}
	return "is invalid (" + fe.Tag() + ")"
}

func validateAssetGroup(fl validator.FieldLevel) bool {
	return model.AssetGroup(fl.Field().String()).Valid()
}

func validateOwnershipMode(fl validator.FieldLevel) bool {
	return model.OwnershipMode(fl.Field().String()).Valid()
}

func validateLCBKey(fl validator.FieldLevel) bool {
	key := fl.Field().String()
	for _, q := range model.LCBQuestions {
		if q == key {
			return true
		}
	}
	return false
}

func validateSortKey(fl validator.FieldLevel) bool {
	return model.ValidSortKeys[model.SortKey(fl.Field().String())]
}

func validateSortDir(fl validator.FieldLevel) bool {
	switch model.SortDirection(fl.Field().String()) {
	case model.SortAsc, model.SortDesc:
		return true
	}
	return false
}
