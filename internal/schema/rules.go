package schema

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/GregMSThompson/dashboard-builder/internal/errs"
	"github.com/GregMSThompson/dashboard-builder/internal/models"
)

const (
	dateLayout          = "2006-01-02"
	datetimeLocalLayout = "2006-01-02T15:04"

	msgCannotRemove = "existing fields cannot be removed because data exists"
	msgCannotChange = "existing fields cannot be changed because data exists"
)

// ValidateFields checks that every field has a name, a known type, and that
// names are unique within the schema.
func ValidateFields(fields []models.FieldDescriptor) error {
	seen := mapset.NewThreadUnsafeSet[string]()
	for i, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return errs.NewValidationError(fmt.Sprintf("field %d: name is required", i))
		}
		if !f.Type.Valid() {
			return errs.NewValidationError(fmt.Sprintf("field %q: unknown type %q", f.Name, f.Type))
		}
		if !seen.Add(name) {
			return errs.NewValidationError(fmt.Sprintf("field %q: duplicate name", f.Name))
		}
	}
	return nil
}

// LockCountFor returns the lock count after a record holding data is written:
// at least one past the last field the record gives a value. Fields appended
// after the first record stay editable until some record uses them.
func LockCountFor(fields []models.FieldDescriptor, lockCount int, data map[string]any) int {
	for i := len(fields) - 1; i >= lockCount; i-- {
		if v, ok := data[fields[i].Name]; ok && v != nil {
			return i + 1
		}
	}
	return lockCount
}

// CheckLockedPrefix rejects a schema update that drops or alters any of the
// first lockCount fields of the current schema.
func CheckLockedPrefix(current, next []models.FieldDescriptor, lockCount int) error {
	if lockCount > len(current) {
		lockCount = len(current)
	}
	if len(next) < lockCount {
		return errs.NewSchemaLockedError(len(next), msgCannotRemove)
	}
	for i := 0; i < lockCount; i++ {
		if current[i] != next[i] {
			return errs.NewSchemaLockedError(i, msgCannotChange)
		}
	}
	return nil
}

// ValidateValues checks a record payload against the schema: required fields
// must be present and every value must match its field's declared type.
func ValidateValues(fields []models.FieldDescriptor, values map[string]any) error {
	known := mapset.NewThreadUnsafeSet[string]()
	for _, f := range fields {
		known.Add(f.Name)
		v, ok := values[f.Name]
		if !ok || isBlank(v) {
			if f.Required {
				return errs.NewValidationError(fmt.Sprintf("%s is required", f.Name))
			}
			continue
		}
		if err := checkType(f, v); err != nil {
			return err
		}
	}
	for k := range values {
		if !known.Contains(k) {
			return errs.NewValidationError(fmt.Sprintf("unknown field %q", k))
		}
	}
	return nil
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func checkType(f models.FieldDescriptor, v any) error {
	invalid := func() error {
		return errs.NewValidationError(fmt.Sprintf("%s must be a valid %s", f.Name, f.Type))
	}
	switch f.Type {
	case models.FieldNumber:
		switch n := v.(type) {
		case float64, float32, int, int32, int64:
		case json.Number:
			if _, err := n.Float64(); err != nil {
				return invalid()
			}
		default:
			return invalid()
		}
	case models.FieldBoolean:
		if _, ok := v.(bool); !ok {
			return invalid()
		}
	case models.FieldString:
		if _, ok := v.(string); !ok {
			return invalid()
		}
	case models.FieldDate:
		s, ok := v.(string)
		if !ok {
			return invalid()
		}
		if _, err := time.Parse(dateLayout, s); err != nil {
			return invalid()
		}
	case models.FieldDateTime:
		s, ok := v.(string)
		if !ok {
			return invalid()
		}
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			if _, err := time.Parse(datetimeLocalLayout, s); err != nil {
				return invalid()
			}
		}
	case models.FieldEmail:
		s, ok := v.(string)
		if !ok {
			return invalid()
		}
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s {
			return invalid()
		}
	case models.FieldURL:
		s, ok := v.(string)
		if !ok {
			return invalid()
		}
		u, err := url.ParseRequestURI(s)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return invalid()
		}
	default:
		return errs.NewValidationError(fmt.Sprintf("field %q: unknown type %q", f.Name, f.Type))
	}
	return nil
}
