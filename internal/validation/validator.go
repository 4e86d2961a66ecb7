// Package validation evaluates declarative, per-operation rule sets against
// request payloads and reports failures as a per-field message map.
package validation

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nondefyde/coderealm-api/internal/apperr"
)

// Rules maps a payload field to its validator tag expression,
// e.g. {"email": "required,email", "password": "required,min=6"}.
type Rules map[string]any

// Op names a validation operation for an entity kind.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
)

// RuleSets holds the per-operation rules declared by an entity kind.
type RuleSets map[Op]Rules

var validate = validator.New()

// Validate evaluates rules against payload. It returns nil on success or an
// apperr validation error carrying both a human summary and the per-field map.
func Validate(payload map[string]any, rules Rules) error {
	if len(rules) == 0 {
		return nil
	}

	data := payload
	if data == nil {
		data = map[string]any{}
	}

	results := validate.ValidateMap(data, rules)
	if len(results) == 0 {
		return nil
	}

	fields := apperr.FieldMessages{}
	for field, res := range results {
		switch verrs := res.(type) {
		case validator.ValidationErrors:
			for _, fe := range verrs {
				fields[field] = append(fields[field], messageForTag(field, fe))
			}
		case error:
			fields[field] = append(fields[field], "is invalid")
		}
	}

	return apperr.Validation(summarize(fields), fields)
}

// Clone copies a rule map so callers can adjust requiredness per request
// without mutating the declared set.
func Clone(rules Rules) Rules {
	cp := make(Rules, len(rules))
	for k, v := range rules {
		cp[k] = v
	}
	return cp
}

// NormalizeIdentifier enforces the "at least one of email/username" contract
// on auth-identification payloads. When neither is present, email becomes
// mandatory; when only one is present, the other is set to an explicit nil so
// downstream rules evaluate deterministically. It returns the adjusted rules.
func NormalizeIdentifier(payload map[string]any, rules Rules) Rules {
	cp := Clone(rules)
	email := stringField(payload, "email")
	username := stringField(payload, "username")

	if email == "" && username == "" {
		cp["email"] = "required"
		return cp
	}
	if email == "" {
		cp["email"] = "omitempty"
		payload["email"] = nil
	}
	if username == "" {
		payload["username"] = nil
	}
	return cp
}

// NormalizeResetProof enforces the "hash XOR reset code" contract on
// password-update payloads: exactly one of {hash, password_reset_code} must be
// supplied. When neither is present, hash becomes mandatory and both are
// explicitly nulled before evaluation.
func NormalizeResetProof(payload map[string]any, rules Rules) Rules {
	cp := Clone(rules)
	hash := stringField(payload, "hash")
	code := stringField(payload, "password_reset_code")

	if hash == "" && code == "" {
		cp["hash"] = "required"
		payload["hash"] = nil
		payload["password_reset_code"] = nil
		return cp
	}
	if hash == "" {
		payload["hash"] = nil
	}
	if code == "" {
		payload["password_reset_code"] = nil
	}
	return cp
}

func stringField(payload map[string]any, key string) string {
	s, _ := payload[key].(string)
	return strings.TrimSpace(s)
}

func messageForTag(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s format is invalid.", field)
	case "url":
		return fmt.Sprintf("The %s must be a valid uri.", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s.", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s may not be greater than %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s may not be greater than %s.", field, fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}

// summarize builds the human summary: first failing field plus a count of the
// remaining errors, in a deterministic field order.
func summarize(fields apperr.FieldMessages) string {
	names := make([]string, 0, len(fields))
	total := 0
	for name, msgs := range fields {
		names = append(names, name)
		total += len(msgs)
	}
	sort.Strings(names)

	if len(names) == 0 {
		return "validation failed"
	}
	first := fields[names[0]][0]
	if others := total - 1; others > 0 {
		plural := ""
		if others > 1 {
			plural = "s"
		}
		return fmt.Sprintf("%s, and %d other error%s", strings.TrimSuffix(first, "."), others, plural)
	}
	return first
}
