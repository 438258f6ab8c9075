package middleware

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/go-tasks/utils"
)

// Location is where a validated field is read from.
type Location string

const (
	LocationParams Location = "params"
	LocationQuery  Location = "query"
	LocationBody   Location = "body"
)

const bodyLocalsKey = "validated_body"

// FieldError is one failed check, in the shape clients already parse.
type FieldError struct {
	Type     string   `json:"type"`
	Value    any      `json:"value,omitempty"`
	Msg      string   `json:"msg"`
	Path     string   `json:"path"`
	Location Location `json:"location"`
}

// Check is a single predicate with the message reported when it fails.
type Check struct {
	Message string
	Test    func(value any) bool
}

// Rule validates one field. An optional rule is skipped when the field is absent.
type Rule struct {
	Field    string
	Location Location
	Optional bool
	Checks   []Check
}

// Chain is an ordered set of rules. All checks run; failures accumulate in order.
type Chain []Rule

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return utils.IsValidID(fl.Field().String())
	})
	return v
}

// Tag builds a check from a validator tag applied to the value's string form.
func Tag(tag, message string) Check {
	return Check{Message: message, Test: func(value any) bool {
		return validate.Var(Stringify(value), tag) == nil
	}}
}

// IsString fails unless the raw value is a JSON string (query and path values always are).
func IsString(message string) Check {
	return Check{Message: message, Test: func(value any) bool {
		_, ok := value.(string)
		return ok
	}}
}

// MaxBytes fails when the value's string form is longer than n bytes.
func MaxBytes(n int, message string) Check {
	return Check{Message: message, Test: func(value any) bool {
		return len(Stringify(value)) <= n
	}}
}

// IsBoolLike accepts a JSON boolean or the strings "true" and "false".
func IsBoolLike(message string) Check {
	return Check{Message: message, Test: func(value any) bool {
		_, ok := ToBool(value)
		return ok
	}}
}

// Validate runs the chains in order and answers 400 with every failure;
// the next handler only runs when nothing failed.
func Validate(chains ...Chain) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := parseBody(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON body"})
		}

		var errs []FieldError
		for _, chain := range chains {
			errs = append(errs, chain.run(c, body)...)
		}
		if len(errs) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
		}
		return c.Next()
	}
}

func (ch Chain) run(c *fiber.Ctx, body map[string]any) []FieldError {
	var errs []FieldError
	for _, rule := range ch {
		value, present := lookup(c, body, rule.Location, rule.Field)
		if !present && rule.Optional {
			continue
		}
		for _, check := range rule.Checks {
			if check.Test(value) {
				continue
			}
			errs = append(errs, FieldError{
				Type:     "field",
				Value:    value,
				Msg:      check.Message,
				Path:     rule.Field,
				Location: rule.Location,
			})
		}
	}
	return errs
}

func lookup(c *fiber.Ctx, body map[string]any, loc Location, field string) (any, bool) {
	switch loc {
	case LocationParams:
		v := c.Params(field)
		if v == "" {
			return nil, false
		}
		return v, true
	case LocationQuery:
		if !c.Context().QueryArgs().Has(field) {
			return nil, false
		}
		return c.Query(field), true
	case LocationBody:
		v, ok := body[field]
		return v, ok
	}
	return nil, false
}

// parseBody decodes a JSON object body once and caches it for the handlers.
// Requests without a JSON content type are treated as an empty body.
func parseBody(c *fiber.Ctx) (map[string]any, error) {
	if cached, ok := c.Locals(bodyLocalsKey).(map[string]any); ok {
		return cached, nil
	}

	body := map[string]any{}
	raw := c.Body()
	if len(raw) > 0 && c.Is("json") {
		if err := c.App().Config().JSONDecoder(raw, &body); err != nil {
			return nil, err
		}
		if body == nil {
			body = map[string]any{}
		}
	}
	c.Locals(bodyLocalsKey, body)
	return body, nil
}

// Body returns the decoded request body, decoding it if Validate has not run.
func Body(c *fiber.Ctx) (map[string]any, error) {
	return parseBody(c)
}

// BodyString returns the body field in string form and whether it was sent.
func BodyString(body map[string]any, field string) (*string, bool) {
	v, ok := body[field]
	if !ok {
		return nil, false
	}
	s := Stringify(v)
	return &s, true
}

// BodyBool returns the body field as a boolean and whether it was sent.
func BodyBool(body map[string]any, field string) (*bool, bool) {
	v, ok := body[field]
	if !ok {
		return nil, false
	}
	b, valid := ToBool(v)
	if !valid {
		return nil, false
	}
	return &b, true
}

// Stringify converts a decoded JSON value to the string a client most likely meant.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(raw)
	}
}

// ToBool accepts a boolean or the exact strings "true" and "false".
func ToBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		switch v {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}
