package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// IValidator owns the per-key format and type rules applied before any
// setting write. Batch validation is all-or-nothing at the caller.
type IValidator interface {
	// Validate returns the rule violations for one key/value pair, empty
	// when the value is acceptable.
	Validate(key, value string) []string
}

// KeyError pairs a key with its violations, for batch error reporting.
type KeyError struct {
	Key    string   `json:"key"`
	Errors []string `json:"errors"`
}

// Rule checks a value and returns violations.
type Rule func(value string) []string

// Validator applies exact-key rules first, then prefix rules. Keys without
// any rule are accepted as free-form text.
type Validator struct {
	exact  map[string]Rule
	prefix map[string]Rule
}

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// NewValidator builds the default rule set.
func NewValidator() *Validator {
	v := &Validator{
		exact:  make(map[string]Rule),
		prefix: make(map[string]Rule),
	}

	v.exact["theme_mode"] = Enum("light", "dark", "system")
	v.exact["primary_color"] = HexColor()
	v.exact["secondary_color"] = HexColor()
	v.exact["email_driver"] = Enum("smtp", "sendmail", "mail", "log")
	v.exact["smtp_port"] = IntRange(1, 65535)
	v.exact["smtp_encryption"] = Enum("none", "ssl", "tls")
	v.exact["date_format"] = Enum("Y-m-d", "d-m-Y", "m/d/Y", "d.m.Y")
	v.exact["time_format"] = Enum("H:i", "h:i A")
	v.exact["rows_per_page"] = IntRange(5, 200)
	v.exact["session_timeout_minutes"] = IntRange(5, 1440)
	v.exact["currency_decimals"] = IntRange(0, 6)

	v.prefix["module_"] = Boolean()
	v.prefix["notify_"] = Boolean()
	v.exact["cron_job_enabled"] = Boolean()
	v.exact["google_calendar_enabled"] = Boolean()
	v.exact["slack_enabled"] = Boolean()
	v.exact["zapier_enabled"] = Boolean()
	v.exact["pwa_enabled"] = Boolean()
	v.exact["client_portal_enabled"] = Boolean()

	return v
}

func (v *Validator) Validate(key, value string) []string {
	if rule, ok := v.exact[key]; ok {
		return rule(value)
	}
	for prefix, rule := range v.prefix {
		if strings.HasPrefix(key, prefix) {
			return rule(value)
		}
	}
	return nil
}

// Enum accepts only the listed values.
func Enum(allowed ...string) Rule {
	return func(value string) []string {
		for _, a := range allowed {
			if value == a {
				return nil
			}
		}
		return []string{fmt.Sprintf("value %q is not one of [%s]", value, strings.Join(allowed, ", "))}
	}
}

// IntRange accepts integers within [min, max].
func IntRange(min, max int) Rule {
	return func(value string) []string {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return []string{fmt.Sprintf("value %q is not an integer", value)}
		}
		if n < min || n > max {
			return []string{fmt.Sprintf("value %d is outside [%d, %d]", n, min, max)}
		}
		return nil
	}
}

// HexColor accepts #rgb and #rrggbb.
func HexColor() Rule {
	return func(value string) []string {
		if !hexColorRe.MatchString(value) {
			return []string{fmt.Sprintf("value %q is not a hex color", value)}
		}
		return nil
	}
}

// Boolean accepts the truthy/falsy spellings used by module flags.
func Boolean() Rule {
	return func(value string) []string {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "false", "1", "0":
			return nil
		}
		return []string{fmt.Sprintf("value %q is not a boolean", value)}
	}
}
