package req

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xy-planning-network/relay"
)

// ruleMessages explain the rules relay's requests commonly fail.
var ruleMessages = map[string]string{
	"relpath":  "not a path on this origin",
	"required": "missing",
}

// A ValidationError is an issue with a concrete value not matching the rule set on its field.
type ValidationError struct {
	Field string `json:"field"`
	Got   any    `json:"got"`
	Rule  string `json:"rule,omitempty"`
}

// RuleName is the validate tag that failed, e.g., "relpath" for a Rule of "relpath; string".
func (e ValidationError) RuleName() string {
	name, _, _ := strings.Cut(e.Rule, ";")
	name, _, _ = strings.Cut(name, "=")
	return strings.TrimSpace(name)
}

func (e ValidationError) Error() string {
	if msg, ok := ruleMessages[e.RuleName()]; ok {
		return fmt.Sprintf("field=%q %s got=%q", e.Field, msg, fmt.Sprint(e.Got))
	}

	return fmt.Sprintf("field=%q rule=%q got=%q", e.Field, e.Rule, fmt.Sprint(e.Got))
}

// ValidationErrors is a set of ValidationError.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, err := range v {
		msgs = append(msgs, err.Error())
	}

	return strings.Join(msgs, "\n")
}

// Only reports whether every ValidationError concerns field.
func (v ValidationErrors) Only(field string) bool {
	for _, err := range v {
		if err.Field != field {
			return false
		}
	}

	return len(v) > 0
}

func (v ValidationErrors) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		E []ValidationError `json:"validationErrors,omitempty"`
	}{v})
}

func (ValidationErrors) Unwrap() error { return relay.ErrNotValid }
