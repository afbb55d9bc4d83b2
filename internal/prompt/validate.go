package prompt

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/elliotbe/gitinit/internal/errors"
	"github.com/elliotbe/gitinit/internal/util"
)

// Built-in rule names.
const (
	RuleNotEmpty = "notEmpty"
	RuleEmail    = "email"
)

// ValidateFunc accepts an answer by returning nil. The error text is shown
// to the user in place of the question.
type ValidateFunc func(answer string) error

// ValidationError is returned by the built-in rules.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// Matches name@host.tld where the TLD has 2 or 3 characters.
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S{2,3}$`)

type rule struct {
	accept  func(string) bool
	message string
}

var rules = map[string]rule{
	RuleNotEmpty: {
		accept:  func(s string) bool { return len(s) > 0 },
		message: "You need to enter something:",
	},
	RuleEmail: {
		accept:  emailPattern.MatchString,
		message: "Not a valid email, try again:",
	},
}

// Validator describes how an answer is checked. The zero value accepts
// everything.
type Validator struct {
	rule     string
	message  string
	override bool
	check    ValidateFunc
}

// Rule uses the named built-in rule with its default message.
func Rule(name string) Validator {
	return Validator{rule: name}
}

// RuleWithMessage uses the named built-in rule but reports message on failure.
func RuleWithMessage(name, message string) Validator {
	return Validator{rule: name, message: message, override: true}
}

// Check uses fn verbatim.
func Check(fn ValidateFunc) Validator {
	return Validator{check: fn}
}

// IsZero reports whether no validation was requested.
func (v Validator) IsZero() bool {
	return v.check == nil && v.rule == "" && !v.override
}

// Resolve turns the validator into a single function. Naming a rule that
// does not exist is a configuration error.
func (v Validator) Resolve() (ValidateFunc, error) {
	if v.check != nil {
		return v.check, nil
	}
	if v.IsZero() {
		return acceptAll, nil
	}

	r, ok := rules[v.rule]
	if !ok {
		suggestion := "Use one of: " + strings.Join(RuleNames(), ", ")
		if similar := util.SuggestSimilar(v.rule, RuleNames(), 3); len(similar) > 0 {
			suggestion = fmt.Sprintf("Did you mean %q? %s", similar[0], suggestion)
		}
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("No validator of type %q", v.rule), suggestion)
	}

	message := r.message
	if v.override && v.message != "" {
		message = v.message
	}
	return func(answer string) error {
		if r.accept(answer) {
			return nil
		}
		return ValidationError(message)
	}, nil
}

// RuleNames lists the built-in rules, sorted.
func RuleNames() []string {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func acceptAll(string) error { return nil }
