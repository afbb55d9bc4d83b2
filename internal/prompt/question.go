package prompt

import (
	"fmt"
	"slices"
)

// Kind selects how a question is rendered and answered.
type Kind int

const (
	Text Kind = iota
	Masked
	SingleSelect
	MultiSelect
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Masked:
		return "masked"
	case SingleSelect:
		return "single-select"
	case MultiSelect:
		return "multi-select"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) isSelect() bool {
	return k == SingleSelect || k == MultiSelect
}

// Question is one prompt. It is read-only once handed to Ask.
type Question struct {
	ID      string
	Message string
	Kind    Kind

	// Options lists the choices of a select question, in display order.
	Options []string

	// Default is the prefill. Text questions use the first entry; select
	// questions pre-tick every entry that exactly matches an option.
	Default []string

	Validate Validator
}

func (q Question) prefill() string {
	if len(q.Default) == 0 {
		return ""
	}
	return q.Default[0]
}

// Answer holds the result of one question. Value is set for text, masked
// and single-select questions; Values for multi-select ones.
type Answer struct {
	Value  string
	Values []string
}

// Answers maps question IDs to answers in the order the questions were asked.
type Answers struct {
	ids    []string
	values map[string]Answer
}

func newAnswers(capacity int) *Answers {
	return &Answers{
		ids:    make([]string, 0, capacity),
		values: make(map[string]Answer, capacity),
	}
}

func (a *Answers) set(id string, answer Answer) {
	if _, ok := a.values[id]; !ok {
		a.ids = append(a.ids, id)
	}
	a.values[id] = answer
}

// Keys returns question IDs in question order.
func (a *Answers) Keys() []string {
	return slices.Clone(a.ids)
}

// Len returns the number of answers.
func (a *Answers) Len() int {
	return len(a.ids)
}

// Get returns the answer for id.
func (a *Answers) Get(id string) (Answer, bool) {
	v, ok := a.values[id]
	return v, ok
}

// String returns the scalar answer for id, or "" if there is none.
func (a *Answers) String(id string) string {
	return a.values[id].Value
}

// Strings returns the multi-select answer for id.
func (a *Answers) Strings(id string) []string {
	return a.values[id].Values
}
