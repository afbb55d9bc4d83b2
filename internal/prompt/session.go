package prompt

import "slices"

type sessionState int

const (
	noPrompt sessionState = iota
	awaitingInput
)

// keyHandler consumes one keypress and reports whether the prompt is done.
type keyHandler func(Keypress) bool

// session is the mutable state of the prompt currently on screen.
type session struct {
	state sessionState
	kind  Kind

	// text prompts
	line    string // rendered prompt text, hint included
	buffer  []rune
	recall  int // index into history while browsing with up/down
	pending string

	// select prompts
	options   []string
	highlight int
	ticked    []int

	// suppressEcho drops echoWrite output. Only text prompts echo, so for a
	// select session it guards the option block against a stray line echo.
	suppressEcho bool

	listener keyHandler
}

// move shifts the highlighted index by delta, wrapping at both ends.
func move(index, delta, count int) int {
	if count <= 0 {
		return 0
	}
	index = (index + delta) % count
	if index < 0 {
		index += count
	}
	return index
}

func isTicked(ticked []int, index int) bool {
	return slices.Contains(ticked, index)
}

// toggle adds index to ticked, or removes it when already present.
func toggle(ticked []int, index int) []int {
	if i := slices.Index(ticked, index); i >= 0 {
		return slices.Delete(ticked, i, i+1)
	}
	return append(ticked, index)
}

// prefillTicks maps prefill labels to option indices. Unknown labels are
// ignored; single-select keeps only the first match.
func prefillTicks(kind Kind, options, labels []string) []int {
	var ticked []int
	for _, label := range labels {
		i := slices.Index(options, label)
		if i < 0 || isTicked(ticked, i) {
			continue
		}
		ticked = append(ticked, i)
		if kind == SingleSelect {
			break
		}
	}
	return ticked
}

// selection maps ticked indices to labels in option order.
func selection(kind Kind, options []string, ticked []int) Answer {
	sorted := slices.Clone(ticked)
	slices.Sort(sorted)

	labels := make([]string, 0, len(sorted))
	for _, i := range sorted {
		labels = append(labels, options[i])
	}

	if kind == SingleSelect {
		if len(labels) == 0 {
			return Answer{}
		}
		return Answer{Value: labels[0]}
	}
	return Answer{Values: labels}
}
