package prompt

import (
	"io"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// escapeTimeout is how long a lone ESC waits for the rest of a sequence
// before it is reported as the escape key.
const escapeTimeout = 50 * time.Millisecond

// Keypress is one decoded key from a raw-mode terminal.
type Keypress struct {
	// Name is "up", "down", "left", "right", "home", "end", "delete",
	// "return" (CR), "enter" (LF), "space", "tab", "backspace", "escape",
	// or the lower-cased character for everything else.
	Name     string
	Rune     rune
	Ctrl     bool
	Meta     bool
	Sequence string
}

// Printable reports whether the key inserts its rune into a line.
func (k Keypress) Printable() bool {
	return k.Rune != 0 && !k.Ctrl && !k.Meta
}

func (k Keypress) is(name string) bool {
	return k.Name == name && !k.Ctrl && !k.Meta
}

func (k Keypress) isCtrl(letter string) bool {
	return k.Ctrl && k.Name == letter
}

// decoder turns raw input chunks into keypresses. Incomplete escape or UTF-8
// sequences at the end of a chunk are kept until the next one.
type decoder struct {
	pending []byte
}

func (d *decoder) feed(chunk []byte) []Keypress {
	data := append(d.pending, chunk...)
	d.pending = nil

	var keys []Keypress
	for i := 0; i < len(data); {
		key, n := decodeOne(data[i:])
		if n == 0 {
			d.pending = append([]byte(nil), data[i:]...)
			break
		}
		keys = append(keys, key)
		i += n
	}
	return keys
}

// waitingForEscape reports whether the only pending byte is an ESC.
func (d *decoder) waitingForEscape() bool {
	return len(d.pending) == 1 && d.pending[0] == 0x1b
}

// flush emits whatever is still pending, used once the stream ends or a
// lone ESC timed out.
func (d *decoder) flush() []Keypress {
	if len(d.pending) == 0 {
		return nil
	}
	data := d.pending
	d.pending = nil
	if data[0] == 0x1b {
		return []Keypress{{Name: "escape", Sequence: string(data)}}
	}
	return nil
}

// decodeOne decodes the key at the start of data. It returns n == 0 when
// more bytes are needed.
func decodeOne(data []byte) (Keypress, int) {
	b := data[0]
	switch {
	case b == 0x1b:
		return decodeEscape(data)
	case b == '\r':
		return Keypress{Name: "return", Sequence: "\r"}, 1
	case b == '\n':
		return Keypress{Name: "enter", Sequence: "\n"}, 1
	case b == '\t':
		return Keypress{Name: "tab", Sequence: "\t"}, 1
	case b == 0x7f || b == 0x08:
		return Keypress{Name: "backspace", Sequence: string(b)}, 1
	case b == ' ':
		return Keypress{Name: "space", Rune: ' ', Sequence: " "}, 1
	case b == 0x00:
		return Keypress{Name: "space", Ctrl: true, Sequence: "\x00"}, 1
	case b < 0x20:
		return Keypress{Name: string(rune('a' + b - 1)), Ctrl: true, Sequence: string(b)}, 1
	}

	if !utf8.FullRune(data) {
		return Keypress{}, 0
	}
	r, size := utf8.DecodeRune(data)
	return Keypress{
		Name:     string(unicode.ToLower(r)),
		Rune:     r,
		Sequence: string(data[:size]),
	}, size
}

var csiNames = map[byte]string{
	'A': "up",
	'B': "down",
	'C': "right",
	'D': "left",
	'H': "home",
	'F': "end",
}

var tildeNames = map[string]string{
	"1": "home",
	"3": "delete",
	"4": "end",
	"7": "home",
	"8": "end",
}

func decodeEscape(data []byte) (Keypress, int) {
	if len(data) == 1 {
		return Keypress{}, 0
	}

	switch data[1] {
	case '[', 'O':
		for i := 2; i < len(data); i++ {
			c := data[i]
			if c < 0x40 || c > 0x7e {
				continue
			}
			seq := string(data[:i+1])
			params := string(data[2:i])
			key := Keypress{Sequence: seq}
			if c == '~' {
				key.Name = tildeNames[strings.SplitN(params, ";", 2)[0]]
			} else {
				key.Name = csiNames[c]
			}
			if key.Name == "" {
				key.Name = "undefined"
			}
			if strings.Contains(params, ";5") {
				key.Ctrl = true
			}
			return key, i + 1
		}
		return Keypress{}, 0
	case 0x1b:
		return Keypress{Name: "escape", Meta: true, Sequence: "\x1b\x1b"}, 2
	}

	inner, n := decodeOne(data[1:])
	if n == 0 {
		return Keypress{}, 0
	}
	inner.Meta = true
	inner.Sequence = "\x1b" + inner.Sequence
	return inner, n + 1
}

type keyEvent struct {
	key Keypress
	err error
}

// readKeys decodes r until it fails, then reports the error and closes the
// channel. The reading goroutine cannot be interrupted while blocked in Read.
func readKeys(r io.Reader) <-chan keyEvent {
	events := make(chan keyEvent, 64)
	chunks := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		defer close(chunks)
		buf := make([]byte, 256)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				chunks <- append([]byte(nil), buf[:n]...)
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	go func() {
		defer close(events)

		var d decoder
		var escape <-chan time.Time
		emit := func(keys []Keypress) {
			for _, key := range keys {
				events <- keyEvent{key: key}
			}
		}
		for {
			select {
			case chunk, ok := <-chunks:
				if !ok {
					emit(d.flush())
					events <- keyEvent{err: <-readErr}
					return
				}
				emit(d.feed(chunk))
				escape = nil
				if d.waitingForEscape() {
					escape = time.After(escapeTimeout)
				}
			case <-escape:
				escape = nil
				emit(d.flush())
			}
		}
	}()

	return events
}
