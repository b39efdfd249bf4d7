package input

import "unicode/utf8"

type editEvent int

const (
	editNone editEvent = iota
	editSubmit
	editInterrupt
	editEOF
)

const (
	keyInterrupt = 0x03 // Ctrl-C
	keyEOF       = 0x04 // Ctrl-D
	keyBackspace = 0x08
	keyKill      = 0x15 // Ctrl-U
	keyEscape    = 0x1b
	keyDelete    = 0x7f
)

// lineEditor turns raw terminal bytes into a line buffer. Escape sequences
// (arrow keys and the like) are swallowed.
type lineEditor struct {
	buf    []byte
	escape int
}

func (e *lineEditor) feed(b byte) editEvent {
	switch e.escape {
	case 1:
		e.escape = 0
		if b == '[' || b == 'O' {
			e.escape = 2
		}
		return editNone
	case 2:
		if b >= 0x40 && b <= 0x7e {
			e.escape = 0
		}
		return editNone
	}

	switch b {
	case '\r', '\n':
		return editSubmit
	case keyInterrupt:
		return editInterrupt
	case keyEOF:
		if len(e.buf) == 0 {
			return editEOF
		}
	case keyBackspace, keyDelete:
		if len(e.buf) > 0 {
			_, size := utf8.DecodeLastRune(e.buf)
			e.buf = e.buf[:len(e.buf)-size]
		}
	case keyKill:
		e.buf = e.buf[:0]
	case keyEscape:
		e.escape = 1
	default:
		if b >= 0x20 {
			e.buf = append(e.buf, b)
		}
	}
	return editNone
}

func (e *lineEditor) String() string {
	return string(e.buf)
}
