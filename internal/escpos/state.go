// Package escpos implements the virtual thermal printer's ESC/POS stream
// interpreter: a resumable, byte-level command parser that maintains printer
// state, emits a typed element stream, and queues reverse-channel status
// bytes. The package performs no I/O and holds no locks — it is a pure
// function from (state, input chunk) to (state, elements, responses).
package escpos

// Alignment is the printer's current text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// CodePage identifies the active byte-to-character decode table, keyed by
// the raw parameter byte of ESC t.
type CodePage int

const (
	CodePageCP437       CodePage = 0
	CodePageWindows1251 CodePage = 17
	CodePageWindows1250 CodePage = 18
	CodePageShiftJIS1   CodePage = 20
	CodePageShiftJIS2   CodePage = 21
	CodePageShiftJIS3   CodePage = 255
)

// State is the printer's current formatting attributes: every field is a
// plain, user-observable attribute restored to its DefaultState value by the
// initialize command (ESC @).
type State struct {
	Bold             bool
	Underline        bool
	DoubleWidth      bool
	DoubleHeight     bool
	Inverted         bool
	DoubleStrike     bool
	Alignment        Alignment
	PrintDensity     int
	CodePage         CodePage
	HorizontalOffset int
	LeftMargin       int
	PrintAreaWidth   int
	LineSpacing      int
	CharacterSpacing int
	Font             int
}

// DefaultState returns the state a freshly constructed interpreter, or one
// that has just processed ESC @, is in. Two consecutive ESC @ must leave the
// state equal to this value (spec's init-idempotence invariant).
func DefaultState() State {
	return State{
		Alignment:    AlignLeft,
		PrintDensity: 4,
		CodePage:     CodePageCP437,
		LineSpacing:  30,
	}
}

// reset restores s to the defaults in place, preserving nothing.
func (s *State) reset() {
	*s = DefaultState()
}
