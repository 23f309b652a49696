package escpos

// Introducer and single-byte control constants, named the way the teacher's
// thermalize reference names its ASCII control block.
const (
	ctrlSOH byte = 0x01
	ctrlSTX byte = 0x02
	ctrlETX byte = 0x03
	ctrlEOT byte = 0x04
	ctrlENQ byte = 0x05
	ctrlACK byte = 0x06
	ctrlBEL byte = 0x07
	ctrlBS  byte = 0x08
	ctrlHT  byte = 0x09
	ctrlLF  byte = 0x0A
	ctrlVT  byte = 0x0B
	ctrlFF  byte = 0x0C
	ctrlCR  byte = 0x0D
	ctrlSO  byte = 0x0E
	ctrlSI  byte = 0x0F
	ctrlDLE byte = 0x10
	ctrlDC1 byte = 0x11
	ctrlDC2 byte = 0x12
	ctrlDC3 byte = 0x13
	ctrlDC4 byte = 0x14
	ctrlETB byte = 0x17
	ctrlCAN byte = 0x18
	ctrlRS  byte = 0x1E
	ctrlESC byte = 0x1B
	ctrlFS  byte = 0x1C
	ctrlGS  byte = 0x1D
	ctrlDEL byte = 0x7F
)

// Interpreter is a resumable ESC/POS stream parser: one instance per TCP
// connection. It performs no I/O, holds no locks, and returns no errors —
// it is a pure function from (state, chunk) to (state, elements, responses).
// A nil Trace is the default; the host may set it to receive debug-mode
// tracing without the core importing a logging library.
type Interpreter struct {
	State State

	buf         []byte
	currentLine []byte

	inCommandSequence bool
	lastWasBinary     bool

	qrData            []byte
	qrSize            byte
	qrErrorCorrection byte

	elements  []Element
	responses []byte

	// emittedBefore and lastKind track element history across Feed calls —
	// unlike elements, which is reset every call. A blank line arriving in
	// its own chunk after an earlier chunk's Text element still needs the
	// Separator spec.md's LF row requires, and consecutive form feeds must
	// be deduplicated even when split across calls.
	emittedBefore bool
	lastKind      ElementKind

	// Trace, if non-nil, is called for debug-mode diagnostics: rejected or
	// oversized payloads, and unknown opcodes encountered during re-sync.
	// It is never called from a hot path that matters for correctness.
	Trace func(format string, args ...interface{})
}

// New returns an interpreter in its default (post ESC-@) state.
func New() *Interpreter {
	return &Interpreter{
		State:  DefaultState(),
		qrSize: 3,
	}
}

// Feed appends chunk to the pending buffer and parses as much as possible.
// It returns the elements emitted and the response bytes queued during this
// call only (both are drained atomically, per spec's resumption contract);
// undigested bytes remain buffered for the next call. The caller — the
// transport host, never this package — must write the returned responses
// back on the same connection before the next read, and forward elements to
// a sink, preserving the request/response pairing drivers rely on.
func (ip *Interpreter) Feed(chunk []byte) (elements []Element, responses []byte) {
	ip.buf = append(ip.buf, chunk...)
	ip.elements = nil
	ip.responses = nil

	i := 0
	for i < len(ip.buf) {
		startPos := i
		next, ok := ip.dispatch(ip.buf, i)
		if !ok {
			i = startPos
			break
		}
		i = next
	}

	if i > 0 {
		ip.buf = append([]byte(nil), ip.buf[i:]...)
	}

	return ip.elements, ip.responses
}

// flushLine decodes current_line with the active code page and appends a
// Text element, per spec.md §4.9. A no-op when current_line is empty.
func (ip *Interpreter) flushLine() {
	if len(ip.currentLine) == 0 {
		return
	}
	decoded := decodeLine(ip.currentLine, ip.State.CodePage)
	ip.pushElement(textElement(decoded, ip.State))
	ip.currentLine = ip.currentLine[:0]
	ip.State.HorizontalOffset = 0
}

// flushPendingLine is the "flush before binary emission" step shared by the
// raster and QR handlers (spec.md §4.6, §4.7): flush only if non-empty, and
// always clear current_line afterward regardless.
func (ip *Interpreter) flushPendingLine() {
	ip.flushLine()
	ip.currentLine = ip.currentLine[:0]
}

func (ip *Interpreter) pushElement(e Element) {
	ip.elements = append(ip.elements, e)
	ip.emittedBefore = true
	ip.lastKind = e.Kind
}

func (ip *Interpreter) queueResponse(b ...byte) {
	ip.responses = append(ip.responses, b...)
}

// queueIdentity queues the 0x5F-prefixed, NUL-terminated printer identity
// string spec.md §6 specifies for GS I.
func (ip *Interpreter) queueIdentity(name string) {
	ip.responses = append(ip.responses, 0x5F)
	ip.responses = append(ip.responses, []byte(name)...)
	ip.responses = append(ip.responses, 0x00)
}

func (ip *Interpreter) tracef(format string, args ...interface{}) {
	if ip.Trace != nil {
		ip.Trace(format, args...)
	}
}

func need(buf []byte, pos, n int) bool {
	return pos+n <= len(buf)
}

func le16(lo, hi byte) int {
	return int(lo) + int(hi)<<8
}
