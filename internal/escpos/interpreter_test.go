package escpos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenarios translated directly from spec.md §8's concrete scenario list
// and original_source's tests/command_parsing.rs / tests/tcp_server.rs.

func TestBoldText(t *testing.T) {
	ip := New()
	input := []byte{0x1B, 0x40, 0x1B, 0x45, 0x01, 'H', 'i', 0x1B, 0x45, 0x00, 0x0A}

	elements, _ := ip.Feed(input)

	require.Len(t, elements, 1)
	el := elements[0]
	assert.Equal(t, KindText, el.Kind)
	assert.Equal(t, "Hi", el.Text)
	assert.True(t, el.Bold)
	assert.Equal(t, AlignLeft, el.Alignment)
	assert.Equal(t, 0, el.Font)
}

func TestAlignmentSwitch(t *testing.T) {
	ip := New()
	input := []byte{
		0x1B, 0x40,
		0x1B, 0x61, 0x01, 'O', 'K', 0x0A,
		0x1B, 0x61, 0x00, '.', 0x0A,
	}

	elements, _ := ip.Feed(input)

	require.Len(t, elements, 2)
	assert.Equal(t, "OK", elements[0].Text)
	assert.Equal(t, AlignCenter, elements[0].Alignment)
	assert.Equal(t, ".", elements[1].Text)
	assert.Equal(t, AlignLeft, elements[1].Alignment)
}

func TestDLEEOTStatus(t *testing.T) {
	ip := New()

	elements, responses := ip.Feed([]byte{0x10, 0x04, 0x01})

	assert.Empty(t, elements)
	assert.Equal(t, []byte{0x12}, responses)
}

func TestDLEENQStatus(t *testing.T) {
	ip := New()

	elements, responses := ip.Feed([]byte{0x10, 0x05, 0x01})

	assert.Empty(t, elements)
	assert.Equal(t, []byte{0x12}, responses)
}

func TestIdentityQuery(t *testing.T) {
	ip := New()

	_, responses := ip.Feed([]byte{0x1D, 'I', 0x42})

	assert.Equal(t, []byte("_CITIZEN\x00"), responses)
}

func TestIdentityQueryCTS310(t *testing.T) {
	ip := New()

	_, responses := ip.Feed([]byte{0x1D, 'I', 0x43})

	assert.Equal(t, []byte("_CT-S310\x00"), responses)
}

func TestTransmitStatus(t *testing.T) {
	ip := New()

	_, responses := ip.Feed([]byte{0x1D, 'r', 0x01})

	assert.Equal(t, []byte{0x08}, responses)
}

func TestASBEnable(t *testing.T) {
	ip := New()

	_, responses := ip.Feed([]byte{0x1D, 'a', 0x01})

	assert.Equal(t, []byte{0x10, 0x00, 0x00, 0x00}, responses)
}

func TestQRRoundTrip(t *testing.T) {
	ip := New()
	payload := "hello"

	// Model select (fn 65), size select (fn 67), store (fn 80 with
	// param_len = len(payload)+3 = 8; the handler reads param_len-3 = 5 data
	// bytes right after fn), print (fn 81).
	input := []byte{0x1D, '(', 'k', 0x03, 0x00, 49, 65, 0x00}
	input = append(input, 0x1D, '(', 'k', 0x03, 0x00, 49, 67, 0x05)
	input = append(input, 0x1D, '(', 'k', byte(len(payload)+3), 0x00, 49, 80)
	input = append(input, []byte(payload)...)
	input = append(input, 0x1D, '(', 'k', 0x03, 0x00, 49, 81)

	elements, _ := ip.Feed(input)

	require.Len(t, elements, 1)
	assert.Equal(t, KindQR, elements[0].Kind)
	assert.Equal(t, payload, elements[0].QRPayload)
	assert.Equal(t, 5, elements[0].QRSize)
}

func TestSplitRaster(t *testing.T) {
	ip := New()
	header := []byte{0x1B, '*', 0, 0x08, 0x00}
	columns := []byte{0xAA, 0x55, 0xAA, 0x55, 0xAA, 0x55, 0xAA, 0x55}

	elementsFirst, _ := ip.Feed(header)
	assert.Empty(t, elementsFirst, "a split header with no column data yet must emit nothing")

	elements, _ := ip.Feed(columns)

	require.Len(t, elements, 1)
	el := elements[0]
	assert.Equal(t, KindRaster, el.Kind)
	assert.Equal(t, 8, el.PixelWidth)
	assert.Equal(t, 8, el.PixelHeight)
	assert.Equal(t, columnToRaster(columns, 8, 8), el.Bitmap)
}

func TestSplitAcrossEveryByteBoundary(t *testing.T) {
	// Chunk-independence property from spec.md §8: feeding byte-at-a-time
	// must produce the same result as feeding the whole stream at once.
	whole := []byte{0x1B, 0x40, 0x1B, 0x45, 0x01, 'H', 'i', 0x1B, 0x45, 0x00, 0x0A}

	oneShot := New()
	wantElements, wantResponses := oneShot.Feed(whole)

	piecemeal := New()
	var gotElements []Element
	var gotResponses []byte
	for _, b := range whole {
		els, resp := piecemeal.Feed([]byte{b})
		gotElements = append(gotElements, els...)
		gotResponses = append(gotResponses, resp...)
	}

	assert.Equal(t, wantElements, gotElements)
	assert.Equal(t, wantResponses, gotResponses)
}

func TestTrailingLoneESCBuffersWithoutEmitting(t *testing.T) {
	ip := New()

	elements, responses := ip.Feed([]byte{'h', 'i', 0x1B})

	assert.Empty(t, elements, "flush only happens on LF/CR, not merely because ESC is pending")
	assert.Empty(t, responses)

	elements, _ = ip.Feed([]byte{0x40})
	assert.Empty(t, elements, "ESC @ resets state silently, no text should leak through the introducer byte")
}

func TestZeroWidthRasterEmitsNothing(t *testing.T) {
	ip := New()

	elements, _ := ip.Feed([]byte{0x1B, '*', 0, 0x00, 0x00})

	assert.Empty(t, elements)
}

func TestEscBangSetsDoubleWidthAndHeight(t *testing.T) {
	ip := New()

	ip.Feed([]byte{0x1B, '!', 0x30})

	assert.True(t, ip.State.DoubleWidth)
	assert.True(t, ip.State.DoubleHeight)
}

func TestGSBangSetsWidthAndHeightMultipliers(t *testing.T) {
	ip := New()

	ip.Feed([]byte{0x1D, '!', 0x11})

	assert.True(t, ip.State.DoubleWidth)
	assert.True(t, ip.State.DoubleHeight)
}

func TestInitIdempotence(t *testing.T) {
	once := New()
	once.Feed([]byte{0x1B, 0x40})

	twice := New()
	twice.Feed([]byte{0x1B, 0x40, 0x1B, 0x40})

	assert.Equal(t, DefaultState(), once.State)
	assert.Equal(t, DefaultState(), twice.State)
}

func TestOneShotHorizontalOffsetResets(t *testing.T) {
	ip := New()
	ip.Feed([]byte{0x1B, '$', 0x64, 0x00}) // offset = 100
	assert.Equal(t, 100, ip.State.HorizontalOffset)

	elements, _ := ip.Feed([]byte{'x', 0x0A})
	require.Len(t, elements, 1)
	assert.Equal(t, 100, elements[0].HorizontalOffset)
	assert.Equal(t, 0, ip.State.HorizontalOffset)
}

func TestFormFeedDeduplicatedAcrossChunks(t *testing.T) {
	ip := New()

	els1, _ := ip.Feed([]byte{0x0C})
	require.Len(t, els1, 1)
	assert.Equal(t, KindFormFeed, els1[0].Kind)

	els2, _ := ip.Feed([]byte{0x0C})
	assert.Empty(t, els2, "consecutive form feeds across calls must still dedupe")
}

func TestUnknownFSOpcodeResyncsWithoutPanicking(t *testing.T) {
	ip := New()

	assert.NotPanics(t, func() {
		ip.Feed([]byte{0x1C, 0xFE, 0x01, 'o', 'k', 0x0A})
	})
}

func TestNoLeakOfBinaryPayloadIntoText(t *testing.T) {
	ip := New()
	payload := []byte{0xAA, 0x55, 0xAA, 0x55, 0xAA, 0x55, 0xAA, 0x55}
	input := append([]byte{0x1B, '*', 0, 0x08, 0x00}, payload...)
	// No CR/LF between the raster and "ok": lastWasBinary is still set, so
	// these printable bytes must be suppressed rather than leaking into a
	// text element. The trailing LF then closes the line, emitting a
	// Separator rather than text.
	input = append(input, 'o', 'k', 0x0A)

	elements, _ := ip.Feed(input)

	require.Len(t, elements, 2)
	assert.Equal(t, KindRaster, elements[0].Kind)
	assert.Equal(t, KindSeparator, elements[1].Kind)
}

func TestGSGenericExtendedSkipHonorsFullLength(t *testing.T) {
	// GS 8 with a non-'L' sub-function (store/print) declares a 4-byte LE
	// length; the whole payload must be skipped rather than truncated at an
	// arbitrary cap, or the cursor desyncs from everything after it.
	ip := New()
	payload := make([]byte, 2_000_000)
	input := []byte{0x1D, '8', 0x30, 0x80, 0x84, 0x1E, 0x00} // length = 2,000,000
	input = append(input, payload...)
	input = append(input, 'o', 'k', 0x0A)

	elements, _ := ip.Feed(input)

	require.Len(t, elements, 1)
	assert.Equal(t, KindText, elements[0].Kind)
	assert.Equal(t, "ok", elements[0].Text)
}

func TestGSGenericExtendedSkipWaitsForMoreData(t *testing.T) {
	ip := New()
	header := []byte{0x1D, '8', 0x30, 0x0A, 0x00, 0x00, 0x00} // length = 10
	partial := []byte{1, 2, 3}

	elements, _ := ip.Feed(append(append([]byte{}, header...), partial...))
	assert.Empty(t, elements, "an incompletely buffered skip must rewind, not advance past buffered data")
}

func TestDLERealTimeStatusRequiresSelectorByte(t *testing.T) {
	ip := New()

	_, responses := ip.Feed([]byte{0x10, 0x04})
	assert.Empty(t, responses, "DLE 04 truncated before its selector byte must not queue a response yet")

	_, responses = ip.Feed([]byte{0x01})
	assert.Equal(t, []byte{0x12}, responses, "the queued ack arrives once the selector byte is fed")
}

func TestTextResumesAfterBinaryFlagClearedByLF(t *testing.T) {
	ip := New()
	payload := []byte{0xAA, 0x55, 0xAA, 0x55, 0xAA, 0x55, 0xAA, 0x55}
	input := append([]byte{0x1B, '*', 0, 0x08, 0x00}, payload...)
	input = append(input, 0x0A, 'o', 'k', 0x0A)

	elements, _ := ip.Feed(input)

	// The LF right after the raster closes an empty line, which yields a
	// Separator because an element has already been emitted.
	require.Len(t, elements, 3)
	assert.Equal(t, KindRaster, elements[0].Kind)
	assert.Equal(t, KindSeparator, elements[1].Kind)
	assert.Equal(t, KindText, elements[2].Kind)
	assert.Equal(t, "ok", elements[2].Text)
}
