package escpos

// handleQR implements GS ( k (function group 49, QR code): spec.md §4.6.
// gsStart points at the GS byte; buf[gsStart+1]=='(', buf[gsStart+2]=='k'.
// Unlike the reference source (which rewinds only to the '(' byte on
// insufficient data — one byte short of the full command), this rewinds to
// the GS introducer itself, so a split header never desyncs the buffer.
func (ip *Interpreter) handleQR(buf []byte, gsStart int) (int, bool) {
	headerStart := gsStart + 3
	if !need(buf, headerStart, 4) {
		return gsStart, false
	}
	paramLen := le16(buf[headerStart], buf[headerStart+1])
	cn := buf[headerStart+2]
	fn := buf[headerStart+3]
	pos := headerStart + 4

	if cn != 49 {
		skip := paramLen - 2
		if skip < 0 {
			skip = 0
		}
		if !need(buf, pos, skip) {
			return gsStart, false
		}
		return pos + skip, true
	}

	switch fn {
	case 65, 67:
		if !need(buf, pos, 1) {
			return gsStart, false
		}
		if fn == 67 {
			ip.qrSize = buf[pos]
		}
		pos++
	case 69:
		if !need(buf, pos, 1) {
			return gsStart, false
		}
		ip.qrErrorCorrection = buf[pos]
		pos++
	case 80:
		dataLen := paramLen - 3
		if dataLen < 0 {
			dataLen = 0
		}
		if !need(buf, pos, dataLen) {
			return gsStart, false
		}
		ip.qrData = append([]byte(nil), buf[pos:pos+dataLen]...)
		pos += dataLen
	case 81:
		if len(ip.qrData) > 0 {
			ip.flushPendingLine()
			size := int(ip.qrSize)
			if size < 1 {
				size = 1
			} else if size > 16 {
				size = 16
			}
			ip.pushElement(Element{
				Kind:             KindQR,
				QRPayload:        string(ip.qrData),
				QRSize:           size,
				Alignment:        ip.State.Alignment,
				HorizontalOffset: ip.State.HorizontalOffset,
				PrintAreaWidth:   ip.State.PrintAreaWidth,
			})
			ip.State.HorizontalOffset = 0
			ip.qrData = nil
		}
	default:
		skip := paramLen - 2
		if skip < 0 {
			skip = 0
		}
		if !need(buf, pos, skip) {
			return gsStart, false
		}
		pos += skip
	}

	return pos, true
}
