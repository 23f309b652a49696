package escpos

// handleGS implements the GS command family: spec.md §4.5, plus the
// supplemented vendor variants 0x00, 0x80, 0xF7. start points at the GS
// byte; buf[start+1] is the command selector.
func (ip *Interpreter) handleGS(buf []byte, start int) (int, bool) {
	if !need(buf, start, 2) {
		return start, false
	}
	cmd := buf[start+1]
	pos := start + 2

	switch cmd {
	case '8':
		if !need(buf, pos, 1) {
			return start, false
		}
		if buf[pos] == 'L' {
			return ip.handleRasterLongForm(buf, start)
		}
		// buf[pos] is the store/print sub-function selector; this spec
		// doesn't distinguish between them beyond discarding the payload.
		pos++
		if !need(buf, pos, 4) {
			return start, false
		}
		length := int(buf[pos]) + int(buf[pos+1])<<8 + int(buf[pos+2])<<16 + int(buf[pos+3])<<24
		pos += 4
		if !need(buf, pos, length) {
			return start, false
		}
		pos += length

	case 'V':
		if !need(buf, pos, 1) {
			return start, false
		}
		return ip.handleCut(buf, pos)

	case 'v':
		return ip.handleRasterRow(buf, start)

	case '!':
		if !need(buf, pos, 1) {
			return start, false
		}
		mode := buf[pos]
		widthMul := int(mode&0x07) + 1
		heightMul := int((mode>>4)&0x07) + 1
		ip.State.DoubleWidth = widthMul > 1
		ip.State.DoubleHeight = heightMul > 1
		pos++

	case 'B':
		if !need(buf, pos, 1) {
			return start, false
		}
		ip.State.Inverted = buf[pos] == 1
		pos++

	case 'L':
		if !need(buf, pos, 2) {
			return start, false
		}
		ip.State.LeftMargin = le16(buf[pos], buf[pos+1])
		pos += 2

	case 'W':
		if !need(buf, pos, 2) {
			return start, false
		}
		ip.State.PrintAreaWidth = le16(buf[pos], buf[pos+1])
		pos += 2

	case 'H', 'h', 'w':
		if !need(buf, pos, 1) {
			return start, false
		}
		pos++

	case 'k':
		if !need(buf, pos, 1) {
			return start, false
		}
		barcodeType := buf[pos]
		pos++
		if barcodeType < 6 {
			end := pos
			for end < len(buf) && buf[end] != 0 {
				end++
			}
			if end >= len(buf) {
				return start, false
			}
			pos = end + 1
		} else {
			if !need(buf, pos, 1) {
				return start, false
			}
			n := int(buf[pos])
			pos++
			if !need(buf, pos, n) {
				return start, false
			}
			pos += n
		}

	case '(':
		if !need(buf, pos, 1) {
			return start, false
		}
		if buf[pos] == 'k' {
			return ip.handleQR(buf, start)
		}
		if !need(buf, pos, 3) {
			return start, false
		}
		plen := le16(buf[pos+1], buf[pos+2])
		n := 3 + plen
		if !need(buf, pos, n) {
			return start, false
		}
		pos += n

	case 'a':
		if !need(buf, pos, 1) {
			return start, false
		}
		if buf[pos] != 0 {
			ip.queueResponse(0x10, 0x00, 0x00, 0x00)
		}
		pos++

	case 'I':
		if !need(buf, pos, 1) {
			return start, false
		}
		switch buf[pos] {
		case 0x42:
			ip.queueIdentity("CITIZEN")
		case 0x43:
			ip.queueIdentity("CT-S310")
		}
		pos++

	case 'r':
		if !need(buf, pos, 1) {
			return start, false
		}
		ip.queueResponse(0x08)
		pos++

	case '$':
		if !need(buf, pos, 2) {
			return start, false
		}
		pos += 2

	case 0x00, 0x80, 0xF7:
		if !need(buf, pos, 1) {
			return start, false
		}
		pos++

	default:
		ip.tracef("escpos: unknown GS opcode 0x%02x", cmd)
		if !need(buf, pos, 1) {
			return start, false
		}
		pos++
	}

	return pos, true
}
