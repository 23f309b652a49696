package escpos

// handleFS implements the FS (0x1C) command family: not given its own
// subsection in the base design, but named by the dispatcher description
// alongside ESC/GS/DLE and implemented by the reference source — carried
// over here as a supplemented introducer family (SPEC_FULL.md §4). start
// points at the FS byte.
func (ip *Interpreter) handleFS(buf []byte, start int) (int, bool) {
	if !need(buf, start, 2) {
		return start, false
	}
	cmd := buf[start+1]
	pos := start + 2

	switch cmd {
	case '.':
		// Cancel Kanji mode: no declared parameter in single-byte-per-char
		// operation, so nothing further is consumed.

	case 'p':
		if !need(buf, pos, 2) {
			return start, false
		}
		pos += 2

	case 'q':
		if !need(buf, pos, 1) {
			return start, false
		}
		n := int(buf[pos])
		pos++
		for k := 0; k < n; k++ {
			if !need(buf, pos, 4) {
				return start, false
			}
			xl, xh, yl, yh := buf[pos], buf[pos+1], buf[pos+2], buf[pos+3]
			pos += 4
			width := le16(xl, xh)
			height := le16(yl, yh)
			imgBytes := ((width + 7) / 8) * height
			if !need(buf, pos, imgBytes) {
				return start, false
			}
			pos += imgBytes
		}

	case '(':
		if !need(buf, pos, 3) {
			return start, false
		}
		plen := le16(buf[pos+1], buf[pos+2])
		n := 3 + plen
		if !need(buf, pos, n) {
			return start, false
		}
		pos += n

	case 'C', 'g', '!', '&', 'S', '-':
		if !need(buf, pos, 1) {
			return start, false
		}
		pos++

	default:
		ip.tracef("escpos: unknown FS opcode 0x%02x", cmd)
		if !need(buf, pos, 1) {
			return start, false
		}
		pos++
	}

	return pos, true
}
