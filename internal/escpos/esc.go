package escpos

// handleESC implements the ESC command family: spec.md §4.4, plus the
// supplemented opcodes SPEC_FULL.md §4 adds (c, i, s, u, v, 0x06, R, r, %,
// <). start points at the ESC byte; buf[start+1] is the command selector.
// Every branch that reads a declared parameter block rewinds to start if
// the block isn't fully buffered yet — the reference source instead lets
// several of these silently truncate a split parameter, which this
// interpreter treats as a correctness bug worth not reproducing.
func (ip *Interpreter) handleESC(buf []byte, start int) (int, bool) {
	if !need(buf, start, 2) {
		return start, false
	}
	cmd := buf[start+1]
	pos := start + 2

	switch cmd {
	case '@':
		ip.State.reset()

	case 'E':
		if !need(buf, pos, 1) {
			return start, false
		}
		ip.State.Bold = buf[pos] == 1
		pos++

	case '-':
		if !need(buf, pos, 1) {
			return start, false
		}
		v := buf[pos]
		ip.State.Underline = v == 1 || v == 2
		pos++

	case 'a':
		if !need(buf, pos, 1) {
			return start, false
		}
		switch buf[pos] {
		case 1:
			ip.State.Alignment = AlignCenter
		case 2:
			ip.State.Alignment = AlignRight
		default:
			ip.State.Alignment = AlignLeft
		}
		pos++

	case '!':
		if !need(buf, pos, 1) {
			return start, false
		}
		mode := buf[pos]
		ip.State.Bold = mode&0x08 != 0
		ip.State.DoubleHeight = mode&0x10 != 0
		ip.State.DoubleWidth = mode&0x20 != 0
		ip.State.Underline = mode&0x80 != 0
		pos++

	case 'd', 'J':
		if !need(buf, pos, 1) {
			return start, false
		}
		n := int(buf[pos])
		pos++
		for k := 0; k < n; k++ {
			ip.pushElement(Element{Kind: KindSeparator})
		}

	case '*':
		return ip.handleRasterColumn(buf, start)

	case '~':
		if !need(buf, pos, 1) {
			return start, false
		}
		d := int(buf[pos])
		if d > 8 {
			d = 8
		}
		ip.State.PrintDensity = d
		pos++

	case 'p':
		if !need(buf, pos, 3) {
			return start, false
		}
		ip.pushElement(Element{
			Kind:          KindCashDrawer,
			DrawerPin:     int(buf[pos]),
			DrawerOnTime:  int(buf[pos+1]),
			DrawerOffTime: int(buf[pos+2]),
		})
		pos += 3

	case ' ':
		if !need(buf, pos, 1) {
			return start, false
		}
		ip.State.CharacterSpacing = int(buf[pos])
		pos++

	case '$':
		if !need(buf, pos, 2) {
			return start, false
		}
		ip.State.HorizontalOffset = le16(buf[pos], buf[pos+1])
		pos += 2

	case '\\':
		if !need(buf, pos, 2) {
			return start, false
		}
		rel := int(int16(buf[pos]) + int16(buf[pos+1])<<8)
		next := ip.State.HorizontalOffset + rel
		if next < 0 {
			next = 0
		}
		ip.State.HorizontalOffset = next
		pos += 2

	case 'K', 'L', 'Y', 'Z':
		if !need(buf, pos, 2) {
			return start, false
		}
		width := le16(buf[pos], buf[pos+1])
		pos += 2
		n := width
		if cmd == 'Y' || cmd == 'Z' {
			n = width * 2
		}
		if !need(buf, pos, n) {
			return start, false
		}
		pos += n

	case 'D':
		end := pos
		for end < len(buf) && buf[end] != 0 {
			end++
		}
		if end >= len(buf) {
			return start, false
		}
		pos = end + 1

	case 'S', 'T', 'U', 's', 'u', 'v', '?', '=', 'R', 'r', '%', ctrlACK:
		if !need(buf, pos, 1) {
			return start, false
		}
		pos++

	case 'c':
		if !need(buf, pos, 2) {
			return start, false
		}
		pos += 2

	case 'i', '<':
		// opcode only, no parameter bytes

	case 'W':
		if !need(buf, pos, 8) {
			return start, false
		}
		pos += 8

	case 't':
		if !need(buf, pos, 1) {
			return start, false
		}
		ip.State.CodePage = CodePage(buf[pos])
		pos++

	case 'M':
		if !need(buf, pos, 1) {
			return start, false
		}
		ip.State.Font = int(buf[pos])
		pos++

	case '2':
		ip.State.LineSpacing = 30

	case '3':
		if !need(buf, pos, 1) {
			return start, false
		}
		ip.State.LineSpacing = int(buf[pos])
		pos++

	case '{':
		if !need(buf, pos, 1) {
			return start, false
		}
		pos++

	case 'G':
		if !need(buf, pos, 1) {
			return start, false
		}
		ip.State.DoubleStrike = buf[pos] != 0
		pos++

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

	case '&':
		if !need(buf, pos, 3) {
			return start, false
		}
		y := int(buf[pos])
		c1 := int(buf[pos+1])
		c2 := int(buf[pos+2])
		numChars := 0
		if c2 >= c1 {
			numChars = c2 - c1 + 1
		}
		bytesPerChar := y * 2 // ceil(12/8) == 2
		n := 3 + numChars*bytesPerChar
		if !need(buf, pos, n) {
			return start, false
		}
		pos += n

	default:
		ip.tracef("escpos: unknown ESC opcode 0x%02x", cmd)
		if !need(buf, pos, 1) {
			return start, false
		}
		pos++
	}

	return pos, true
}
