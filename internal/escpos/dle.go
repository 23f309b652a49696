package escpos

// handleDLE implements the DLE real-time command family: spec.md §4.3.
// start points at the DLE byte itself.
func (ip *Interpreter) handleDLE(buf []byte, start int) (int, bool) {
	if !need(buf, start, 2) {
		return start, false
	}
	sub := buf[start+1]
	pos := start + 2

	switch sub {
	case 0x04, 0x05:
		// Real-time status transmission: the third byte is the status
		// selector n, required but otherwise ignored. Must be awaited before
		// queuing the ack, or a truncated DLE 04 gets a response it hasn't
		// earned yet.
		if !need(buf, pos, 1) {
			return start, false
		}
		pos++
		ip.queueResponse(0x12)
	case 0x14:
		if !need(buf, pos, 2) {
			return start, false
		}
		pos += 2
	default:
		// Unknown DLE sub-command: opcode only, no declared parameter block.
	}

	return pos, true
}

// handleDC2 implements spec.md's row 0x12: if the following byte is '#',
// read a density byte and set density to min(d/32, 8); otherwise clear
// bold. start points at the DC2 byte; the lookahead byte (and the density
// byte, if present) must both be awaited before any state mutation, so an
// incomplete sequence rewinds to start rather than guessing.
func (ip *Interpreter) handleDC2(buf []byte, start int) (int, bool) {
	if !need(buf, start, 2) {
		return start, false
	}
	if buf[start+1] != '#' {
		ip.State.Bold = false
		return start + 1, true
	}
	if !need(buf, start, 3) {
		return start, false
	}
	density := int(buf[start+2]) / 32
	if density > 8 {
		density = 8
	}
	ip.State.PrintDensity = density
	return start + 3, true
}
