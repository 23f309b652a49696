package escpos

// dispatch classifies the byte at pos and routes to the matching handler:
// spec.md §4.1's dispatch table and §4.2's single-byte control table.
// It returns the new cursor and true on success, or any value <= pos and
// false to signal "insufficient data" — the caller rewinds to the
// introducer and stops the loop.
func (ip *Interpreter) dispatch(buf []byte, pos int) (int, bool) {
	b := buf[pos]

	switch b {
	case ctrlDLE:
		ip.inCommandSequence = true
		next, ok := ip.handleDLE(buf, pos)
		if ok {
			ip.inCommandSequence = false
		}
		return next, ok
	case ctrlESC:
		ip.inCommandSequence = true
		next, ok := ip.handleESC(buf, pos)
		if ok {
			ip.inCommandSequence = false
		}
		return next, ok
	case ctrlGS:
		ip.inCommandSequence = true
		next, ok := ip.handleGS(buf, pos)
		if ok {
			ip.inCommandSequence = false
		}
		return next, ok
	case ctrlFS:
		ip.inCommandSequence = true
		next, ok := ip.handleFS(buf, pos)
		if ok {
			ip.inCommandSequence = false
		}
		return next, ok
	case ctrlLF:
		ip.inCommandSequence = false
		ip.lastWasBinary = false
		if len(ip.currentLine) > 0 {
			ip.flushLine()
		} else if ip.emittedBefore {
			ip.pushElement(Element{Kind: KindSeparator})
		}
		return pos + 1, true
	case ctrlCR:
		ip.inCommandSequence = false
		ip.lastWasBinary = false
		if len(ip.currentLine) > 0 {
			ip.flushLine()
		}
		return pos + 1, true
	case ctrlFF:
		ip.currentLine = ip.currentLine[:0]
		if !ip.emittedBefore || ip.lastKind != KindFormFeed {
			ip.pushElement(Element{Kind: KindFormFeed})
		}
		return pos + 1, true
	case ctrlHT:
		if !ip.inCommandSequence {
			ip.currentLine = append(ip.currentLine, ' ', ' ', ' ', ' ')
		}
		return pos + 1, true
	case ctrlBS:
		if n := len(ip.currentLine); n > 0 {
			ip.currentLine = ip.currentLine[:n-1]
		}
		return pos + 1, true
	case ctrlDC2:
		return ip.handleDC2(buf, pos)
	case ctrlCAN, ctrlVT, ctrlSO, ctrlSI, ctrlDC1, ctrlDC3, ctrlDC4,
		ctrlSOH, ctrlSTX, ctrlETX, ctrlEOT, ctrlENQ, ctrlACK, ctrlBEL, ctrlETB, ctrlRS:
		return pos + 1, true
	default:
		if b >= 0x20 && b != ctrlDEL {
			if !ip.inCommandSequence && !ip.lastWasBinary {
				ip.currentLine = append(ip.currentLine, b)
			}
			return pos + 1, true
		}
		// 0x00-0x1F (uncovered above) and DEL: silently consumed.
		return pos + 1, true
	}
}
