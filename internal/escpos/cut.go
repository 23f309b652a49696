package escpos

// handleCut implements GS V: spec.md §4.8. pos points at the mode byte,
// which the GS dispatcher has already confirmed is present.
func (ip *Interpreter) handleCut(buf []byte, pos int) (int, bool) {
	mode := buf[pos]
	pos++

	var cat CutCategory
	switch mode {
	case 0, 48:
		cat = CutFull
	case 1, 49:
		cat = CutPartial
	case 65:
		cat = CutFeedAndFull
	case 66:
		cat = CutFeedAndPartial
	default:
		cat = CutUnknown
	}

	ip.flushPendingLine()
	ip.pushElement(Element{Kind: KindPaperCut, CutCategory: cat})
	return pos, true
}
