package escpos

// ElementKind tags which variant of ReceiptElement is populated. Renderers
// dispatch on this tag; there is no polymorphic dispatch on elements inside
// the core.
type ElementKind int

const (
	KindText ElementKind = iota
	KindRaster
	KindQR
	KindPaperCut
	KindCashDrawer
	KindSeparator
	KindFormFeed
)

// CutCategory classifies a PaperCut element.
type CutCategory int

const (
	CutFull CutCategory = iota
	CutPartial
	CutFeedAndFull
	CutFeedAndPartial
	CutUnknown
)

// Element is a closed sum type: exactly one of the kind-specific fields is
// meaningful, selected by Kind.
type Element struct {
	Kind ElementKind

	// KindText
	Text             string
	Bold             bool
	Underline        bool
	DoubleWidth      bool
	DoubleHeight     bool
	Inverted         bool
	DoubleStrike     bool
	Alignment        Alignment
	Font             int
	HorizontalOffset int
	PrintAreaWidth   int
	PrintDensity     int
	LeftMargin       int
	CharacterSpacing int

	// KindRaster (HorizontalOffset, Alignment, PrintAreaWidth, PrintDensity
	// above are shared with KindText)
	PixelWidth   int
	PixelHeight  int
	Bitmap       []byte
	BytesPerLine int

	// KindQR (Alignment, HorizontalOffset, PrintAreaWidth above are shared)
	QRPayload string
	QRSize    int

	// KindPaperCut
	CutCategory CutCategory

	// KindCashDrawer
	DrawerPin     int
	DrawerOnTime  int
	DrawerOffTime int
}

// textElement builds a Text element from a state snapshot, per spec.md §4.9.
func textElement(decoded string, s State) Element {
	return Element{
		Kind:             KindText,
		Text:             decoded,
		Bold:             s.Bold,
		Underline:        s.Underline,
		DoubleWidth:      s.DoubleWidth,
		DoubleHeight:     s.DoubleHeight,
		Inverted:         s.Inverted,
		DoubleStrike:     s.DoubleStrike,
		Alignment:        s.Alignment,
		Font:             s.Font,
		HorizontalOffset: s.HorizontalOffset,
		PrintAreaWidth:   s.PrintAreaWidth,
		PrintDensity:     s.PrintDensity,
		LeftMargin:       s.LeftMargin,
		CharacterSpacing: s.CharacterSpacing,
	}
}
