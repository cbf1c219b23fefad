package vterm

// Control characters and CSI final bytes
const (
	ESC = '\x1b'

	CSI = "\x1b["

	CursorUp    = "A"
	CursorDown  = "B"
	CursorRight = "C"
	CursorLeft  = "D"
	CursorPos   = "H"

	SGR = "m"

	EraseDisplay = "J"

	DSR = "n"
	CPR = "R"
)

// SGR parameter codes
const (
	Reset        = 0
	Bold         = 1
	Faint        = 2
	Italic       = 3
	Underline    = 4
	BlinkSlow    = 5
	BlinkFast    = 6
	ReverseVideo = 7
	Conceal      = 8
	StrikeOut    = 9
	Fraktur      = 20
	FgOffset     = 30
	BgOffset     = 40
)

// Shared "off" codes: bold/faint, italic/fraktur, and the two blink
// variants each collapse to a single reset parameter.
const (
	BoldFaintOff     = 22
	ItalicFrakturOff = 23
	UnderlineOff     = 24
	BlinkOff         = 25
	ReverseVideoOff  = 27
	ConcealOff       = 28
	StrikeOutOff     = 29
	DefaultFg        = 39
	DefaultBg        = 49
)

// attrFormat is the canonical emission order for SGR parameters. The
// bit position of each attribute in a cell's mask is its index here.
var attrFormat = [...]int{
	Bold, Faint, Italic, Underline, BlinkSlow, BlinkFast,
	ReverseVideo, Conceal, StrikeOut, Fraktur, FgOffset, BgOffset,
}

// attrOffCode maps an SGR "on" code to the parameter that turns it
// back off.
func attrOffCode(attr int) int {
	switch attr {
	case Bold, Faint:
		return BoldFaintOff
	case Italic, Fraktur:
		return ItalicFrakturOff
	case Underline:
		return UnderlineOff
	case BlinkSlow, BlinkFast:
		return BlinkOff
	case ReverseVideo:
		return ReverseVideoOff
	case Conceal:
		return ConcealOff
	case StrikeOut:
		return StrikeOutOff
	case FgOffset:
		return DefaultFg
	case BgOffset:
		return DefaultBg
	}
	return Reset
}

// Grammar describes the byte ranges of the escape dialect. The engine
// speaks plain ANSI/VT; the ranges live in a value instead of package
// globals so the parser and renderer share one explicit configuration.
type Grammar struct {
	Intro   rune // escape introducer
	CSI     rune // control sequence introducer, following Intro
	ParamLo rune // parameter bytes: digits and separators
	ParamHi rune
	InterLo rune // intermediate bytes
	InterHi rune
	FinalLo rune // final bytes terminating a sequence
	FinalHi rune
}

// DefaultGrammar returns the standard ANSI/VT CSI grammar.
func DefaultGrammar() Grammar {
	return Grammar{
		Intro:   ESC,
		CSI:     '[',
		ParamLo: 0x30,
		ParamHi: 0x3f,
		InterLo: 0x20,
		InterHi: 0x2f,
		FinalLo: 0x40,
		FinalHi: 0x7e,
	}
}
