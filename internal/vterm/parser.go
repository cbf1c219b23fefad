package vterm

// ParserState identifies where the escape parser is inside a sequence.
type ParserState int

const (
	StateGround ParserState = iota
	StateEscape
	StateCSIParam
	StateCSIIntermediate
)

// EscapeFunc receives a completed CSI sequence: the raw parameter
// string (digits and separators) and the intermediate bytes plus final
// byte that identify the sequence.
type EscapeFunc func(params, code string)

// Parser recognizes CSI escape sequences in a character stream. It is
// fed one character at a time and carries its state across calls, so a
// sequence may arrive split over any number of reads. Plain characters
// pass through; sequence characters are consumed, and the callback
// fires once per completed sequence.
type Parser struct {
	grammar  Grammar
	callback EscapeFunc

	state  ParserState
	params []rune
	code   []rune
}

// NewParser creates a parser in the ground state.
func NewParser(grammar Grammar, callback EscapeFunc) *Parser {
	return &Parser{
		grammar:  grammar,
		callback: callback,
		state:    StateGround,
	}
}

// State returns the current parser state.
func (p *Parser) State() ParserState {
	return p.state
}

// Feed consumes one character. It returns the character and true when
// the character is plain output, or false when it was absorbed into an
// escape sequence. A non-CSI escape form is a fatal protocol error.
func (p *Parser) Feed(ch rune) (rune, bool, error) {
	switch p.state {
	case StateGround:
		if ch == p.grammar.Intro {
			p.state = StateEscape
			return 0, false, nil
		}
		return ch, true, nil

	case StateEscape:
		if ch == p.grammar.CSI {
			p.state = StateCSIParam
			p.params = p.params[:0]
			p.code = p.code[:0]
			return 0, false, nil
		}
		// Only CSI is understood. Swallowing an unknown sequence
		// would leave its body misread as data.
		p.state = StateGround
		return 0, false, &UnsupportedEscapeError{Byte: ch}

	case StateCSIParam:
		if ch >= p.grammar.ParamLo && ch <= p.grammar.ParamHi {
			p.params = append(p.params, ch)
			return 0, false, nil
		}
		p.state = StateCSIIntermediate
		fallthrough

	case StateCSIIntermediate:
		if ch >= p.grammar.InterLo && ch <= p.grammar.InterHi {
			p.code = append(p.code, ch)
			return 0, false, nil
		}
		// Final byte terminates the sequence.
		p.state = StateGround
		if p.callback != nil {
			p.callback(string(p.params), string(append(p.code, ch)))
		}
		return 0, false, nil
	}
	return ch, true, nil
}
