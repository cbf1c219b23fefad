package vterm_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellterm/internal/vterm"
)

type capturedEscape struct {
	params string
	code   string
}

func feedAll(t *testing.T, p *vterm.Parser, input string) string {
	t.Helper()
	var out []rune
	for _, ch := range input {
		r, plain, err := p.Feed(ch)
		require.NoError(t, err)
		if plain {
			out = append(out, r)
		}
	}
	return string(out)
}

func TestParserPlainText(t *testing.T) {
	var escapes []capturedEscape
	p := vterm.NewParser(vterm.DefaultGrammar(), func(params, code string) {
		escapes = append(escapes, capturedEscape{params, code})
	})

	out := feedAll(t, p, "hello, world")
	assert.Equal(t, "hello, world", out)
	assert.Empty(t, escapes)
}

func TestParserCSISequence(t *testing.T) {
	var escapes []capturedEscape
	p := vterm.NewParser(vterm.DefaultGrammar(), func(params, code string) {
		escapes = append(escapes, capturedEscape{params, code})
	})

	out := feedAll(t, p, "\x1b[6;10R")
	assert.Empty(t, out)
	require.Len(t, escapes, 1)
	assert.Equal(t, capturedEscape{"6;10", "R"}, escapes[0])
}

func TestParserRoundTrip(t *testing.T) {
	var escapes []capturedEscape
	p := vterm.NewParser(vterm.DefaultGrammar(), func(params, code string) {
		escapes = append(escapes, capturedEscape{params, code})
	})

	out := feedAll(t, p, "ab\x1b[1mcd\x1b[2;3Hef\x1b[m")
	assert.Equal(t, "abcdef", out)
	assert.Equal(t, []capturedEscape{
		{"1", "m"},
		{"2;3", "H"},
		{"", "m"},
	}, escapes)
}

func TestParserIntermediateBytes(t *testing.T) {
	var escapes []capturedEscape
	p := vterm.NewParser(vterm.DefaultGrammar(), func(params, code string) {
		escapes = append(escapes, capturedEscape{params, code})
	})

	feedAll(t, p, "\x1b[1 q")
	require.Len(t, escapes, 1)
	assert.Equal(t, capturedEscape{"1", " q"}, escapes[0])
}

func TestParserResumesAcrossFeeds(t *testing.T) {
	var escapes []capturedEscape
	p := vterm.NewParser(vterm.DefaultGrammar(), func(params, code string) {
		escapes = append(escapes, capturedEscape{params, code})
	})

	// A sequence split over two arrivals must pick up where it left off.
	feedAll(t, p, "\x1b[6;1")
	assert.Empty(t, escapes)
	assert.NotEqual(t, vterm.StateGround, p.State())

	out := feedAll(t, p, "0Rx")
	assert.Equal(t, "x", out)
	require.Len(t, escapes, 1)
	assert.Equal(t, capturedEscape{"6;10", "R"}, escapes[0])
	assert.Equal(t, vterm.StateGround, p.State())
}

func TestParserRejectsNonCSIEscape(t *testing.T) {
	called := false
	p := vterm.NewParser(vterm.DefaultGrammar(), func(params, code string) {
		called = true
	})

	_, plain, err := p.Feed('\x1b')
	require.NoError(t, err)
	assert.False(t, plain)

	_, plain, err = p.Feed('X')
	require.Error(t, err)
	assert.False(t, plain)
	assert.False(t, called)

	var unsupported *vterm.UnsupportedEscapeError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, 'X', unsupported.Byte)
	assert.Equal(t, "vterm: unsupported escape ESC 05/08", err.Error())
}

func TestParserDefaultParams(t *testing.T) {
	var escapes []capturedEscape
	p := vterm.NewParser(vterm.DefaultGrammar(), func(params, code string) {
		escapes = append(escapes, capturedEscape{params, code})
	})

	feedAll(t, p, "\x1b[H")
	require.Len(t, escapes, 1)
	assert.Equal(t, capturedEscape{"", "H"}, escapes[0])
}
