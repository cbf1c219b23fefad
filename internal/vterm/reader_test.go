package vterm_test

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellterm/internal/vterm"
)

func TestReaderDeliversPlainCharacters(t *testing.T) {
	r := vterm.NewReader(strings.NewReader("abc"), vterm.DefaultGrammar(), nil)
	r.Start()
	defer r.Stop()

	for _, want := range "abc" {
		ch, err := r.GetChar()
		require.NoError(t, err)
		assert.Equal(t, want, ch)
	}
}

func TestReaderStripsEscapeSequences(t *testing.T) {
	var escapes []capturedEscape
	r := vterm.NewReader(
		strings.NewReader("A\x1b[6;10RB"),
		vterm.DefaultGrammar(),
		func(params, code string) {
			escapes = append(escapes, capturedEscape{params, code})
		},
	)
	r.Start()
	defer r.Stop()

	ch, err := r.GetChar()
	require.NoError(t, err)
	assert.Equal(t, 'A', ch)

	ch, err = r.GetChar()
	require.NoError(t, err)
	assert.Equal(t, 'B', ch)

	// The sequence completed before B was delivered, so the callback
	// has already run by now.
	require.Len(t, escapes, 1)
	assert.Equal(t, capturedEscape{"6;10", "R"}, escapes[0])
}

func TestReaderGetLine(t *testing.T) {
	r := vterm.NewReader(strings.NewReader("hello\nworld\n"), vterm.DefaultGrammar(), nil)
	r.Start()
	defer r.Stop()

	line, err := r.GetLine()
	require.NoError(t, err)
	assert.Equal(t, "hello", line)

	line, err = r.GetLine()
	require.NoError(t, err)
	assert.Equal(t, "world", line)
}

func TestReaderNonBlockingRead(t *testing.T) {
	r := vterm.NewReader(strings.NewReader("abcdef"), vterm.DefaultGrammar(), nil)
	r.Start()
	defer r.Stop()

	var got string
	require.Eventually(t, func() bool {
		got += r.Read(2)
		return got == "abcdef"
	}, 2*time.Second, 10*time.Millisecond)

	// Buffer is drained; further reads return nothing.
	assert.Empty(t, r.Read(0))
}

func TestReaderStopUnblocksGetChar(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	r := vterm.NewReader(pr, vterm.DefaultGrammar(), nil)
	r.Start()

	errCh := make(chan error, 1)
	go func() {
		_, err := r.GetChar()
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	r.Stop()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, vterm.ErrReaderStopped)
	case <-time.After(2 * time.Second):
		t.Fatal("GetChar did not observe Stop")
	}
}

func TestReaderStopsOnEOF(t *testing.T) {
	r := vterm.NewReader(strings.NewReader(""), vterm.DefaultGrammar(), nil)
	r.Start()

	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("read loop did not exit on EOF")
	}

	_, err := r.GetChar()
	assert.ErrorIs(t, err, vterm.ErrReaderStopped)
}

func TestReaderBuffersSurviveStop(t *testing.T) {
	r := vterm.NewReader(strings.NewReader("xy"), vterm.DefaultGrammar(), nil)
	r.Start()

	<-r.Done()

	// Characters read before the loop exited are still delivered.
	ch, err := r.GetChar()
	require.NoError(t, err)
	assert.Equal(t, 'x', ch)

	ch, err = r.GetChar()
	require.NoError(t, err)
	assert.Equal(t, 'y', ch)

	_, err = r.GetChar()
	assert.ErrorIs(t, err, vterm.ErrReaderStopped)
}

func TestReaderSurfacesProtocolErrors(t *testing.T) {
	r := vterm.NewReader(strings.NewReader("\x1bXrest"), vterm.DefaultGrammar(), nil)
	r.Start()

	select {
	case err := <-r.Errs():
		var unsupported *vterm.UnsupportedEscapeError
		require.True(t, errors.As(err, &unsupported))
		assert.Equal(t, 'X', unsupported.Byte)
	case <-time.After(2 * time.Second):
		t.Fatal("protocol error was not surfaced")
	}

	// The error is fatal: the loop exits rather than resynchronize.
	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("read loop kept running after protocol error")
	}
}
