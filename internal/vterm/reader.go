package vterm

import (
	"bufio"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

const (
	// How long a blocked GetChar waits before re-checking the running
	// flag. Timeouts here are a retry signal, never an error.
	waitTimeout = 1 * time.Second

	// Readiness poll interval of the read loop.
	pollTimeout = 250 * time.Millisecond
)

// Reader decodes terminal input on a background goroutine. Every unit
// read from the source goes through the escape parser; recognized
// escape sequences fire their callback on the reader goroutine, plain
// characters land in a FIFO that GetChar and GetLine block on.
type Reader struct {
	src    io.Reader
	file   *os.File // non-nil when the source supports readiness polling
	parser *Parser

	mu      sync.Mutex
	buf     []rune
	running bool

	notify chan struct{}
	errs   chan error
	done   chan struct{}
}

// NewReader wraps an input source. When src is an *os.File the read
// loop multiplexes on readiness so Stop is observed promptly even with
// no input arriving.
func NewReader(src io.Reader, grammar Grammar, callback EscapeFunc) *Reader {
	r := &Reader{
		src:    src,
		parser: NewParser(grammar, callback),
		notify: make(chan struct{}, 1),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
	}
	if f, ok := src.(*os.File); ok {
		r.file = f
	}
	return r
}

// Start launches the read loop. It must be called at most once per
// Reader.
func (r *Reader) Start() {
	r.mu.Lock()
	r.running = true
	r.mu.Unlock()
	go r.loop()
}

// Stop clears the running flag and wakes blocked readers. The loop
// exits at its next readiness check; an in-progress blocking read is
// not interrupted.
func (r *Reader) Stop() {
	r.mu.Lock()
	r.running = false
	r.mu.Unlock()
	r.pulse()
}

// Done is closed when the read loop has exited.
func (r *Reader) Done() <-chan struct{} {
	return r.done
}

// Errs delivers errors the read loop has no caller to return to:
// protocol errors from the parser and failed reads.
func (r *Reader) Errs() <-chan error {
	return r.errs
}

// Read removes and returns up to n buffered characters without
// blocking. n <= 0 drains the buffer.
func (r *Reader) Read(n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n <= 0 || n > len(r.buf) {
		n = len(r.buf)
	}
	s := string(r.buf[:n])
	r.buf = r.buf[:copy(r.buf, r.buf[n:])]
	return s
}

// GetChar blocks until one character is available and returns it.
// After Stop, any already-buffered characters are still delivered;
// once the buffer is empty it returns ErrReaderStopped.
func (r *Reader) GetChar() (rune, error) {
	for {
		if s := r.Read(1); s != "" {
			return []rune(s)[0], nil
		}
		if !r.isRunning() {
			return 0, ErrReaderStopped
		}
		select {
		case <-r.notify:
		case <-time.After(waitTimeout):
		}
	}
}

// GetLine blocks until a newline arrives and returns the accumulated
// text without the newline.
func (r *Reader) GetLine() (string, error) {
	var line []rune
	for {
		ch, err := r.GetChar()
		if err != nil {
			return string(line), err
		}
		if ch == '\n' {
			return string(line), nil
		}
		line = append(line, ch)
	}
}

func (r *Reader) isRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Reader) pulse() {
	select {
	case r.notify <- struct{}{}:
	default:
	}
}

func (r *Reader) fail(err error) {
	select {
	case r.errs <- err:
	default:
		log.Printf("vterm: reader error dropped: %v", err)
	}
}

func (r *Reader) loop() {
	defer close(r.done)
	defer r.Stop()

	br := bufio.NewReader(r.src)
	for r.isRunning() {
		if r.file != nil && br.Buffered() == 0 {
			ready, err := waitReadable(r.file, pollTimeout)
			if err != nil {
				r.fail(err)
				return
			}
			if !ready {
				continue
			}
		}
		ch, _, err := br.ReadRune()
		if err != nil {
			if err != io.EOF {
				r.fail(err)
			}
			return
		}
		// Feed the parser until it either emits a character or the
		// sequence completes. Escape bytes are drained back to back;
		// only plain characters trigger a buffer/notify cycle.
		for {
			out, plain, perr := r.parser.Feed(ch)
			if perr != nil {
				r.fail(perr)
				return
			}
			if plain {
				r.mu.Lock()
				r.buf = append(r.buf, out)
				r.mu.Unlock()
				r.pulse()
				break
			}
			if r.parser.State() == StateGround {
				break
			}
			ch, _, err = br.ReadRune()
			if err != nil {
				if err != io.EOF {
					r.fail(err)
				}
				return
			}
		}
	}
}
