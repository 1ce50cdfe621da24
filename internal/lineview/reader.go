package lineview

import (
	"bufio"
	"errors"
	"io"

	"github.com/starford/lineview/internal/parser"
)

type pending struct {
	position  int
	directive parser.Directive
}

// reader yields one positioned directive per call, replaying pushed-back
// directives before consuming new input. Positions are 1-based line numbers.
type reader struct {
	buf     *bufio.Reader
	closer  io.Closer
	pos     int
	eof     bool
	pending []pending // stack, next directive last
}

func newReader(rc io.ReadCloser) *reader {
	return &reader{buf: bufio.NewReader(rc), closer: rc}
}

// next returns the next directive. After the input is exhausted it keeps
// returning Close.
func (r *reader) next() (int, parser.Directive, error) {
	if n := len(r.pending); n > 0 {
		p := r.pending[n-1]
		r.pending = r.pending[:n-1]
		return p.position, p.directive, nil
	}

	if r.eof || r.buf == nil {
		return r.pos + 1, parser.Close(), nil
	}

	line, err := r.buf.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return r.pos + 1, parser.Noop(), err
		}
		r.eof = true
		if line == "" {
			return r.pos + 1, parser.Close(), nil
		}
	}

	r.pos++
	return r.pos, parser.Parse(line), nil
}

// pushBack queues ds so that the next calls return them in order, ahead of
// anything queued earlier.
func (r *reader) pushBack(position int, ds ...parser.Directive) {
	for i := len(ds) - 1; i >= 0; i-- {
		r.pending = append(r.pending, pending{position: position, directive: ds[i]})
	}
}

func (r *reader) close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}
