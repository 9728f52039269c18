// Package reader implements the positioned, bounded byte source the
// event decoder consumes (spec.md §6.1). It knows nothing about binlog
// semantics — only how to buffer an io.Reader, track an absolute byte
// position, and enforce a read limit so an inner parser can never read
// past a caller-declared boundary (a query-event status block, a
// table-map metadata region, an event body).
package reader

import (
	"io"

	dberrors "github.com/dropbox/godropbox/errors"
)

// ErrShortRead is returned when the underlying source could not supply
// the requested number of bytes before EOF (spec.md §7 short_read).
var ErrShortRead = dberrors.New("reader: short read")

// Reader is a buffered, position-tracking wrapper over an io.Reader. A
// Reader may be Limited to a sub-region; reads past that sub-region's
// end fail with ErrShortRead without touching the underlying source
// beyond what the limit allows. Bounds nest: a Limited call inside an
// already-Limited region pushes a new, narrower bound, and Unlimit pops
// back to whatever bound (if any) was active before it — an outer bound
// is never lost to an inner one's lifetime (spec.md §1's nested
// end-offset sections: an event body containing a status-variable block
// containing, in turn, nothing narrower, but the table-map metadata
// region nests inside an event body the same way).
type Reader struct {
	src io.Reader
	buf []byte
	off int // unread data starts at buf[off]
	pos uint64

	// bounds is a stack of remaining-byte counts, one entry per active
	// Limited call, outermost first. The top of the stack is the bound
	// ReadN enforces; every entry is decremented on each read, since
	// consuming a byte shrinks every enclosing bound's remaining budget
	// at once, not just the innermost one.
	bounds []int64
}

// New wraps src for reading from absolute position startPos (the caller
// tracks file-level offsets; Reader itself only tracks relative advance
// from its own creation, exposed via Pos()).
func New(src io.Reader, startPos uint64) *Reader {
	return &Reader{src: src, pos: startPos}
}

// Pos returns the current absolute offset into the stream.
func (r *Reader) Pos() uint64 { return r.pos }

// Limited pushes a new bound of at most n further bytes onto r and
// returns r itself — it exists purely so callers can express "read at
// most n bytes here" without hand-tracking a byte countdown (used for
// query-event status blocks, table-map metadata regions, and whole
// event bodies). The new bound can only narrow whatever bound was
// already active, never widen it. A matching Unlimit call restores the
// previous bound; nesting Limited calls is the expected way to parse a
// sub-region within an already-bounded region.
func (r *Reader) Limited(n uint64) *Reader {
	newBound := int64(n)
	if len(r.bounds) > 0 {
		if outer := r.bounds[len(r.bounds)-1]; outer < newBound {
			newBound = outer
		}
	}
	r.bounds = append(r.bounds, newBound)
	return r
}

// Unlimit pops the bound installed by the most recent unmatched Limited
// call, restoring whichever bound (if any) was active before it.
// Callers that impose a temporary bound must call this exactly once the
// bounded region has been fully consumed.
func (r *Reader) Unlimit() {
	if len(r.bounds) == 0 {
		return
	}
	r.bounds = r.bounds[:len(r.bounds)-1]
}

// Remaining reports how many bytes are left before the current bound is
// exhausted. It is only meaningful after Limited has been called; for
// an unbounded Reader it returns 0.
func (r *Reader) Remaining() uint64 {
	if len(r.bounds) == 0 {
		return 0
	}
	return uint64(r.bounds[len(r.bounds)-1])
}

func (r *Reader) buffered() []byte { return r.buf[r.off:] }

func (r *Reader) fill(need int) error {
	for len(r.buffered()) < need {
		if r.off > 0 {
			copy(r.buf, r.buf[r.off:])
			r.buf = r.buf[:len(r.buf)-r.off]
			r.off = 0
		}
		if len(r.buf) == cap(r.buf) {
			grown := make([]byte, len(r.buf), cap(r.buf)+4096)
			copy(grown, r.buf)
			r.buf = grown
		}
		n, err := r.src.Read(r.buf[len(r.buf):cap(r.buf)])
		r.buf = r.buf[:len(r.buf)+n]
		if n == 0 {
			if err == nil {
				err = io.ErrNoProgress
			}
			return err
		}
	}
	return nil
}

// ReadN returns the next n bytes and advances the reader by n. It fails
// with ErrShortRead if fewer than n bytes are available before EOF, or
// if n exceeds the current bound.
func (r *Reader) ReadN(n int) ([]byte, error) {
	if n < 0 {
		return nil, dberrors.Newf("reader: negative read length %d", n)
	}
	if len(r.bounds) > 0 && int64(n) > r.bounds[len(r.bounds)-1] {
		return nil, dberrors.Wrap(ErrShortRead, "read exceeds bound")
	}
	if err := r.fill(n); err != nil {
		return nil, dberrors.Wrap(ErrShortRead, err.Error())
	}
	v := append([]byte(nil), r.buffered()[:n]...)
	r.off += n
	r.pos += uint64(n)
	for i := range r.bounds {
		r.bounds[i] -= int64(n)
	}
	return v, nil
}

// Skip advances n bytes without returning them.
func (r *Reader) Skip(n int) error {
	_, err := r.ReadN(n)
	return err
}

// Peek returns the next byte without consuming it.
func (r *Reader) Peek() (byte, error) {
	if len(r.bounds) > 0 && r.bounds[len(r.bounds)-1] < 1 {
		return 0, dberrors.Wrap(ErrShortRead, "peek exceeds bound")
	}
	if err := r.fill(1); err != nil {
		return 0, dberrors.Wrap(ErrShortRead, err.Error())
	}
	return r.buffered()[0], nil
}

// More reports whether at least one more byte is available within the
// current bound (or, if unbounded, before the underlying source's EOF).
func (r *Reader) More() bool {
	if len(r.bounds) > 0 {
		return r.bounds[len(r.bounds)-1] > 0
	}
	if len(r.buffered()) > 0 {
		return true
	}
	return r.fill(1) == nil
}

// Drain discards every remaining byte up to the current bound (or to
// EOF if unbounded), used to skip a body region this decoder chose not
// to parse.
func (r *Reader) Drain() error {
	for r.More() {
		avail := len(r.buffered())
		if avail == 0 {
			avail = 1
		}
		if len(r.bounds) > 0 && int64(avail) > r.bounds[len(r.bounds)-1] {
			avail = int(r.bounds[len(r.bounds)-1])
		}
		if err := r.Skip(avail); err != nil {
			return err
		}
	}
	return nil
}
