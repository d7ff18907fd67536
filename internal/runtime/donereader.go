package runtime

import (
	"io"
	"sync"
)

// Wraps an [io.Reader] and signals exhaustion.
//
// The eof channel is closed exactly once when the underlying reader first
// returns [io.EOF], so multiple goroutines can safely wait on it.
type eofReader struct {
	r    io.Reader
	once sync.Once
	eof  chan struct{}
}

func newEOFReader(r io.Reader) *eofReader {
	return &eofReader{r: r, eof: make(chan struct{})}
}

// Delegates to the underlying reader, closing the eof channel on the first
// [io.EOF]. Other errors pass through without closing the channel.
func (d *eofReader) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if err == io.EOF {
		d.once.Do(func() { close(d.eof) })
	}
	return n, err
}
