package preview

import (
	"bytes"
	"sync"
	"sync/atomic"
)

var bufferPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	buf.Reset()
	bufferPool.Put(buf)
}

// Preview is one rendered preview. Its bytes belong to a pooled buffer that
// is returned to the pool when the last reference is released.
type Preview struct {
	Generation uint64
	buf        *bytes.Buffer
	refs       atomic.Int32
	onFree     func()
}

func newPreview(gen uint64, buf *bytes.Buffer, onFree func()) *Preview {
	p := &Preview{Generation: gen, buf: buf, onFree: onFree}
	p.refs.Store(1)
	return p
}

// Bytes returns the rendered document. The slice is valid until Release.
func (p *Preview) Bytes() []byte {
	return p.buf.Bytes()
}

func (p *Preview) acquire() *Preview {
	p.refs.Add(1)
	return p
}

// Release drops one reference. Calling it more often than the preview was
// acquired panics.
func (p *Preview) Release() {
	switch n := p.refs.Add(-1); {
	case n == 0:
		buf := p.buf
		p.buf = nil
		putBuffer(buf)
		if p.onFree != nil {
			p.onFree()
		}
	case n < 0:
		panic("preview: Release called on a released preview")
	}
}
