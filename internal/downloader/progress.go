package downloader

import "io"

// progressWriter reports the running byte count after every write.
type progressWriter struct {
	w  io.Writer
	n  int64
	fn func(done int64)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	if n > 0 {
		p.n += int64(n)
		if p.fn != nil {
			p.fn(p.n)
		}
	}

	return n, err
}

func copyWithProgress(dst io.Writer, src io.Reader, progress func(done int64)) (int64, error) {
	return io.CopyBuffer(&progressWriter{w: dst, fn: progress}, src, make([]byte, 32*1024))
}
