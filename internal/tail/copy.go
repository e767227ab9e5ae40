package tail

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"
)

// DefaultChunkSize is used by Copy when chunkSize is not positive.
const DefaultChunkSize = 32 * 1024

// Copy reads r to EOF in chunks of chunkSize bytes and writes each chunk to w,
// usually a *Writer. The context is checked between reads; a canceled context
// stops the copy with ctx.Err(). A failed or short write stops it too. Copy
// does not call Flush.
func Copy(ctx context.Context, w io.Writer, r io.Reader, chunkSize int) (int64, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	buf := make([]byte, chunkSize)

	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := r.Read(buf)
		if n > 0 {
			nw, werr := w.Write(buf[:n])
			total += int64(nw)
			if werr != nil {
				return total, werr
			}
			if nw != n {
				return total, io.ErrShortWrite
			}
			logrus.WithField("bytes", n).Trace("tail: chunk pushed")
		}
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}
