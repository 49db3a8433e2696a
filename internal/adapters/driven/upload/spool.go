// Package upload spools uploaded documents to scoped temporary files.
package upload

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/custodia-labs/matn/internal/core/domain"
)

const tempPattern = "matn-upload-*"

// WithSpooledFile copies r into a temporary file in dir (os.TempDir if empty),
// rewinds it and passes it to fn. The file is closed and removed on every
// return path, including a panic in fn. Inputs larger than maxBytes fail with
// domain.ErrOversizedInput before fn is called; maxBytes <= 0 means no cap.
func WithSpooledFile(ctx context.Context, dir string, r io.Reader, maxBytes int64, fn func(f *os.File, size int64) error) (err error) {
	f, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = f.Close()
		if rmErr := os.Remove(f.Name()); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
			err = fmt.Errorf("remove temp file: %w", rmErr)
		}
	}()

	src := readerWithCtx(ctx, r)
	if maxBytes > 0 {
		src = io.LimitReader(src, maxBytes+1)
	}

	size, err := io.Copy(f, src)
	if err != nil {
		return fmt.Errorf("spool upload: %w", err)
	}
	if maxBytes > 0 && size > maxBytes {
		return fmt.Errorf("%w: more than %d bytes", domain.ErrOversizedInput, maxBytes)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind temp file: %w", err)
	}
	return fn(f, size)
}

// ReadDocument spools r and returns it as a RawDocument named filename.
func ReadDocument(ctx context.Context, dir, filename string, r io.Reader, maxBytes int64) (*domain.RawDocument, error) {
	var content []byte
	err := WithSpooledFile(ctx, dir, r, maxBytes, func(f *os.File, size int64) error {
		content = make([]byte, size)
		_, err := io.ReadFull(f, content)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &domain.RawDocument{Filename: filename, Content: content}, nil
}

// readerWithCtx checks ctx before every Read.
func readerWithCtx(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx: ctx, r: r}
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
