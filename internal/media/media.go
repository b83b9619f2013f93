// Package media turns user-selected files into base64 payloads that can be
// sent inline to a generative backend.
package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// chunkSize is the read granularity between cancellation and progress checks.
const chunkSize = 48 * 1024

// sniffLen is the number of leading bytes http.DetectContentType considers.
const sniffLen = 512

// ErrTooLarge is wrapped in an IOError when WithMaxBytes is exceeded.
var ErrTooLarge = errors.New("file exceeds size limit")

// Payload is an encoded file ready to be attached to a request.
type Payload struct {
	Data     string // standard base64, padded
	MIMEType string
	Name     string
	Size     int64 // decoded size in bytes
}

// Bytes decodes the payload back to raw bytes.
func (p Payload) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(p.Data)
}

// IOError reports a file that could not be opened or read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("read media: %v", e.Err)
	}
	return fmt.Sprintf("read media %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ProgressFunc receives the number of bytes encoded so far and the total
// size, or -1 when the total is unknown.
type ProgressFunc func(done, total int64)

type options struct {
	progress ProgressFunc
	maxBytes int64
	mimeType string
}

// Option configures an encode call.
type Option func(*options)

// WithProgress reports progress after every chunk.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) { o.progress = fn }
}

// WithMaxBytes rejects inputs larger than n bytes. Zero or negative means
// no limit, which is the default.
func WithMaxBytes(n int64) Option {
	return func(o *options) { o.maxBytes = n }
}

// WithMIMEType declares the content type instead of deriving it.
func WithMIMEType(mimeType string) Option {
	return func(o *options) { o.mimeType = mimeType }
}

// EncodeFile reads the file at path and returns its base64 payload. The
// content type is the declared one if given, else derived from the file
// extension, else sniffed from the content.
func EncodeFile(ctx context.Context, path string, opts ...Option) (Payload, error) {
	o := applyOptions(opts)

	f, err := os.Open(path)
	if err != nil {
		return Payload{}, &IOError{Path: path, Err: err}
	}
	defer f.Close()

	total := int64(-1)
	if info, err := f.Stat(); err == nil {
		if info.IsDir() {
			return Payload{}, &IOError{Path: path, Err: errors.New("is a directory")}
		}
		total = info.Size()
	}
	if o.maxBytes > 0 && total > o.maxBytes {
		return Payload{}, &IOError{Path: path, Err: ErrTooLarge}
	}

	if o.mimeType == "" {
		o.mimeType = typeByExtension(path)
	}

	p, err := encode(ctx, f, total, o)
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			ioErr.Path = path
		}
		return Payload{}, err
	}
	p.Name = filepath.Base(path)
	return p, nil
}

// Encode reads r to EOF and returns its base64 payload. An empty mimeType
// is sniffed from the content.
func Encode(ctx context.Context, r io.Reader, mimeType string, opts ...Option) (Payload, error) {
	o := applyOptions(opts)
	if mimeType != "" {
		o.mimeType = mimeType
	}
	return encode(ctx, r, -1, o)
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func encode(ctx context.Context, r io.Reader, total int64, o options) (Payload, error) {
	var (
		sb   strings.Builder
		head []byte
		done int64
	)
	if total > 0 {
		sb.Grow(base64.StdEncoding.EncodedLen(int(total)))
	}
	enc := base64.NewEncoder(base64.StdEncoding, &sb)
	buf := make([]byte, chunkSize)

	for {
		if err := ctx.Err(); err != nil {
			return Payload{}, err
		}

		n, err := io.ReadFull(r, buf)
		if n > 0 {
			if len(head) < sniffLen {
				need := min(sniffLen-len(head), n)
				head = append(head, buf[:need]...)
			}
			done += int64(n)
			if o.maxBytes > 0 && done > o.maxBytes {
				return Payload{}, &IOError{Err: ErrTooLarge}
			}
			// Writes to a strings.Builder cannot fail.
			enc.Write(buf[:n])
			if o.progress != nil {
				o.progress(done, total)
			}
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return Payload{}, &IOError{Err: err}
		}
	}
	enc.Close()

	mimeType := o.mimeType
	if mimeType == "" {
		mimeType = http.DetectContentType(head)
	}

	return Payload{
		Data:     sb.String(),
		MIMEType: mimeType,
		Size:     done,
	}, nil
}

// typeByExtension returns the registered type for path's extension without
// parameters, or "" if none is known.
func typeByExtension(path string) string {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if t == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		return mt
	}
	return t
}

// IsImage reports whether mimeType names an image format.
func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}
