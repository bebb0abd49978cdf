package uploads

import (
	"bytes"
	"io"
	"mime/multipart"
)

// Candidate is an uploaded file waiting to be saved. Filename reports the
// client-supplied name and whether there is one; WriteTo streams the content.
type Candidate interface {
	Filename() (string, bool)
	io.WriterTo
}

// FromFileHeader adapts a multipart file header. A nil header yields a nil
// Candidate, which Save rejects with ErrInvalidInput.
func FromFileHeader(fh *multipart.FileHeader) Candidate {
	if fh == nil {
		return nil
	}
	return fileHeaderCandidate{fh: fh}
}

type fileHeaderCandidate struct {
	fh *multipart.FileHeader
}

func (c fileHeaderCandidate) Filename() (string, bool) {
	return c.fh.Filename, c.fh.Filename != ""
}

func (c fileHeaderCandidate) WriteTo(w io.Writer) (int64, error) {
	src, err := c.fh.Open()
	if err != nil {
		return 0, err
	}
	defer func() { _ = src.Close() }()
	return io.Copy(w, src)
}

// FromReader adapts a reader with a client-supplied filename. The reader is
// consumed by the first successful write.
func FromReader(filename string, r io.Reader) Candidate {
	if r == nil {
		return nil
	}
	return readerCandidate{filename: filename, r: r}
}

type readerCandidate struct {
	filename string
	r        io.Reader
}

func (c readerCandidate) Filename() (string, bool) {
	return c.filename, c.filename != ""
}

func (c readerCandidate) WriteTo(w io.Writer) (int64, error) {
	return io.Copy(w, c.r)
}

// FromBytes adapts in-memory content. It can be written any number of
// times, which makes it handy in tests.
func FromBytes(filename string, data []byte) Candidate {
	return bytesCandidate{filename: filename, data: data}
}

type bytesCandidate struct {
	filename string
	data     []byte
}

func (c bytesCandidate) Filename() (string, bool) {
	return c.filename, c.filename != ""
}

func (c bytesCandidate) WriteTo(w io.Writer) (int64, error) {
	return bytes.NewReader(c.data).WriteTo(w)
}
