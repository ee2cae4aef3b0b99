package stream

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	filetype "gopkg.in/h2non/filetype.v1"
	"gopkg.in/h2non/filetype.v1/matchers"

	"bwimg/bwfile"
)

var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4Magic  = []byte{0x04, 0x22, 0x4D, 0x18}
)

// sniffLen is how many bytes filetype wants to see.
const sniffLen = 262

// Detect guesses the compression of a stream from its first bytes.
// Raw deflate has no signature, so anything unrecognised is assumed to be deflate.
// The returned reader replays the sniffed bytes.
func Detect(r io.Reader) (Compression, io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, nil, err
	}

	switch {
	case len(head) == 0:
		return None, br, nil
	case bytes.HasPrefix(head, bwfile.Magic[:]):
		return None, br, nil
	case bytes.HasPrefix(head, zstdMagic):
		return Zstd, br, nil
	case bytes.HasPrefix(head, lz4Magic):
		return LZ4, br, nil
	}

	t, _ := filetype.Match(head)
	switch t {
	case matchers.TypeXz:
		return XZ, br, nil
	case matchers.TypeGz:
		return Gzip, br, nil
	}

	return Deflate, br, nil
}
