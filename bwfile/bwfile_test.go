package bwfile

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bwimg/bitmap"
)

func mustImage(t *testing.T, size bitmap.Size, pix []byte) *bitmap.Image {
	t.Helper()
	img, err := bitmap.New(size, pix)
	require.NoError(t, err)
	return img
}

func TestEncodeSinglePixel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, mustImage(t, bitmap.Size{Width: 1, Height: 1}, []byte{0})))

	want := []byte{
		0x42, 0x57, 0x49, 0x4D,
		0x01, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
		0x00,
	}
	assert.Equal(t, want, buf.Bytes())

	img, err := Decode(bytes.NewReader(want))
	require.NoError(t, err)
	assert.Equal(t, bitmap.Size{Width: 1, Height: 1}, img.Size())
	assert.Equal(t, []byte{0}, img.Bytes())
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		size bitmap.Size
		pix  []byte
	}{
		{bitmap.Size{Width: 8, Height: 2}, []byte{0xFF, 0x0F}},
		{bitmap.Size{Width: 9, Height: 3}, []byte{0x80, 0x80, 0x12, 0x00, 0xFF, 0x80}},
		{bitmap.Size{Width: 300, Height: 1}, bytes.Repeat([]byte{0xA5}, 38)},
		{bitmap.Size{Width: 0x01020304, Height: 0}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.size.String(), func(t *testing.T) {
			img := mustImage(t, tt.size, tt.pix)

			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, img))
			assert.Equal(t, FrameLen(tt.size), uint64(buf.Len()))

			got, err := Decode(&buf)
			require.NoError(t, err)
			assert.True(t, img.Equal(got))
			assert.Zero(t, buf.Len())
		})
	}
}

func TestHeaderLittleEndian(t *testing.T) {
	b := AppendHeader(nil, bitmap.Size{Width: 0x01020304, Height: 0x0A0B0C0D})
	assert.Equal(t, []byte{
		'B', 'W', 'I', 'M',
		1, 0, 0, 0,
		0x04, 0x03, 0x02, 0x01,
		0x0D, 0x0C, 0x0B, 0x0A,
	}, b)

	size, ok, err := ParseHeader(bytes.NewReader(b))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, bitmap.Size{Width: 0x01020304, Height: 0x0A0B0C0D}, size)
}

func TestParseHeaderEOF(t *testing.T) {
	_, ok, err := ParseHeader(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.False(t, ok)

	img, err := Decode(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Nil(t, img)
}

func TestParseHeaderTruncated(t *testing.T) {
	header := AppendHeader(nil, bitmap.Size{Width: 1, Height: 1})

	for n := 1; n < HeaderLen; n++ {
		_, ok, err := ParseHeader(bytes.NewReader(header[:n]))
		assert.False(t, ok)
		require.Error(t, err, "%d bytes", n)
		assert.ErrorIs(t, err, ErrTruncatedHeader)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

		var herr *HeaderError
		assert.ErrorAs(t, err, &herr)
	}
}

func TestParseHeaderBadMagic(t *testing.T) {
	header := AppendHeader(nil, bitmap.Size{Width: 1, Height: 1})
	copy(header, "BWIX")

	_, ok, err := ParseHeader(bytes.NewReader(header))
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrBadMagic)
	assert.NotErrorIs(t, err, ErrBadVersion)
}

func TestParseHeaderBadVersion(t *testing.T) {
	header := AppendHeader(nil, bitmap.Size{Width: 1, Height: 1})
	header[4] = 2

	_, ok, err := ParseHeader(bytes.NewReader(header))
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrBadVersion)
	assert.NotErrorIs(t, err, ErrBadMagic)
}

type failingReader struct {
	err error
}

func (r failingReader) Read([]byte) (int, error) {
	return 0, r.err
}

func TestParseHeaderReadError(t *testing.T) {
	boom := errors.New("boom")

	for _, tt := range []struct {
		name string
		r    io.Reader
	}{
		{"first byte", failingReader{boom}},
		{"mid header", io.MultiReader(bytes.NewReader(Magic[:]), failingReader{boom})},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := ParseHeader(tt.r)
			assert.False(t, ok)
			assert.ErrorIs(t, err, boom)
			assert.ErrorIs(t, err, ErrReadHeader)
			assert.NotErrorIs(t, err, ErrTruncatedHeader)

			var herr *HeaderError
			require.ErrorAs(t, err, &herr)
			assert.Equal(t, ErrReadHeader, herr.Reason)
		})
	}
}

func TestParseBodyShort(t *testing.T) {
	_, err := ParseBody(bytes.NewReader([]byte{0xFF}), bitmap.Size{Width: 8, Height: 2})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = ParseBody(bytes.NewReader(nil), bitmap.Size{Width: 8, Height: 2})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestParseBodyTooLarge(t *testing.T) {
	_, err := ParseBody(bytes.NewReader(nil), bitmap.Size{Width: 0xFFFFFFFF, Height: 0xFFFFFFFF})
	assert.ErrorIs(t, err, ErrTooLarge)
}

type failingWriter struct {
	err error
}

func (w failingWriter) Write([]byte) (int, error) {
	return 0, w.err
}

func TestEncodeErrors(t *testing.T) {
	boom := errors.New("boom")
	img := mustImage(t, bitmap.Size{Width: 1, Height: 1}, []byte{0x80})

	err := Encode(failingWriter{boom}, img)
	assert.ErrorIs(t, err, boom)

	// bufio only hits the underlying writer on flush.
	err = Encode(bufio.NewWriter(failingWriter{boom}), img)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "flushing")
}
