package id3v2

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/coverart/internal/imaging"
	"github.com/simonhull/coverart/internal/types"
)

// pngStub is a PNG signature with a few trailing bytes: enough for the
// sniffing decoder, deliberately not a decodable image.
func pngStub() []byte {
	return []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 1, 2, 3, 4}
}

func jpegStub() []byte {
	return []byte{0xFF, 0xD8, 0xFF, 0xE0, 9, 8, 7}
}

// syncsafe encodes v as an ID3v2 sync-safe integer.
func syncsafe(v uint32) []byte {
	return []byte{
		byte(v >> 21 & 0x7F),
		byte(v >> 14 & 0x7F),
		byte(v >> 7 & 0x7F),
		byte(v & 0x7F),
	}
}

// apicBody builds an APIC frame body: encoding, MIME, picture type,
// description, image data.
func apicBody(enc byte, mime string, desc, img []byte) []byte {
	buf := &bytes.Buffer{}
	buf.WriteByte(enc)
	buf.WriteString(mime)
	buf.WriteByte(0)
	buf.WriteByte(3) // picture type: front cover
	buf.Write(desc)
	buf.Write(img)
	return buf.Bytes()
}

// picBody builds a v2.2 PIC frame body: encoding, 3-byte format code,
// picture type, description, image data.
func picBody(img []byte) []byte {
	buf := &bytes.Buffer{}
	buf.WriteByte(0)
	buf.WriteString("PNG")
	buf.WriteByte(3)
	buf.WriteByte(0) // empty description
	buf.Write(img)
	return buf.Bytes()
}

// frame builds a v2.3/v2.4 frame (10-byte header) around body.
func frame(version byte, id string, body []byte) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString(id)
	if version == 4 {
		buf.Write(syncsafe(uint32(len(body))))
	} else {
		binary.Write(buf, binary.BigEndian, uint32(len(body)))
	}
	buf.Write([]byte{0, 0}) // frame flags
	buf.Write(body)
	return buf.Bytes()
}

// frameV22 builds a v2.2 frame (6-byte header) around body.
func frameV22(id string, body []byte) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString(id)
	n := len(body)
	buf.Write([]byte{byte(n >> 16), byte(n >> 8), byte(n)})
	buf.Write(body)
	return buf.Bytes()
}

// tag assembles a complete ID3v2 tag with optional padding.
func tag(version, flags byte, padding int, frames ...[]byte) []byte {
	content := &bytes.Buffer{}
	for _, f := range frames {
		content.Write(f)
	}
	content.Write(make([]byte, padding))

	buf := &bytes.Buffer{}
	buf.WriteString("ID3")
	buf.WriteByte(version)
	buf.WriteByte(0) // revision
	buf.WriteByte(flags)
	buf.Write(syncsafe(uint32(content.Len())))
	buf.Write(content.Bytes())
	return buf.Bytes()
}

func extract(t *testing.T, data []byte) ([]byte, bool) {
	t.Helper()

	cover, err := New().Extract(bytes.NewReader(data), int64(len(data)), "test.mp3", imaging.SniffDecoder{})
	require.NoError(t, err)
	if cover == nil {
		return nil, false
	}
	assert.Equal(t, "id3v2", cover.Source)
	return cover.Data, true
}

func TestExtract_NoTag(t *testing.T) {
	_, found := extract(t, []byte("MThd this is not an ID3 file at all, move along"))
	assert.False(t, found)
}

func TestExtract_V23APIC(t *testing.T) {
	img := pngStub()
	data := tag(3, 0, 64, frame(3, "APIC", apicBody(0, "image/png", []byte{0}, img)))

	got, found := extract(t, data)
	require.True(t, found)
	assert.Equal(t, img, got)
}

func TestExtract_V24SyncsafeFrameSize(t *testing.T) {
	// A body longer than 127 bytes makes a plain-BE size differ from the
	// sync-safe form, so a wrong decoder would misparse this tag.
	img := append(pngStub(), make([]byte, 200)...)
	data := tag(4, 0, 0, frame(4, "APIC", apicBody(0, "image/png", []byte{0}, img)))

	got, found := extract(t, data)
	require.True(t, found)
	assert.Equal(t, img, got)
}

func TestExtract_V22PIC(t *testing.T) {
	img := jpegStub()
	data := tag(2, 0, 16, frameV22("PIC", picBody(img)))

	got, found := extract(t, data)
	require.True(t, found)
	assert.Equal(t, img, got)
}

func TestExtract_SkipsNonPictureFrames(t *testing.T) {
	img := pngStub()
	title := frame(3, "TIT2", append([]byte{0}, []byte("Some Title")...))
	data := tag(3, 0, 0, title, frame(3, "APIC", apicBody(0, "image/png", []byte{0}, img)))

	got, found := extract(t, data)
	require.True(t, found)
	assert.Equal(t, img, got)
}

func TestExtract_FirstPictureFrameWins(t *testing.T) {
	first := pngStub()
	second := jpegStub()
	data := tag(3, 0, 0,
		frame(3, "APIC", apicBody(0, "image/png", []byte{0}, first)),
		frame(3, "APIC", apicBody(0, "image/jpeg", []byte{0}, second)),
	)

	got, found := extract(t, data)
	require.True(t, found)
	assert.Equal(t, first, got)
}

func TestExtract_RejectedPayloadContinuesScan(t *testing.T) {
	// The first picture frame carries bytes the decoder refuses; the scan
	// must move on and return the second one.
	good := pngStub()
	data := tag(3, 0, 0,
		frame(3, "APIC", apicBody(0, "image/png", []byte{0}, []byte("not an image"))),
		frame(3, "APIC", apicBody(0, "image/png", []byte{0}, good)),
	)

	got, found := extract(t, data)
	require.True(t, found)
	assert.Equal(t, good, got)
}

func TestExtract_OversizedFrameIsCorruption(t *testing.T) {
	// A frame declaring more bytes than the tag has left stops the scan
	// with a CorruptedFileError; the valid picture frame behind it is
	// never reached.
	lying := frame(3, "TIT2", []byte{0, 'x'})
	binary.BigEndian.PutUint32(lying[4:8], 1<<20)

	data := tag(3, 0, 0, lying, frame(3, "APIC", apicBody(0, "image/png", []byte{0}, pngStub())))

	cover, err := New().Extract(bytes.NewReader(data), int64(len(data)), "test.mp3", imaging.SniffDecoder{})
	assert.Nil(t, cover)

	var corrupted *types.CorruptedFileError
	require.ErrorAs(t, err, &corrupted)
	assert.Equal(t, "test.mp3", corrupted.Path)
	assert.Equal(t, int64(10), corrupted.Offset)
}

func TestExtract_PaddingStopsScan(t *testing.T) {
	// Padding before any picture frame: clean miss.
	data := tag(3, 0, 128)

	_, found := extract(t, data)
	assert.False(t, found)
}

func TestExtract_UTF16Description(t *testing.T) {
	img := pngStub()
	// UTF-16 with BOM: "ab" + double-byte terminator.
	desc := []byte{0xFF, 0xFE, 'a', 0, 'b', 0, 0, 0}
	data := tag(3, 0, 0, frame(3, "APIC", apicBody(1, "image/png", desc, img)))

	got, found := extract(t, data)
	require.True(t, found)
	assert.Equal(t, img, got)
}

func TestExtract_ExtendedHeader(t *testing.T) {
	img := pngStub()
	apic := frame(4, "APIC", apicBody(0, "image/png", []byte{0}, img))

	// 10-byte v2.4 extended header (sync-safe self-inclusive size).
	ext := append(syncsafe(10), make([]byte, 6)...)

	content := append(ext, apic...)
	buf := &bytes.Buffer{}
	buf.WriteString("ID3")
	buf.Write([]byte{4, 0, 0x40})
	buf.Write(syncsafe(uint32(len(content))))
	buf.Write(content)

	got, found := extract(t, buf.Bytes())
	require.True(t, found)
	assert.Equal(t, img, got)
}

func TestExtract_TagSizeCeiling(t *testing.T) {
	// Declared tag size above 32 MiB is rejected before any allocation.
	buf := &bytes.Buffer{}
	buf.WriteString("ID3")
	buf.Write([]byte{3, 0, 0})
	buf.Write(syncsafe(64 << 20))
	buf.Write(make([]byte, 256))

	_, found := extract(t, buf.Bytes())
	assert.False(t, found)
}

func TestExtract_TruncationNeverPanics(t *testing.T) {
	data := tag(3, 0, 0, frame(3, "APIC", apicBody(0, "image/png", []byte{0}, pngStub())))

	// The payload runs to the end of the file, so cutting anywhere before
	// the end must yield a clean miss, never a panic or an out-of-bounds
	// read.
	for cut := 0; cut < len(data); cut++ {
		cover, err := New().Extract(bytes.NewReader(data[:cut]), int64(cut), "test.mp3", imaging.SniffDecoder{})
		require.NoError(t, err, "cut at %d", cut)
		assert.Nil(t, cover, "cut at %d", cut)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	data := tag(3, 0, 32, frame(3, "APIC", apicBody(0, "image/png", []byte{0}, pngStub())))
	r := bytes.NewReader(data)

	first, err := New().Extract(r, int64(len(data)), "test.mp3", imaging.SniffDecoder{})
	require.NoError(t, err)
	second, err := New().Extract(r, int64(len(data)), "test.mp3", imaging.SniffDecoder{})
	require.NoError(t, err)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.Data, second.Data)
}
