package transcoder

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/jpeg"
	"testing"
)

func TestJpegOrientation_NoExif(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 8, 8)), nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if o := jpegOrientation(buf.Bytes()); o != 0 {
		t.Errorf("got orientation %d; want 0 for a plain JPEG", o)
	}
}

func TestJpegOrientation_LittleEndian(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 8, 8)), nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	data := withExif(t, buf.Bytes(), 6)
	if o := jpegOrientation(data); o != 6 {
		t.Errorf("got orientation %d; want 6", o)
	}
}

func TestJpegOrientation_BigEndian(t *testing.T) {
	tiff := make([]byte, 0, 26)
	tiff = append(tiff, 'M', 'M', 0, 42)
	tiff = binary.BigEndian.AppendUint32(tiff, 8)
	tiff = binary.BigEndian.AppendUint16(tiff, 1)
	tiff = binary.BigEndian.AppendUint16(tiff, 0x0112)
	tiff = binary.BigEndian.AppendUint16(tiff, 3)
	tiff = binary.BigEndian.AppendUint32(tiff, 1)
	tiff = binary.BigEndian.AppendUint16(tiff, 8)
	tiff = append(tiff, 0, 0)
	tiff = binary.BigEndian.AppendUint32(tiff, 0)

	payload := append([]byte("Exif\x00\x00"), tiff...)
	seg := []byte{0xFF, 0xD8, 0xFF, 0xE1}
	seg = binary.BigEndian.AppendUint16(seg, uint16(len(payload)+2))
	seg = append(seg, payload...)
	// terminate with a bogus SOS so the walker stops cleanly
	seg = append(seg, 0xFF, 0xDA, 0x00, 0x02)

	if o := jpegOrientation(seg); o != 8 {
		t.Errorf("got orientation %d; want 8", o)
	}
}

func TestJpegOrientation_OutOfRangeValue(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 8, 8)), nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	data := withExif(t, buf.Bytes(), 9)
	if o := jpegOrientation(data); o != 0 {
		t.Errorf("got orientation %d; want 0 for an out-of-range tag", o)
	}
}

func TestJpegOrientation_NotAJpeg(t *testing.T) {
	if o := jpegOrientation([]byte("not a jpeg at all")); o != 0 {
		t.Errorf("got orientation %d; want 0", o)
	}
}
