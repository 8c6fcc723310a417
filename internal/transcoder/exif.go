package transcoder

import "encoding/binary"

// jpegOrientation extracts the EXIF orientation tag (1-8) from a JPEG byte
// stream. It returns 0 when the stream is not a JPEG, carries no EXIF
// segment, or has no orientation tag. No third-party EXIF decoder is used:
// only one tag of IFD0 is needed, which is a short walk over the APP1 TIFF
// header.
func jpegOrientation(data []byte) int {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return 0
	}

	// walk the segment chain up to the scan data
	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			return 0
		}
		marker := data[i+1]
		if marker == 0xD8 || (marker >= 0xD0 && marker <= 0xD7) {
			// standalone markers carry no length
			i += 2
			continue
		}
		if marker == 0xDA {
			// start of scan: no APP1 past this point
			return 0
		}
		segLen := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
		if segLen < 2 || i+2+segLen > len(data) {
			return 0
		}
		if marker == 0xE1 {
			payload := data[i+4 : i+2+segLen]
			if o := exifOrientation(payload); o != 0 {
				return o
			}
		}
		i += 2 + segLen
	}
	return 0
}

// exifOrientation reads tag 0x0112 out of IFD0 of an "Exif\0\0" APP1 payload.
func exifOrientation(payload []byte) int {
	if len(payload) < 6+8 || string(payload[:6]) != "Exif\x00\x00" {
		return 0
	}
	tiff := payload[6:]

	var bo binary.ByteOrder
	switch string(tiff[:2]) {
	case "II":
		bo = binary.LittleEndian
	case "MM":
		bo = binary.BigEndian
	default:
		return 0
	}
	if bo.Uint16(tiff[2:4]) != 42 {
		return 0
	}

	ifdOff := int(bo.Uint32(tiff[4:8]))
	if ifdOff+2 > len(tiff) {
		return 0
	}
	count := int(bo.Uint16(tiff[ifdOff : ifdOff+2]))
	entries := tiff[ifdOff+2:]
	if count*12 > len(entries) {
		return 0
	}

	const tagOrientation = 0x0112
	const typeShort = 3
	for n := 0; n < count; n++ {
		e := entries[n*12 : n*12+12]
		if bo.Uint16(e[0:2]) != tagOrientation {
			continue
		}
		if bo.Uint16(e[2:4]) != typeShort || bo.Uint32(e[4:8]) != 1 {
			return 0
		}
		o := int(bo.Uint16(e[8:10]))
		if o < 1 || o > 8 {
			return 0
		}
		return o
	}
	return 0
}

// hasExif reports whether a JPEG byte stream still carries an EXIF APP1
// segment. Only used by tests to prove outputs are metadata-free.
func hasExif(data []byte) bool {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return false
	}
	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			return false
		}
		marker := data[i+1]
		if marker == 0xDA {
			return false
		}
		if marker >= 0xD0 && marker <= 0xD8 {
			i += 2
			continue
		}
		segLen := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
		if segLen < 2 || i+2+segLen > len(data) {
			return false
		}
		if marker == 0xE1 && segLen >= 8 && string(data[i+4:i+10]) == "Exif\x00\x00" {
			return true
		}
		i += 2 + segLen
	}
	return false
}
