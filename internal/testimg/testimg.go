// BYZRA ⸻ internal/testimg/testimg.go
// image fixtures with hand-built EXIF blocks for tests

// Package testimg builds small images carrying EXIF metadata. It exists for
// tests only; nothing outside _test.go files imports it.
package testimg

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sort"
)

// IFD selects the directory an Entry lands in.
type IFD int

const (
	IFD0 IFD = iota
	ExifIFD
	GPSIFD
)

// TIFF field types used by the helpers
const (
	typeASCII     = 2
	typeShort     = 3
	typeLong      = 4
	typeRational  = 5
	typeUndefined = 7
	typeSRational = 10
)

// Entry is one raw IFD entry.
type Entry struct {
	IFD   IFD
	ID    uint16
	Type  uint16
	Count uint32
	Data  []byte
}

var le = binary.LittleEndian

func ASCII(ifd IFD, id uint16, s string) Entry {
	b := append([]byte(s), 0)
	return Entry{IFD: ifd, ID: id, Type: typeASCII, Count: uint32(len(b)), Data: b}
}

func Short(ifd IFD, id uint16, v uint16) Entry {
	b := make([]byte, 2)
	le.PutUint16(b, v)
	return Entry{IFD: ifd, ID: id, Type: typeShort, Count: 1, Data: b}
}

// Rational takes numerator/denominator pairs.
func Rational(ifd IFD, id uint16, pairs ...uint32) Entry {
	b := make([]byte, 4*len(pairs))
	for i, v := range pairs {
		le.PutUint32(b[4*i:], v)
	}
	return Entry{IFD: ifd, ID: id, Type: typeRational, Count: uint32(len(pairs) / 2), Data: b}
}

func SRational(ifd IFD, id uint16, num, den int32) Entry {
	b := make([]byte, 8)
	le.PutUint32(b, uint32(num))
	le.PutUint32(b[4:], uint32(den))
	return Entry{IFD: ifd, ID: id, Type: typeSRational, Count: 1, Data: b}
}

func Undefined(ifd IFD, id uint16, data []byte) Entry {
	return Entry{IFD: ifd, ID: id, Type: typeUndefined, Count: uint32(len(data)), Data: data}
}

// Camera is a typical set of entries: make/model, exposure, dates and a
// GPS fix at 40°42'46.08"N 74°0'21.6"W.
func Camera() []Entry {
	return []Entry{
		ASCII(IFD0, 0x010F, "Canon"),
		ASCII(IFD0, 0x0110, "Canon EOS 5D"),
		ASCII(IFD0, 0x0132, "2021:06:01 12:00:00"),
		Rational(ExifIFD, 0x829A, 1, 250),
		Rational(ExifIFD, 0x829D, 28, 10),
		Short(ExifIFD, 0x8827, 100),
		ASCII(ExifIFD, 0x9003, "2021:05:31 09:15:42"),
		Rational(ExifIFD, 0x920A, 50, 1),
		SRational(ExifIFD, 0x9204, 0, 1),
		Short(ExifIFD, 0x9209, 0x19),
		ASCII(GPSIFD, 0x0001, "N"),
		Rational(GPSIFD, 0x0002, 40, 1, 42, 1, 4608, 100),
		ASCII(GPSIFD, 0x0003, "W"),
		Rational(GPSIFD, 0x0004, 74, 1, 0, 1, 216, 10),
		Rational(GPSIFD, 0x0006, 10, 1),
	}
}

// TIFF serialises entries as a little-endian TIFF structure with IFD0 and
// optional Exif and GPS sub-IFDs.
func TIFF(entries []Entry) []byte {
	var dirs [3][]Entry
	for _, e := range entries {
		dirs[e.IFD] = append(dirs[e.IFD], e)
	}
	// pointer entries get their real offsets below
	if len(dirs[ExifIFD]) > 0 {
		dirs[IFD0] = append(dirs[IFD0], Entry{IFD: IFD0, ID: 0x8769, Type: typeLong, Count: 1, Data: make([]byte, 4)})
	}
	if len(dirs[GPSIFD]) > 0 {
		dirs[IFD0] = append(dirs[IFD0], Entry{IFD: IFD0, ID: 0x8825, Type: typeLong, Count: 1, Data: make([]byte, 4)})
	}
	for i := range dirs {
		sort.Slice(dirs[i], func(a, b int) bool { return dirs[i][a].ID < dirs[i][b].ID })
	}

	// layout: header, IFD0, Exif IFD, GPS IFD, then the out-of-line data
	offsets := [3]uint32{}
	next := uint32(8)
	for i, d := range dirs {
		if len(d) == 0 {
			continue
		}
		offsets[i] = next
		next += uint32(2 + 12*len(d) + 4)
	}
	dataStart := next

	for i, e := range dirs[IFD0] {
		switch e.ID {
		case 0x8769:
			le.PutUint32(dirs[IFD0][i].Data, offsets[ExifIFD])
		case 0x8825:
			le.PutUint32(dirs[IFD0][i].Data, offsets[GPSIFD])
		}
	}

	var head, data bytes.Buffer
	head.Write([]byte{'I', 'I', 42, 0})
	binary.Write(&head, le, uint32(8))
	for _, d := range dirs {
		if len(d) == 0 {
			continue
		}
		binary.Write(&head, le, uint16(len(d)))
		for _, e := range d {
			binary.Write(&head, le, e.ID)
			binary.Write(&head, le, e.Type)
			binary.Write(&head, le, e.Count)
			if len(e.Data) <= 4 {
				v := make([]byte, 4)
				copy(v, e.Data)
				head.Write(v)
				continue
			}
			binary.Write(&head, le, dataStart+uint32(data.Len()))
			data.Write(e.Data)
			if data.Len()%2 == 1 {
				data.WriteByte(0)
			}
		}
		binary.Write(&head, le, uint32(0))
	}
	head.Write(data.Bytes())
	return head.Bytes()
}

// APP1 wraps a TIFF block as a JPEG Exif segment.
func APP1(tiffData []byte) []byte {
	payload := append([]byte("Exif\x00\x00"), tiffData...)
	seg := []byte{0xFF, 0xE1, 0, 0}
	binary.BigEndian.PutUint16(seg[2:], uint16(len(payload)+2))
	return append(seg, payload...)
}

// Pattern is a w×h image with a gradient so encoders have something to do.
func Pattern(w, h int) *image.RGBA {
	im := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			im.Set(x, y, color.RGBA{R: uint8(x * 255 / max(w, 1)), G: uint8(y * 255 / max(h, 1)), B: 128, A: 255})
		}
	}
	return im
}

// JPEG encodes a w×h pattern and splices an Exif segment holding entries
// right after SOI. With no entries the plain JPEG is returned.
func JPEG(w, h int, entries ...Entry) []byte {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, Pattern(w, h), &jpeg.Options{Quality: 90}); err != nil {
		panic(err)
	}
	plain := buf.Bytes()
	if len(entries) == 0 {
		return plain
	}
	out := make([]byte, 0, len(plain)+512)
	out = append(out, plain[:2]...)
	out = append(out, APP1(TIFF(entries))...)
	out = append(out, plain[2:]...)
	return out
}

// PNG encodes a w×h pattern with a tEXt chunk after IHDR.
func PNG(w, h int, text string) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Pattern(w, h)); err != nil {
		panic(err)
	}
	plain := buf.Bytes()
	if text == "" {
		return plain
	}
	// signature (8) + IHDR chunk (4+4+13+4)
	const ihdrEnd = 8 + 25
	chunk := pngChunk("tEXt", append([]byte("Comment\x00"), text...))
	out := make([]byte, 0, len(plain)+len(chunk))
	out = append(out, plain[:ihdrEnd]...)
	out = append(out, chunk...)
	out = append(out, plain[ihdrEnd:]...)
	return out
}

func pngChunk(typ string, data []byte) []byte {
	b := make([]byte, 8, 12+len(data))
	binary.BigEndian.PutUint32(b, uint32(len(data)))
	copy(b[4:], typ)
	b = append(b, data...)
	crc := crc32.ChecksumIEEE(append([]byte(typ), data...))
	return binary.BigEndian.AppendUint32(b, crc)
}
