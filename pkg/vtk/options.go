// Package vtk writes weight windows as Visualization Toolkit files for
// plotting in ParaView or VisIt.
package vtk

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Format is the VTK file flavour.
type Format int

const (
	FormatXML Format = iota
	FormatLegacyASCII
	FormatLegacyBinary
)

var formatNames = map[Format]string{
	FormatXML:          "xml",
	FormatLegacyASCII:  "legacy-ascii",
	FormatLegacyBinary: "legacy-binary",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// ParseFormat accepts xml, legacy-ascii and legacy-binary.
func ParseFormat(s string) (Format, error) {
	for f, name := range formatNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown VTK format %q", s)
}

// Compressor is the block compressor for XML binary data.
type Compressor int

const (
	CompressorLZMA Compressor = iota
	CompressorLZ4
	CompressorZLib
	CompressorNone
)

var compressorNames = map[Compressor]string{
	CompressorLZMA: "lzma",
	CompressorLZ4:  "lz4",
	CompressorZLib: "zlib",
	CompressorNone: "none",
}

func (c Compressor) String() string {
	if s, ok := compressorNames[c]; ok {
		return s
	}
	return fmt.Sprintf("compressor(%d)", int(c))
}

// ParseCompressor accepts lzma, lz4, zlib and none.
func ParseCompressor(s string) (Compressor, error) {
	for c, name := range compressorNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown compressor %q", s)
}

// ByteOrder is the endianness of XML binary data. VisIt only reads big
// endian, so that is the default.
type ByteOrder int

const (
	BigEndian ByteOrder = iota
	LittleEndian
)

func (b ByteOrder) String() string {
	if b == LittleEndian {
		return "little-endian"
	}
	return "big-endian"
}

// ParseByteOrder accepts big-endian/little-endian and the short forms.
func ParseByteOrder(s string) (ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "big-endian", "big", "bigendian":
		return BigEndian, nil
	case "little-endian", "little", "littleendian":
		return LittleEndian, nil
	}
	return 0, fmt.Errorf("unknown byte order %q", s)
}

// endian is what the encoders need from encoding/binary.
type endian interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

func (b ByteOrder) order() endian {
	if b == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (b ByteOrder) xmlName() string {
	if b == LittleEndian {
		return "LittleEndian"
	}
	return "BigEndian"
}

// Options controls how a weight window is written.
type Options struct {
	Format     Format
	Compressor Compressor
	ByteOrder  ByteOrder
	// Resolution splits each theta bin of a cylindrical mesh into this many
	// straight segments. Zero is treated as one.
	Resolution uint8
	// Dir is the output directory, the working directory when empty.
	Dir string
}
