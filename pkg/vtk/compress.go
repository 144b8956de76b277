package vtk

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"fmt"

	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// blockSize matches VTK's default compression block size.
const blockSize = 1 << 15

func (c Compressor) xmlName() string {
	switch c {
	case CompressorLZMA:
		return "vtkLZMADataCompressor"
	case CompressorLZ4:
		return "vtkLZ4DataCompressor"
	case CompressorZLib:
		return "vtkZLibDataCompressor"
	}
	return ""
}

func (c Compressor) compress(block []byte) ([]byte, error) {
	switch c {
	case CompressorZLib:
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(block); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompressorLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(block)))
		var lc lz4.Compressor
		n, err := lc.CompressBlock(block, dst)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return lz4Literals(block), nil
		}
		return dst[:n], nil
	case CompressorLZMA:
		var buf bytes.Buffer
		xw, err := xz.WriterConfig{CheckSum: xz.CRC32}.NewWriter(&buf)
		if err != nil {
			return nil, err
		}
		if _, err := xw.Write(block); err != nil {
			return nil, err
		}
		if err := xw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("vtk: %s is not a block compressor", c)
}

// lz4Literals encodes src as a single literal-only LZ4 sequence, which is a
// valid block for data the compressor could not shrink.
func lz4Literals(src []byte) []byte {
	out := make([]byte, 0, len(src)+len(src)/255+16)
	n := len(src)
	if n < 15 {
		out = append(out, byte(n<<4))
	} else {
		out = append(out, 0xF0)
		rest := n - 15
		for rest >= 255 {
			out = append(out, 255)
			rest -= 255
		}
		out = append(out, byte(rest))
	}
	return append(out, src...)
}

// encodeBinary produces the inline base64 payload of an XML DataArray with a
// UInt64 header. Uncompressed data is "base64(nbytes + data)"; compressed data
// is "base64(header) base64(blocks)" where the header lists the block count,
// block size, last block size and every compressed block size.
func encodeBinary(data []byte, c Compressor, order endian) (string, error) {
	if c == CompressorNone {
		raw := order.AppendUint64(nil, uint64(len(data)))
		return base64.StdEncoding.EncodeToString(append(raw, data...)), nil
	}

	nblocks := (len(data) + blockSize - 1) / blockSize
	last := len(data) - (nblocks-1)*blockSize
	if nblocks == 0 {
		last = 0
	}
	header := make([]byte, 0, 8*(3+nblocks))
	header = order.AppendUint64(header, uint64(nblocks))
	header = order.AppendUint64(header, uint64(blockSize))
	header = order.AppendUint64(header, uint64(last))

	var body []byte
	for start := 0; start < len(data); start += blockSize {
		end := min(start+blockSize, len(data))
		z, err := c.compress(data[start:end])
		if err != nil {
			return "", err
		}
		header = order.AppendUint64(header, uint64(len(z)))
		body = append(body, z...)
	}
	return base64.StdEncoding.EncodeToString(header) + base64.StdEncoding.EncodeToString(body), nil
}
