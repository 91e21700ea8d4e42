package core

// streaming.go provides streaming readers that turn raw upload bytes into
// decodable text without loading the file into memory.
//
//   - NewDecodingReader: Sniffs the encoding and transcodes to UTF-8.
//     Handles UTF-8/UTF-16 byte order marks and falls back to Windows-1252,
//     which is what older ERP installations emit ("C\xf3digo" for "Código").
//   - CountingReader: Tracks raw bytes read for progress reporting.
//
// Decoding applies to CSV input only; xlsx containers are binary and are
// handed to the sheet reader untouched.

import (
	"bufio"
	"io"
	"sync/atomic"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// encodingSniffLen is how many bytes the detector inspects.
const encodingSniffLen = 4096

// NewDecodingReader wraps r so that reads produce valid UTF-8 regardless of
// the source encoding. Detection order:
//
//  1. A Unicode byte order mark wins: the BOM is stripped and UTF-16 input
//     is transcoded.
//  2. A sample that is valid UTF-8 passes through, with any later invalid
//     sequences replaced by U+FFFD.
//  3. Anything else is decoded as Windows-1252, under which every byte is
//     defined, so legacy exports never fail outright.
func NewDecodingReader(r io.Reader) io.Reader {
	br := bufio.NewReaderSize(r, encodingSniffLen)
	sample, _ := br.Peek(encodingSniffLen)
	return transform.NewReader(br, detectTransformer(sample))
}

func detectTransformer(sample []byte) transform.Transformer {
	if hasUnicodeBOM(sample) {
		// BOMOverride consumes the mark and switches to the matching
		// UTF-16 decoder when one is signalled.
		return unicode.BOMOverride(unicode.UTF8.NewDecoder())
	}
	if validUTF8Sample(sample) {
		return unicode.UTF8.NewDecoder()
	}
	return charmap.Windows1252.NewDecoder()
}

// hasUnicodeBOM reports a UTF-8, UTF-16LE, or UTF-16BE byte order mark.
func hasUnicodeBOM(sample []byte) bool {
	if len(sample) >= 3 && sample[0] == 0xEF && sample[1] == 0xBB && sample[2] == 0xBF {
		return true
	}
	if len(sample) >= 2 {
		if sample[0] == 0xFF && sample[1] == 0xFE {
			return true
		}
		if sample[0] == 0xFE && sample[1] == 0xFF {
			return true
		}
	}
	return false
}

// validUTF8Sample checks the sample for UTF-8 validity, tolerating a
// multi-byte sequence cut off at the sample boundary.
func validUTF8Sample(sample []byte) bool {
	if trailing := incompleteTrailingBytes(sample); trailing > 0 {
		sample = sample[:len(sample)-trailing]
	}
	return utf8.Valid(sample)
}

// incompleteTrailingBytes returns the number of bytes at the end of data
// that could be the start of an incomplete multi-byte UTF-8 sequence.
func incompleteTrailingBytes(data []byte) int {
	for i := 1; i <= 3 && i <= len(data); i++ {
		b := data[len(data)-i]
		if b >= 0xC0 {
			// This byte starts a sequence - check if complete
			if i < runeLen(b) {
				return i
			}
			return 0
		}
		// Continuation byte (10xxxxxx) - keep checking
		if b&0xC0 != 0x80 {
			return 0
		}
	}
	return 0
}

// runeLen returns the expected length of a UTF-8 sequence starting with byte b.
func runeLen(b byte) int {
	if b < 0x80 {
		return 1
	}
	if b < 0xC0 {
		return 0 // continuation byte
	}
	if b < 0xE0 {
		return 2
	}
	if b < 0xF0 {
		return 3
	}
	return 4
}

// CountingReader wraps an io.Reader to track bytes read.
// Used for progress reporting during streaming uploads. The count is
// updated atomically so a progress ticker can read it mid-parse.
type CountingReader struct {
	reader    io.Reader
	bytesRead atomic.Int64
	Total     int64 // If known (0 if unknown)
}

// NewCountingReader creates a counting reader with optional total size.
func NewCountingReader(r io.Reader, total int64) *CountingReader {
	return &CountingReader{
		reader: r,
		Total:  total,
	}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.bytesRead.Add(int64(n))
	return n, err
}

// BytesRead returns the number of bytes read so far.
func (r *CountingReader) BytesRead() int64 {
	return r.bytesRead.Load()
}

// Progress returns the read progress as a percentage (0-100).
// Returns 0 if total is unknown.
func (r *CountingReader) Progress() int {
	if r.Total <= 0 {
		return 0
	}
	pct := int(r.bytesRead.Load() * 100 / r.Total)
	if pct > 100 {
		pct = 100
	}
	return pct
}
