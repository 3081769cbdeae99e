// Copyright 2026 The xmlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Input transcoding. The tokenizer consumes UTF-8; UTF-16 input is decoded
// up front, either whole-buffer or as a chunk-spanning source transform
// built on the x/text transcoder and its incomplete-sequence protocol.

package libxml

import (
	"errors"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding identifies the input byte encoding.
type Encoding int8

const (
	// Detect the encoding from a byte order mark.
	ANY_ENCODING Encoding = iota

	UTF8_ENCODING    // UTF-8, with or without BOM.
	UTF16LE_ENCODING // UTF-16 little endian.
	UTF16BE_ENCODING // UTF-16 big endian.
)

func (e Encoding) String() string {
	switch e {
	case ANY_ENCODING:
		return "auto"
	case UTF8_ENCODING:
		return "UTF-8"
	case UTF16LE_ENCODING:
		return "UTF-16LE"
	case UTF16BE_ENCODING:
		return "UTF-16BE"
	}
	return "unknown"
}

var (
	errInvalidUTF8   = errors.New("invalid UTF-8 sequence")
	errInvalidUTF16  = errors.New("invalid UTF-16 sequence")
	errIncompleteSeq = errors.New("incomplete character sequence at end of input")
)

// DetectEncoding sniffs a byte order mark and returns the detected encoding
// plus the BOM length to strip. Without a BOM the input is taken as UTF-8.
func DetectEncoding(in []byte) (Encoding, int) {
	switch {
	case len(in) >= 2 && in[0] == 0xFF && in[1] == 0xFE:
		return UTF16LE_ENCODING, 2
	case len(in) >= 2 && in[0] == 0xFE && in[1] == 0xFF:
		return UTF16BE_ENCODING, 2
	case len(in) >= 3 && in[0] == 0xEF && in[1] == 0xBB && in[2] == 0xBF:
		return UTF8_ENCODING, 3
	}
	return UTF8_ENCODING, 0
}

func utf16Decoder(enc Encoding) transform.Transformer {
	endian := unicode.LittleEndian
	if enc == UTF16BE_ENCODING {
		endian = unicode.BigEndian
	}
	return unicode.UTF16(endian, unicode.IgnoreBOM).NewDecoder()
}

// DecodeInput is the whole-buffer transcoding form: it strips any BOM,
// decodes UTF-16 input to UTF-8, validates UTF-8 input, and returns the
// decoded bytes along with the encoding that was applied.
//
// With ANY_ENCODING the encoding is BOM-detected; an explicit encoding
// bypasses detection (a matching BOM is still stripped).
func DecodeInput(in []byte, enc Encoding) ([]byte, Encoding, error) {
	if enc == ANY_ENCODING {
		var bomLen int
		enc, bomLen = DetectEncoding(in)
		in = in[bomLen:]
	} else if detected, bomLen := DetectEncoding(in); bomLen > 0 && detected == enc {
		in = in[bomLen:]
	}

	switch enc {
	case UTF8_ENCODING:
		if _, _, err := splitValidUTF8(in, true); err != nil {
			return nil, enc, err
		}
		return in, enc, nil
	case UTF16LE_ENCODING, UTF16BE_ENCODING:
		if len(in)%2 != 0 {
			return nil, enc, &EncodingError{Offset: len(in), Err: errIncompleteSeq}
		}
		out, _, err := transform.Bytes(utf16Decoder(enc), in)
		if err != nil {
			return nil, enc, &EncodingError{Err: errInvalidUTF16}
		}
		return out, enc, nil
	}
	return in, enc, nil
}

// splitValidUTF8 splits p into a valid UTF-8 prefix and a remainder that may
// be the start of a rune straddling a chunk boundary. With atEOF set, any
// remainder is an error.
func splitValidUTF8(p []byte, atEOF bool) (valid, rest []byte, err error) {
	n := len(p)
	if !atEOF {
		// Hold back a trailing incomplete rune, at most three bytes.
		for k := 1; k <= 3 && k <= len(p); k++ {
			b := p[len(p)-k]
			if b&0xC0 == 0x80 {
				continue // continuation byte, keep looking for the leader
			}
			if b < 0x80 {
				break // complete ASCII byte
			}
			var need int
			switch {
			case b&0xE0 == 0xC0:
				need = 2
			case b&0xF0 == 0xE0:
				need = 3
			case b&0xF8 == 0xF0:
				need = 4
			default:
				need = 1 // invalid leader; let validation reject it below
			}
			if need > k {
				n = len(p) - k
			}
			break
		}
	}
	if !utf8.Valid(p[:n]) {
		off := 0
		for off < n {
			r, size := utf8.DecodeRune(p[off:n])
			if r == utf8.RuneError && size <= 1 {
				break
			}
			off += size
		}
		return nil, nil, &EncodingError{Offset: off, Err: errInvalidUTF8}
	}
	if atEOF && n < len(p) {
		return nil, nil, &EncodingError{Offset: n, Err: errIncompleteSeq}
	}
	return p[:n], p[n:], nil
}

// decodeSource is the chunk-spanning transcoding form. Up to three unpaired
// bytes are carried forward when a multi-byte codepoint straddles a chunk
// boundary; the UTF-16 path relies on the transcoder's transform.ErrShortSrc
// protocol for the same purpose.
type decodeSource struct {
	src Source
	enc Encoding

	dec     transform.Transformer
	carry   []byte
	offset  int // consumed input bytes, for error reporting
	sniffed bool
	srcEOF  bool
	done    bool
}

// NewDecodeSource wraps src with streaming transcoding to UTF-8. With
// ANY_ENCODING the first bytes are sniffed for a BOM; explicit-encoding
// mode bypasses detection.
func NewDecodeSource(src Source, enc Encoding) Source {
	return &decodeSource{src: src, enc: enc}
}

// DetectedEncoding is available once the first chunk has been delivered.
func (d *decodeSource) DetectedEncoding() Encoding {
	return d.enc
}

func (d *decodeSource) NextChunk() ([]byte, error) {
	for {
		if d.done {
			return nil, io.EOF
		}

		if !d.srcEOF {
			chunk, err := d.src.NextChunk()
			if err == io.EOF {
				d.srcEOF = true
			} else if err != nil {
				return nil, err
			} else {
				d.carry = append(d.carry, chunk...)
			}
		}

		if !d.sniffed {
			// A BOM is at most three bytes; wait for them unless the
			// input ends first.
			if len(d.carry) < 3 && !d.srcEOF {
				continue
			}
			if err := d.sniff(); err != nil {
				return nil, err
			}
		}

		out, err := d.decodeCarry()
		if err != nil {
			return nil, err
		}
		if d.srcEOF {
			if len(d.carry) > 0 {
				return nil, &EncodingError{Offset: d.offset, Err: errIncompleteSeq}
			}
			d.done = true
		}
		if len(out) > 0 {
			return out, nil
		}
		if d.done {
			return nil, io.EOF
		}
	}
}

func (d *decodeSource) sniff() error {
	if d.enc == ANY_ENCODING {
		var bomLen int
		d.enc, bomLen = DetectEncoding(d.carry)
		d.carry = d.carry[bomLen:]
		d.offset += bomLen
	} else if detected, bomLen := DetectEncoding(d.carry); bomLen > 0 && detected == d.enc {
		d.carry = d.carry[bomLen:]
		d.offset += bomLen
	}
	if d.enc == UTF16LE_ENCODING || d.enc == UTF16BE_ENCODING {
		d.dec = utf16Decoder(d.enc)
	}
	d.sniffed = true
	return nil
}

func (d *decodeSource) decodeCarry() ([]byte, error) {
	if len(d.carry) == 0 {
		return nil, nil
	}

	if d.dec == nil {
		valid, rest, err := splitValidUTF8(d.carry, d.srcEOF)
		if err != nil {
			if ee, ok := err.(*EncodingError); ok {
				ee.Offset += d.offset
			}
			return nil, err
		}
		d.offset += len(valid)
		d.carry = append([]byte(nil), rest...)
		return valid, nil
	}

	if d.srcEOF && len(d.carry)%2 != 0 {
		return nil, &EncodingError{Offset: d.offset + len(d.carry), Err: errIncompleteSeq}
	}
	dst := make([]byte, 2*len(d.carry)+utf8.UTFMax)
	nDst, nSrc, err := d.dec.Transform(dst, d.carry, d.srcEOF)
	switch err {
	case nil, transform.ErrShortDst:
		// Leftover source bytes stay in the carry for the next round.
	case transform.ErrShortSrc:
		if d.srcEOF {
			return nil, &EncodingError{Offset: d.offset + nSrc, Err: errIncompleteSeq}
		}
	default:
		return nil, &EncodingError{Offset: d.offset + nSrc, Err: errInvalidUTF16}
	}
	d.offset += nSrc
	d.carry = append([]byte(nil), d.carry[nSrc:]...)
	return dst[:nDst], nil
}
