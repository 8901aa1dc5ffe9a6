// Package asmout renders compiled channel bitstreams into the two shapes
// this compiler exports: a single packed byte blob with a leading pointer
// table (one offset/length pair per channel), and — the TIAZIP export
// type's actual named output per spec.md §6 — one assembler text file per
// channel of `byte $xx,...` directives an external 6502 assembler ingests
// directly.
package asmout

import (
	"fmt"
	"strings"

	"github.com/musclesoft/tiazip/internal/bitstream"
)

// bytesPerLine mirrors the row width common 6502 cross-assemblers wrap
// `byte` directive listings at.
const bytesPerLine = 8

// entryBytes is the size of one pointer-table entry: 2 bytes offset, 2
// bytes length, both little-endian.
const entryBytes = 4

// Channel is the minimal shape Layout needs from a compiled channel: which
// (subsong, channel) it is and its packed bytes.
type Channel struct {
	Subsong int
	Channel int
	Bits    *bitstream.Bitstream
}

// Layout concatenates every channel's packed bytes after a pointer table
// sized for len(channels) entries, in the order channels is given (callers
// are expected to have already sorted it into canonical order).
func Layout(channels []Channel) []byte {
	headerLen := len(channels) * entryBytes
	total := headerLen
	for _, c := range channels {
		total += c.Bits.BytesUsed()
	}

	out := make([]byte, total)
	cursor := headerLen
	for i, c := range channels {
		payload := packedBytes(c.Bits)
		offset := cursor
		length := len(payload)

		entry := i * entryBytes
		out[entry] = byte(offset & 0xff)
		out[entry+1] = byte(offset >> 8)
		out[entry+2] = byte(length & 0xff)
		out[entry+3] = byte(length >> 8)

		copy(out[cursor:], payload)
		cursor += length
	}
	return out
}

// packedBytes reads every byte a Bitstream has written, without disturbing
// its cursor.
func packedBytes(b *bitstream.Bitstream) []byte {
	n := b.BytesUsed()
	out := make([]byte, n)
	saved := b.Position()
	b.Seek(0)
	for i := 0; i < n; i++ {
		out[i] = b.ReadByte()
	}
	b.Seek(saved)
	return out
}

// File is one named output the exporter hands back to its caller: a
// filename and the bytes to write there.
type File struct {
	Name  string
	Bytes []byte
}

// TrackDataName is the per-channel filename spec.md §6 names:
// "Track_data.asm", disambiguated per (subsong, channel).
func TrackDataName(subsong, channel int) string {
	return fmt.Sprintf("Track_data_s%d_c%d.asm", subsong, channel)
}

// RenderAssembly renders one channel's packed bytes as an assembler
// listing of `byte $xx,...` directives, bytesPerLine bytes to a line, with
// a leading label an external linker step can reference.
func RenderAssembly(c Channel) []byte {
	payload := packedBytes(c.Bits)
	var b strings.Builder
	fmt.Fprintf(&b, "; TIAZIP subsong %d channel %d, %d bytes\n", c.Subsong, c.Channel, len(payload))
	fmt.Fprintf(&b, "Track_data_s%d_c%d:\n", c.Subsong, c.Channel)
	for i := 0; i < len(payload); i += bytesPerLine {
		end := i + bytesPerLine
		if end > len(payload) {
			end = len(payload)
		}
		b.WriteString("\tbyte ")
		for j := i; j < end; j++ {
			if j > i {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "$%02x", payload[j])
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
