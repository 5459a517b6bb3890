package logbox

import (
	"encoding/binary"
	"errors"
	"hash/crc32"

	"github.com/liinahamari/Loggy/internal/entry"
	"github.com/liinahamari/Loggy/pkg/id"
)

// Record encoding: varint headerLen | header | payload | crc32c(header|payload)
//
// header:  ts(8B BE) | priority(1B) | flags(1B: titled, clipped)
// payload: uvarint len | title | uvarint len | body | uvarint len | thread

const (
	headerLen = 10

	flagTitled  byte = 1 << 0
	flagClipped byte = 1 << 1
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

var errCorrupt = errors.New("logbox: corrupt record")

// EncodeRecord serializes the stored fields of e. The ID lives in the key.
func EncodeRecord(e entry.Entry) []byte {
	var header [headerLen]byte
	binary.BigEndian.PutUint64(header[0:8], uint64(e.Timestamp))
	header[8] = byte(e.Priority)
	if e.HasTitle() {
		header[9] |= flagTitled
	}
	if e.Clipped {
		header[9] |= flagClipped
	}

	payload := make([]byte, 0, len(e.Title)+len(e.Body)+len(e.Thread)+3*binary.MaxVarintLen32)
	payload = appendString(payload, e.Title)
	payload = appendString(payload, e.Body)
	payload = appendString(payload, e.Thread)

	out := make([]byte, 0, 1+headerLen+len(payload)+4)
	out = binary.AppendUvarint(out, headerLen)
	out = append(out, header[:]...)
	out = append(out, payload...)

	crc := crc32.Update(0, castagnoli, header[:])
	crc = crc32.Update(crc, castagnoli, payload)
	return binary.BigEndian.AppendUint32(out, crc)
}

// DecodeRecord rebuilds the entry stored under entryID.
func DecodeRecord(entryID id.ID, b []byte) (entry.Entry, error) {
	if len(b) < 1+headerLen+4 {
		return entry.Entry{}, errCorrupt
	}
	hlen, n := binary.Uvarint(b)
	if n <= 0 || hlen < headerLen || n+int(hlen)+4 > len(b) {
		return entry.Entry{}, errCorrupt
	}
	header := b[n : n+int(hlen)]
	payload := b[n+int(hlen) : len(b)-4]
	expect := binary.BigEndian.Uint32(b[len(b)-4:])
	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	if crc != expect {
		return entry.Entry{}, errCorrupt
	}

	p := entry.Priority(header[8])
	if !p.Valid() {
		return entry.Entry{}, errCorrupt
	}
	e := entry.Entry{
		ID:        entryID,
		Timestamp: int64(binary.BigEndian.Uint64(header[0:8])),
		Priority:  p,
	}
	var ok bool
	if e.Title, payload, ok = readString(payload); !ok {
		return entry.Entry{}, errCorrupt
	}
	if e.Body, payload, ok = readString(payload); !ok {
		return entry.Entry{}, errCorrupt
	}
	if e.Thread, _, ok = readString(payload); !ok {
		return entry.Entry{}, errCorrupt
	}
	if header[9]&flagTitled == 0 {
		e.Title = ""
	}
	e.Clipped = header[9]&flagClipped != 0
	return e, nil
}

func appendString(dst []byte, s string) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(s)))
	return append(dst, s...)
}

func readString(b []byte) (string, []byte, bool) {
	l, n := binary.Uvarint(b)
	if n <= 0 || uint64(len(b)-n) < l {
		return "", nil, false
	}
	end := n + int(l)
	return string(b[n:end]), b[end:], true
}
