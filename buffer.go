package jsonstream

// defaultCompactionThreshold is the read offset at which a buffer with no
// explicit override discards its already-consumed prefix.
const defaultCompactionThreshold = 1 << 20

// buffer is an append-only-with-compaction store of the raw input bytes
// absorbed so far. It grows by doubling and periodically shifts its
// contents toward index 0 so a long-running stream does not grow memory
// without bound. Consumers (the driver, the sync parser) hold their own
// read offsets and must rebase them using the delta returned by compact.
type buffer struct {
	data                []byte
	done                bool
	compactionThreshold int
	compactions         int
}

// newBuffer returns a buffer that compacts once a read offset reaches
// threshold bytes in. threshold <= 0 uses defaultCompactionThreshold.
func newBuffer(threshold int) *buffer {
	if threshold <= 0 {
		threshold = defaultCompactionThreshold
	}
	return &buffer{compactionThreshold: threshold}
}

// append copies b onto the end of the buffer, growing the backing array by
// doubling (or by exactly what's needed, if that's bigger) as necessary.
func (buf *buffer) append(b []byte) {
	need := len(buf.data) + len(b)
	if need > cap(buf.data) {
		newCap := cap(buf.data) * 2
		if newCap < need {
			newCap = need
		}
		grown := make([]byte, len(buf.data), newCap)
		copy(grown, buf.data)
		buf.data = grown
	}
	buf.data = append(buf.data, b...)
}

// at returns the byte at offset i interpreted as a single-byte character,
// along with ok=true. If i is not yet available, it returns ok=false
// (Suspend) rather than raising an error; the caller may retry once more
// input has been absorbed.
func (buf *buffer) at(i int) (byte, bool) {
	if i >= len(buf.data) {
		return 0, false
	}
	return buf.data[i], true
}

// byteAt is at's raw-byte counterpart, kept distinct from at for callers
// that want to be explicit about reading a byte rather than a character;
// since every structural and lexical JSON character is single-byte ASCII,
// both read the same data.
func (buf *buffer) byteAt(i int) (byte, bool) {
	return buf.at(i)
}

// slice returns the UTF-8 decoding of data[i:k]. It fails (ok=false,
// Suspend) if k exceeds the logical length. Callers must ensure i and k
// fall on UTF-8 code-point boundaries; slice does not validate this.
func (buf *buffer) slice(i, k int) (string, bool) {
	if k > len(buf.data) {
		return "", false
	}
	return string(buf.data[i:k]), true
}

// compact discards the first compactionThreshold bytes of the buffer once
// a caller-held read offset reaches that far in, and returns the rebased
// offset. If i has not yet reached the threshold, i is returned unchanged.
func (buf *buffer) compact(i int) int {
	if i < buf.compactionThreshold {
		return i
	}
	buf.data = append(buf.data[:0], buf.data[buf.compactionThreshold:]...)
	buf.compactions++
	return i - buf.compactionThreshold
}

// atEof reports whether i is at or past the logical end of the buffer and
// no more input will ever arrive.
func (buf *buffer) atEof(i int) bool {
	return buf.done && i >= len(buf.data)
}

// len returns the logical length of the buffer's contents.
func (buf *buffer) len() int {
	return len(buf.data)
}

// clone returns an independent copy of the buffer, used by Parser.Snapshot.
func (buf *buffer) clone() *buffer {
	data := make([]byte, len(buf.data))
	copy(data, buf.data)
	return &buffer{
		data:                data,
		done:                buf.done,
		compactionThreshold: buf.compactionThreshold,
		compactions:         buf.compactions,
	}
}
