// Package nsprefix is the Prefix Composer: a pure function that derives a
// child storage prefix from a parent prefix and a tag, for nesting one
// collection inside another (e.g. a per-user sub-collection).
package nsprefix

import "encoding/binary"

// childSeparator is reserved: no conforming caller-supplied prefix segment
// may rely on containing it immediately followed by a 2-byte length and
// matching that length's worth of trailing bytes, since Child always
// length-prefixes its tag.
const childSeparator = byte(0xFF)

// Child derives a new prefix from parent and tag. Two children of the same
// parent with different tag bytes always produce different prefixes
// (the tag is length-prefixed, so the composition is injective regardless
// of what bytes the tag contains), and the result is disjoint from the
// parent's own entry keys.
func Child(parent, tag []byte) []byte {
	out := make([]byte, 0, len(parent)+1+2+len(tag))
	out = append(out, parent...)
	out = append(out, childSeparator)
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(tag)))
	out = append(out, lenBuf[:]...)
	out = append(out, tag...)
	return out
}
