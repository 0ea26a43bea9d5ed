// Package storage is the sole gateway to host storage. It owns the
// key-composition rule and centralizes every call that crosses the host
// boundary, so a fake host can drive every collection's tests through
// exactly the same code path production uses.
package storage

import "github.com/chainkv/onchain-collections/errkind"

// The library-reserved separator bytes. Each is a single byte, so they are
// trivially prefix-free with respect to one another when appended directly
// after a caller prefix.
const (
	metaSuffix       byte = 0x00
	entrySeparator   byte = 0x01
	indexSuffix      byte = 0x02
	reverseIdxSuffix byte = 0x03
)

// Host is the only interface the collections library requires of the
// embedding runtime: read/write/remove/has over arbitrary byte keys. No
// ordering or iteration capability is required of the host; the library
// builds its own lazy iteration protocol on top.
type Host interface {
	// Read returns the stored value, or ok=false if absent.
	Read(key []byte) (value []byte, ok bool, err error)
	// Write overwrites any prior value and reports whether one was present.
	Write(key []byte, value []byte) (priorPresent bool, err error)
	// Remove deletes the key and reports whether one was present.
	Remove(key []byte) (priorPresent bool, err error)
	// Has reports whether the key is currently stored.
	Has(key []byte) (bool, error)
}

// Adapter is the only module in the library that calls Host. Every other
// package goes through an *Adapter.
type Adapter struct {
	host Host
}

// New wraps a Host in an Adapter.
func New(host Host) *Adapter {
	return &Adapter{host: host}
}

// Read reads raw bytes at a fully composed key.
func (a *Adapter) Read(key []byte) ([]byte, bool, error) {
	v, ok, err := a.host.Read(key)
	if err != nil {
		return nil, false, errkind.WrapKey(errkind.HostError, key, err)
	}
	return v, ok, nil
}

// Write writes raw bytes at a fully composed key.
func (a *Adapter) Write(key, value []byte) (bool, error) {
	prior, err := a.host.Write(key, value)
	if err != nil {
		return false, errkind.WrapKey(errkind.HostError, key, err)
	}
	return prior, nil
}

// Remove removes a fully composed key.
func (a *Adapter) Remove(key []byte) (bool, error) {
	prior, err := a.host.Remove(key)
	if err != nil {
		return false, errkind.WrapKey(errkind.HostError, key, err)
	}
	return prior, nil
}

// Has reports presence of a fully composed key.
func (a *Adapter) Has(key []byte) (bool, error) {
	ok, err := a.host.Has(key)
	if err != nil {
		return false, errkind.WrapKey(errkind.HostError, key, err)
	}
	return ok, nil
}

// Compose concatenates a prefix and a suffix into one full key. It never
// aliases the caller's prefix slice.
func Compose(prefix, suffix []byte) []byte {
	out := make([]byte, 0, len(prefix)+len(suffix))
	out = append(out, prefix...)
	out = append(out, suffix...)
	return out
}

// MetaKey returns the storage key for a collection's metadata header.
func MetaKey(prefix []byte) []byte {
	return Compose(prefix, []byte{metaSuffix})
}

// EntryKey returns the storage key for one entry, given its canonically
// encoded logical key (or fixed-width index, for a Sequence).
func EntryKey(prefix, encodedKey []byte) []byte {
	out := make([]byte, 0, len(prefix)+1+len(encodedKey))
	out = append(out, prefix...)
	out = append(out, entrySeparator)
	out = append(out, encodedKey...)
	return out
}

// IndexPrefix returns the child prefix under which the Key Index Sequence
// for an Iterable/Ordered collection lives.
func IndexPrefix(prefix []byte) []byte {
	return Compose(prefix, []byte{indexSuffix})
}

// ReverseIndexPrefix returns the child prefix under which an Iterable Map's
// optional key->position reverse index lives.
func ReverseIndexPrefix(prefix []byte) []byte {
	return Compose(prefix, []byte{reverseIdxSuffix})
}
