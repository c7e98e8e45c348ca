package blueprint

import "errors"

// ErrBadMagic is returned by Load when a file's leading bytes don't match
// this package's magic.
var ErrBadMagic = errors.New("blueprint: not a blueprint file")

// ErrUnsupportedVersion is returned by Load when a file's format version is
// not one this build of the package knows how to read.
var ErrUnsupportedVersion = errors.New("blueprint: unsupported format version")

// ErrUnknownInfoSet marks a query miss: the requested InfoSet is absent
// from this blueprint's index, or its fingerprint didn't match the slot
// the index pointed at. Query itself never returns this to its caller (it
// falls back per spec.md §7); it is exposed so the fallback path can be
// logged or counted by whoever wraps Query in a live-play loop.
var ErrUnknownInfoSet = errors.New("blueprint: infoset not present in this blueprint")
