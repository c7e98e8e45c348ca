package blueprint

import (
	"encoding/binary"
	"fmt"
	"io"
)

// magic identifies a blueprint artifact file; version guards against
// reading a file written by an incompatible layout of this package.
const (
	magic         = "PFBP"
	formatVersion = uint32(1)
)

// header is the fixed-width prefix of a blueprint file: the magic, the
// format version, and the fingerprint of the abstraction/training
// parameters the blueprint was built under. Load refuses to serve a file
// whose magic or version doesn't match, and callers are expected to refuse
// one whose fingerprint doesn't match their own configuration.
type header struct {
	Version              uint32
	ParameterFingerprint uint64
}

func writeHeader(w io.Writer, h header) error {
	if _, err := io.WriteString(w, magic); err != nil {
		return fmt.Errorf("blueprint: write magic: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, h.Version); err != nil {
		return fmt.Errorf("blueprint: write version: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, h.ParameterFingerprint); err != nil {
		return fmt.Errorf("blueprint: write parameter fingerprint: %w", err)
	}
	return nil
}

func readHeader(r io.Reader) (header, error) {
	var gotMagic [4]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return header{}, fmt.Errorf("blueprint: read magic: %w", err)
	}
	if string(gotMagic[:]) != magic {
		return header{}, fmt.Errorf("%w: got %q", ErrBadMagic, gotMagic[:])
	}
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h.Version); err != nil {
		return header{}, fmt.Errorf("blueprint: read version: %w", err)
	}
	if h.Version != formatVersion {
		return header{}, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, h.Version, formatVersion)
	}
	if err := binary.Read(r, binary.LittleEndian, &h.ParameterFingerprint); err != nil {
		return header{}, fmt.Errorf("blueprint: read parameter fingerprint: %w", err)
	}
	return h, nil
}

// writeSection writes payload prefixed with its length, so readSection can
// frame it without needing to know its decoded type.
func writeSection(w io.Writer, payload []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(len(payload))); err != nil {
		return fmt.Errorf("blueprint: write section length: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("blueprint: write section payload: %w", err)
	}
	return nil
}

func readSection(r io.Reader) ([]byte, error) {
	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("blueprint: read section length: %w", err)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("blueprint: read section payload: %w", err)
	}
	return buf, nil
}
