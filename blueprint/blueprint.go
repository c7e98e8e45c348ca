// Package blueprint persists a trained node table as a compact, read-only
// artifact and serves it at query time: a flat array of per-InfoSet
// strategy records addressed by a perfect-hash index from InfoSet
// fingerprint to record offset, replacing the teacher's JSON
// map[string][]float64 blueprint with the magic-header,
// parameter-fingerprint, length-prefixed-sections format spec.md §9 calls
// for.
package blueprint

import (
	"bufio"
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lox/pokerforbots/infoset"
)

// Record is one information set's trained average strategy, addressed by
// the fingerprint it was trained under.
type Record struct {
	Fingerprint uint64
	Strategy    []float64
}

// Blueprint is the persisted artifact a live player queries. It is
// immutable once built or loaded.
type Blueprint struct {
	parameterFingerprint uint64
	records              []Record
	idx                  *index
}

// Build compresses table into a Blueprint, addressing every visited
// InfoSet's average strategy by a perfect-hash index over its fingerprint.
// parameterFingerprint should uniquely identify the abstraction and
// training configuration table was trained under (see config.Fingerprint).
// Load does not check it; a caller compares ParameterFingerprint against
// its own configuration after loading.
func Build(table *infoset.Table, parameterFingerprint uint64) (*Blueprint, error) {
	var records []Record
	table.Each(func(fp uint64, node *infoset.Node) {
		records = append(records, Record{Fingerprint: fp, Strategy: node.AverageStrategy()})
	})

	if len(records) == 0 {
		// An empty table has nothing to index; Query/Hit already treat a
		// nil idx as an unconditional miss, and go-chd's builder isn't
		// meant to be frozen over zero keys.
		return &Blueprint{parameterFingerprint: parameterFingerprint}, nil
	}

	keys := make([]uint64, len(records))
	for i, r := range records {
		keys[i] = r.Fingerprint
	}
	idx, err := buildIndex(keys)
	if err != nil {
		return nil, err
	}
	return &Blueprint{parameterFingerprint: parameterFingerprint, records: records, idx: idx}, nil
}

// ParameterFingerprint returns the fingerprint this blueprint was built
// under.
func (bp *Blueprint) ParameterFingerprint() uint64 {
	return bp.parameterFingerprint
}

// Size returns the number of InfoSet records this blueprint holds.
func (bp *Blueprint) Size() int {
	return len(bp.records)
}

// Save writes bp to path as a magic-header, parameter-fingerprint,
// length-prefixed-sections file, via a temp-file-plus-rename so a crash
// mid-write never leaves a truncated blueprint in place of a previous good
// one.
func (bp *Blueprint) Save(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("blueprint: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once the rename below succeeds

	w := bufio.NewWriter(tmp)
	if err := writeHeader(w, header{Version: formatVersion, ParameterFingerprint: bp.parameterFingerprint}); err != nil {
		tmp.Close()
		return err
	}

	var idxBytes []byte
	if bp.idx != nil {
		idxBytes, err = bp.idx.marshal()
		if err != nil {
			tmp.Close()
			return err
		}
	}
	if err := writeSection(w, idxBytes); err != nil {
		tmp.Close()
		return err
	}

	var recBuf bytes.Buffer
	if err := gob.NewEncoder(&recBuf).Encode(bp.records); err != nil {
		tmp.Close()
		return fmt.Errorf("blueprint: encode records: %w", err)
	}
	if err := writeSection(w, recBuf.Bytes()); err != nil {
		tmp.Close()
		return err
	}

	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("blueprint: flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("blueprint: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("blueprint: persist file: %w", err)
	}
	return nil
}

// Load reads a blueprint file written by Save.
func Load(path string) (*Blueprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("blueprint: open: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	idxBytes, err := readSection(r)
	if err != nil {
		return nil, err
	}
	var idx *index
	if len(idxBytes) > 0 {
		idx, err = unmarshalIndex(idxBytes)
		if err != nil {
			return nil, err
		}
	}

	recBytes, err := readSection(r)
	if err != nil {
		return nil, err
	}
	var records []Record
	if err := gob.NewDecoder(bytes.NewReader(recBytes)).Decode(&records); err != nil {
		return nil, fmt.Errorf("blueprint: decode records: %w", err)
	}

	return &Blueprint{parameterFingerprint: h.ParameterFingerprint, records: records, idx: idx}, nil
}

// lookup returns the strategy recorded under fp, verifying the perfect-hash
// hit actually names fp (a miss can land on an arbitrary slot) and that the
// stored strategy has exactly actionCount entries, so a caller indexing it
// against a freshly-computed legal-action list never goes out of bounds.
func (bp *Blueprint) lookup(fp uint64, actionCount int) ([]float64, bool) {
	if bp.idx == nil || len(bp.records) == 0 {
		return nil, false
	}
	slot := bp.idx.find(fp)
	if int(slot) >= len(bp.records) {
		return nil, false
	}
	rec := bp.records[slot]
	if rec.Fingerprint != fp || len(rec.Strategy) != actionCount {
		return nil, false
	}
	return rec.Strategy, true
}
