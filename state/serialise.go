// Package state implements the core's bulk snapshot/restore contract:
// a single gob stream carrying every mutable component's state, written
// and read back atomically. See spec §4.7.
package state

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Snapshotable is implemented by every stateful core component. Snapshot
// writes the component's fields to e in a fixed order; Restore reads them
// back in the same order. The order must never change within a version,
// since the stream carries no field names.
type Snapshotable interface {
	Snapshot(e *Encoder) error
	Restore(d *Decoder) error
}

// Encoder appends values to a single gob stream.
type Encoder struct {
	enc *gob.Encoder
}

// Decoder reads values off a single gob stream in the order they were
// written.
type Decoder struct {
	dec *gob.Decoder
}

func NewEncoder(buf *bytes.Buffer) *Encoder {
	return &Encoder{enc: gob.NewEncoder(buf)}
}

func NewDecoder(buf *bytes.Buffer) *Decoder {
	return &Decoder{dec: gob.NewDecoder(buf)}
}

// Encode writes each value in turn, recursing into Snapshotable values
// instead of gob-encoding them directly (gob cannot see unexported
// fields, which is how every component stores its state).
func (e *Encoder) Encode(values ...interface{}) error {
	for _, v := range values {
		if err := e.encodeOne(v); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeOne(v interface{}) error {
	if s, ok := v.(Snapshotable); ok {
		return s.Snapshot(e)
	}
	if list, ok := asSnapshotableSlice(v); ok {
		for _, s := range list {
			if err := s.Snapshot(e); err != nil {
				return err
			}
		}
		return nil
	}
	if err := e.enc.Encode(v); err != nil {
		return fmt.Errorf("state: encode %T: %w", v, err)
	}
	return nil
}

// Decode reads each destination pointer in turn, mirroring Encode.
func (d *Decoder) Decode(dests ...interface{}) error {
	for _, dst := range dests {
		if err := d.decodeOne(dst); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) decodeOne(dst interface{}) error {
	if s, ok := dst.(Snapshotable); ok {
		return s.Restore(d)
	}
	if list, ok := asSnapshotableSlice(dst); ok {
		for _, s := range list {
			if err := s.Restore(d); err != nil {
				return err
			}
		}
		return nil
	}
	if err := d.dec.Decode(dst); err != nil {
		return fmt.Errorf("state: decode %T: %w", dst, err)
	}
	return nil
}

// asSnapshotableSlice recognizes a []Snapshotable, which a caller builds
// to encode a group of components in order, standing in for the
// component-array handling the teacher's Serialiser did via reflection.
// Fixed-size arrays (e.g. [8]spriteUnit) are not recognized and go to gob
// as plain values.
func asSnapshotableSlice(v interface{}) ([]Snapshotable, bool) {
	list, ok := v.([]Snapshotable)
	return list, ok
}
