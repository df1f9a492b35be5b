package wire

import (
	"fmt"
	"slices"
)

// Message is a set of typed values keyed by 32-bit field keys.
//
// Each key maps to exactly one value; setting an existing key replaces its
// value. A message owns its values outright and shares nothing with other
// messages. The zero value is an empty message ready to use.
//
// A Message is not safe for concurrent mutation.
type Message struct {
	fields map[uint32]Value
}

// New returns an empty message.
func New() *Message {
	return &Message{fields: make(map[uint32]Value)}
}

// Set stores v under key, replacing any previous value.
// It rejects nil values and strings longer than MaxStringLength so that
// every stored message can be encoded.
func (m *Message) Set(key uint32, v Value) error {
	if v == nil {
		return fmt.Errorf("%w: key 0x%08x", ErrNilValue, key)
	}
	if s, ok := v.(String); ok && len(s) > MaxStringLength {
		return fmt.Errorf("%w: key 0x%08x holds %d bytes", ErrStringTooLong, key, len(s))
	}
	if m.fields == nil {
		m.fields = make(map[uint32]Value)
	}
	m.fields[key] = v
	return nil
}

// Get returns the value stored under key.
// It fails with ErrKeyNotFound if the message has no such field.
func (m *Message) Get(key uint32) (Value, error) {
	v, ok := m.fields[key]
	if !ok {
		return nil, fmt.Errorf("%w: 0x%08x", ErrKeyNotFound, key)
	}
	return v, nil
}

// Lookup returns the value stored under key and whether it was present.
func (m *Message) Lookup(key uint32) (Value, bool) {
	v, ok := m.fields[key]
	return v, ok
}

// Has returns true if the message holds a field for key.
func (m *Message) Has(key uint32) bool {
	_, ok := m.fields[key]
	return ok
}

// Delete removes the field for key, if present.
func (m *Message) Delete(key uint32) {
	delete(m.fields, key)
}

// Len returns the number of fields.
func (m *Message) Len() int {
	if m == nil {
		return 0
	}
	return len(m.fields)
}

// Keys returns the field keys in ascending order, the order used on the wire.
func (m *Message) Keys() []uint32 {
	keys := make([]uint32, 0, len(m.fields))
	for k := range m.fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Clone returns an independent copy of the message.
func (m *Message) Clone() *Message {
	c := &Message{fields: make(map[uint32]Value, len(m.fields))}
	for k, v := range m.fields {
		c.fields[k] = v
	}
	return c
}

// Equal returns true if both messages hold the same keys with equal values.
// A nil message equals any message with no fields.
func (m *Message) Equal(other *Message) bool {
	if m.Len() != other.Len() {
		return false
	}
	if m == nil || other == nil {
		return true
	}
	for k, v := range m.fields {
		ov, ok := other.fields[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// As returns the value stored under key as the concrete value type T.
// It fails with ErrKeyNotFound if the key is absent and ErrKindMismatch if
// the field holds a different kind.
func As[T Value](m *Message, key uint32) (T, error) {
	var zero T
	v, err := m.Get(key)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: key 0x%08x holds %s, want %T", ErrKindMismatch, key, v.Kind(), zero)
	}
	return t, nil
}
