package training

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MarshalJSON writes the store as nested objects keyed by day, exercise, and
// set index, keeping store order.
func (s Store) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range s.days {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, d.name); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, e := range d.exercises {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, e.name); err != nil {
				return nil, err
			}
			buf.WriteByte('{')
			first := true
			for idx, set := range e.sets {
				if set == nil {
					continue
				}
				if !first {
					buf.WriteByte(',')
				}
				first = false
				if err := writeKey(&buf, strconv.Itoa(idx)); err != nil {
					return nil, err
				}
				rec, err := json.Marshal(set)
				if err != nil {
					return nil, err
				}
				buf.Write(rec)
			}
			buf.WriteByte('}')
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the nested object form produced by MarshalJSON. Day and
// exercise order follows the document; a repeated key keeps its first position
// and its last value.
func (s *Store) UnmarshalJSON(data []byte) error {
	var out Store
	err := decodeObject(data, func(day string, dayRaw json.RawMessage) error {
		d := &dayLog{name: day}
		err := decodeObject(dayRaw, func(exercise string, setsRaw json.RawMessage) error {
			var sets map[string]SetRecord
			if err := json.Unmarshal(setsRaw, &sets); err != nil {
				return fmt.Errorf("decode sets of %s/%s: %w", day, exercise, err)
			}
			e := &exerciseLog{name: exercise}
			for key, rec := range sets {
				idx, err := strconv.Atoi(key)
				if err != nil || idx < 0 || idx >= SetsPerExercise || strconv.Itoa(idx) != key {
					return fmt.Errorf("%w: set %q of %s/%s", ErrInvalidKey, key, day, exercise)
				}
				e.sets[idx] = &rec
			}
			if i := indexOfExercise(d.exercises, exercise); i >= 0 {
				d.exercises[i] = e
				return nil
			}
			d.exercises = append(d.exercises, e)
			return nil
		})
		if err != nil {
			return err
		}
		if i := out.dayIndex(day); i >= 0 {
			out.days[i] = d
			return nil
		}
		out.days = append(out.days, d)
		return nil
	})
	if err != nil {
		return err
	}
	*s = out
	return nil
}

// Encode serializes a store for the logs slot.
func Encode(s Store) ([]byte, error) {
	return json.Marshal(s)
}

// Decode validates and parses a logs slot. Blank input is an empty store, as
// is the case before anything was ever saved. Anything that is not a
// well-formed log wraps ErrStorageCorrupt.
func Decode(data []byte) (Store, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Store{}, nil
	}
	if err := Validate(data); err != nil {
		return Store{}, fmt.Errorf("%w: %w", ErrStorageCorrupt, err)
	}

	var s Store
	if err := json.Unmarshal(data, &s); err != nil {
		return Store{}, fmt.Errorf("%w: %w", ErrStorageCorrupt, err)
	}
	return s, nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	encoded, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(encoded)
	buf.WriteByte(':')
	return nil
}

// decodeObject walks the members of a JSON object in document order.
func decodeObject(data []byte, fn func(key string, value json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}

	_, err = dec.Token()
	return err
}
