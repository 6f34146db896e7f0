package vars

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
	"sort"
)

var (
	// ErrInvalidInput is returned when a source cannot be read as key/value
	// pairs.
	ErrInvalidInput = errors.New("vars: input must be a mapping or an iterable of pairs")
	// ErrUndefinedKey is returned by Get when the name was never set.
	ErrUndefinedKey = errors.New("vars: undefined key")
)

// Pair is a single name/value entry. A []Pair keeps caller order when passed
// to Assign.
type Pair struct {
	Key   string
	Value any
}

// Store is an ordered name-to-value container. Lookups are by key; iteration
// follows first-insertion order and re-assigning a key keeps its position.
//
// A Store is not safe for concurrent use. Views that share a Store (layouts and
// partials) observe each other's mutations.
type Store struct {
	keys   []string
	values map[string]any
}

// New returns an empty store.
func New() *Store {
	return &Store{values: make(map[string]any)}
}

// FromMap builds a store seeded from the provided map in sorted key order.
func FromMap(values map[string]any) *Store {
	s := New()
	_ = s.Assign(values)
	return s
}

func (s *Store) init() {
	if s.values == nil {
		s.values = make(map[string]any)
	}
}

// Get returns the stored value or ErrUndefinedKey.
func (s *Store) Get(name string) (any, error) {
	value, ok := s.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUndefinedKey, name)
	}
	return value, nil
}

// Lookup returns the stored value and whether the key exists.
func (s *Store) Lookup(name string) (any, bool) {
	if s == nil || s.values == nil {
		return nil, false
	}
	value, ok := s.values[name]
	return value, ok
}

// Set stores value under name, replacing any previous value.
func (s *Store) Set(name string, value any) {
	s.init()
	if _, exists := s.values[name]; !exists {
		s.keys = append(s.keys, name)
	}
	s.values[name] = value
}

// Has reports whether name holds a non-nil value.
func (s *Store) Has(name string) bool {
	value, ok := s.Lookup(name)
	return ok && value != nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Assign copies every pair from source into the store, overwriting existing
// keys. Accepted sources are *Store, []Pair, iter.Seq2[string, any] and maps
// with string keys. Plain maps are merged in sorted key order.
func (s *Store) Assign(source any) error {
	pairs, ok := PairsOf(source)
	if !ok {
		return fmt.Errorf("%w (got %T)", ErrInvalidInput, source)
	}
	s.init()
	for _, pair := range pairs {
		s.Set(pair.Key, pair.Value)
	}
	return nil
}

// Append concatenates values after the current value of name.
func (s *Store) Append(name string, values any) {
	s.init()
	incoming := ToSlice(values)
	if !s.Has(name) {
		s.Set(name, incoming)
		return
	}
	existing := ToSlice(s.values[name])
	merged := make([]any, 0, len(existing)+len(incoming))
	merged = append(merged, existing...)
	merged = append(merged, incoming...)
	s.Set(name, merged)
}

// Prepend concatenates values before the current value of name.
func (s *Store) Prepend(name string, values any) {
	s.init()
	incoming := ToSlice(values)
	if !s.Has(name) {
		s.Set(name, incoming)
		return
	}
	existing := ToSlice(s.values[name])
	merged := make([]any, 0, len(existing)+len(incoming))
	merged = append(merged, incoming...)
	merged = append(merged, existing...)
	s.Set(name, merged)
}

// ToMap returns a copy of the stored values.
func (s *Store) ToMap() map[string]any {
	out := make(map[string]any, s.Len())
	if s == nil {
		return out
	}
	for _, key := range s.keys {
		out[key] = s.values[key]
	}
	return out
}

// Keys returns the stored keys in insertion order.
func (s *Store) Keys() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.keys...)
}

// Pairs returns an ordered snapshot of the store.
func (s *Store) Pairs() []Pair {
	if s == nil {
		return nil
	}
	out := make([]Pair, 0, len(s.keys))
	for _, key := range s.keys {
		out = append(out, Pair{Key: key, Value: s.values[key]})
	}
	return out
}

// All yields the stored pairs in insertion order. Each call walks the keys
// present when iteration starts.
func (s *Store) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, key := range s.Keys() {
			value, ok := s.Lookup(key)
			if !ok {
				continue
			}
			if !yield(key, value) {
				return
			}
		}
	}
}

// Clone returns an independent copy. Values are copied shallowly.
func (s *Store) Clone() *Store {
	out := New()
	for _, pair := range s.Pairs() {
		out.Set(pair.Key, pair.Value)
	}
	return out
}

// ToSlice coerces value to a sequence: nil is empty, slices and arrays yield
// their elements and everything else becomes a single element.
func ToSlice(value any) []any {
	if value == nil {
		return []any{}
	}
	switch v := value.(type) {
	case []any:
		return append([]any(nil), v...)
	case []byte, string:
		return []any{v}
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any{}
		}
		out := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, rv.Index(i).Interface())
		}
		return out
	default:
		return []any{value}
	}
}

// IsSequence reports whether value is a slice or array, excluding byte
// slices.
func IsSequence(value any) bool {
	if value == nil {
		return false
	}
	if _, ok := value.([]byte); ok {
		return false
	}
	kind := reflect.TypeOf(value).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

// PairsOf extracts ordered pairs from any mapping shape Assign accepts. The
// boolean is false when value is not a mapping.
func PairsOf(value any) ([]Pair, bool) {
	switch src := value.(type) {
	case nil:
		return nil, false
	case *Store:
		if src == nil {
			return nil, false
		}
		return src.Pairs(), true
	case []Pair:
		return src, true
	case iter.Seq2[string, any]:
		var out []Pair
		for key, v := range src {
			out = append(out, Pair{Key: key, Value: v})
		}
		return out, true
	}
	if pairs, ok := seqPairs(value); ok {
		return pairs, true
	}
	return MapPairs(value)
}

// seqPairs walks any func(yield func(string, V) bool) through reflection,
// covering iter.Seq2 with typed values and unnamed iterator literals.
func seqPairs(value any) ([]Pair, bool) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, false
	}
	fn := rv.Type()
	if fn.NumIn() != 1 || fn.NumOut() != 0 {
		return nil, false
	}
	yield := fn.In(0)
	if yield.Kind() != reflect.Func || yield.NumIn() != 2 || yield.NumOut() != 1 ||
		yield.In(0).Kind() != reflect.String || yield.Out(0).Kind() != reflect.Bool {
		return nil, false
	}

	proceed := reflect.ValueOf(true).Convert(yield.Out(0))
	var out []Pair
	rv.Call([]reflect.Value{reflect.MakeFunc(yield, func(args []reflect.Value) []reflect.Value {
		out = append(out, Pair{Key: args[0].String(), Value: args[1].Interface()})
		return []reflect.Value{proceed}
	})})
	return out, true
}

// MapPairs reads a map with string keys through reflection, returning its
// entries in sorted key order.
func MapPairs(value any) ([]Pair, bool) {
	if value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	out := make([]Pair, 0, rv.Len())
	entries := rv.MapRange()
	for entries.Next() {
		out = append(out, Pair{Key: entries.Key().String(), Value: entries.Value().Interface()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, true
}
