package models

import (
	"sort"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Kind identifies which variant of JSONValue a value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// JSONValue is any parsed value: null, boolean, number, string, array or object.
// The set of implementations is closed; switch on Kind() or on the concrete type.
type JSONValue interface {
	Kind() Kind
	jsonValue()
}

// JSONNull is the null literal.
type JSONNull struct{}

// JSONBool is a boolean literal.
type JSONBool bool

// JSONNumber holds a number in canonical JSON number syntax, e.g. "-1.5e3".
// Keeping the text avoids float rounding for large integers.
type JSONNumber string

// JSONString is a decoded string.
type JSONString string

// JSONArray is an ordered sequence of values.
type JSONArray []JSONValue

// JSONObject maps string keys to values and remembers insertion order.
// Setting an existing key replaces its value without moving it.
type JSONObject struct {
	entries *linkedhashmap.Map
}

func (JSONNull) Kind() Kind    { return KindNull }
func (JSONBool) Kind() Kind    { return KindBool }
func (JSONNumber) Kind() Kind  { return KindNumber }
func (JSONString) Kind() Kind  { return KindString }
func (JSONArray) Kind() Kind   { return KindArray }
func (*JSONObject) Kind() Kind { return KindObject }

func (JSONNull) jsonValue()    {}
func (JSONBool) jsonValue()    {}
func (JSONNumber) jsonValue()  {}
func (JSONString) jsonValue()  {}
func (JSONArray) jsonValue()   {}
func (*JSONObject) jsonValue() {}

// NewObject creates an empty object.
func NewObject() *JSONObject {
	return &JSONObject{entries: linkedhashmap.New()}
}

// Set stores value under key.
func (o *JSONObject) Set(key string, value JSONValue) {
	o.entries.Put(key, value)
}

// Get returns the value stored under key.
func (o *JSONObject) Get(key string) (JSONValue, bool) {
	v, ok := o.entries.Get(key)
	if !ok {
		return nil, false
	}
	return v.(JSONValue), true
}

// Len returns the number of keys.
func (o *JSONObject) Len() int {
	return o.entries.Size()
}

// Keys returns the keys in insertion order.
func (o *JSONObject) Keys() []string {
	raw := o.entries.Keys()
	keys := make([]string, len(raw))
	for i, k := range raw {
		keys[i] = k.(string)
	}
	return keys
}

// SortedKeys returns the keys in lexicographic order.
func (o *JSONObject) SortedKeys() []string {
	keys := o.Keys()
	sort.Strings(keys)
	return keys
}

// Equal reports whether both objects hold the same keys mapped to equal values.
// Key order is ignored.
func (o *JSONObject) Equal(other *JSONObject) bool {
	if o == nil || other == nil {
		return o == other
	}
	if o.Len() != other.Len() {
		return false
	}
	for _, key := range o.Keys() {
		a, _ := o.Get(key)
		b, ok := other.Get(key)
		if !ok || !Equal(a, b) {
			return false
		}
	}
	return true
}

// Equal reports whether two values are deeply equal.
func Equal(a, b JSONValue) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case JSONArray:
		bv := b.(JSONArray)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *JSONObject:
		return av.Equal(b.(*JSONObject))
	default:
		return a == b
	}
}

// Document is the result of a successful parse.
type Document struct {
	Root JSONValue
	// Grammar names the grammar that accepted the input.
	Grammar string
}

// RootIsContainer reports whether the root is an array or object.
func (d Document) RootIsContainer() bool {
	if d.Root == nil {
		return false
	}
	k := d.Root.Kind()
	return k == KindArray || k == KindObject
}
