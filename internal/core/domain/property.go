package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// PropertyKind tags the variant held by a PropertyValue
type PropertyKind int

const (
	PropertyNull PropertyKind = iota
	PropertyString
	PropertyStrings
	PropertyNumber
	PropertyBool
)

// PropertyValue is a tagged union over string, []string, number, boolean and null.
type PropertyValue struct {
	kind    PropertyKind
	str     string
	strs    []string
	number  float64
	boolean bool
}

func NullValue() PropertyValue { return PropertyValue{} }

func StringValue(s string) PropertyValue { return PropertyValue{kind: PropertyString, str: s} }

func NumberValue(n float64) PropertyValue { return PropertyValue{kind: PropertyNumber, number: n} }

func BoolValue(b bool) PropertyValue { return PropertyValue{kind: PropertyBool, boolean: b} }

// StringsValue copies the slice so later mutation by the caller is not observed.
func StringsValue(ss []string) PropertyValue {
	cp := make([]string, len(ss))
	copy(cp, ss)
	return PropertyValue{kind: PropertyStrings, strs: cp}
}

func (v PropertyValue) Kind() PropertyKind { return v.kind }

func (v PropertyValue) IsNull() bool { return v.kind == PropertyNull }

// AsString returns the string payload and whether the value is a string.
func (v PropertyValue) AsString() (string, bool) {
	return v.str, v.kind == PropertyString
}

// AsStrings returns the array payload and whether the value is an array.
func (v PropertyValue) AsStrings() ([]string, bool) {
	return v.strs, v.kind == PropertyStrings
}

func (v PropertyValue) AsNumber() (float64, bool) {
	return v.number, v.kind == PropertyNumber
}

func (v PropertyValue) AsBool() (bool, bool) {
	return v.boolean, v.kind == PropertyBool
}

// Scalar renders string and number values as text. Other kinds report false.
func (v PropertyValue) Scalar() (string, bool) {
	switch v.kind {
	case PropertyString:
		return v.str, true
	case PropertyNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64), true
	default:
		return "", false
	}
}

// MarshalJSON encodes the held variant as its natural JSON form. HTML
// characters are written literally.
func (v PropertyValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case PropertyString:
		return marshalLiteral(v.str)
	case PropertyStrings:
		if v.strs == nil {
			return []byte("[]"), nil
		}
		return marshalLiteral(v.strs)
	case PropertyNumber:
		return json.Marshal(v.number)
	case PropertyBool:
		return json.Marshal(v.boolean)
	default:
		return []byte("null"), nil
	}
}

func marshalLiteral(x any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(x); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Properties is an insertion-ordered mapping of property name to value
type Properties struct {
	keys   []string
	values map[string]PropertyValue
}

func NewProperties() *Properties {
	return &Properties{values: make(map[string]PropertyValue)}
}

// Set adds or replaces a property. Replacing keeps the original position.
func (p *Properties) Set(name string, value PropertyValue) {
	if _, exists := p.values[name]; !exists {
		p.keys = append(p.keys, name)
	}
	p.values[name] = value
}

func (p *Properties) Get(name string) (PropertyValue, bool) {
	if p == nil {
		return PropertyValue{}, false
	}
	v, ok := p.values[name]
	return v, ok
}

func (p *Properties) Delete(name string) {
	if _, exists := p.values[name]; !exists {
		return
	}
	delete(p.values, name)
	for i, k := range p.keys {
		if k == name {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Keys returns property names in insertion order.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, len(p.keys))
	copy(keys, p.keys)
	return keys
}

func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}
