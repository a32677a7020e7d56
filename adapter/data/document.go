// Package data contains the default [domain.Document] implementation and the
// literal document types accepted by the driver.
package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"reflect"
	"slices"
	"strings"
	"time"

	goreflect "github.com/goccy/go-reflect"
	"github.com/vinicius-lino-figueiredo/mongolab/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TagName is the struct tag read when converting structs to documents and
// documents to structs.
const TagName = "mongolab"

var (
	timeTyp     = goreflect.TypeOf(*new(time.Time))
	objectIDTyp = goreflect.TypeOf(primitive.NilObjectID)
)

// E is a single field of a [D].
type E struct {
	Key   string
	Value any
}

// D is an ordered document literal. It should be used when key order matters,
// as in database commands, where the command name must come first.
type D []E

// MarshalJSON implements [json.Marshaler], keeping field order.
func (d D) MarshalJSON() ([]byte, error) {
	return marshalFields(len(d), func(yield func(string, any) bool) {
		for _, e := range d {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	})
}

// M is an unordered document literal.
type M map[string]any

// Ordered implements domain.Document keeping keys in insertion order. Setting
// an existing key keeps its original position.
type Ordered struct {
	keys   []string
	values map[string]any
}

// NewOrdered returns a document with the given fields, in order.
func NewOrdered(fields ...E) *Ordered {
	o := &Ordered{
		keys:   make([]string, 0, len(fields)),
		values: make(map[string]any, len(fields)),
	}
	for _, f := range fields {
		o.Set(f.Key, f.Value)
	}
	return o
}

// NewDocument returns a new instance of [domain.Document] built from the top
// level of a map, struct, [D] or document. Nested values are kept as they
// are. Map keys are sorted so the result is deterministic.
func NewDocument(in any) (domain.Document, error) {
	switch t := in.(type) {
	case nil:
		return NewOrdered(), nil
	case *Ordered:
		if t == nil {
			return NewOrdered(), nil
		}
		return t, nil
	case domain.Document:
		res := NewOrdered()
		for k, v := range t.Iter() {
			res.Set(k, v)
		}
		return res, nil
	case D:
		return NewOrdered(t...), nil
	case M:
		return fromMap(t), nil
	case map[string]any:
		return fromMap(t), nil
	}

	r := goreflect.ValueNoEscapeOf(in)
	for r.Kind() == reflect.Interface || r.Kind() == reflect.Pointer {
		if r.IsNil() {
			return NewOrdered(), nil
		}
		r = r.Elem()
	}
	switch {
	case r.Kind() == reflect.Map && r.Type().Key().Kind() == reflect.String:
		return parseMapReflect(r), nil
	case r.Kind() == reflect.Struct && r.Type() != timeTyp:
		return parseStruct(r)
	default:
		return nil, domain.ErrDocumentType{Expected: "a document", Value: in}
	}
}

// IsMapping reports whether v can be converted to a document by
// [NewDocument].
func IsMapping(v any) bool {
	switch v.(type) {
	case nil:
		return false
	case domain.Document, D, M, map[string]any:
		return true
	}
	r := goreflect.ValueNoEscapeOf(v)
	for r.Kind() == reflect.Interface || r.Kind() == reflect.Pointer {
		if r.IsNil() {
			return false
		}
		r = r.Elem()
	}
	switch r.Kind() {
	case reflect.Map:
		return r.Type().Key().Kind() == reflect.String
	case reflect.Struct:
		return r.Type() != timeTyp
	default:
		return false
	}
}

// IsSequence reports whether v is a slice or an array that is not an
// identifier or a [D].
func IsSequence(v any) bool {
	if _, ok := v.(D); ok || v == nil {
		return false
	}
	r := goreflect.ValueNoEscapeOf(v)
	switch r.Kind() {
	case reflect.Slice:
		return true
	case reflect.Array:
		return r.Type() != objectIDTyp
	default:
		return false
	}
}

// Elements returns the elements of a sequence as a slice of any.
func Elements(v any) []any {
	if l, ok := v.([]any); ok {
		return l
	}
	r := goreflect.ValueNoEscapeOf(v)
	res := make([]any, r.Len())
	for i := range r.Len() {
		res[i] = r.Index(i).Interface()
	}
	return res
}

func fromMap(m map[string]any) *Ordered {
	res := NewOrdered()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		res.Set(k, m[k])
	}
	return res
}

func parseMapReflect(v goreflect.Value) *Ordered {
	keys := v.MapKeys()
	slices.SortFunc(keys, func(a, b goreflect.Value) int {
		return strings.Compare(a.String(), b.String())
	})
	res := NewOrdered()
	for _, k := range keys {
		res.Set(k.String(), v.MapIndex(k).Interface())
	}
	return res
}

func parseStruct(r goreflect.Value) (domain.Document, error) {
	typ := r.Type()
	res := NewOrdered()
	for n := range r.NumField() {
		field := typ.Field(n)
		if field.PkgPath != "" {
			continue
		}
		name, ok := fieldName(r.Field(n), field)
		if !ok {
			continue
		}
		res.Set(name, r.Field(n).Interface())
	}
	return res, nil
}

func fieldName(r goreflect.Value, typ goreflect.StructField) (string, bool) {
	name := typ.Name
	var tagSegments []string
	if tag, ok := typ.Tag.Lookup(TagName); ok {
		if tag == "-" {
			return "", false
		}
		tagSegments = strings.Split(tag, ",")
		if tagSegments[0] != "" {
			name = tagSegments[0]
		}
		tagSegments = tagSegments[1:]
	}
	if slices.Contains(tagSegments, "omitempty") && isNullable(typ.Type) && r.IsNil() {
		return "", false
	}
	if slices.Contains(tagSegments, "omitzero") && r.IsZero() {
		return "", false
	}
	return name, true
}

func isNullable(t goreflect.Type) bool {
	k := t.Kind()
	return k == reflect.Pointer ||
		k == reflect.Slice ||
		k == reflect.Map ||
		k == reflect.Interface ||
		k == reflect.Func ||
		k == reflect.Chan
}

// ID implements domain.Document.
func (o *Ordered) ID() any {
	return o.values["_id"]
}

// Get implements domain.Document.
func (o *Ordered) Get(key string) any {
	return o.values[key]
}

// Set implements domain.Document.
func (o *Ordered) Set(key string, value any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Unset implements domain.Document.
func (o *Ordered) Unset(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
}

// D implements domain.Document.
func (o *Ordered) D(key string) domain.Document {
	if doc, ok := o.values[key].(domain.Document); ok {
		return doc
	}
	return nil
}

// Iter implements domain.Document.
func (o *Ordered) Iter() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range o.keys {
			if !yield(k, o.values[k]) {
				return
			}
		}
	}
}

// Keys implements domain.Document.
func (o *Ordered) Keys() iter.Seq[string] {
	return slices.Values(o.keys)
}

// Values implements domain.Document.
func (o *Ordered) Values() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, k := range o.keys {
			if !yield(o.values[k]) {
				return
			}
		}
	}
}

// Has implements domain.Document.
func (o *Ordered) Has(key string) bool {
	_, has := o.values[key]
	return has
}

// Len implements domain.Document.
func (o *Ordered) Len() int {
	return len(o.keys)
}

// String implements [fmt.Stringer].
func (o *Ordered) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for n, k := range o.keys {
		if n > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q: %v", k, o.values[k])
	}
	sb.WriteByte('}')
	return sb.String()
}

// MarshalJSON implements [json.Marshaler], keeping field order. Values are
// marshaled as they are; extended values should be encoded beforehand.
func (o *Ordered) MarshalJSON() ([]byte, error) {
	return marshalFields(o.Len(), o.Iter())
}

func marshalFields(n int, fields iter.Seq2[string, any]) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 16*n+2))
	buf.WriteByte('{')
	i := 0
	for k, v := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
