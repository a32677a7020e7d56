// Package decoder contains the default [domain.Decoder] implementation, used
// to scan documents into user types.
package decoder

import (
	"fmt"
	"reflect"
	"time"

	goreflect "github.com/goccy/go-reflect"
	"github.com/mitchellh/mapstructure"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/codec"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/data"
	"github.com/vinicius-lino-figueiredo/mongolab/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	docReflectType = reflect.TypeOf((*domain.Document)(nil)).Elem()
	oidReflectType = reflect.TypeOf(primitive.NilObjectID)
	timeReflectTyp = reflect.TypeOf(time.Time{})
)

// Decoder implements domain.Decoder.
type Decoder struct{}

// NewDecoder returns a new implementation of domain.Decoder.
func NewDecoder() domain.Decoder {
	return &Decoder{}
}

// Decode implements domain.Decoder. Documents are kept as they are when the
// target can hold one, which preserves key order; otherwise they are turned
// into maps before being handed to mapstructure.
func (d *Decoder) Decode(source any, target any) error {
	if target == nil {
		return domain.ErrTargetNil
	}

	value := goreflect.ValueNoEscapeOf(target)
	if value.Kind() != reflect.Ptr {
		return domain.ErrNonPointer
	}
	if value.IsNil() {
		return domain.ErrTargetNil
	}

	if !holdsDocument(reflect.TypeOf(target).Elem()) {
		source = d.adjustDoc(source)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    data.TagName,
		Result:     target,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(objectIDHook, timeHook),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(source); err != nil {
		errDec := domain.ErrDecode{Source: source, Target: target}
		return fmt.Errorf("%w: %w", errDec, err)
	}
	return nil
}

func holdsDocument(t reflect.Type) bool {
	if t.Implements(docReflectType) {
		return true
	}
	return t.Kind() == reflect.Interface && docReflectType.Implements(t)
}

func (d *Decoder) adjustDoc(value any) any {
	switch t := value.(type) {
	case domain.Document:
		doc := make(map[string]any, t.Len())
		for k, v := range t.Iter() {
			doc[k] = d.adjustDoc(v)
		}
		return doc
	case []any:
		lst := make([]any, len(t))
		for n, v := range t {
			lst[n] = d.adjustDoc(v)
		}
		return lst
	default:
		return value
	}
}

// objectIDHook accepts hexadecimal strings for identifier fields.
func objectIDHook(from reflect.Type, to reflect.Type, v any) (any, error) {
	if to != oidReflectType || from.Kind() != reflect.String {
		return v, nil
	}
	return primitive.ObjectIDFromHex(reflect.ValueOf(v).String())
}

// timeHook accepts wire timestamps for time fields.
func timeHook(from reflect.Type, to reflect.Type, v any) (any, error) {
	if to != timeReflectTyp || from.Kind() != reflect.String {
		return v, nil
	}
	return codec.ParseTime(reflect.ValueOf(v).String())
}
