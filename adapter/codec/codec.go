// Package codec converts values to and from the extended JSON spoken by the
// MongoLab REST API, where identifiers travel as {"$oid": "<hex>"} and
// timestamps as {"$date": "<iso8601>"}.
package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"time"

	goreflect "github.com/goccy/go-reflect"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/data"
	"github.com/vinicius-lino-figueiredo/mongolab/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Keys of the extended values.
const (
	OIDKey  = "$oid"
	DateKey = "$date"
)

// TimeLayout is the format of encoded timestamps. Precision is truncated to
// microseconds.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

const timeParseLayout = "2006-01-02T15:04:05.999999Z"

var bytesTyp = goreflect.TypeOf([]byte(nil))

// ErrExtendedValue is returned when a mapping carries an extended key whose
// value cannot be converted.
type ErrExtendedValue struct {
	Key   string
	Value any
	Err   error
}

// Error implements [error].
func (e ErrExtendedValue) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s value %v: %s", e.Key, e.Value, e.Err.Error())
	}
	return fmt.Sprintf("invalid %s value %v", e.Key, e.Value)
}

// Unwrap returns the underlying conversion error.
func (e ErrExtendedValue) Unwrap() error { return e.Err }

// Codec implements domain.Codec.
type Codec struct{}

// NewCodec returns a new implementation of domain.Codec.
func NewCodec() domain.Codec {
	return &Codec{}
}

// Marshal implements domain.Codec.
func (c *Codec) Marshal(v any) ([]byte, error) {
	enc, err := c.EncodeValue(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(enc)
}

// Unmarshal implements domain.Codec. Objects are returned as *data.Ordered,
// integral numbers that fit as int64 and other numbers as float64.
func (c *Codec) Unmarshal(b []byte) (any, error) {
	return newParser(b, c.objectHook).parse()
}

// EncodeValue implements domain.Codec.
func (c *Codec) EncodeValue(v any) (any, error) {
	switch t := v.(type) {
	case nil, string, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return t, nil
	case float32:
		return checkFloat(v, float64(t))
	case float64:
		return checkFloat(v, t)
	case primitive.ObjectID:
		return data.NewOrdered(data.E{Key: OIDKey, Value: t.Hex()}), nil
	case time.Time:
		return data.NewOrdered(data.E{Key: DateKey, Value: FormatTime(t)}), nil
	case *primitive.ObjectID:
		if t == nil {
			return nil, nil
		}
		return c.EncodeValue(*t)
	case *time.Time:
		if t == nil {
			return nil, nil
		}
		return c.EncodeValue(*t)
	case domain.Document:
		return c.encodeFields(t)
	case data.D:
		doc, _ := data.NewDocument(t)
		return c.encodeFields(doc)
	case []any:
		return c.encodeList(t)
	case json.Marshaler:
		return t, nil
	}
	return c.encodeReflect(v)
}

func (c *Codec) encodeReflect(v any) (any, error) {
	r := goreflect.ValueNoEscapeOf(v)
	switch r.Kind() {
	case reflect.Pointer, reflect.Interface:
		if r.IsNil() {
			return nil, nil
		}
		return c.EncodeValue(r.Elem().Interface())
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v, nil
	case reflect.Float32, reflect.Float64:
		return checkFloat(v, r.Float())
	case reflect.Slice:
		if r.IsNil() {
			return nil, nil
		}
		if r.Type() == bytesTyp {
			return v, nil
		}
		return c.encodeList(data.Elements(v))
	case reflect.Array:
		return c.encodeList(data.Elements(v))
	case reflect.Map:
		if r.Type().Key().Kind() != reflect.String {
			return nil, domain.ErrNotSerializable{Value: v}
		}
		if r.IsNil() {
			return nil, nil
		}
	case reflect.Struct:
	default:
		return nil, domain.ErrNotSerializable{Value: v}
	}
	doc, err := data.NewDocument(v)
	if err != nil {
		return nil, err
	}
	return c.encodeFields(doc)
}

// checkFloat rejects NaN and infinities, which JSON cannot represent.
func checkFloat(v any, f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, domain.ErrNotSerializable{Value: v}
	}
	return v, nil
}

func (c *Codec) encodeFields(doc domain.Document) (any, error) {
	res := data.NewOrdered()
	for k, v := range doc.Iter() {
		enc, err := c.EncodeValue(v)
		if err != nil {
			return nil, err
		}
		res.Set(k, enc)
	}
	return res, nil
}

func (c *Codec) encodeList(l []any) (any, error) {
	res := make([]any, len(l))
	for n, v := range l {
		enc, err := c.EncodeValue(v)
		if err != nil {
			return nil, err
		}
		res[n] = enc
	}
	return res, nil
}

// DecodeValue implements domain.Codec.
func (c *Codec) DecodeValue(v any) (any, error) {
	switch t := v.(type) {
	case domain.Document:
		res := data.NewOrdered()
		for k, val := range t.Iter() {
			dec, err := c.DecodeValue(val)
			if err != nil {
				return nil, err
			}
			res.Set(k, dec)
		}
		return c.objectHook(res)
	case data.D:
		doc, _ := data.NewDocument(t)
		return c.DecodeValue(doc)
	case data.M:
		return c.DecodeValue(map[string]any(t))
	case map[string]any:
		doc, _ := data.NewDocument(t)
		return c.DecodeValue(doc)
	case []any:
		res := make([]any, len(t))
		for n, val := range t {
			dec, err := c.DecodeValue(val)
			if err != nil {
				return nil, err
			}
			res[n] = dec
		}
		return res, nil
	default:
		return v, nil
	}
}

func (c *Codec) objectHook(o *data.Ordered) (any, error) {
	if o.Has(OIDKey) {
		return decodeOID(o.Get(OIDKey))
	}
	if o.Has(DateKey) {
		return decodeDate(o.Get(DateKey))
	}
	return o, nil
}

func decodeOID(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, ErrExtendedValue{Key: OIDKey, Value: v}
	}
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return nil, ErrExtendedValue{Key: OIDKey, Value: v, Err: err}
	}
	return oid, nil
}

func decodeDate(v any) (any, error) {
	switch t := v.(type) {
	case string:
		tm, err := ParseTime(t)
		if err != nil {
			return nil, ErrExtendedValue{Key: DateKey, Value: v, Err: err}
		}
		return tm, nil
	case int64:
		return time.UnixMilli(t).UTC(), nil
	case float64:
		return time.UnixMilli(int64(t)).UTC(), nil
	default:
		return nil, ErrExtendedValue{Key: DateKey, Value: v}
	}
}

// FormatTime formats t the way timestamps are encoded on the wire.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a wire timestamp. Fractional seconds are optional and
// RFC 3339 offsets are accepted. The result is always in UTC.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeParseLayout, s)
	if err != nil {
		var err2 error
		if t, err2 = time.Parse(time.RFC3339Nano, s); err2 != nil {
			return time.Time{}, err
		}
	}
	return t.UTC(), nil
}
