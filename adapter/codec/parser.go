package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/vinicius-lino-figueiredo/mongolab/adapter/data"
)

var (
	// ErrTrailingData is returned when there are unskippable bytes after
	// the JSON value in the content ends.
	ErrTrailingData = errors.New("trailing data after JSON")
	// ErrInvalidNumber is returned when a number literal could be read
	// neither as an integer nor as a float.
	ErrInvalidNumber = errors.New("invalid JSON number")
)

// ErrUnexpectedToken is returned when the token stream does not form a valid
// JSON value.
type ErrUnexpectedToken struct {
	Token json.Token
}

// Error implements [error].
func (e ErrUnexpectedToken) Error() string {
	return fmt.Sprintf("unexpected token %v", e.Token)
}

// objectHook is called for every object after its members were parsed, so
// nested objects are always seen first.
type objectHook func(*data.Ordered) (any, error)

type parser struct {
	dec  *json.Decoder
	hook objectHook
}

func newParser(b []byte, hook objectHook) *parser {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return &parser{dec: dec, hook: hook}
}

func (p *parser) parse() (any, error) {
	val, err := p.value()
	if err != nil {
		return nil, err
	}
	if _, err := p.dec.Token(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, ErrTrailingData
	}
	return val, nil
}

func (p *parser) value() (any, error) {
	tok, err := p.dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return p.fromToken(tok)
}

func (p *parser) fromToken(tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return p.obj()
		case '[':
			return p.arr()
		default:
			return nil, ErrUnexpectedToken{Token: t}
		}
	case json.Number:
		return num(t)
	case string, bool, nil:
		return t, nil
	default:
		return nil, ErrUnexpectedToken{Token: t}
	}
}

func (p *parser) obj() (any, error) {
	o := data.NewOrdered()
	for p.dec.More() {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, ErrUnexpectedToken{Token: tok}
		}
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		o.Set(key, val)
	}
	if err := p.closing('}'); err != nil {
		return nil, err
	}
	if p.hook == nil {
		return o, nil
	}
	return p.hook(o)
}

func (p *parser) arr() (any, error) {
	out := []any{}
	for p.dec.More() {
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	if err := p.closing(']'); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *parser) closing(delim json.Delim) error {
	tok, err := p.dec.Token()
	if err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if tok != delim {
		return ErrUnexpectedToken{Token: tok}
	}
	return nil
}

// num returns an int64 for integral literals that fit one, and a float64
// otherwise.
func num(n json.Number) (any, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidNumber, err)
	}
	return f, nil
}
