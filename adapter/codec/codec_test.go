package codec

import (
	"encoding/json"
	"io"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/data"
	"github.com/vinicius-lino-figueiredo/mongolab/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CodecTestSuite struct {
	suite.Suite
	codec domain.Codec
}

func (s *CodecTestSuite) SetupTest() {
	s.codec = NewCodec()
}

func (s *CodecTestSuite) TestEncodeObjectID() {
	oid, err := primitive.ObjectIDFromHex("4f2a8c1e9b3d7a0012345678")
	s.NoError(err)

	b, err := s.codec.Marshal(oid)
	s.NoError(err)
	s.Equal(`{"$oid":"4f2a8c1e9b3d7a0012345678"}`, string(b))

	b, err = s.codec.Marshal(&oid)
	s.NoError(err)
	s.Equal(`{"$oid":"4f2a8c1e9b3d7a0012345678"}`, string(b))

	var nilOID *primitive.ObjectID
	b, err = s.codec.Marshal(nilOID)
	s.NoError(err)
	s.Equal(`null`, string(b))
}

func (s *CodecTestSuite) TestEncodeTime() {
	loc := time.FixedZone("X", -3*60*60)
	t := time.Date(2012, time.March, 4, 2, 6, 7, 123456789, loc)

	b, err := s.codec.Marshal(t)
	s.NoError(err)
	s.Equal(`{"$date":"2012-03-04T05:06:07.123456Z"}`, string(b))

	b, err = s.codec.Marshal(&t)
	s.NoError(err)
	s.Equal(`{"$date":"2012-03-04T05:06:07.123456Z"}`, string(b))
}

func (s *CodecTestSuite) TestEncodeNested() {
	oid := primitive.NewObjectID()
	doc := data.D{
		{Key: "z", Value: []any{oid, 1}},
		{Key: "a", Value: map[string]any{"when": time.Unix(0, 0)}},
		{Key: "s", Value: struct {
			Name string `mongolab:"name"`
			Skip bool   `mongolab:"-"`
		}{Name: "n"}},
	}

	b, err := s.codec.Marshal(doc)
	s.NoError(err)
	s.Equal(`{"z":[{"$oid":"`+oid.Hex()+`"},1],`+
		`"a":{"when":{"$date":"1970-01-01T00:00:00.000000Z"}},`+
		`"s":{"name":"n"}}`, string(b))
}

func (s *CodecTestSuite) TestEncodeNatives() {
	type named string
	tests := map[string]any{
		`null`:          nil,
		`true`:          true,
		`"s"`:           "s",
		`"n"`:           named("n"),
		`12`:            int64(12),
		`1.5`:           1.5,
		`[]`:            []int{},
		`[1,2]`:         [2]int{1, 2},
		`{"a":[1,"b"]}`: data.M{"a": []any{1, "b"}},
		`3`:             json.Number("3"),
		`"aGk="`:        []byte("hi"),
	}
	for expected, v := range tests {
		b, err := s.codec.Marshal(v)
		s.NoError(err, expected)
		s.JSONEq(expected, string(b))
	}

	b, err := s.codec.Marshal(map[string]int(nil))
	s.NoError(err)
	s.Equal(`null`, string(b))
}

func (s *CodecTestSuite) TestNotSerializable() {
	values := []any{
		make(chan int),
		func() {},
		complex(1, 2),
		map[int]string{1: "a"},
		[]any{1, make(chan int)},
		data.M{"a": func() {}},
		math.NaN(),
		math.Inf(-1),
		float32(math.Inf(1)),
		map[string]any{"x": math.NaN()},
		[]float64{1, math.Inf(1)},
	}
	for _, v := range values {
		_, err := s.codec.Marshal(v)
		s.Error(err)
		s.ErrorAs(err, new(domain.ErrNotSerializable))
		s.True(errdefs.IsInvalidArgument(err))
	}
}

func (s *CodecTestSuite) TestUnmarshalKeepsOrder() {
	v, err := s.codec.Unmarshal([]byte(`{"z": 1, "a": {"y": 2.5, "b": [true, null]}, "m": "s"}`))
	s.NoError(err)
	doc, ok := v.(*data.Ordered)
	s.Require().True(ok)
	s.Equal([]string{"z", "a", "m"}, slices.Collect(doc.Keys()))
	s.Equal(int64(1), doc.Get("z"))
	s.Equal([]string{"y", "b"}, slices.Collect(doc.D("a").Keys()))
	s.Equal(2.5, doc.D("a").Get("y"))
	s.Equal([]any{true, nil}, doc.D("a").Get("b"))
}

func (s *CodecTestSuite) TestUnmarshalScalars() {
	tests := map[string]any{
		`"str"`:                "str",
		`-3`:                   int64(-3),
		`1e3`:                  float64(1000),
		`1.0`:                  float64(1),
		`false`:                false,
		`null`:                 nil,
		` [] `:                 []any{},
		`"é"`:                  "é",
		`18446744073709551616`: float64(18446744073709551616),
	}
	for in, expected := range tests {
		v, err := s.codec.Unmarshal([]byte(in))
		s.NoError(err, in)
		s.Equal(expected, v, in)
	}
}

func (s *CodecTestSuite) TestUnmarshalErrors() {
	_, err := s.codec.Unmarshal([]byte(`{"a": 1} {}`))
	s.ErrorIs(err, ErrTrailingData)

	_, err = s.codec.Unmarshal([]byte(`{"a": 1`))
	s.ErrorIs(err, io.ErrUnexpectedEOF)

	_, err = s.codec.Unmarshal([]byte(``))
	s.ErrorIs(err, io.ErrUnexpectedEOF)

	_, err = s.codec.Unmarshal([]byte(`<html>`))
	s.Error(err)

	_, err = s.codec.Unmarshal([]byte(`{"$oid": "xyz"}`))
	s.ErrorAs(err, new(ErrExtendedValue))

	_, err = s.codec.Unmarshal([]byte(`{"$oid": 1}`))
	s.ErrorAs(err, new(ErrExtendedValue))

	_, err = s.codec.Unmarshal([]byte(`{"$date": "yesterday"}`))
	s.ErrorAs(err, new(ErrExtendedValue))

	_, err = s.codec.Unmarshal([]byte(`{"$date": true}`))
	s.ErrorAs(err, new(ErrExtendedValue))
}

func (s *CodecTestSuite) TestUnmarshalExtended() {
	v, err := s.codec.Unmarshal([]byte(`[
		{"_id": {"$oid": "4f2a8c1e9b3d7a0012345678"}},
		{"$date": "2012-03-04T05:06:07.123456Z"},
		{"$date": "2012-03-04T05:06:07Z"},
		{"$date": "2012-03-04T05:06:07.5+01:00"},
		{"$date": 1000}
	]`))
	s.NoError(err)
	l := v.([]any)

	oid, _ := primitive.ObjectIDFromHex("4f2a8c1e9b3d7a0012345678")
	s.Equal(oid, l[0].(domain.Document).ID())
	s.Equal(time.Date(2012, time.March, 4, 5, 6, 7, 123456000, time.UTC), l[1])
	s.Equal(time.Date(2012, time.March, 4, 5, 6, 7, 0, time.UTC), l[2])
	s.Equal(time.Date(2012, time.March, 4, 4, 6, 7, 500000000, time.UTC), l[3])
	s.Equal(time.UnixMilli(1000).UTC(), l[4])
}

func (s *CodecTestSuite) TestInnermostFirst() {
	v, err := s.codec.Unmarshal([]byte(`{"a": {"b": {"$oid": "4f2a8c1e9b3d7a0012345678"}}}`))
	s.NoError(err)
	doc := v.(domain.Document)
	s.IsType(primitive.ObjectID{}, doc.D("a").Get("b"))
}

func (s *CodecTestSuite) TestRoundTrip() {
	oid := primitive.NewObjectID()
	now := time.Now()
	doc := data.NewOrdered(
		data.E{Key: "_id", Value: oid},
		data.E{Key: "at", Value: now},
		data.E{Key: "tags", Value: []any{"x", int64(2)}},
	)

	b, err := s.codec.Marshal(doc)
	s.NoError(err)
	v, err := s.codec.Unmarshal(b)
	s.NoError(err)

	got := v.(domain.Document)
	s.Equal(oid, got.ID())
	s.Equal(now.UTC().Truncate(time.Microsecond), got.Get("at"))
	s.Equal([]any{"x", int64(2)}, got.Get("tags"))
}

func (s *CodecTestSuite) TestDecodeValue() {
	in := map[string]any{
		"id":   map[string]any{"$oid": "4f2a8c1e9b3d7a0012345678"},
		"list": []any{data.M{"$date": "2012-03-04T05:06:07Z"}, 1},
		"d":    data.D{{Key: "k", Value: "v"}},
		"n":    1,
	}
	v, err := s.codec.DecodeValue(in)
	s.NoError(err)

	doc := v.(domain.Document)
	oid, _ := primitive.ObjectIDFromHex("4f2a8c1e9b3d7a0012345678")
	s.Equal(oid, doc.Get("id"))
	s.Equal([]any{time.Date(2012, time.March, 4, 5, 6, 7, 0, time.UTC), 1}, doc.Get("list"))
	s.Equal("v", doc.D("d").Get("k"))
	s.Equal(1, doc.Get("n"))

	_, err = s.codec.DecodeValue([]any{map[string]any{"$oid": "bad"}})
	s.Error(err)

	v, err = s.codec.DecodeValue("plain")
	s.NoError(err)
	s.Equal("plain", v)
}

func (s *CodecTestSuite) TestFormatParseTime() {
	t := time.Date(2020, time.January, 2, 3, 4, 5, 6000, time.UTC)
	s.Equal("2020-01-02T03:04:05.000006Z", FormatTime(t))

	parsed, err := ParseTime(FormatTime(t))
	s.NoError(err)
	s.Equal(t, parsed)
}

func TestCodecTestSuite(t *testing.T) {
	suite.Run(t, new(CodecTestSuite))
}
