package validator

import (
	"testing"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/data"
	"github.com/vinicius-lino-figueiredo/mongolab/domain"
)

type ValidatorTestSuite struct {
	suite.Suite
	v domain.Validator
}

func (s *ValidatorTestSuite) SetupTest() {
	s.v = NewValidator()
}

func (s *ValidatorTestSuite) TestAPIKey() {
	valid := []string{
		"4f2a8c1e9b3d7a0012345678",
		"A1b2C3d4-E5f6_G7h8I9j0K1l2M3n4o5",
		"abcdefghijklmnopqrstuvwxyz012345",
	}
	for _, k := range valid {
		s.NoError(s.v.CheckAPIKey(k), k)
	}

	invalid := []string{
		"",
		"short",
		"4F2A8C1E9B3D7A0012345678",
		"4f2a8c1e9b3d7a00123456789",
		"A1b2C3d4-E5f6_G7h8I9j0K1l2M3n4",
		"A1b2C3d4-E5f6_G7h8I9j0K1l2M3n4o5x",
		"4f2a8c1e9b3d7a00123456!8",
		"4f2a8c1e9b3d7a00 2345678",
		"A1b2C3d4-E5f6_G7h8 9j0K1l2M3n4o5",
	}
	for _, k := range invalid {
		err := s.v.CheckAPIKey(k)
		s.ErrorAs(err, new(domain.ErrBadAPIKeyFormat), k)
		s.True(errdefs.IsInvalidArgument(err))
	}
}

func (s *ValidatorTestSuite) TestDatabaseName() {
	s.NoError(s.v.CheckDatabaseName("app_db-1"))

	err := s.v.CheckDatabaseName("")
	s.ErrorAs(err, new(domain.ErrInvalidName))

	for _, name := range []string{"a b", "a.b", "a$b", "a/b", `a\b`, "a\x00b"} {
		err := s.v.CheckDatabaseName(name)
		s.ErrorAs(err, new(domain.ErrInvalidName), name)
		s.True(errdefs.IsInvalidArgument(err))
	}
	s.EqualError(s.v.CheckDatabaseName("a.b"), `database name cannot contain the character "."`)
}

func (s *ValidatorTestSuite) TestListDocumentsDefaultsDropped() {
	params, err := s.v.ListDocumentsParams(map[string]any{
		"spec":     data.M{},
		"count":    false,
		"fields":   map[string]any{},
		"find_one": false,
		"sort":     data.D{},
		"skip":     0,
		"limit":    0,
	})
	s.NoError(err)
	s.Empty(params)
}

func (s *ValidatorTestSuite) TestListDocumentsRenamed() {
	spec := data.M{"a": 1}
	params, err := s.v.ListDocumentsParams(map[string]any{
		"spec":     spec,
		"count":    true,
		"fields":   data.M{"a": 1},
		"find_one": true,
		"sort":     data.D{{Key: "a", Value: -1}},
		"skip":     5,
		"limit":    uint8(2),
	})
	s.NoError(err)
	s.Equal(domain.Params{
		"q":  spec,
		"c":  true,
		"f":  data.M{"a": 1},
		"fo": true,
		"s":  data.D{{Key: "a", Value: -1}},
		"sk": 5,
		"l":  uint8(2),
	}, params)
}

func (s *ValidatorTestSuite) TestListDocumentsSkipOnly() {
	params, err := s.v.ListDocumentsParams(map[string]any{"skip": 5})
	s.NoError(err)
	s.Equal(domain.Params{"sk": 5}, params)
}

func (s *ValidatorTestSuite) TestListDocumentsErrors() {
	_, err := s.v.ListDocumentsParams(map[string]any{"hint": 1})
	s.ErrorAs(err, &domain.ErrInvalidOption{})
	s.True(errdefs.IsInvalidArgument(err))

	tests := map[string]any{
		"spec":     "a",
		"fields":   []any{},
		"sort":     1,
		"count":    1,
		"find_one": "yes",
		"skip":     "5",
		"limit":    true,
	}
	for name, value := range tests {
		_, err := s.v.ListDocumentsParams(map[string]any{name: value})
		var typeErr domain.ErrOptionType
		s.Require().ErrorAs(err, &typeErr, name)
		s.Equal(name, typeErr.Name)
	}

	_, err = s.v.ListDocumentsParams(map[string]any{"skip": 1.5})
	s.ErrorAs(err, new(domain.ErrOptionType))
}

func (s *ValidatorTestSuite) TestDocumentsToInsert() {
	s.NoError(s.v.CheckDocumentsToInsert(data.M{"a": 1}))
	s.NoError(s.v.CheckDocumentsToInsert(struct{ A int }{}))
	s.NoError(s.v.CheckDocumentsToInsert([]any{data.M{}, map[string]any{}}))
	s.NoError(s.v.CheckDocumentsToInsert([]data.M{}))

	for _, v := range []any{nil, 1, "doc", []any{1}, []any{data.M{}, "x"}} {
		err := s.v.CheckDocumentsToInsert(v)
		s.ErrorAs(err, new(domain.ErrDocumentType))
		s.True(errdefs.IsInvalidArgument(err))
	}
}

func (s *ValidatorTestSuite) TestDocumentToUpdate() {
	s.NoError(s.v.CheckDocumentToUpdate(data.M{}))
	s.NoError(s.v.CheckDocumentToUpdate(data.M{"$set": data.M{"a": 1}, "$inc": data.M{"n": 1}}))
	for _, op := range UpdateOperators {
		s.NoError(s.v.CheckDocumentToUpdate(data.M{op: data.M{}}))
	}

	err := s.v.CheckDocumentToUpdate(data.D{{Key: "$set", Value: data.M{}}, {Key: "name", Value: "x"}})
	var opErr domain.ErrInvalidUpdateOperator
	s.Require().ErrorAs(err, &opErr)
	s.Equal("name", opErr.Operator)
	s.True(errdefs.IsInvalidArgument(err))

	err = s.v.CheckDocumentToUpdate([]any{})
	s.ErrorAs(err, new(domain.ErrDocumentType))
}

func TestValidatorTestSuite(t *testing.T) {
	suite.Run(t, new(ValidatorTestSuite))
}
