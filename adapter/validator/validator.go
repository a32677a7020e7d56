// Package validator runs the local checks done before any request is sent to
// the REST API.
package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	goreflect "github.com/goccy/go-reflect"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/data"
	"github.com/vinicius-lino-figueiredo/mongolab/domain"
)

var apiKeyRe = regexp.MustCompile(`^(?:[a-z0-9]{24}|[a-zA-Z0-9_-]{32})$`)

type paramKind int

const (
	kindMapping paramKind = iota
	kindBool
	kindInt
)

func (k paramKind) String() string {
	switch k {
	case kindMapping:
		return "a document"
	case kindBool:
		return "a bool"
	default:
		return "an integer"
	}
}

type listParam struct {
	kind    paramKind
	wireKey string
}

var listParams = map[string]listParam{
	"spec":     {kind: kindMapping, wireKey: "q"},
	"count":    {kind: kindBool, wireKey: "c"},
	"fields":   {kind: kindMapping, wireKey: "f"},
	"find_one": {kind: kindBool, wireKey: "fo"},
	"sort":     {kind: kindMapping, wireKey: "s"},
	"skip":     {kind: kindInt, wireKey: "sk"},
	"limit":    {kind: kindInt, wireKey: "l"},
}

// UpdateOperators are the only top-level keys accepted in update documents.
var UpdateOperators = []string{
	"$inc", "$set", "$unset", "$push", "$pushAll", "$addToSet", "$each",
	"$pop", "$pull", "$pullAll", "$rename", "$bit",
}

var invalidNameChars = []string{" ", ".", "$", "/", `\`, "\x00"}

// Validator implements domain.Validator.
type Validator struct{}

// NewValidator returns a new implementation of domain.Validator.
func NewValidator() domain.Validator {
	return &Validator{}
}

// CheckAPIKey implements domain.Validator.
func (v *Validator) CheckAPIKey(apiKey string) error {
	if !apiKeyRe.MatchString(apiKey) {
		return domain.ErrBadAPIKeyFormat{APIKey: apiKey}
	}
	return nil
}

// CheckDatabaseName implements domain.Validator.
func (v *Validator) CheckDatabaseName(name string) error {
	if name == "" {
		return domain.ErrInvalidName{Reason: "database name cannot be the empty string"}
	}
	for _, c := range invalidNameChars {
		if strings.Contains(name, c) {
			return domain.ErrInvalidName{
				Reason: fmt.Sprintf("database name cannot contain the character %q", c),
			}
		}
	}
	return nil
}

// ListDocumentsParams implements domain.Validator. Names are checked in
// lexical order so the reported error does not depend on map iteration.
func (v *Validator) ListDocumentsParams(params map[string]any) (domain.Params, error) {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	slices.Sort(names)

	res := make(domain.Params, len(params))
	for _, name := range names {
		value := params[name]
		p, ok := listParams[name]
		if !ok {
			return nil, domain.ErrInvalidOption{Name: name}
		}
		isDefault, err := checkKind(name, p.kind, value)
		if err != nil {
			return nil, err
		}
		if !isDefault {
			res[p.wireKey] = value
		}
	}
	return res, nil
}

// checkKind checks the type of value and reports whether it equals the
// default of its kind.
func checkKind(name string, kind paramKind, value any) (bool, error) {
	typeErr := domain.ErrOptionType{Name: name, Expected: kind.String(), Value: value}
	switch kind {
	case kindMapping:
		if !data.IsMapping(value) {
			return false, typeErr
		}
		doc, err := data.NewDocument(value)
		if err != nil {
			return false, typeErr
		}
		return doc.Len() == 0, nil
	case kindBool:
		b, ok := value.(bool)
		if !ok {
			return false, typeErr
		}
		return !b, nil
	default:
		r := goreflect.ValueNoEscapeOf(value)
		switch r.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return r.Int() == 0, nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return r.Uint() == 0, nil
		default:
			return false, typeErr
		}
	}
}

// CheckDocumentsToInsert implements domain.Validator.
func (v *Validator) CheckDocumentsToInsert(docOrDocs any) error {
	if data.IsMapping(docOrDocs) {
		return nil
	}
	if !data.IsSequence(docOrDocs) {
		return domain.ErrDocumentType{Expected: "a document or a list of documents", Value: docOrDocs}
	}
	for _, doc := range data.Elements(docOrDocs) {
		if !data.IsMapping(doc) {
			return domain.ErrDocumentType{Expected: "a document", Value: doc}
		}
	}
	return nil
}

// CheckDocumentToUpdate implements domain.Validator.
func (v *Validator) CheckDocumentToUpdate(document any) error {
	if !data.IsMapping(document) {
		return domain.ErrDocumentType{Expected: "a document", Value: document}
	}
	doc, err := data.NewDocument(document)
	if err != nil {
		return err
	}
	for key := range doc.Keys() {
		if !slices.Contains(UpdateOperators, key) {
			return domain.ErrInvalidUpdateOperator{Operator: key}
		}
	}
	return nil
}
