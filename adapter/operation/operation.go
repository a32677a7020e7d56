// Package operation holds the operation tables of the MongoLab REST API, one
// per supported version.
package operation

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/vinicius-lino-figueiredo/mongolab/domain"
)

// Path of the collection resources, shared by several operations.
const (
	collectionPath = "databases/{db}/collections/{col}"
	documentPath   = collectionPath + "/{id}"
)

type table struct {
	baseURL    string
	operations map[domain.OperationID]domain.Operation
}

var tables = map[domain.Version]table{
	domain.V1: {
		baseURL: "https://api.mongolab.com/api/1/",
		operations: index(
			domain.Operation{ID: domain.OpValidateAPIKey, Method: http.MethodGet, Template: ""},
			domain.Operation{ID: domain.OpListDatabases, Method: http.MethodGet, Template: "databases"},
			domain.Operation{ID: domain.OpListCollections, Method: http.MethodGet, Template: "databases/{db}/collections"},
			domain.Operation{ID: domain.OpListDocuments, Method: http.MethodGet, Template: collectionPath},
			domain.Operation{ID: domain.OpInsertDocuments, Method: http.MethodPost, Template: collectionPath},
			domain.Operation{ID: domain.OpUpdateDocuments, Method: http.MethodPut, Template: collectionPath},
			domain.Operation{ID: domain.OpDeleteReplaceDocuments, Method: http.MethodPut, Template: collectionPath},
			domain.Operation{ID: domain.OpViewDocument, Method: http.MethodGet, Template: documentPath},
			domain.Operation{ID: domain.OpUpdateDocument, Method: http.MethodPut, Template: documentPath},
			domain.Operation{ID: domain.OpDeleteDocument, Method: http.MethodDelete, Template: documentPath},
			domain.Operation{ID: domain.OpRunCommand, Method: http.MethodPost, Template: "databases/{db}/runCommand"},
		),
	},
}

func index(ops ...domain.Operation) map[domain.OperationID]domain.Operation {
	res := make(map[domain.OperationID]domain.Operation, len(ops))
	for _, op := range ops {
		res[op.ID] = op
	}
	return res
}

// Supported reports whether an operation table exists for v.
func Supported(v domain.Version) bool {
	_, ok := tables[v]
	return ok
}

// BaseURL returns the base URL of version v.
func BaseURL(v domain.Version) (string, error) {
	t, ok := tables[v]
	if !ok {
		return "", domain.ErrUnsupportedVersion{Version: v}
	}
	return t.baseURL, nil
}

// Lookup returns the descriptor of op in the table of version v.
func Lookup(v domain.Version, op domain.OperationID) (domain.Operation, error) {
	t, ok := tables[v]
	if !ok {
		return domain.Operation{}, domain.ErrUnsupportedVersion{Version: v}
	}
	res, ok := t.operations[op]
	if !ok {
		return domain.Operation{}, domain.ErrUnknownOperation{Operation: op, Version: v}
	}
	return res, nil
}

// Expand replaces every {name} placeholder of template by the path-escaped
// value of the matching slot. A missing slot is a programming error and
// panics.
func Expand(template string, slots domain.Slots) string {
	var sb strings.Builder
	rest := template
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			sb.WriteString(rest)
			return sb.String()
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			panic(fmt.Sprintf("unterminated placeholder in template %q", template))
		}
		end += start
		name := rest[start+1 : end]
		value, ok := slots[name]
		if !ok {
			panic(fmt.Sprintf("missing slot %q for template %q", name, template))
		}
		sb.WriteString(rest[:start])
		sb.WriteString(url.PathEscape(value))
		rest = rest[end+1:]
	}
}
