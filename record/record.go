// Package record defines the canonical dataset record accepted by the
// Metax registry, and the helpers for building one from harvested
// metadata.
package record

import (
	"fmt"
	"sort"
)

// State is the publication state assigned to every harvested record.
const State = "published"

// FieldOfScienceURL is the field-of-science reference attached to every
// Kielipankki record (linguistics in the okm-tieteenala ontology).
const FieldOfScienceURL = "http://www.yso.fi/onto/okm-tieteenala/ta6121"

// Ref is a bare URI reference, the shape Metax uses for controlled
// vocabulary values.
type Ref struct {
	URL string `json:"url"`
}

// License is a single license entry. CustomURL carries a resource
// specific "more information" link recovered from documentation.
type License struct {
	URL       string `json:"url"`
	CustomURL string `json:"custom_url,omitempty"`
}

// AccessRights describes how a resource may be accessed.
type AccessRights struct {
	License            []License `json:"license"`
	AccessType         Ref       `json:"access_type"`
	RestrictionGrounds []Ref     `json:"restriction_grounds,omitempty"`
}

// Record is the canonical representation of one harvested dataset,
// ready to be sent to Metax. A Record is never partially populated:
// mapping either produces a complete Record or fails with a
// ParsingError.
type Record struct {
	DataCatalog          string            `json:"data_catalog,omitempty"`
	Language             []Ref             `json:"language"`
	FieldOfScience       []Ref             `json:"field_of_science"`
	PersistentIdentifier string            `json:"persistent_identifier"`
	Title                map[string]string `json:"title"`
	Description          map[string]string `json:"description"`
	Modified             string            `json:"modified"`
	Created              string            `json:"created"`
	AccessRights         *AccessRights     `json:"access_rights"`
	Actors               []*Actor          `json:"actors"`
	State                string            `json:"state"`
}

// LanguageRefs converts a set of language URIs to a deterministically
// ordered reference list. Metax treats the list as a set; sorting keeps
// the serialized form stable between runs.
func LanguageRefs(uris map[string]struct{}) []Ref {
	sorted := make([]string, 0, len(uris))
	for uri := range uris {
		sorted = append(sorted, uri)
	}
	sort.Strings(sorted)

	refs := make([]Ref, 0, len(sorted))
	for _, uri := range sorted {
		refs = append(refs, Ref{URL: uri})
	}
	return refs
}

// ParsingError reports that a harvested record could not be mapped to a
// valid canonical Record. Identifier is the best-effort identifier of
// the offending record, for operator-facing messages.
type ParsingError struct {
	Message    string
	Identifier string
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("Error parsing record %s: %s", e.Identifier, e.Message)
}

// NewParsingError creates a ParsingError for the given record identifier.
func NewParsingError(identifier, format string, args ...any) *ParsingError {
	return &ParsingError{
		Message:    fmt.Sprintf(format, args...),
		Identifier: identifier,
	}
}
