// Package source reads declaration documents and runtime values.
//
// Documents are YAML (gopkg.in/yaml.v3, multi-document streams are merged)
// or JSON (github.com/goccy/go-json). Parse failures are reported as
// adtmatch.Issues with code parse_error so tools can render them alongside
// declaration errors.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/adtmatch"
	"github.com/reoring/adtmatch/i18n"
)

// Format names a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf guesses the encoding from a file name; anything that is not
// .json is read as YAML, which is a superset of JSON.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// LoadFile reads the declaration document at path.
func LoadFile(path string) (adtmatch.Declarations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return adtmatch.Declarations{}, err
	}
	d, err := Load(data, FormatOf(path))
	if err != nil {
		return adtmatch.Declarations{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// LoadFiles reads and merges several documents in order.
func LoadFiles(paths ...string) (adtmatch.Declarations, error) {
	var all adtmatch.Declarations
	for _, p := range paths {
		d, err := LoadFile(p)
		if err != nil {
			return adtmatch.Declarations{}, err
		}
		all.Merge(d)
	}
	return all, nil
}

// Load decodes data in the given format.
func Load(data []byte, f Format) (adtmatch.Declarations, error) {
	if f == FormatJSON {
		return LoadJSON(data)
	}
	return LoadYAML(data)
}

// LoadYAML decodes a YAML stream. Every document holds types and/or
// matches; they are merged in stream order. Unknown keys are rejected.
func LoadYAML(data []byte) (adtmatch.Declarations, error) {
	var all adtmatch.Declarations
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	for i := 0; ; i++ {
		var d adtmatch.Declarations
		if err := dec.Decode(&d); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return adtmatch.Declarations{}, parseIssue(err, "document", i)
		}
		normalizeDecls(&d)
		all.Merge(d)
	}
	return all, nil
}

// LoadJSON decodes a single JSON document. Unknown and duplicate keys are
// rejected.
func LoadJSON(data []byte) (adtmatch.Declarations, error) {
	if err := rejectDuplicateKeys(data); err != nil {
		return adtmatch.Declarations{}, err
	}
	var d adtmatch.Declarations
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return adtmatch.Declarations{}, parseIssue(err, "", 0)
	}
	normalizeDecls(&d)
	return d, nil
}

func parseIssue(err error, kind string, i int) error {
	at := adtmatch.RootPath()
	if kind != "" && i > 0 {
		at = at.Field(kind).Index(i)
	}
	it := at.Issue(adtmatch.CodeParseError, i18n.T(adtmatch.CodeParseError, nil))
	it.Hint = err.Error()
	it.Cause = err
	return adtmatch.Issues{it}
}

// normalizeDecls rewrites literal values decoded from YAML into JSON-like
// scalars so both encodings produce identical patterns.
func normalizeDecls(d *adtmatch.Declarations) {
	for i := range d.Matches {
		for k := range d.Matches[i].Clauses {
			normalizeSyntax(&d.Matches[i].Clauses[k].Pattern)
		}
	}
}

func normalizeSyntax(s *adtmatch.Syntax) {
	if s.Value != nil {
		s.Value = normalizeValue(s.Value)
	}
	for i := range s.Args {
		normalizeSyntax(&s.Args[i])
	}
}
