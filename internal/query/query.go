// Package query implements the composable record predicates used to
// filter processing results.
package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/grobinson/webminer/internal/record"
)

// Query decides whether a record matches.
type Query interface {
	Matches(rec record.Record) bool
}

type textQuery struct {
	term          string
	caseSensitive bool
}

// NewText matches records whose title or text content contains term as
// a substring. With caseSensitive false the comparison is folded to
// lower case.
func NewText(term string, caseSensitive bool) Query {
	return textQuery{term: term, caseSensitive: caseSensitive}
}

func (q textQuery) Matches(rec record.Record) bool {
	title, text, term := rec.Title, rec.TextContent, q.term
	if !q.caseSensitive {
		title = strings.ToLower(title)
		text = strings.ToLower(text)
		term = strings.ToLower(term)
	}
	return strings.Contains(title, term) || strings.Contains(text, term)
}

type regexQuery struct {
	re *regexp.Regexp
}

// NewRegex matches records whose title or text content contains a
// match for pattern. A malformed pattern is rejected here rather than
// at evaluation time.
func NewRegex(pattern string) (Query, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile query pattern: %w", err)
	}
	return regexQuery{re: re}, nil
}

func (q regexQuery) Matches(rec record.Record) bool {
	return q.re.MatchString(rec.Title) || q.re.MatchString(rec.TextContent)
}

type urlRegexQuery struct {
	re *regexp.Regexp
}

// NewURLRegex matches records whose URL contains a match for pattern.
func NewURLRegex(pattern string) (Query, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile url pattern: %w", err)
	}
	return urlRegexQuery{re: re}, nil
}

func (q urlRegexQuery) Matches(rec record.Record) bool {
	return q.re.MatchString(rec.URL)
}

type metadataQuery struct {
	key   string
	value string
}

// NewMetadata matches records whose metadata maps key exactly to
// value.
func NewMetadata(key, value string) Query {
	return metadataQuery{key: key, value: value}
}

func (q metadataQuery) Matches(rec record.Record) bool {
	v, ok := rec.Metadata[q.key]
	return ok && v == q.value
}

type andQuery struct {
	children []Query
}

// And matches when every child matches. With no children it matches
// everything.
func And(children ...Query) Query {
	return andQuery{children: children}
}

func (q andQuery) Matches(rec record.Record) bool {
	for _, c := range q.children {
		if !c.Matches(rec) {
			return false
		}
	}
	return true
}

type orQuery struct {
	children []Query
}

// Or matches when at least one child matches. With no children it
// matches nothing.
func Or(children ...Query) Query {
	return orQuery{children: children}
}

func (q orQuery) Matches(rec record.Record) bool {
	for _, c := range q.children {
		if c.Matches(rec) {
			return true
		}
	}
	return false
}

type notQuery struct {
	child Query
}

// Not inverts child. A nil child matches nothing.
func Not(child Query) Query {
	return notQuery{child: child}
}

func (q notQuery) Matches(rec record.Record) bool {
	if q.child == nil {
		return false
	}
	return !q.child.Matches(rec)
}

// Filter returns the records matching q, preserving input order. A nil
// query keeps everything.
func Filter(q Query, records []record.Record) []record.Record {
	if q == nil {
		return records
	}
	out := make([]record.Record, 0, len(records))
	for _, rec := range records {
		if q.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}
