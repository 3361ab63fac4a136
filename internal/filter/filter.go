// Package filter selects parts of a decoded JSON response with JMESPath.
package filter

import (
	"fmt"

	"github.com/jmespath/go-jmespath"
)

// Query is a compiled JMESPath expression
type Query struct {
	expression string
	jp         *jmespath.JMESPath
}

// Compile parses a JMESPath expression
func Compile(expression string) (*Query, error) {
	jp, err := jmespath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}
	return &Query{expression: expression, jp: jp}, nil
}

// String returns the source expression
func (q *Query) String() string {
	return q.expression
}

// Apply evaluates the query against data as produced by encoding/json.
// A path that selects nothing yields nil.
func (q *Query) Apply(data any) (any, error) {
	result, err := q.jp.Search(data)
	if err != nil {
		return nil, fmt.Errorf("JMESPath search failed: %w", err)
	}
	return result, nil
}

// Apply compiles expression and evaluates it against data
func Apply(data any, expression string) (any, error) {
	q, err := Compile(expression)
	if err != nil {
		return nil, err
	}
	return q.Apply(data)
}

// IsValidJMESPath checks if an expression is valid JMESPath syntax
func IsValidJMESPath(expression string) bool {
	_, err := jmespath.Compile(expression)
	return err == nil
}
