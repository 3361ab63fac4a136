package render

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jmespath/go-jmespath"
)

// SummaryRule describes one optional summary line.
// Expr selects the value from the response data. When, if set, is evaluated
// instead of Expr to decide whether the line is shown. Present shows the line
// for any non-null value rather than only truthy ones.
type SummaryRule struct {
	Label   string
	Expr    string
	When    string
	Present bool
	Format  func(value any) string
}

// SummaryLine is one rendered summary entry
type SummaryLine struct {
	Label string
	Value string
}

// DefaultRules probe the fields the backend commonly returns
var DefaultRules = []SummaryRule{
	{Label: "Message", Expr: "message"},
	{Label: "Success", Expr: "success", Present: true, Format: formatCheck},
	{Label: "Processed by", Expr: "metadata.processed_by"},
	{Label: "Data points", Expr: "result.statistics.count", When: "result.statistics"},
	{Label: "Model", Expr: "result.model_type"},
}

type compiledRule struct {
	rule SummaryRule
	expr *jmespath.JMESPath
	when *jmespath.JMESPath
}

// Summarizer evaluates a compiled rule set
type Summarizer struct {
	rules []compiledRule
}

var defaultSummarizer = mustSummarizer(DefaultRules)

func mustSummarizer(rules []SummaryRule) *Summarizer {
	s, err := NewSummarizer(rules)
	if err != nil {
		panic(err)
	}
	return s
}

// NewSummarizer compiles the JMESPath expressions of rules
func NewSummarizer(rules []SummaryRule) (*Summarizer, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		c := compiledRule{rule: rule}

		expr, err := jmespath.Compile(rule.Expr)
		if err != nil {
			return nil, fmt.Errorf("invalid JMESPath expression '%s' for summary %q: %w", rule.Expr, rule.Label, err)
		}
		c.expr = expr

		if rule.When != "" {
			when, err := jmespath.Compile(rule.When)
			if err != nil {
				return nil, fmt.Errorf("invalid JMESPath expression '%s' for summary %q: %w", rule.When, rule.Label, err)
			}
			c.when = when
		}

		compiled = append(compiled, c)
	}
	return &Summarizer{rules: compiled}, nil
}

// Summarize evaluates DefaultRules against data
func Summarize(data any) []SummaryLine {
	return defaultSummarizer.Summarize(data)
}

// Summarize evaluates the rules against data. Absent values are skipped
// and falsy data yields no summary at all.
func (s *Summarizer) Summarize(data any) []SummaryLine {
	if !truthy(data) {
		return nil
	}

	var lines []SummaryLine
	for _, c := range s.rules {
		value, _ := c.expr.Search(data)

		switch {
		case c.when != nil:
			guard, _ := c.when.Search(data)
			if !truthy(guard) {
				continue
			}
		case c.rule.Present:
			if value == nil {
				continue
			}
		default:
			if !truthy(value) {
				continue
			}
		}

		format := c.rule.Format
		if format == nil {
			format = formatValue
		}
		lines = append(lines, SummaryLine{Label: c.rule.Label, Value: format(value)})
	}
	return lines
}

// truthy follows the usual JSON-ish rules: null, false, 0 and "" are false.
// Objects and arrays are true even when empty.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	}
	return true
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func formatCheck(v any) string {
	if truthy(v) {
		return "✓"
	}
	return "✗"
}
