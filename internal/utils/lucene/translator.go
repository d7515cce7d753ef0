package lucene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/grindlemire/go-lucene"
	"github.com/grindlemire/go-lucene/pkg/lucene/expr"
)

// numericFields are catalog fields indexed as numbers. Equality and range
// terms against them become numeric range queries instead of match queries.
var numericFields = map[string]bool{
	"index":    true,
	"itu_code": true,
}

// IsLikelyLucene reports whether a query string looks like Lucene syntax.
// The check is conservative so bare-word queries stay on the default
// query-string path.
func IsLikelyLucene(q string) bool {
	q = strings.TrimSpace(q)
	if q == "" {
		return false
	}

	// Field:value pairs are the strongest signal.
	if strings.Contains(q, ":") && !strings.Contains(q, "{") && !strings.Contains(q, "}") {
		return true
	}

	// Boolean operators in upper case.
	for _, op := range []string{" AND ", " OR ", " NOT ", "&&", "||"} {
		if strings.Contains(q, op) {
			return true
		}
	}

	return false
}

// Translate parses a Lucene query and rebuilds it as a Bleve query over the
// alarm index. It returns ok=false when the expression uses constructs with
// no Bleve mapping here, in which case the caller should fall back to
// Bleve's own query string syntax.
func Translate(q string) (query.Query, bool) {
	parsed, err := lucene.Parse(q)
	if err != nil {
		return nil, false
	}

	bq, err := buildBleveQuery(parsed)
	if err != nil {
		return nil, false
	}

	return bq, true
}

// buildBleveQuery walks the go-lucene AST and emits the equivalent Bleve
// query node for each operator.
func buildBleveQuery(e *expr.Expression) (query.Query, error) {
	if e == nil {
		return nil, fmt.Errorf("nil expression")
	}

	if e.Op == expr.And {
		left, right, err := operandPair(e)
		if err != nil {
			return nil, err
		}
		return bleve.NewConjunctionQuery(left, right), nil
	}

	if e.Op == expr.Or {
		left, right, err := operandPair(e)
		if err != nil {
			return nil, err
		}
		return bleve.NewDisjunctionQuery(left, right), nil
	}

	if e.Op == expr.Not {
		rightExpr, ok := e.Right.(*expr.Expression)
		if !ok {
			return nil, fmt.Errorf("expected expression for right operand")
		}
		inner, err := buildBleveQuery(rightExpr)
		if err != nil {
			return nil, err
		}
		bq := bleve.NewBooleanQuery()
		bq.AddMustNot(inner)
		return bq, nil
	}

	if e.Op == expr.Equals {
		return buildEqualsQuery(e)
	}

	if e.Op == expr.Like {
		field := extractField(e)
		pattern := ""
		if rightExpr, ok := e.Right.(*expr.Expression); ok && rightExpr.Op == expr.Wild {
			if p, ok := rightExpr.Left.(string); ok {
				pattern = p
			}
		}
		if field == "" || pattern == "" {
			return nil, fmt.Errorf("incomplete wildcard expression")
		}
		// Bleve matches wildcard terms against the lower-cased index terms.
		wq := bleve.NewWildcardQuery(strings.ToLower(pattern))
		wq.SetField(field)
		return wq, nil
	}

	if e.Op == expr.Range {
		return buildRangeQuery(e)
	}

	// Bare wildcard with no field, searched across all indexed fields.
	if e.Op == expr.Wild {
		if pattern, ok := e.Left.(string); ok {
			return bleve.NewWildcardQuery(strings.ToLower(pattern)), nil
		}
		return nil, fmt.Errorf("unexpected wildcard operand type %T", e.Left)
	}

	if e.Op == expr.Fuzzy {
		return nil, fmt.Errorf("fuzzy queries not supported")
	}

	// Bare term with no field, searched across all indexed fields.
	if e.Op == expr.Literal {
		if str, ok := e.Left.(string); ok {
			if strings.HasPrefix(str, `"`) && strings.HasSuffix(str, `"`) {
				return bleve.NewMatchPhraseQuery(strings.Trim(str, `"`)), nil
			}
			return bleve.NewMatchQuery(str), nil
		}
		return nil, fmt.Errorf("unsupported literal type %T", e.Left)
	}

	return nil, fmt.Errorf("unsupported lucene operator %v", e.Op)
}

// operandPair builds both sides of a binary boolean expression.
func operandPair(e *expr.Expression) (query.Query, query.Query, error) {
	leftExpr, ok := e.Left.(*expr.Expression)
	if !ok {
		return nil, nil, fmt.Errorf("expected expression for left operand")
	}
	left, err := buildBleveQuery(leftExpr)
	if err != nil {
		return nil, nil, err
	}

	rightExpr, ok := e.Right.(*expr.Expression)
	if !ok {
		return nil, nil, fmt.Errorf("expected expression for right operand")
	}
	right, err := buildBleveQuery(rightExpr)
	if err != nil {
		return nil, nil, err
	}

	return left, right, nil
}

// buildEqualsQuery handles field:value terms. Numeric fields become an
// inclusive range pinned to a single value, quoted phrases become phrase
// matches, everything else a match query on the field.
func buildEqualsQuery(e *expr.Expression) (query.Query, error) {
	field := extractField(e)
	value := extractValue(e)
	if field == "" || value == "" {
		return nil, fmt.Errorf("incomplete field:value expression")
	}

	if numericFields[field] {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("field %s expects a number, got %q", field, value)
		}
		inclusive := true
		nq := bleve.NewNumericRangeInclusiveQuery(&f, &f, &inclusive, &inclusive)
		nq.SetField(field)
		return nq, nil
	}

	if strings.ContainsAny(value, "*?") {
		wq := bleve.NewWildcardQuery(strings.ToLower(value))
		wq.SetField(field)
		return wq, nil
	}

	if strings.Contains(value, " ") {
		pq := bleve.NewMatchPhraseQuery(value)
		pq.SetField(field)
		return pq, nil
	}

	mq := bleve.NewMatchQuery(value)
	mq.SetField(field)
	return mq, nil
}

// buildRangeQuery handles field:[min TO max] terms on numeric fields.
func buildRangeQuery(e *expr.Expression) (query.Query, error) {
	field := extractField(e)
	if field == "" {
		return nil, fmt.Errorf("range expression has no field")
	}
	if !numericFields[field] {
		return nil, fmt.Errorf("range queries only supported on numeric fields, got %s", field)
	}

	rangeBoundary, ok := e.Right.(*expr.RangeBoundary)
	if !ok {
		return nil, fmt.Errorf("range expression has no bounds")
	}

	minVal, err := rangeBound(rangeBoundary.Min)
	if err != nil {
		return nil, err
	}
	maxVal, err := rangeBound(rangeBoundary.Max)
	if err != nil {
		return nil, err
	}

	inclusive := true
	nq := bleve.NewNumericRangeInclusiveQuery(minVal, maxVal, &inclusive, &inclusive)
	nq.SetField(field)
	return nq, nil
}

// rangeBound converts one end of a range to a float pointer, treating nil
// and the lucene open bound "*" as unbounded.
func rangeBound(v any) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	s := strings.Trim(fmt.Sprintf("%v", v), `"`)
	if s == "" || s == "*" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("non-numeric range bound %q", s)
	}
	return &f, nil
}

// extractField pulls the column name out of the left operand of a binary
// lucene expression, or "" when the shape does not match.
func extractField(e *expr.Expression) string {
	if leftExpr, ok := e.Left.(*expr.Expression); ok && leftExpr.Op == expr.Literal {
		if col, ok := leftExpr.Left.(expr.Column); ok {
			return string(col)
		}
	}
	return ""
}

// extractValue pulls the value out of the right operand of a binary lucene
// expression, or "" when the shape does not match.
func extractValue(e *expr.Expression) string {
	rightExpr, ok := e.Right.(*expr.Expression)
	if !ok || rightExpr.Op != expr.Literal {
		return ""
	}
	switch v := rightExpr.Left.(type) {
	case string:
		return strings.Trim(v, `"`)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
