package mexc

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Escaper renders a query value for the wire.
type Escaper func(string) string

// RawEscaper leaves values untouched.
func RawEscaper(s string) string { return s }

// URLEscaper percent-encodes values.
func URLEscaper(s string) string { return url.QueryEscape(s) }

// Query is an ordered list of key=value pairs. Empty strings and numeric
// zeros are dropped on Add, so optional parameters can be passed through
// unconditionally.
type Query struct {
	params []string
	escape Escaper
}

// NewQuery creates an empty query using escape for values. A nil escaper
// means URLEscaper.
func NewQuery(escape Escaper) *Query {
	if escape == nil {
		escape = URLEscaper
	}
	return &Query{escape: escape}
}

func (q *Query) add(key, value string) *Query {
	q.params = append(q.params, key+"="+q.escape(value))
	return q
}

// AddString adds key=value unless value is empty.
func (q *Query) AddString(key, value string) *Query {
	if value == "" {
		return q
	}
	return q.add(key, value)
}

// AddInt adds key=value unless value is zero.
func (q *Query) AddInt(key string, value int) *Query {
	return q.AddInt64(key, int64(value))
}

// AddInt64 adds key=value unless value is zero.
func (q *Query) AddInt64(key string, value int64) *Query {
	if value == 0 {
		return q
	}
	return q.add(key, strconv.FormatInt(value, 10))
}

// AddUint64 adds key=value unless value is zero.
func (q *Query) AddUint64(key string, value uint64) *Query {
	if value == 0 {
		return q
	}
	return q.add(key, strconv.FormatUint(value, 10))
}

// AddFloat adds key=value unless value is zero. The shortest exact decimal
// form is used, never exponent notation.
func (q *Query) AddFloat(key string, value float64) *Query {
	if value == 0 {
		return q
	}
	return q.add(key, strconv.FormatFloat(value, 'f', -1, 64))
}

// AddDecimal adds key=value unless value is zero.
func (q *Query) AddDecimal(key string, value decimal.Decimal) *Query {
	if value.IsZero() {
		return q
	}
	return q.add(key, value.String())
}

// AddBool always adds the field as true or false.
func (q *Query) AddBool(key string, value bool) *Query {
	return q.add(key, strconv.FormatBool(value))
}

// AddStrings adds one key=value pair per non-empty element.
func (q *Query) AddStrings(key string, values []string) *Query {
	for _, v := range values {
		q.AddString(key, v)
	}
	return q
}

// Len returns the number of encoded pairs.
func (q *Query) Len() int {
	return len(q.params)
}

// String joins the pairs with '&' in insertion order.
func (q *Query) String() string {
	return strings.Join(q.params, "&")
}
