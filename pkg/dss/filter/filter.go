// Package filter compiles structured predicates (the public filter
// language used by list/dump/delete operations across the catalog) into
// parameterized SQL fragments. No caller-supplied value is ever
// interpolated into the query text; every comparison value is bound as a
// positional parameter.
package filter

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/cea-hpc/phobos-dss/pkg/dss"
)

// Predicate is one node of a structured filter expression. Exactly one of
// the logical or comparison shapes below is populated per node; Compile
// rejects a node in which more than one or none are set.
type Predicate map[string]any

// MaxDepth bounds predicate recursion to defend the compiler against
// pathologically nested client input.
const MaxDepth = 16

// FieldDictionary maps public filter field names to the storage column
// each entity kind actually exposes them as. A field absent from the
// dictionary cannot be filtered on.
type FieldDictionary map[string]string

// Compiled is a parameterized SQL fragment ready to be embedded after a
// WHERE keyword, along with its positional arguments.
type Compiled struct {
	SQL  string
	Args []any
}

// Compile turns pred into a Compiled WHERE-clause fragment against dict,
// numbering placeholders starting at argOffset+1 (so callers can compile
// a filter after already having bound N parameters of their own).
func Compile(pred Predicate, dict FieldDictionary, argOffset int) (Compiled, error) {
	c := &compiler{dict: dict, argNum: argOffset}
	sql, err := c.compileNode(pred, 0)
	if err != nil {
		return Compiled{}, err
	}
	return Compiled{SQL: sql, Args: c.args}, nil
}

type compiler struct {
	dict   FieldDictionary
	args   []any
	argNum int
}

func (c *compiler) bind(v any) string {
	c.argNum++
	c.args = append(c.args, v)
	return "$" + strconv.Itoa(c.argNum)
}

func (c *compiler) compileNode(pred Predicate, depth int) (string, error) {
	if depth > MaxDepth {
		return "", dss.NewInvalidf("filter predicate exceeds max depth %d", MaxDepth)
	}
	if len(pred) != 1 {
		return "", dss.NewInvalid("filter predicate must have exactly one key")
	}

	for key, val := range pred {
		switch key {
		case "$AND", "$OR", "$NOR":
			return c.compileLogical(key, val, depth)
		case "$NOT":
			sub, ok := val.(Predicate)
			if !ok {
				return "", dss.NewInvalid("$NOT requires a single nested predicate")
			}
			inner, err := c.compileNode(sub, depth+1)
			if err != nil {
				return "", err
			}
			return "NOT (" + inner + ")", nil
		default:
			return c.compileField(key, val)
		}
	}
	panic("unreachable")
}

func (c *compiler) compileLogical(op string, val any, depth int) (string, error) {
	list, ok := val.([]Predicate)
	if !ok || len(list) == 0 {
		return "", dss.NewInvalidf("%s requires a non-empty list of predicates", op)
	}

	parts := make([]string, 0, len(list))
	for _, sub := range list {
		s, err := c.compileNode(sub, depth+1)
		if err != nil {
			return "", err
		}
		parts = append(parts, "("+s+")")
	}

	switch op {
	case "$AND":
		return strings.Join(parts, " AND "), nil
	case "$OR":
		return strings.Join(parts, " OR "), nil
	case "$NOR":
		return "NOT (" + strings.Join(parts, " OR ") + ")", nil
	}
	panic("unreachable")
}

func (c *compiler) compileField(field string, val any) (string, error) {
	col, ok := c.dict[field]
	if !ok {
		return "", dss.NewInvalidf("unknown filter field %q", field)
	}

	// Equality sugar: {"field": value} with a non-operator-map value.
	ops, ok := val.(map[string]any)
	if !ok {
		return col + " = " + c.bind(val), nil
	}

	if len(ops) != 1 {
		return "", dss.NewInvalidf("operator object for field %q must have exactly one key", field)
	}

	for opName, opVal := range ops {
		switch opName {
		case "$GT":
			return col + " > " + c.bind(opVal), nil
		case "$GTE":
			return col + " >= " + c.bind(opVal), nil
		case "$LT":
			return col + " < " + c.bind(opVal), nil
		case "$LTE":
			return col + " <= " + c.bind(opVal), nil
		case "$NE":
			return col + " <> " + c.bind(opVal), nil
		case "$LIKE":
			s, ok := opVal.(string)
			if !ok {
				return "", dss.NewInvalidf("$LIKE on %q requires a string pattern", field)
			}
			return col + " LIKE " + c.bind(s), nil
		case "$REGEXP":
			s, ok := opVal.(string)
			if !ok {
				return "", dss.NewInvalidf("$REGEXP on %q requires a string pattern", field)
			}
			return col + " ~ " + c.bind(s), nil
		case "$XJSON":
			// Containment: stored JSONB column contains the supplied
			// fragment (subset match), e.g. user_md @> '{"tag":"x"}'.
			return col + " @> " + c.bind(opVal) + "::jsonb", nil
		case "$INJSON":
			// Key existence: stored JSONB column has the given top-level
			// key(s), e.g. user_md ? 'tag' or user_md ?& array['tag','owner'].
			switch keys := opVal.(type) {
			case string:
				return col + " ? " + c.bind(keys), nil
			case []string:
				return col + " ?& " + c.bind(keys) + "::text[]", nil
			default:
				return "", dss.NewInvalidf("$INJSON on %q requires a string key or a list of keys", field)
			}
		default:
			return "", dss.NewInvalidf("unknown filter operator %q on field %q", opName, field)
		}
	}
	panic("unreachable")
}

// Validate checks that pred only references fields present in dict and
// respects MaxDepth, without producing SQL. Useful for a dry-run check
// before a catalog round-trip.
func Validate(pred Predicate, dict FieldDictionary) error {
	_, err := Compile(pred, dict, 0)
	return err
}

// Describe renders pred as a human-readable string for logs/errors,
// never used to build SQL.
func Describe(pred Predicate) string {
	return fmt.Sprintf("%v", map[string]any(pred))
}

// Match evaluates pred against record directly, without a SQL backend.
// record keys are the same public field names dict accepts; a field
// dict maps to storage columns is irrelevant here since there is no
// column to reach. Used by the in-memory store so its matching logic
// stays in lockstep with the SQL compiler's semantics.
func Match(pred Predicate, dict FieldDictionary, record map[string]any) (bool, error) {
	return matchNode(pred, dict, record, 0)
}

func matchNode(pred Predicate, dict FieldDictionary, record map[string]any, depth int) (bool, error) {
	if depth > MaxDepth {
		return false, dss.NewInvalidf("filter predicate exceeds max depth %d", MaxDepth)
	}
	if len(pred) != 1 {
		return false, dss.NewInvalid("filter predicate must have exactly one key")
	}

	for key, val := range pred {
		switch key {
		case "$AND", "$OR", "$NOR":
			return matchLogical(key, val, dict, record, depth)
		case "$NOT":
			sub, ok := val.(Predicate)
			if !ok {
				return false, dss.NewInvalid("$NOT requires a single nested predicate")
			}
			inner, err := matchNode(sub, dict, record, depth+1)
			if err != nil {
				return false, err
			}
			return !inner, nil
		default:
			return matchField(key, val, dict, record)
		}
	}
	panic("unreachable")
}

func matchLogical(op string, val any, dict FieldDictionary, record map[string]any, depth int) (bool, error) {
	list, ok := val.([]Predicate)
	if !ok || len(list) == 0 {
		return false, dss.NewInvalidf("%s requires a non-empty list of predicates", op)
	}

	switch op {
	case "$AND":
		for _, sub := range list {
			ok, err := matchNode(sub, dict, record, depth+1)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case "$OR", "$NOR":
		matched := false
		for _, sub := range list {
			ok, err := matchNode(sub, dict, record, depth+1)
			if err != nil {
				return false, err
			}
			if ok {
				matched = true
				break
			}
		}
		if op == "$NOR" {
			return !matched, nil
		}
		return matched, nil
	}
	panic("unreachable")
}

func matchField(field string, val any, dict FieldDictionary, record map[string]any) (bool, error) {
	if _, ok := dict[field]; !ok {
		return false, dss.NewInvalidf("unknown filter field %q", field)
	}
	fieldVal := record[field]

	ops, ok := val.(map[string]any)
	if !ok {
		return compareEqual(fieldVal, val), nil
	}
	if len(ops) != 1 {
		return false, dss.NewInvalidf("operator object for field %q must have exactly one key", field)
	}

	for opName, opVal := range ops {
		switch opName {
		case "$GT":
			return compareOrdered(fieldVal, opVal) > 0, nil
		case "$GTE":
			return compareOrdered(fieldVal, opVal) >= 0, nil
		case "$LT":
			return compareOrdered(fieldVal, opVal) < 0, nil
		case "$LTE":
			return compareOrdered(fieldVal, opVal) <= 0, nil
		case "$NE":
			return !compareEqual(fieldVal, opVal), nil
		case "$LIKE":
			s, ok := opVal.(string)
			if !ok {
				return false, dss.NewInvalidf("$LIKE on %q requires a string pattern", field)
			}
			return matchLike(fmt.Sprintf("%v", fieldVal), s), nil
		case "$REGEXP":
			s, ok := opVal.(string)
			if !ok {
				return false, dss.NewInvalidf("$REGEXP on %q requires a string pattern", field)
			}
			re, err := regexp.Compile(s)
			if err != nil {
				return false, dss.NewInvalidf("invalid $REGEXP pattern on %q: %v", field, err)
			}
			return re.MatchString(fmt.Sprintf("%v", fieldVal)), nil
		case "$XJSON":
			return jsonContains(fieldVal, opVal), nil
		case "$INJSON":
			return jsonHasKeys(fieldVal, opVal), nil
		default:
			return false, dss.NewInvalidf("unknown filter operator %q on field %q", opName, field)
		}
	}
	panic("unreachable")
}

func compareEqual(a, b any) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

// compareOrdered compares numeric or time.Time-ish values by formatted
// string fallback when types don't match a known ordered kind.
func compareOrdered(a, b any) int {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as, bs := fmt.Sprintf("%v", a), fmt.Sprintf("%v", b)
	return strings.Compare(as, bs)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func matchLike(s, pattern string) bool {
	// SQL LIKE: % matches any run, _ matches one char. Translate to a
	// regexp anchor-to-anchor match.
	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	re, err := regexp.Compile(b.String())
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

// jsonContains reports whether outer (the stored document) contains
// every key/value pair present in inner, mirroring Postgres JSONB's @>
// containment operator for the map shapes the catalog stores.
func jsonContains(outer, inner any) bool {
	innerMap, ok := inner.(map[string]any)
	if !ok {
		return reflect.DeepEqual(outer, inner)
	}
	outerMap, ok := outer.(map[string]any)
	if !ok {
		return false
	}
	for k, v := range innerMap {
		ov, exists := outerMap[k]
		if !exists || !reflect.DeepEqual(ov, v) {
			return false
		}
	}
	return true
}

// jsonHasKeys reports whether field (the stored document) has every key
// in keys at the top level, regardless of value, mirroring Postgres
// JSONB's ?/?& key-existence operators. keys is a single key name or a
// []string of keys that must all be present.
func jsonHasKeys(field, keys any) bool {
	m, ok := field.(map[string]any)
	if !ok {
		return false
	}
	switch k := keys.(type) {
	case string:
		_, exists := m[k]
		return exists
	case []string:
		for _, key := range k {
			if _, exists := m[key]; !exists {
				return false
			}
		}
		return true
	default:
		return false
	}
}
