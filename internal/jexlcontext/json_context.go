package jexlcontext

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/jexl-go/jexl/internal/value"
)

// JSONContext bridges a JSON document into the JEXL Context contract:
// `Get`/`Has` are gjson path lookups, `Set` round-trips through sjson.
// This is the `jexl eval --json-context` wiring SPEC_FULL §2 calls out for the
// domain stack's JSON libraries — the teacher has no JSON dependency of
// its own to generalize from, so this type is new, but it follows
// MapContext's shape (flat Context, no lexical chaining) for consistency.
type JSONContext struct {
	doc  string
	opts *Options
}

// NewJSONContext wraps raw JSON text. opts defaults per NewDefaultOptions
// if nil.
func NewJSONContext(doc string, opts *Options) *JSONContext {
	if opts == nil {
		opts = NewDefaultOptions()
	}
	return &JSONContext{doc: doc, opts: opts}
}

func (c *JSONContext) Get(name string) (value.Value, bool) {
	res := gjson.Get(c.doc, name)
	if !res.Exists() {
		return nil, false
	}
	return gjsonToValue(res), true
}

func (c *JSONContext) Has(name string) bool {
	return gjson.Get(c.doc, name).Exists()
}

func (c *JSONContext) Set(name string, v value.Value) error {
	goVal := jexlValueToGo(v)
	next, err := sjson.Set(c.doc, name, goVal)
	if err != nil {
		return fmt.Errorf("jsoncontext: set %q: %w", name, err)
	}
	c.doc = next
	return nil
}

func (c *JSONContext) EngineOptions() *Options { return c.opts }

// Document returns the current JSON text, reflecting any Set calls.
func (c *JSONContext) Document() string { return c.doc }

func gjsonToValue(r gjson.Result) value.Value {
	switch r.Type {
	case gjson.Null:
		return value.Var
	case gjson.False:
		return value.Bool{Value: false}
	case gjson.True:
		return value.Bool{Value: true}
	case gjson.Number:
		if r.Num == float64(int64(r.Num)) {
			return value.Int{Value: int64(r.Num)}
		}
		return value.Float{Value: r.Num}
	case gjson.String:
		return value.Str{Value: r.Str}
	case gjson.JSON:
		if r.IsArray() {
			list := &value.List{}
			for _, it := range r.Array() {
				list.Items = append(list.Items, gjsonToValue(it))
			}
			return list
		}
		m := value.NewMap()
		r.ForEach(func(k, v gjson.Result) bool {
			m.Set(value.Str{Value: k.String()}, gjsonToValue(v))
			return true
		})
		return m
	default:
		return value.Var
	}
}

func jexlValueToGo(v value.Value) any {
	switch t := v.(type) {
	case value.Null:
		return nil
	case value.Bool:
		return t.Value
	case value.Int:
		return t.Value
	case value.Float:
		return t.Value
	case value.Str:
		return t.Value
	case *value.List:
		out := make([]any, len(t.Items))
		for i, it := range t.Items {
			out[i] = jexlValueToGo(it)
		}
		return out
	case *value.Map:
		out := map[string]any{}
		for _, k := range t.Keys() {
			val, _ := t.Get(k)
			out[k.String()] = jexlValueToGo(val)
		}
		return out
	default:
		return v.String()
	}
}
