package uberspect

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/shopspring/decimal"

	"github.com/jexl-go/jexl/internal/value"
)

// GoToValue wraps an arbitrary Go value returned from a host method/field
// into the JEXL Value tower. Unrecognized types become an opaque
// value.HostObject so uberspect can keep introspecting them.
func GoToValue(v any) (value.Value, error) {
	switch t := v.(type) {
	case nil:
		return value.Var, nil
	case value.Value:
		return t, nil
	case bool:
		return value.Bool{Value: t}, nil
	case string:
		return value.Str{Value: t}, nil
	case int:
		return value.Int{Value: int64(t)}, nil
	case int64:
		return value.Int{Value: t}, nil
	case int32:
		return value.Int{Value: int64(t)}, nil
	case float64:
		return value.Float{Value: t}, nil
	case float32:
		return value.Float{Value: float64(t)}, nil
	case *big.Int:
		return value.BigInt{Value: t}, nil
	case decimal.Decimal:
		return value.Decimal{Value: t}, nil
	case error:
		return nil, t
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			items := make([]value.Value, rv.Len())
			for i := 0; i < rv.Len(); i++ {
				item, err := GoToValue(rv.Index(i).Interface())
				if err != nil {
					return nil, err
				}
				items[i] = item
			}
			return &value.List{Items: items}, nil
		default:
			return value.HostObject{Ref: v, Class: classNameOf(v)}, nil
		}
	}
}

// ValueToGo converts a JEXL Value into the Go value a reflected method
// parameter of type `target` expects, the inverse of GoToValue.
func ValueToGo(v value.Value, target reflect.Type) (reflect.Value, error) {
	switch target.Kind() {
	case reflect.Bool:
		return reflect.ValueOf(v.Truthy()), nil
	case reflect.String:
		return reflect.ValueOf(v.String()), nil
	case reflect.Int, reflect.Int64, reflect.Int32:
		i, err := value.ToInt(v)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(target).Elem()
		out.SetInt(i)
		return out, nil
	case reflect.Float64, reflect.Float32:
		f, err := value.ToFloat64(v)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(target).Elem()
		out.SetFloat(f)
		return out, nil
	case reflect.Interface:
		if target.NumMethod() == 0 {
			return reflect.ValueOf(unwrapHost(v)), nil
		}
	}
	if ho, ok := v.(value.HostObject); ok {
		rv := reflect.ValueOf(ho.Ref)
		if rv.Type().AssignableTo(target) {
			return rv, nil
		}
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", v.Kind(), target)
}

// unwrapHost returns the underlying Go value for a HostObject, or the
// Value itself for every other arm — used for `any`-typed parameters.
func unwrapHost(v value.Value) any {
	if ho, ok := v.(value.HostObject); ok {
		return ho.Ref
	}
	return v
}
