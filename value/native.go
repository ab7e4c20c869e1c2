package value

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// TagName is the struct tag consulted when a Go struct is used as a value.
const TagName = "fb"

// Of adapts a Go value. Maps with string keys, yaml.MapSlice and structs
// become KindMap; slices and arrays become KindList except []byte, which
// reads as a string. nil and nil pointers are KindNull.
func Of(x any) Value {
	if v, ok := x.(Value); ok {
		return v
	}
	return native{x: x}
}

type native struct {
	x any
}

func (n native) Kind() Kind {
	switch x := n.x.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int, int8, int16, int32, int64:
		return KindInt
	case uint, uint8, uint16, uint32, uint64, uintptr:
		return KindUint
	case float32, float64:
		return KindFloat
	case string, []byte:
		return KindString
	case json.Number:
		return numberKind(x)
	case map[string]any, map[any]any, yaml.MapSlice:
		return KindMap
	case []any:
		return KindList
	}
	return reflectKind(reflect.ValueOf(n.x))
}

func numberKind(n json.Number) Kind {
	s := string(n)
	if strings.ContainsAny(s, ".eE") {
		return KindFloat
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return KindInt
	}
	if _, err := strconv.ParseUint(s, 10, 64); err == nil {
		return KindUint
	}
	return KindFloat
}

func reflectKind(rv reflect.Value) Kind {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return KindNull
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return KindUint
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.String:
		return KindString
	case reflect.Slice:
		if rv.IsNil() {
			return KindNull
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return KindString
		}
		return KindList
	case reflect.Array:
		return KindList
	case reflect.Map:
		if rv.IsNil() {
			return KindNull
		}
		if rv.Type().Key().Kind() == reflect.String {
			return KindMap
		}
	case reflect.Struct:
		return KindMap
	}
	return KindNull
}

func deref(x any) reflect.Value {
	rv := reflect.ValueOf(x)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

func (n native) Field(name string) (Value, bool) {
	switch m := n.x.(type) {
	case map[string]any:
		v, ok := m[name]
		return Of(v), ok
	case map[any]any:
		v, ok := m[name]
		return Of(v), ok
	case yaml.MapSlice:
		for _, item := range m {
			if k, ok := item.Key.(string); ok && k == name {
				return Of(item.Value), true
			}
		}
		return nil, false
	}

	rv := deref(n.x)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return Of(v.Interface()), true
	case reflect.Struct:
		return structField(rv, name)
	}
	return nil, false
}

func structField(rv reflect.Value, name string) (Value, bool) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		fieldName := sf.Name
		if tag, ok := sf.Tag.Lookup(TagName); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				fieldName = tagName
			}
		}
		if fieldName == name || (sf.Tag.Get(TagName) == "" && strings.EqualFold(fieldName, name)) {
			return Of(rv.Field(i).Interface()), true
		}
	}
	return nil, false
}

func (n native) Len() int {
	switch x := n.x.(type) {
	case []any:
		return len(x)
	case string:
		return len(x)
	case []byte:
		return len(x)
	case map[string]any:
		return len(x)
	case map[any]any:
		return len(x)
	case yaml.MapSlice:
		return len(x)
	}
	rv := deref(n.x)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
		return rv.Len()
	}
	return 0
}

func (n native) Index(i int) Value {
	if x, ok := n.x.([]any); ok {
		return Of(x[i])
	}
	rv := deref(n.x)
	return Of(rv.Index(i).Interface())
}

func (n native) Bool() bool {
	if b, ok := n.x.(bool); ok {
		return b
	}
	rv := deref(n.x)
	return rv.Kind() == reflect.Bool && rv.Bool()
}

func (n native) Int() int64 {
	switch x := n.x.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case json.Number:
		i, _ := x.Int64()
		return i
	}
	rv := deref(n.x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return math.MaxInt64
		}
		return int64(u)
	case reflect.Float32, reflect.Float64:
		return int64(rv.Float())
	}
	return 0
}

func (n native) Uint() uint64 {
	switch x := n.x.(type) {
	case uint64:
		return x
	case uint32:
		return uint64(x)
	case json.Number:
		u, _ := strconv.ParseUint(string(x), 10, 64)
		return u
	}
	rv := deref(n.x)
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if i := rv.Int(); i > 0 {
			return uint64(i)
		}
	case reflect.Float32, reflect.Float64:
		if f := rv.Float(); f > 0 {
			return uint64(f)
		}
	}
	return 0
}

func (n native) Float() float64 {
	switch x := n.x.(type) {
	case float64:
		return x
	case json.Number:
		f, _ := x.Float64()
		return f
	}
	rv := deref(n.x)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint())
	}
	return 0
}

func (n native) Text() string {
	switch x := n.x.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	}
	rv := deref(n.x)
	switch {
	case rv.Kind() == reflect.String:
		return rv.String()
	case rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8:
		return string(rv.Bytes())
	}
	return ""
}
