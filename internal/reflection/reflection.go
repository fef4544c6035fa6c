// Package reflection provides the reflection-based analysis behind
// function invocation and parameter-object injection.
package reflection

import (
	"fmt"
	"reflect"
)

// In marks a struct as a parameter object. Embed it anonymously:
//
//	type Params struct {
//	    reflection.In
//
//	    Database *sql.DB
//	    Cache    Cache `name:"redis" optional:"true"`
//	}
type In struct{}

var (
	inType  = reflect.TypeOf((*In)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

// FuncInfo describes an analyzed function.
type FuncInfo struct {
	Type           reflect.Type
	Value          reflect.Value
	Params         []reflect.Type
	IsVariadic     bool
	HasErrorReturn bool // last return value is error
}

// AnalyzeFunc validates that fn is a callable function and extracts its
// parameter and return shape.
func AnalyzeFunc(fn any) (*FuncInfo, error) {
	if fn == nil {
		return nil, fmt.Errorf("function cannot be nil")
	}

	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, fmt.Errorf("expected a function, got %v", t)
	}

	info := &FuncInfo{
		Type:       t,
		Value:      v,
		IsVariadic: t.IsVariadic(),
		Params:     make([]reflect.Type, t.NumIn()),
	}

	for i := 0; i < t.NumIn(); i++ {
		info.Params[i] = t.In(i)
	}

	if n := t.NumOut(); n > 0 && t.Out(n-1) == errType {
		info.HasErrorReturn = true
	}

	return info, nil
}

// Call invokes the analyzed function with the given argument values and
// splits a trailing error return out of the results.
func (f *FuncInfo) Call(args []reflect.Value) ([]any, error) {
	out := f.Value.Call(args)

	if f.HasErrorReturn {
		last := out[len(out)-1]
		out = out[:len(out)-1]
		if !last.IsNil() {
			results := valuesToAny(out)
			return results, last.Interface().(error)
		}
	}

	return valuesToAny(out), nil
}

func valuesToAny(values []reflect.Value) []any {
	results := make([]any, len(values))
	for i, v := range values {
		results[i] = v.Interface()
	}
	return results
}

// Field describes an injectable field of a parameter object.
type Field struct {
	Index    int
	Name     string       // struct field name
	Type     reflect.Type
	NameTag  string       // from name:"..." tag
	Optional bool         // from optional:"true" tag
}

// IsInStruct reports whether t is a struct with an anonymously embedded
// In field.
func IsInStruct(t reflect.Type) bool {
	if t == nil || t.Kind() != reflect.Struct {
		return false
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous && field.Type == inType {
			return true
		}
	}

	return false
}

// ParseInStruct extracts the injectable fields of a parameter object.
// Unexported fields and the embedded In itself are skipped.
func ParseInStruct(t reflect.Type) ([]Field, error) {
	if !IsInStruct(t) {
		return nil, fmt.Errorf("%v is not a parameter object: embed In anonymously", t)
	}

	var fields []Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)

		if sf.Anonymous && sf.Type == inType {
			continue
		}
		if !sf.IsExported() {
			continue
		}

		field := Field{
			Index:   i,
			Name:    sf.Name,
			Type:    sf.Type,
			NameTag: sf.Tag.Get("name"),
		}

		switch sf.Tag.Get("optional") {
		case "", "false":
		case "true":
			field.Optional = true
		default:
			return nil, fmt.Errorf("field %s: optional tag must be \"true\" or \"false\", got %q",
				sf.Name, sf.Tag.Get("optional"))
		}

		fields = append(fields, field)
	}

	return fields, nil
}
