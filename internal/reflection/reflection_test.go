package reflection

import (
	"errors"
	"reflect"
	"testing"
)

func TestAnalyzeFunc(t *testing.T) {
	t.Run("plain function", func(t *testing.T) {
		info, err := AnalyzeFunc(func(a int, b string) bool { return false })
		if err != nil {
			t.Fatalf("AnalyzeFunc failed: %v", err)
		}

		if len(info.Params) != 2 {
			t.Fatalf("expected 2 params, got %d", len(info.Params))
		}
		if info.Params[0] != reflect.TypeOf(0) || info.Params[1] != reflect.TypeOf("") {
			t.Errorf("unexpected params: %v", info.Params)
		}
		if info.HasErrorReturn {
			t.Error("bool return misdetected as error")
		}
		if info.IsVariadic {
			t.Error("non-variadic function misdetected")
		}
	})

	t.Run("error return detection", func(t *testing.T) {
		info, err := AnalyzeFunc(func() (int, error) { return 0, nil })
		if err != nil {
			t.Fatalf("AnalyzeFunc failed: %v", err)
		}
		if !info.HasErrorReturn {
			t.Error("expected error return to be detected")
		}
	})

	t.Run("variadic detection", func(t *testing.T) {
		info, err := AnalyzeFunc(func(ns ...int) {})
		if err != nil {
			t.Fatalf("AnalyzeFunc failed: %v", err)
		}
		if !info.IsVariadic {
			t.Error("expected variadic to be detected")
		}
	})

	t.Run("nil", func(t *testing.T) {
		if _, err := AnalyzeFunc(nil); err == nil {
			t.Error("expected error for nil")
		}
	})

	t.Run("not a function", func(t *testing.T) {
		if _, err := AnalyzeFunc(42); err == nil {
			t.Error("expected error for non-function")
		}
	})
}

func TestFuncInfo_Call(t *testing.T) {
	t.Run("splits trailing error", func(t *testing.T) {
		boom := errors.New("boom")
		info, _ := AnalyzeFunc(func(fail bool) (int, error) {
			if fail {
				return 0, boom
			}
			return 7, nil
		})

		results, err := info.Call([]reflect.Value{reflect.ValueOf(false)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 1 || results[0] != 7 {
			t.Errorf("unexpected results: %v", results)
		}

		results, err = info.Call([]reflect.Value{reflect.ValueOf(true)})
		if !errors.Is(err, boom) {
			t.Errorf("expected boom, got %v", err)
		}
		if len(results) != 1 {
			t.Errorf("non-error results should still be returned, got %v", results)
		}
	})

	t.Run("no returns", func(t *testing.T) {
		ran := false
		info, _ := AnalyzeFunc(func() { ran = true })

		results, err := info.Call(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("unexpected results: %v", results)
		}
		if !ran {
			t.Error("function did not run")
		}
	})
}

type inParams struct {
	In

	DB      *testDB
	Cache   testIface `name:"redis" optional:"true"`
	ignored int
}

type notIn struct {
	DB *testDB
}

type namedIn struct {
	In In // named field, not embedded
}

type testDB struct{}
type testIface interface{ Get() }

func TestIsInStruct(t *testing.T) {
	tests := []struct {
		name string
		t    reflect.Type
		want bool
	}{
		{"embedded In", reflect.TypeOf(inParams{}), true},
		{"no In", reflect.TypeOf(notIn{}), false},
		{"named In field", reflect.TypeOf(namedIn{}), false},
		{"non-struct", reflect.TypeOf(0), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInStruct(tt.t); got != tt.want {
				t.Errorf("IsInStruct = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseInStruct(t *testing.T) {
	t.Run("extracts exported fields with tags", func(t *testing.T) {
		fields, err := ParseInStruct(reflect.TypeOf(inParams{}))
		if err != nil {
			t.Fatalf("ParseInStruct failed: %v", err)
		}

		if len(fields) != 2 {
			t.Fatalf("expected 2 fields, got %d", len(fields))
		}

		if fields[0].Name != "DB" || fields[0].Optional || fields[0].NameTag != "" {
			t.Errorf("unexpected DB field: %+v", fields[0])
		}
		if fields[1].Name != "Cache" || !fields[1].Optional || fields[1].NameTag != "redis" {
			t.Errorf("unexpected Cache field: %+v", fields[1])
		}
	})

	t.Run("rejects non parameter objects", func(t *testing.T) {
		if _, err := ParseInStruct(reflect.TypeOf(notIn{})); err == nil {
			t.Error("expected error for struct without embedded In")
		}
	})

	t.Run("rejects bad optional tag", func(t *testing.T) {
		type badTag struct {
			In
			DB *testDB `optional:"yes"`
		}

		if _, err := ParseInStruct(reflect.TypeOf(badTag{})); err == nil {
			t.Error("expected error for invalid optional tag")
		}
	})
}
