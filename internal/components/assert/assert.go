package assert

import (
	"fmt"
	"reflect"
)

// NotNil panics when a required dependency called `name` is missing, this
// includes nil pointers, maps, funcs and the like wrapped in an interface.
func NotNil(value any, name string) {
	if value == nil {
		panic(fmt.Sprintf("%s must not be nil", name))
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.Slice, reflect.Interface:
		if v.IsNil() {
			panic(fmt.Sprintf("%s must not be nil (%T)", name, value))
		}
	}
}
