package httpclientx

import (
	"errors"
	"reflect"
)

// ErrIsNil indicates that [NilSafetyErrorIfNil] was passed a nil value.
var ErrIsNil = errors.New("httpclientx: nil map, pointer, or slice")

// NilSafetyErrorIfNil returns [ErrIsNil] iff input is a nil map, pointer, or slice.
//
// This check protects callers from processing a literal JSON "null" body.
func NilSafetyErrorIfNil[Type any](value Type) (Type, error) {
	switch rv := reflect.ValueOf(value); rv.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Slice:
		if rv.IsNil() {
			return zeroValue[Type](), ErrIsNil
		}
	}
	return value, nil
}
