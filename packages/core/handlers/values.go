package handlers

import (
	"fmt"
	"os"
	"reflect"
	"strconv"

	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
)

// classify decides how a runtime value travels over the wire
func classify(v any) request.ParamKind {
	if isFile(v) {
		return request.KindFile
	}
	if isMulti(v) {
		return request.KindMulti
	}
	return request.KindScalar
}

func isFile(v any) bool {
	switch v.(type) {
	case request.File, *request.File, *os.File:
		return true
	}
	return false
}

// isMulti reports slices and arrays other than raw bytes
func isMulti(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.([]byte); ok {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

func elements(v any) []any {
	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func missing(v any) bool {
	if isEmpty(v) {
		return true
	}
	if isMulti(v) {
		return reflect.ValueOf(v).Len() == 0
	}
	return false
}

// scalarString renders a scalar the way it is sent
func scalarString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// convertible checks a value against a declared type
func convertible(v any, t request.ParamType) bool {
	switch t {
	case request.TypeAny:
		return true
	case request.TypeFile:
		return isFile(v)
	case request.TypeArray:
		return isMulti(v)
	}
	if isFile(v) || isMulti(v) {
		return false
	}

	rv := reflect.ValueOf(v)
	switch t {
	case request.TypeString:
		return true
	case request.TypeInt:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return true
		case reflect.Float32, reflect.Float64:
			f := rv.Float()
			return f == float64(int64(f))
		case reflect.String:
			_, err := strconv.ParseInt(rv.String(), 10, 64)
			return err == nil
		}
		return false
	case request.TypeFloat:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return true
		case reflect.String:
			_, err := strconv.ParseFloat(rv.String(), 64)
			return err == nil
		}
		return false
	case request.TypeBool:
		switch rv.Kind() {
		case reflect.Bool:
			return true
		case reflect.String:
			_, err := strconv.ParseBool(rv.String())
			return err == nil
		}
		return false
	}
	return false
}
