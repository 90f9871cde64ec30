package logging

import (
	"fmt"
	"reflect"
)

// Maximum recursion depth to prevent stack overflow
const maxDumpDepth = 10

// Dump logs the contents of the provided value at Debug level under the
// given module. It handles structs, maps, slices and basic types; struct
// dumps cover all exported fields. Cycles are detected and cut.
func (s *Service) Dump(module string, v interface{}) {
	if s == nil || !s.initialized.Load() {
		return
	}
	if DebugLevel < s.EffectiveLevel(module) {
		return
	}
	if v == nil {
		s.Debugf(module, "Dump: <nil>")
		return
	}

	visited := make(map[uintptr]bool)
	s.dumpValue(module, v, emptyString, visited, 0)
}

// dumpValue is a recursive helper function for Dump
func (s *Service) dumpValue(module string, v interface{}, prefix string, visited map[uintptr]bool, depth int) {
	if depth > maxDumpDepth {
		s.Debugf(module, "%s: <max depth reached>", prefix)
		return
	}
	if v == nil {
		s.Debugf(module, "%s: <nil>", prefix)
		return
	}

	val := reflect.ValueOf(v)

	for {
		switch val.Kind() {
		case reflect.Interface:
			if val.IsNil() {
				s.Debugf(module, "%s: <nil>", prefix)
				return
			}
			val = val.Elem()
			continue
		case reflect.Ptr:
			if val.IsNil() {
				s.Debugf(module, "%s: <nil>", prefix)
				return
			}
			ptr := val.Pointer()
			if visited[ptr] {
				s.Debugf(module, "%s: <circular reference>", prefix)
				return
			}
			visited[ptr] = true
			val = val.Elem()
		default:
		}
		break
	}

	typ := val.Type()

	switch val.Kind() {
	case reflect.Struct:
		if prefix == emptyString {
			s.Debugf(module, "Struct: %s", typ.Name())
		} else {
			s.Debugf(module, "%s: %s {", prefix, typ.Name())
		}

		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			fieldVal := val.Field(i)
			if !fieldVal.CanInterface() {
				continue
			}
			fieldPrefix := field.Name
			if prefix != emptyString {
				fieldPrefix = prefix + "." + field.Name
			}
			s.dumpValue(module, fieldVal.Interface(), fieldPrefix, visited, depth+1)
		}

		if prefix != emptyString {
			s.Debugf(module, "%s: }", prefix)
		}

	case reflect.Map:
		s.Debugf(module, "%s: map[%s]%s (len: %d) {",
			prefix, typ.Key().String(), typ.Elem().String(), val.Len())

		iter := val.MapRange()
		for iter.Next() {
			keyStr := fmt.Sprintf("%v", iter.Key().Interface())
			s.dumpValue(module, iter.Value().Interface(), prefix+"["+keyStr+"]", visited, depth+1)
		}

		s.Debugf(module, "%s: }", prefix)

	case reflect.Slice, reflect.Array:
		s.Debugf(module, "%s: %s (len: %d) {", prefix, typ.String(), val.Len())

		// Limit the number of elements to log for large slices/arrays
		maxElements := 10
		for i := 0; i < val.Len() && i < maxElements; i++ {
			elemPrefix := fmt.Sprintf("%s[%d]", prefix, i)
			elem := val.Index(i)
			if elem.CanInterface() {
				s.dumpValue(module, elem.Interface(), elemPrefix, visited, depth+1)
			}
		}
		if val.Len() > maxElements {
			s.Debugf(module, "%s: ... (%d more elements)", prefix, val.Len()-maxElements)
		}

		s.Debugf(module, "%s: }", prefix)

	default:
		if val.IsValid() && val.CanInterface() {
			s.Debugf(module, "%s: %v", prefix, val.Interface())
		} else {
			s.Debugf(module, "%s: %v", prefix, v)
		}
	}
}
