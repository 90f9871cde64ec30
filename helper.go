package logging

import "strings"

// fileBase strips directory components from a caller path, handling both
// separator conventions so cross-compiled call sites render the same.
func fileBase(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// funcBase trims the import-path prefix from a runtime function name,
// keeping the package-qualified identifier ("pkg.(*T).Method").
func funcBase(fn string) string {
	if i := strings.LastIndexByte(fn, '/'); i >= 0 {
		return fn[i+1:]
	}
	return fn
}
