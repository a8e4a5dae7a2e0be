package postgres

import (
	"reflect"
	"sync"
)

// Columns returns the "db" tag names of T, descending into embedded structs.
func Columns[T any]() []string {
	var zero T
	return columnsOf(reflect.TypeOf(zero))
}

func columnsOf(t reflect.Type) []string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var cols []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			cols = append(cols, columnsOf(field.Type)...)
			continue
		}
		if tag := field.Tag.Get("db"); tag != "" && tag != "-" {
			cols = append(cols, tag)
		}
	}
	return cols
}

// fieldPath is the index path of a tagged field, embedded structs included.
type fieldPath struct {
	column string
	index  []int
}

var pathCache sync.Map // reflect.Type -> []fieldPath

func fieldPaths(t reflect.Type) []fieldPath {
	if cached, ok := pathCache.Load(t); ok {
		return cached.([]fieldPath)
	}

	var paths []fieldPath
	var walk func(t reflect.Type, prefix []int)
	walk = func(t reflect.Type, prefix []int) {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			index := append(append([]int(nil), prefix...), i)
			if field.Anonymous && field.Type.Kind() == reflect.Struct {
				walk(field.Type, index)
				continue
			}
			if tag := field.Tag.Get("db"); tag != "" && tag != "-" {
				paths = append(paths, fieldPath{column: tag, index: index})
			}
		}
	}
	walk(t, nil)

	pathCache.Store(t, paths)
	return paths
}

// StructToMap maps "db" tag names to field values. Fields tagged "-" are skipped.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	paths := fieldPaths(rv.Type())
	res := make(map[string]any, len(paths))
	for _, p := range paths {
		res[p.column] = rv.FieldByIndex(p.index).Interface()
	}
	return res
}

// Without returns data minus the given columns.
func Without(data map[string]any, columns ...string) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	for _, c := range columns {
		delete(out, c)
	}
	return out
}
