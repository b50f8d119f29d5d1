package patch

import (
	"reflect"
	"strings"
)

// AllPaths lists every JSON pointer a patch may target on T, following encoding/json field
// naming. "-" stands for "append to array" and "*" for any map key.
func AllPaths[T any]() []string {
	typ := derefType(reflect.TypeOf((*T)(nil)).Elem())
	if typ.Kind() != reflect.Struct {
		return []string{}
	}
	w := pathWalker{seen: make(map[reflect.Type]bool)}
	w.walk(typ, "")
	return w.paths
}

type pathWalker struct {
	paths []string
	// seen holds the struct types on the current branch, so recursive types terminate.
	seen map[reflect.Type]bool
}

func (w *pathWalker) walk(typ reflect.Type, prefix string) {
	typ = derefType(typ)
	switch typ.Kind() {
	case reflect.Struct:
		if w.seen[typ] {
			return
		}
		w.seen[typ] = true
		defer delete(w.seen, typ)
		for i := range typ.NumField() {
			w.field(typ.Field(i), prefix)
		}
	case reflect.Slice, reflect.Array:
		w.container(typ.Elem(), prefix+"/-")
	case reflect.Map:
		w.container(typ.Elem(), prefix+"/*")
	}
}

func (w *pathWalker) field(f reflect.StructField, prefix string) {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return
	}
	// Untagged embedded structs are flattened, exported or not, as encoding/json does.
	if f.Anonymous && name == "" && derefType(f.Type).Kind() == reflect.Struct {
		w.walk(f.Type, prefix)
		return
	}
	if !f.IsExported() {
		return
	}
	if name == "" {
		name = f.Name
	}
	path := prefix + "/" + name
	w.paths = append(w.paths, path)
	w.walk(f.Type, path)
}

// container records the element pointer and descends only into struct elements.
func (w *pathWalker) container(elem reflect.Type, path string) {
	w.paths = append(w.paths, path)
	if derefType(elem).Kind() == reflect.Struct {
		w.walk(elem, path)
	}
}

func derefType(typ reflect.Type) reflect.Type {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ
}
