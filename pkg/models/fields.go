package models

import (
	"reflect"
	"strconv"
	"strings"
)

// Field describes a model attribute as presented in forms and list columns.
type Field struct {
	Name      string
	Label     string
	MaxLength int
	Required  bool
}

// LookupField finds the attribute of model whose json name is name. model
// may be a struct value or a pointer to one.
func LookupField(model any, name string) (Field, bool) {
	t := reflect.TypeOf(model)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return Field{}, false
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() || jsonName(sf) != name {
			continue
		}
		return newField(name, sf), true
	}
	return Field{}, false
}

// FieldLabel returns the human label of an attribute, or "" if the model
// has no such attribute.
func FieldLabel(model any, name string) string {
	f, _ := LookupField(model, name)
	return f.Label
}

// FieldMaxLength returns the declared maximum length of an attribute, or 0
// if it has none.
func FieldMaxLength(model any, name string) int {
	f, _ := LookupField(model, name)
	return f.MaxLength
}

func newField(name string, sf reflect.StructField) Field {
	f := Field{
		Name:  name,
		Label: sf.Tag.Get("label"),
	}
	if f.Label == "" {
		f.Label = strings.ReplaceAll(strings.TrimSuffix(name, "_id"), "_", " ")
	}
	for _, rule := range strings.Split(sf.Tag.Get("validate"), ",") {
		switch {
		case rule == "required":
			f.Required = true
		case strings.HasPrefix(rule, "max="):
			if n, err := strconv.Atoi(strings.TrimPrefix(rule, "max=")); err == nil {
				f.MaxLength = n
			}
		}
	}
	return f
}

func jsonName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return sf.Name
	}
	return name
}
