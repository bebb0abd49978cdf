package binder

import (
	"fmt"
	"mime/multipart"
	"reflect"
	"strconv"
	"strings"
)

var fileHeaderType = reflect.TypeOf((*multipart.FileHeader)(nil))

// bind copies form values and files into the struct pointed to by v.
// Fields without a matching value keep their zero value.
func bind(v any, values map[string][]string, files map[string][]*multipart.FileHeader) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: target must be a non-nil pointer", ErrInvalidForm)
	}

	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("%w: target must be a pointer to struct", ErrInvalidForm)
	}

	rt := rv.Type()
	for i := range rv.NumField() {
		field := rv.Field(i)
		sf := rt.Field(i)
		if !field.CanSet() {
			continue
		}

		if name := tagName(sf, "form"); name != "" {
			if vals := values[name]; len(vals) > 0 {
				if err := setFieldValue(field, sf.Type, vals); err != nil {
					return fmt.Errorf("%w: field %s: %v", ErrInvalidForm, sf.Name, err)
				}
			}
		}

		if name := tagName(sf, "file"); name != "" {
			if fhs := files[name]; len(fhs) > 0 {
				if err := setFileField(field, sf.Type, fhs); err != nil {
					return fmt.Errorf("%w: field %s: %v", ErrInvalidForm, sf.Name, err)
				}
			}
		}
	}

	return nil
}

// tagName returns the parameter name of the tag, or "" for missing and "-".
func tagName(sf reflect.StructField, tag string) string {
	name, _, _ := strings.Cut(sf.Tag.Get(tag), ",")
	if name == "-" {
		return ""
	}
	return name
}

func setFileField(field reflect.Value, t reflect.Type, fhs []*multipart.FileHeader) error {
	switch {
	case t == fileHeaderType:
		field.Set(reflect.ValueOf(fhs[0]))
	case t.Kind() == reflect.Slice && t.Elem() == fileHeaderType:
		field.Set(reflect.ValueOf(append([]*multipart.FileHeader(nil), fhs...)))
	default:
		return fmt.Errorf("unsupported type for file field: %v (expected *multipart.FileHeader or []*multipart.FileHeader)", t)
	}
	return nil
}

func setFieldValue(field reflect.Value, t reflect.Type, values []string) error {
	if t.Kind() == reflect.Pointer {
		if field.IsNil() {
			field.Set(reflect.New(t.Elem()))
		}
		return setFieldValue(field.Elem(), t.Elem(), values)
	}

	if t.Kind() == reflect.Slice {
		slice := reflect.MakeSlice(t, len(values), len(values))
		for i, value := range values {
			if err := setFieldValue(slice.Index(i), t.Elem(), []string{value}); err != nil {
				return err
			}
		}
		field.Set(slice)
		return nil
	}

	value := values[0]

	switch t.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid int value %q", value)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid uint value %q", value)
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid float value %q", value)
		}
		field.SetFloat(n)

	case reflect.Bool:
		switch strings.ToLower(value) {
		case "on", "yes":
			field.SetBool(true)
		case "off", "no", "":
			field.SetBool(false)
		default:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid bool value %q", value)
			}
			field.SetBool(b)
		}

	default:
		return fmt.Errorf("unsupported type %s", t.Kind())
	}

	return nil
}
