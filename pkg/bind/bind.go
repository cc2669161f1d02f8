// Package bind decodes and validates an HTTP request body into a struct.
// JSON and HTML form bodies are supported; both run the struct through
// pkg/validate afterwards.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/shopgo-app/shopgo/config"
	"github.com/shopgo-app/shopgo/pkg/validate"
)

// maxBodyBytes returns the configured request body size limit (default 4 MB).
func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "4194304"), 10, 64)
	if err != nil || n <= 0 {
		return 4 << 20 // 4 MB
	}
	return n
}

// JSON decodes r.Body as JSON into dest and runs validation.
// The body is capped at MAX_BODY_BYTES (default 4 MB) to prevent memory exhaustion.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is malformed JSON or too large.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	dec := json.NewDecoder(r.Body)
	if err = dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	errs = validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}

	return nil, nil
}

// Form parses an urlencoded or multipart form body into dest and runs
// validation. Field names come from the `form` tag, falling back to the
// `json` tag. Supported kinds: string, bool, ints, uints, floats, their
// pointers, and []uint (multi-select inputs).
func Form(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxBodyBytes())
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, fmt.Errorf("invalid form body: %w", err)
	}

	if err := fill(dest, r.Form); err != nil {
		return nil, err
	}

	errs = validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}

	return nil, nil
}

func fill(dest interface{}, form map[string][]string) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind: dest must be a pointer to struct, got %T", dest)
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name := fieldName(field)
		raw, ok := form[name]
		if !ok || len(raw) == 0 {
			continue
		}

		if err := setValue(rv.Field(i), raw); err != nil {
			return fmt.Errorf("bind: field %s: %w", name, err)
		}
	}

	return nil
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name := f.Tag.Get(tag)
		if idx := strings.Index(name, ","); idx != -1 {
			name = name[:idx]
		}
		if name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(f.Name)
}

func setValue(v reflect.Value, raw []string) error {
	first := strings.TrimSpace(raw[0])

	switch v.Kind() {
	case reflect.String:
		v.SetString(first)
	case reflect.Bool:
		v.SetBool(first == "true" || first == "1" || first == "on")
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if first == "" {
			return nil
		}
		n, err := strconv.ParseInt(first, 10, 64)
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if first == "" {
			return nil
		}
		n, err := strconv.ParseUint(first, 10, 64)
		if err != nil {
			return err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		if first == "" {
			return nil
		}
		f, err := strconv.ParseFloat(first, 64)
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.Ptr:
		// Empty input leaves a nil pointer (nullable form fields).
		if first == "" {
			return nil
		}
		elem := reflect.New(v.Type().Elem())
		if err := setValue(elem.Elem(), raw); err != nil {
			return err
		}
		v.Set(elem)
	case reflect.Slice:
		elemKind := v.Type().Elem().Kind()
		out := reflect.MakeSlice(v.Type(), 0, len(raw))
		for _, item := range raw {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			elem := reflect.New(v.Type().Elem()).Elem()
			if err := setValue(elem, []string{item}); err != nil {
				return err
			}
			out = reflect.Append(out, elem)
		}
		if elemKind == reflect.Invalid {
			return fmt.Errorf("unsupported slice element")
		}
		v.Set(out)
	default:
		return fmt.Errorf("unsupported kind %s", v.Kind())
	}

	return nil
}
