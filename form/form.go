// Package form reads the form-encoded submissions actions are defined over
// and decodes them into Go values with mapstructure.
//
//	var in struct {
//	    Title string `form:"title"`
//	    Done  bool   `form:"done"`
//	}
//	if err := form.Decode(ev.Request, &in); err != nil { ... }
package form

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// MaxMemory bounds the multipart parts kept in memory; larger parts spill to
// temporary files.
const MaxMemory = 32 << 20

const (
	URLEncoded = "application/x-www-form-urlencoded"
	Multipart  = "multipart/form-data"
)

// ErrUnsupportedEncoding is returned for bodies that are not form-encoded.
var ErrUnsupportedEncoding = errors.New("form: unsupported encoding")

// Values parses the request body and returns the submitted fields.
func Values(r *http.Request) (url.Values, error) {
	if r == nil {
		return nil, errors.New("form: request is nil")
	}
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedEncoding, err)
	}

	switch mediaType {
	case URLEncoded:
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("form: parse body: %w", err)
		}
		return r.PostForm, nil
	case Multipart:
		if err := r.ParseMultipartForm(MaxMemory); err != nil {
			return nil, fmt.Errorf("form: parse multipart body: %w", err)
		}
		return url.Values(r.MultipartForm.Value), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, mediaType)
}

// Decode parses the request body and decodes it into dst, which must be a
// pointer to a struct or map. Struct fields are matched by their `form` tag.
// Input is weakly typed: "2" fills an int, "on" (an unchecked-by-default
// checkbox) fills a bool, and a repeated field fills a slice.
func Decode(r *http.Request, dst any) error {
	values, err := Values(r)
	if err != nil {
		return err
	}
	return DecodeValues(values, dst)
}

// DecodeValues decodes already parsed values into dst.
func DecodeValues(values url.Values, dst any) error {
	input := make(map[string]any, len(values))
	for key, vals := range values {
		switch len(vals) {
		case 0:
		case 1:
			input[key] = vals[0]
		default:
			input[key] = vals
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "form",
		WeaklyTypedInput: true,
		DecodeHook:       checkboxHook,
		Result:           dst,
	})
	if err != nil {
		return fmt.Errorf("form: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("form: decode: %w", err)
	}
	return nil
}

func checkboxHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() == reflect.String && to.Kind() == reflect.Bool && data == "on" {
		return true, nil
	}
	return data, nil
}
