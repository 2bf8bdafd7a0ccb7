// Package form reads multipart requests into the same shapes JSON requests decode to.
package form

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
	"github.com/MrJamesThe3rd/mandi/internal/media"
)

// StringList decodes from either a JSON string or an array of strings.
type StringList []string

func (s *StringList) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*s = StringList{one}
		return nil
	}

	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("expected a string or an array of strings")
	}

	*s = many

	return nil
}

func IsMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

func Parse(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return fmt.Errorf("%w: failed to parse form: %v", apperr.ErrInvalidInput, err)
	}

	return nil
}

// Files reads every file sent under field. A parsed form is required.
func Files(r *http.Request, field string) ([]media.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	headers := r.MultipartForm.File[field]
	files := make([]media.File, 0, len(headers))

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", fh.Filename, err)
		}

		data, err := io.ReadAll(f)
		f.Close()

		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", fh.Filename, err)
		}

		files = append(files, media.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	return files, nil
}

// Fields describes how text fields map onto JSON values. Array fields accept
// repeated values or one value holding a JSON array; bool fields are parsed.
type Fields struct {
	Arrays map[string]bool
	Bools  map[string]bool
}

// Decode converts the text fields of a form into JSON and decodes that into v.
func (f Fields) Decode(values url.Values, v any) error {
	obj := make(map[string]any, len(values))

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}

		switch {
		case f.Arrays[key]:
			if len(vals) == 1 && strings.HasPrefix(strings.TrimSpace(vals[0]), "[") {
				obj[key] = json.RawMessage(vals[0])
			} else {
				obj[key] = vals
			}
		case f.Bools[key]:
			b, err := strconv.ParseBool(vals[0])
			if err != nil {
				return fmt.Errorf("%w: %s must be true or false", apperr.ErrInvalidInput, key)
			}

			obj[key] = b
		default:
			obj[key] = vals[0]
		}
	}

	raw, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: malformed form field: %v", apperr.ErrInvalidInput, err)
	}

	return nil
}
