package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// Input is the flattened request payload. A key present in Values was
// sent by the client, even when its value is empty.
type Input struct {
	Values map[string]string
	Files  map[string][]*multipart.FileHeader
}

// NewInput creates an empty input
func NewInput() *Input {
	return &Input{
		Values: map[string]string{},
		Files:  map[string][]*multipart.FileHeader{},
	}
}

// String returns the trimmed value of field
func (in *Input) String(field string) string {
	return strings.TrimSpace(in.Values[field])
}

// Has reports whether field carries a non-empty value
func (in *Input) Has(field string) bool {
	return in.String(field) != ""
}

// Uint parses field as an unsigned id
func (in *Input) Uint(field string) (uint, error) {
	n, err := strconv.ParseUint(in.String(field), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", field, err)
	}
	return uint(n), nil
}

// FileHeaders returns the uploads sent under field
func (in *Input) FileHeaders(field string) []*multipart.FileHeader {
	return in.Files[field]
}

// FromRequest reads a JSON, urlencoded or multipart body into an Input.
// Array-style names such as "image[]" are folded into "image".
func FromRequest(c echo.Context) (*Input, error) {
	in := NewInput()
	req := c.Request()

	ctype := req.Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ctype, echo.MIMEApplicationJSON) {
		if err := readJSON(req.Body, in); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Malformed JSON body").SetInternal(err)
		}
		return in, nil
	}

	params, err := c.FormParams()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Malformed form body").SetInternal(err)
	}
	for key, values := range params {
		if len(values) == 0 {
			continue
		}
		in.Values[fieldName(key)] = values[0]
	}

	if strings.HasPrefix(ctype, echo.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Malformed multipart body").SetInternal(err)
		}
		for key, files := range form.File {
			name := fieldName(key)
			in.Files[name] = append(in.Files[name], files...)
		}
	}
	return in, nil
}

func fieldName(key string) string {
	return strings.TrimSuffix(key, "[]")
}

func readJSON(body io.Reader, in *Input) error {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	for key, value := range payload {
		switch v := value.(type) {
		case nil:
			in.Values[key] = ""
		case string:
			in.Values[key] = v
		case json.Number:
			in.Values[key] = v.String()
		case bool:
			if v {
				in.Values[key] = "1"
			} else {
				in.Values[key] = "0"
			}
		default:
			raw, err := json.Marshal(v)
			if err != nil {
				return err
			}
			in.Values[key] = string(raw)
		}
	}
	return nil
}
