package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

const maxBodyBytes = 1 << 20

var (
	// errMalformedBody is returned when the request body cannot be decoded
	errMalformedBody = errors.New("malformed request body")

	// errBodyTooLarge is returned when the request body exceeds maxBodyBytes
	errBodyTooLarge = errors.New("request body too large")
)

// fields holds the scalar inputs of a request, keyed by name.
// A key that is absent means the client did not send it.
type fields map[string]string

// readFields collects inputs from a JSON object, a urlencoded or multipart
// form body, and finally the query string for keys the body did not carry.
// JSON strings and numbers are kept as their text; null counts as absent.
func readFields(w http.ResponseWriter, r *http.Request) (fields, error) {
	out := make(fields)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mediaType == "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, bodyError(err)
		}
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				out[k] = v[0]
			}
		}
	default:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, bodyError(err)
		}
		if err := decodeBody(mediaType, body, out); err != nil {
			return nil, err
		}
	}

	for k, v := range r.URL.Query() {
		if _, ok := out[k]; !ok && len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out, nil
}

// bodyError tells an oversized body apart from an unreadable one
func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, tooLarge.Limit)
	}
	return fmt.Errorf("%w: %v", errMalformedBody, err)
}

func decodeBody(mediaType string, body []byte, out fields) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}

	if mediaType == "application/x-www-form-urlencoded" {
		values, err := url.ParseQuery(string(trimmed))
		if err != nil {
			return fmt.Errorf("%w: %v", errMalformedBody, err)
		}
		for k, v := range values {
			if len(v) > 0 {
				out[k] = v[0]
			}
		}
		return nil
	}

	// Anything else is treated as JSON
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	for k, v := range raw {
		if s, ok := scalarText(v); ok {
			out[k] = s
		}
	}
	return nil
}

// scalarText renders a JSON value as input text.
// Objects, arrays and booleans keep their JSON form so they fail numeric and date parsing.
func scalarText(v json.RawMessage) (string, bool) {
	text := strings.TrimSpace(string(v))
	switch {
	case text == "null":
		return "", false
	case strings.HasPrefix(text, `"`):
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", false
		}
		return s, true
	default:
		return text, true
	}
}
