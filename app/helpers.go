package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
)

type envelope map[string]any

// writeJSON encodes data, which is usually an envelope but may be any value the
// route returns bare, such as a list of posts.
func (app *application) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	body, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	body = append(body, '\n')

	h := w.Header()
	for key, values := range headers {
		h[key] = append(h[key], values...)
	}
	h.Set("Content-Type", "application/json")

	w.WriteHeader(status)
	w.Write(body)

	return nil
}

// maxBodyBytes leaves room for a full post body plus JSON escaping.
const maxBodyBytes = 2 << 20

// parseJSON decodes a single JSON value from the body into dst, rejecting unknown
// fields. Errors are phrased for the client.
func (app *application) parseJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return describeJSONError(err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must only contain a single JSON value")
	}

	return nil
}

func describeJSONError(err error) error {
	var (
		syntaxErr    *json.SyntaxError
		typeErr      *json.UnmarshalTypeError
		invalidErr   *json.InvalidUnmarshalError
		tooLargeErr  *http.MaxBytesError
		unknownField = "json: unknown field "
	)

	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Errorf("request body contains badly-formed JSON (at character %d)", syntaxErr.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("request body contains badly-formed JSON")
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return fmt.Errorf("request body contains an invalid value for the %q field", typeErr.Field)
	case errors.As(err, &typeErr):
		return fmt.Errorf("request body contains incorrect JSON type (at character %d)", typeErr.Offset)
	case errors.Is(err, io.EOF):
		return errors.New("request body must not be empty")
	case strings.HasPrefix(err.Error(), unknownField):
		return fmt.Errorf("request body contains unknown field %s", strings.TrimPrefix(err.Error(), unknownField))
	case errors.As(err, &tooLargeErr):
		return fmt.Errorf("request body must not be larger than %d bytes", tooLargeErr.Limit)
	case errors.As(err, &invalidErr):
		panic(err)
	default:
		return err
	}
}

func (app *application) readIDParam(r *http.Request, key string) (int, error) {
	params := httprouter.ParamsFromContext(r.Context())

	id, err := strconv.Atoi(params.ByName(key))
	if err != nil || id < 1 {
		return 0, errors.New("invalid ID parameter")
	}

	return id, nil
}

// clientIP strips the port from RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
