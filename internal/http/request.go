package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"finanzas/internal/core"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON document into dst. Failures wrap
// core.ErrValidation.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", core.ErrValidation)
		}
		return fmt.Errorf("%w: invalid JSON: %v", core.ErrValidation, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: request body must contain a single JSON object", core.ErrValidation)
	}
	return nil
}

// pathID reads the {id} route variable, which legacy routes bind from ?id=.
func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	if raw == "" {
		raw = r.URL.Query().Get("id")
	}
	return parseID(raw, "id")
}

func parseID(raw, name string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", core.ErrValidation, name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", core.ErrValidation, name)
	}
	return id, nil
}

// optionalID parses an optional numeric query filter; empty means unset.
func optionalID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	return parseID(raw, name)
}

func optionalDate(r *http.Request, name string) (core.Date, error) {
	d, err := core.ParseDate(r.URL.Query().Get(name))
	if err != nil {
		return core.Date{}, fmt.Errorf("%w: %s: %v", core.ErrValidation, name, err)
	}
	return d, nil
}

// optionalType validates ?type= against the two transaction kinds.
func optionalType(r *http.Request) (core.TransactionType, error) {
	typ := core.TransactionType(strings.TrimSpace(r.URL.Query().Get("type")))
	if typ != "" && !typ.Valid() {
		return "", fmt.Errorf("%w: type must be %q or %q", core.ErrValidation, core.Income, core.Expense)
	}
	return typ, nil
}

// searchTerm strips control characters from ?q=.
func searchTerm(r *http.Request) string {
	return sanitizeInput(r.URL.Query().Get("q"))
}

func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
