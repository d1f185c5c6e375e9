package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// maxJSONBody bounds every JSON request body.
const maxJSONBody = 1 << 20

// readBody reads a bounded request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &ErrValidation{Field: "body", Message: "request body too large"}
		}
		return nil, &ErrValidation{Field: "body", Message: "failed to read request body"}
	}
	return data, nil
}

// decodeJSON strictly decodes the body into v. An empty body leaves v at its
// zero value when optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	data, err := readBody(w, r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		if optional {
			return nil
		}
		return &ErrValidation{Field: "body", Message: "request body is required"}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	if dec.More() {
		return &ErrValidation{Field: "body", Message: "unexpected data after JSON body"}
	}
	return nil
}

// decodeResume validates the body against the resume schema and decodes it.
func decodeResume(w http.ResponseWriter, r *http.Request) (*types.Resume, error) {
	data, err := readBody(w, r)
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateResumeJSON(data); err != nil {
		return nil, err
	}
	return types.UnmarshalResume(data)
}

// patchValidator is implemented by patches with constraints beyond their JSON shape.
type patchValidator interface {
	Validate() error
}

func validatePatch(p any) error {
	if v, ok := p.(patchValidator); ok {
		return v.Validate()
	}
	return nil
}

// addHandler serves POST for a list: the optional body is a patch applied to the new entry.
func addHandler[P, T any](s *Server, clean func(*P), add func(context.Context, P) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p P
		if err := decodeJSON(w, r, &p, true); err != nil {
			s.writeError(w, err)
			return
		}
		if err := validatePatch(p); err != nil {
			s.writeError(w, err)
			return
		}
		clean(&p)
		v, err := add(r.Context(), p)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.jsonResponse(w, http.StatusCreated, v)
	}
}

// updateHandler serves PATCH for the entry named by the {id} path value.
func updateHandler[P, T any](s *Server, kind string, clean func(*P), update func(context.Context, string, P) (T, bool, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p P
		if err := decodeJSON(w, r, &p, false); err != nil {
			s.writeError(w, err)
			return
		}
		if err := validatePatch(p); err != nil {
			s.writeError(w, err)
			return
		}
		clean(&p)
		id := r.PathValue("id")
		v, ok, err := update(r.Context(), id, p)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if !ok {
			s.writeError(w, &ErrNotFound{Kind: kind, ID: id})
			return
		}
		s.jsonResponse(w, http.StatusOK, v)
	}
}

// deleteHandler serves DELETE for the entry named by the {id} path value.
func deleteHandler(s *Server, kind string, del func(context.Context, string) (bool, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		ok, err := del(r.Context(), id)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if !ok {
			s.writeError(w, &ErrNotFound{Kind: kind, ID: id})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
