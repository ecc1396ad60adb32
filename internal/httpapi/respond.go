package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"libraryManagement/internal/apperrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the provided status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError writes {"error": message}. 204 responses carry no body.
func writeError(w http.ResponseWriter, status int, message string) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, map[string]string{"error": message})
}

// decode reads a JSON body into dst.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	return decodeBody(w, r, dst, false)
}

// decodeOptional is decode for endpoints where an empty body keeps dst's zero value.
func decodeOptional(w http.ResponseWriter, r *http.Request, dst any) error {
	return decodeBody(w, r, dst, true)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any, optional bool) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "request body is too large", err)
	}
	if len(body) == 0 {
		if optional {
			return nil
		}
		return apperrors.New(apperrors.CodeInvalidArgument, "request body is required")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "request body is not valid JSON", err)
	}
	return nil
}

// pathID parses the {id} segment; ids are positive integers.
func pathID(r *http.Request) (int64, error) {
	return pathInt(r, "id")
}

func pathInt(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.New(apperrors.CodeInvalidArgument, fmt.Sprintf("invalid %s %q", name, raw))
	}
	return id, nil
}

type op int

const (
	opList op = iota
	opGet
	opCreate
	opUpdate
	opDelete
)

// statusFor maps a domain error to the status the API contract prescribes for op.
func statusFor(o op, err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeUnavailable:
		return http.StatusNotFound
	case apperrors.CodeNotFound:
		if o == opUpdate || o == opList {
			return http.StatusNotFound
		}
		return http.StatusNoContent
	case apperrors.CodeValidation:
		if o == opCreate {
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadRequest
	case apperrors.CodeInvalidArgument:
		return http.StatusBadRequest
	case apperrors.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func fail(w http.ResponseWriter, o op, err error) {
	writeError(w, statusFor(o, err), apperrors.MessageOf(err))
}
