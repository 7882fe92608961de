package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jhoicas/sites-hotels-dashboard/internal/domain"
)

const (
	msgConnection = "Error de conexión con el servidor"
	msgRequest    = "Error en la solicitud"
)

// APIError fallo de una llamada al backend. Message es apto para mostrarse
// al usuario; Err conserva la causa para errors.Is.
type APIError struct {
	Status  int // 0 si no hubo respuesta HTTP
	Message string
	Err     error
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.Err }

func connectionError(cause error) *APIError {
	return &APIError{
		Message: msgConnection,
		Err:     fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, cause),
	}
}

// responseError arma el APIError de una respuesta no exitosa.
func responseError(status int, body []byte) *APIError {
	var cause error
	switch {
	case status == http.StatusUnauthorized:
		cause = domain.ErrUnauthorized
	case status == http.StatusForbidden:
		cause = domain.ErrForbidden
	case status >= 500:
		cause = domain.ErrBackendUnavailable
	default:
		cause = domain.ErrInvalidInput
	}
	return &APIError{
		Status:  status,
		Message: errorMessage(body),
		Err:     fmt.Errorf("backend HTTP %d: %w", status, cause),
	}
}

// errorMessage extrae el mensaje del cuerpo de error: "detail" si existe; si
// no, el primer campo del objeto (su primer elemento cuando es lista). Un
// cuerpo que no es objeto JSON se reporta como error de conexión.
func errorMessage(body []byte) string {
	fields, ok := orderedFields(body)
	if !ok {
		return msgConnection
	}
	for _, f := range fields {
		if f.key != "detail" {
			continue
		}
		var detail string
		if json.Unmarshal(f.value, &detail) == nil && detail != "" {
			return detail
		}
	}
	if len(fields) == 0 {
		return msgRequest
	}
	var list []json.RawMessage
	if json.Unmarshal(fields[0].value, &list) != nil || len(list) == 0 {
		return msgRequest
	}
	var first string
	if json.Unmarshal(list[0], &first) == nil {
		return first
	}
	return string(list[0])
}

type rawField struct {
	key   string
	value json.RawMessage
}

// orderedFields campos de primer nivel de un objeto JSON en el orden del cuerpo.
func orderedFields(body []byte) ([]rawField, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, false
	}
	var out []rawField
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, _ := tok.(string)
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, false
		}
		out = append(out, rawField{key: key, value: v})
	}
	return out, true
}
