package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"gigdial/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// Schema names registered by default.
const (
	SchemaContactMessage = "contact-message"
	SchemaRegistration   = "registration"
	SchemaBookingIntent  = "booking-intent"
)

const maxBodyBytes = 1 << 20

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// GetErrorMessages returns "field: message" strings in a stable order.
func (vr *ValidationResult) GetErrorMessages() []string {
	msgs := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	sort.Strings(msgs)
	return msgs
}

func (vr *ValidationResult) HasErrors(field string) bool {
	for _, e := range vr.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Registry holds compiled request-body schemas by name.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*gojsonschema.Schema
}

// NewRegistry compiles the built-in schemas.
func NewRegistry() (*Registry, error) {
	r := &Registry{schemas: map[string]*gojsonschema.Schema{}}
	for name, src := range builtinSchemas {
		if err := r.Register(name, src); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustNewRegistry is NewRegistry for package-level wiring; built-in schemas are static.
func MustNewRegistry() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// Register compiles and stores a schema under name.
func (r *Registry) Register(name, schemaJSON string) error {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return fmt.Errorf("compile schema %s: %w", name, err)
	}
	r.mu.Lock()
	r.schemas[name] = schema
	r.mu.Unlock()
	return nil
}

// Validate checks a JSON document against the named schema.
func (r *Registry) Validate(name string, document []byte) (*ValidationResult, error) {
	r.mu.RLock()
	schema, ok := r.schemas[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return &ValidationResult{
			Valid:  false,
			Errors: []ValidationError{{Field: "(root)", Message: err.Error(), Code: "MALFORMED_JSON"}},
		}, nil
	}

	vr := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		vr.Errors = append(vr.Errors, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}
	return vr, nil
}

// DecodeAndValidate reads a JSON body, validates it against the named schema and
// decodes it into out. Violations are returned as INVALID_INPUT.
func (r *Registry) DecodeAndValidate(body io.Reader, name string, out interface{}) error {
	raw, err := io.ReadAll(io.LimitReader(body, maxBodyBytes))
	if err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("read body: %v", err))
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return errors.NewInvalidInputError("request body is required")
	}

	if err := r.check(name, raw); err != nil {
		return err
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("decode body: %v", err))
	}
	return nil
}

// ValidateValue validates an already-decoded value, e.g. a workflow job payload.
func (r *Registry) ValidateValue(name string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("encode value: %v", err))
	}
	return r.check(name, raw)
}

func (r *Registry) check(name string, raw []byte) error {
	vr, err := r.Validate(name, raw)
	if err != nil {
		return err
	}
	if !vr.Valid {
		stdErr := errors.NewInvalidInputError(strings.Join(vr.GetErrorMessages(), "; "))
		return stdErr.WithMetadata("fields", vr.Errors)
	}
	return nil
}

var builtinSchemas = map[string]string{
	SchemaContactMessage: `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["recipientId", "content"],
		"properties": {
			"recipientId": {"type": "string", "minLength": 1},
			"content":     {"type": "string", "minLength": 1, "maxLength": 2000},
			"gigId":       {"type": "string"},
			"intentId":    {"type": "string"}
		},
		"additionalProperties": false
	}`,
	SchemaRegistration: `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name", "email", "password", "isProvider"],
		"properties": {
			"name":       {"type": "string", "minLength": 1, "maxLength": 120},
			"email":      {"type": "string", "format": "email"},
			"password":   {"type": "string", "minLength": 8},
			"isProvider": {"type": "boolean"},
			"phone":      {"type": "string"},
			"city":       {"type": "string"},
			"bio":        {"type": "string", "maxLength": 2000},
			"skills":     {"type": "array", "items": {"type": "string", "minLength": 1}}
		},
		"if":   {"properties": {"isProvider": {"const": true}}},
		"then": {"required": ["skills"], "properties": {"skills": {"minItems": 1}}}
	}`,
	SchemaBookingIntent: `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["gigId", "workerId"],
		"properties": {
			"gigId":    {"type": "string", "minLength": 1},
			"workerId": {"type": "string", "minLength": 1}
		},
		"additionalProperties": false
	}`,
}
