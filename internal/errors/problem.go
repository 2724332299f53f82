package errors

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"
)

// Problem type URIs. They are documentation pointers, not links the
// server resolves.
const (
	ProblemTypeValidation      = "/errors/validation"
	ProblemTypeNotFound        = "/errors/not-found"
	ProblemTypeNoData          = "/errors/data/no-data"
	ProblemTypeNoBatch         = "/errors/data/no-batch"
	ProblemTypeUpload          = "/errors/upload"
	ProblemTypePayloadTooLarge = "/errors/payload-too-large"
	ProblemTypeRateLimit       = "/errors/rate-limit"
	ProblemTypeTimeout         = "/errors/timeout"
	ProblemTypeWebSocket       = "/errors/websocket/upgrade-failed"
	ProblemTypeInternal        = "/errors/internal"
)

// ProblemDetails implements RFC 7807 problem responses
type ProblemDetails struct {
	Type       string                 `json:"type"`
	Title      string                 `json:"title"`
	Status     int                    `json:"status"`
	Detail     string                 `json:"detail,omitempty"`
	Instance   string                 `json:"instance,omitempty"`
	Extensions map[string]interface{} `json:"-"`
}

// NewProblemDetails creates a new problem details response
func NewProblemDetails(status int, problemType, title, detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:     problemType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	}
}

// WithExtension adds an extension field to the problem details
func (p *ProblemDetails) WithExtension(key string, value interface{}) *ProblemDetails {
	if p.Extensions == nil {
		p.Extensions = make(map[string]interface{})
	}
	p.Extensions[key] = value
	return p
}

// Render implements the render.Renderer interface
func (p *ProblemDetails) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/problem+json")
	render.Status(r, p.Status)
	return nil
}

// MarshalJSON folds extension members into the top-level object
func (p *ProblemDetails) MarshalJSON() ([]byte, error) {
	type alias ProblemDetails
	base, err := json.Marshal((*alias)(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extensions) == 0 {
		return base, nil
	}

	var m map[string]interface{}
	if err := json.Unmarshal(base, &m); err != nil {
		return nil, err
	}
	for k, v := range p.Extensions {
		m[k] = v
	}
	return json.Marshal(m)
}
