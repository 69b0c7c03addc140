package ui

import (
	"context"
	"encoding/json"
	"io"

	"github.com/a-h/templ"
)

// HTML writes markup to w, remembering the first write error so that
// components can emit a sequence of writes and check once at the end.
type HTML struct {
	w   io.Writer
	err error
}

// NewHTML wraps w
func NewHTML(w io.Writer) *HTML {
	return &HTML{w: w}
}

// Raw writes trusted markup
func (h *HTML) Raw(s string) *HTML {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
	return h
}

// Text writes s escaped for element content or attribute values
func (h *HTML) Text(s string) *HTML {
	return h.Raw(templ.EscapeString(s))
}

// JSON writes v as escaped JSON, for data-* attributes
func (h *HTML) JSON(v any) *HTML {
	data, err := json.Marshal(v)
	if err != nil {
		if h.err == nil {
			h.err = err
		}
		return h
	}
	return h.Text(string(data))
}

// Component renders a nested component
func (h *HTML) Component(ctx context.Context, c templ.Component) *HTML {
	if h.err == nil {
		h.err = c.Render(ctx, h.w)
	}
	return h
}

// Err returns the first write error
func (h *HTML) Err() error {
	return h.err
}
