// Package validate checks cut requests before they reach the packing engine.
// Every rule is evaluated so one response can name all broken fields.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/piwi3910/FurniCut/internal/model"
)

// ErrInvalidRequest is matched by every *Error.
var ErrInvalidRequest = errors.New("invalid request")

// Violation is one broken field rule.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error collects the violations of one request.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	return strings.Join(e.Messages(), "; ")
}

func (e *Error) Is(target error) bool {
	return target == ErrInvalidRequest
}

// Messages returns the violation messages in rule order.
func (e *Error) Messages() []string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return msgs
}

type collector struct {
	violations []Violation
}

func (c *collector) add(field, message string) {
	c.violations = append(c.violations, Violation{Field: field, Message: message})
}

func (c *collector) err() error {
	if len(c.violations) == 0 {
		return nil
	}
	return &Error{Violations: c.violations}
}

// CutRequest returns nil when req may be handed to the engine, otherwise an
// *Error listing every violation: sheet fields first, then elements in order.
func CutRequest(req model.CutRequest) error {
	var c collector

	switch {
	case req.SheetWidth == nil:
		c.add("sheetWidth", "Sheet width is required")
	case *req.SheetWidth < 1:
		c.add("sheetWidth", "Sheet width must be positive")
	}
	switch {
	case req.SheetHeight == nil:
		c.add("sheetHeight", "Sheet height is required")
	case *req.SheetHeight < 1:
		c.add("sheetHeight", "Sheet height must be positive")
	}

	if len(req.Elements) == 0 {
		c.add("elements", "Elements list cannot be empty")
	}
	for i, e := range req.Elements {
		prefix := fmt.Sprintf("elements[%d].", i)
		if e.ID == nil {
			c.add(prefix+"id", "Furniture element ID is required")
		}
		if e.Width < 1 {
			c.add(prefix+"width", "Width must be positive")
		}
		if e.Height < 1 {
			c.add(prefix+"height", "Height must be positive")
		}
		if e.Depth < 0 {
			c.add(prefix+"depth", "Depth cannot be negative")
		}
	}

	return c.err()
}

// Options checks the packing options a caller may supply alongside a request.
func Options(kerf, edgeTrim int) error {
	var c collector
	if kerf < 0 {
		c.add("kerf", "Kerf cannot be negative")
	}
	if edgeTrim < 0 {
		c.add("edgeTrim", "Edge trim cannot be negative")
	}
	return c.err()
}
