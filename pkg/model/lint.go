package model

import (
	internalmodel "github.com/goliatone/go-contactform/internal/model"
	pkgopenapi "github.com/goliatone/go-contactform/pkg/openapi"
)

// Violation reports an x-formgen extension the builder would ignore.
type Violation = internalmodel.Violation

// Lint checks the x-formgen extensions of op.
func Lint(op pkgopenapi.Operation) []Violation {
	return internalmodel.Lint(op)
}

// ExtensionKeys lists the x-formgen keys the builder understands.
func ExtensionKeys() []string {
	return internalmodel.ExtensionKeys()
}
