// Package openapi exposes the loader and parser contracts used to derive a
// contact form definition from an OpenAPI 3 document. Implementations live
// under internal/openapi so kin-openapi types never leak to callers; the
// top-level contactform package wires them together.
package openapi
