// Package orchestrator wires the form definition pipeline: OpenAPI loader,
// parser and model builder, or a UI schema store, followed by transformers,
// decorators and a renderer registry. Callers that only need the default
// CAC TAT form can call New().Form(ctx, Request{}).
package orchestrator
