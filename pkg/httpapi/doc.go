// Package httpapi exposes a form controller over HTTP. The routes under
// /api/v1/form map one to one onto controller commands and answer with JSON;
// GET / serves the rendered page for the current state.
package httpapi
