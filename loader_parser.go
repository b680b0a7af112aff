package contactform

import (
	internalLoader "github.com/goliatone/go-contactform/internal/openapi/loader"
	internalParser "github.com/goliatone/go-contactform/internal/openapi/parser"
	pkgopenapi "github.com/goliatone/go-contactform/pkg/openapi"
)

// NewLoader constructs an OpenAPI document loader while keeping the concrete
// type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	cfg := pkgopenapi.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs the parser that extracts operations and their request
// schemas from a loaded document.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	cfg := pkgopenapi.NewParserOptions(options...)
	return internalParser.New(cfg)
}
