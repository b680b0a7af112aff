package openapi

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Source says where a document comes from.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind selects how a Loader reads a Source.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

type source struct {
	kind     SourceKind
	location string
}

func (s source) Kind() SourceKind {
	return s.kind
}

func (s source) Location() string {
	return s.location
}

func (s source) String() string {
	return string(s.kind) + ":" + s.location
}

// SourceFromFile points at a path on the local disk.
func SourceFromFile(path string) Source {
	return source{kind: SourceKindFile, location: filepath.Clean(path)}
}

// SourceFromFS points at a name inside the Loader's fs.FS.
func SourceFromFS(name string) Source {
	return source{kind: SourceKindFS, location: strings.TrimPrefix(name, "./")}
}

// SourceFromURL points at an http or https URL. It panics on anything else,
// so configuration mistakes surface at startup.
func SourceFromURL(raw string) Source {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		panic(fmt.Sprintf("openapi: invalid URL %q: %v", raw, err))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		panic(fmt.Sprintf("openapi: URL %q must use http or https", raw))
	}
	return source{kind: SourceKindURL, location: raw}
}
