// Package testsupport holds helpers shared by the contact form tests.
package testsupport

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgopenapi "github.com/goliatone/go-contactform/pkg/openapi"
)

// LoadDocument reads an OpenAPI fixture from disk and fails the test when it
// cannot be parsed.
func LoadDocument(t *testing.T, path string) pkgopenapi.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T.
func LoadDocumentFromPath(path string) (pkgopenapi.Document, error) {
	if path == "" {
		return pkgopenapi.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile(path), data)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// AssertFragments reports every fragment missing from html.
func AssertFragments(t *testing.T, html []byte, fragments ...string) {
	t.Helper()

	doc := string(html)
	for _, fragment := range fragments {
		if !strings.Contains(doc, fragment) {
			t.Errorf("output missing %q", fragment)
		}
	}
}

// AssertEqual fails the test with a diff when want and got differ.
func AssertEqual(t *testing.T, want, got any) {
	t.Helper()

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
