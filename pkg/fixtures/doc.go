// Package fixtures resolves attachment sources for the form controller: file
// paths read from an fs.FS (or the OS) and "@alias" references to payloads
// registered earlier, mirroring the load-then-alias flow of browser test
// fixtures. Unresolvable sources fail with ErrNotFound.
package fixtures
