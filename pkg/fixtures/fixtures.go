package fixtures

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound reports a path or alias that cannot be resolved to content.
var ErrNotFound = errors.New("fixtures: file not found")

// AliasPrefix marks a named reference ("@sampleFile") instead of a path.
const AliasPrefix = "@"

// Payload is a resolved file: the name it was picked under plus its bytes.
type Payload struct {
	Filename string
	Content  []byte
}

// Clone returns a copy whose Content does not alias the receiver's.
func (p Payload) Clone() Payload {
	return Payload{
		Filename: p.Filename,
		Content:  append([]byte(nil), p.Content...),
	}
}

// Loader resolves fixture paths against a filesystem and keeps named
// aliases for payloads loaded earlier. It is safe for concurrent use.
type Loader struct {
	fsys fs.FS

	mu      sync.RWMutex
	aliases map[string]Payload
}

// New constructs a Loader reading from fsys. A nil fsys reads paths from the
// operating system as given (relative to the working directory).
func New(fsys fs.FS) *Loader {
	return &Loader{
		fsys:    fsys,
		aliases: make(map[string]Payload),
	}
}

// NewDir is shorthand for New(os.DirFS(dir)).
func NewDir(dir string) *Loader {
	if strings.TrimSpace(dir) == "" {
		return New(nil)
	}
	return New(os.DirFS(dir))
}

// Load reads the file at p. The payload filename is the base name of p.
func (l *Loader) Load(p string) (Payload, error) {
	return l.LoadContext(context.Background(), p)
}

// LoadContext is Load with cancellation checked before the read.
func (l *Loader) LoadContext(ctx context.Context, p string) (Payload, error) {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		return Payload{}, fmt.Errorf("%w: empty path", ErrNotFound)
	}
	if err := ctx.Err(); err != nil {
		return Payload{}, err
	}

	var (
		data []byte
		err  error
		name string
	)
	if l.fsys != nil {
		clean := path.Clean(strings.TrimPrefix(filepath.ToSlash(trimmed), "./"))
		data, err = fs.ReadFile(l.fsys, clean)
		name = path.Base(clean)
	} else {
		data, err = os.ReadFile(trimmed)
		name = filepath.Base(trimmed)
	}
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %s: %v", ErrNotFound, trimmed, err)
	}
	return Payload{Filename: name, Content: data}, nil
}

// Alias loads p and registers the payload under name, so later references to
// "@name" resolve to the same filename and content.
func (l *Loader) Alias(name, p string) (Payload, error) {
	key := normaliseAlias(name)
	if key == "" {
		return Payload{}, errors.New("fixtures: alias name is required")
	}
	payload, err := l.Load(p)
	if err != nil {
		return Payload{}, err
	}
	l.Register(key, payload)
	return payload.Clone(), nil
}

// Register stores an already materialised payload under name.
func (l *Loader) Register(name string, payload Payload) {
	key := normaliseAlias(name)
	if key == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.aliases[key] = payload.Clone()
}

// Lookup returns the payload registered under name (with or without the
// leading "@").
func (l *Loader) Lookup(name string) (Payload, error) {
	key := normaliseAlias(name)
	l.mu.RLock()
	payload, ok := l.aliases[key]
	l.mu.RUnlock()
	if !ok {
		return Payload{}, fmt.Errorf("%w: alias %s%s", ErrNotFound, AliasPrefix, key)
	}
	return payload.Clone(), nil
}

// Resolve dispatches "@name" references to Lookup and everything else to
// Load.
func (l *Loader) Resolve(ref string) (Payload, error) {
	if IsAlias(ref) {
		return l.Lookup(ref)
	}
	return l.Load(ref)
}

// Aliases lists the registered alias names in sorted order.
func (l *Loader) Aliases() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.aliases))
	for name := range l.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsAlias reports whether ref uses the "@name" form.
func IsAlias(ref string) bool {
	return strings.HasPrefix(strings.TrimSpace(ref), AliasPrefix)
}

func normaliseAlias(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), AliasPrefix)
}
