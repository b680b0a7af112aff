package controller

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-contactform/pkg/fixtures"
)

// Action records how a file reached the form.
type Action string

const (
	ActionSelect   Action = "select"
	ActionDragDrop Action = "drag-drop"
)

// Attachment is the single file currently attached to the form.
type Attachment struct {
	Filename string `json:"filename"`
	Content  []byte `json:"content,omitempty"`
	Action   Action `json:"action"`
}

// Size is the content length in bytes.
func (a Attachment) Size() int {
	return len(a.Content)
}

func (a Attachment) clone() Attachment {
	a.Content = append([]byte(nil), a.Content...)
	return a
}

// Source is where an attachment comes from.
type Source interface {
	resolve(r Resolver) (fixtures.Payload, error)
}

type pathSource string

func (s pathSource) resolve(r Resolver) (fixtures.Payload, error) {
	return r.Load(string(s))
}

type aliasSource string

func (s aliasSource) resolve(r Resolver) (fixtures.Payload, error) {
	return r.Lookup(string(s))
}

type payloadSource fixtures.Payload

func (s payloadSource) resolve(Resolver) (fixtures.Payload, error) {
	if strings.TrimSpace(s.Filename) == "" {
		return fixtures.Payload{}, fmt.Errorf("%w: payload without filename", ErrFileNotFound)
	}
	return fixtures.Payload(s).Clone(), nil
}

// FromPath reads the attachment from a file path.
func FromPath(path string) Source { return pathSource(path) }

// FromAlias resolves a fixture registered earlier, with or without the "@".
func FromAlias(name string) Source { return aliasSource(name) }

// FromBytes attaches an in-memory payload.
func FromBytes(filename string, content []byte) Source {
	return payloadSource(fixtures.Payload{Filename: filename, Content: content})
}

// ParseSource reads "@name" as an alias and anything else as a path.
func ParseSource(ref string) Source {
	if fixtures.IsAlias(ref) {
		return FromAlias(ref)
	}
	return FromPath(ref)
}

// AttachOption customises AttachFile.
type AttachOption func(*attachConfig)

type attachConfig struct {
	action Action
}

// WithAction records the interaction used to attach the file.
func WithAction(action Action) AttachOption {
	return func(cfg *attachConfig) {
		if action != "" {
			cfg.action = action
		}
	}
}

// AttachmentResult reports the attachment now held by the form.
type AttachmentResult struct {
	Filename string `json:"filename"`
	Size     int    `json:"size"`
	Action   Action `json:"action"`
}

// AttachFile resolves src and replaces the current attachment. The filename
// is the original one regardless of the action used. Unresolvable sources
// fail with ErrFileNotFound and leave the previous attachment in place.
func (c *Controller) AttachFile(src Source, options ...AttachOption) (AttachmentResult, error) {
	if src == nil {
		return AttachmentResult{}, fmt.Errorf("controller: attach: %w: nil source", ErrFileNotFound)
	}
	cfg := attachConfig{action: ActionSelect}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	// Resolution reads files, so it runs before taking the lock.
	payload, err := src.resolve(c.resolver)
	if err != nil {
		return AttachmentResult{}, fmt.Errorf("controller: attach: %w", err)
	}

	attachment := Attachment{
		Filename: payload.Filename,
		Content:  payload.Content,
		Action:   cfg.action,
	}

	c.mu.Lock()
	c.attachment = &attachment
	c.mu.Unlock()

	c.log.WithField("filename", attachment.Filename).WithField("action", attachment.Action).Debug("controller: file attached")
	return AttachmentResult{
		Filename: attachment.Filename,
		Size:     attachment.Size(),
		Action:   attachment.Action,
	}, nil
}

// Attachment returns a copy of the current attachment.
func (c *Controller) Attachment() (Attachment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.attachment == nil {
		return Attachment{}, false
	}
	return c.attachment.clone(), true
}

// Detach drops the current attachment.
func (c *Controller) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attachment = nil
}
