package controller

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/goliatone/go-contactform/pkg/fixtures"
	"github.com/goliatone/go-contactform/pkg/model"
)

// Controller owns every piece of form state: field values, the RequiredSet,
// group selections, the attachment and both banners.
type Controller struct {
	mu sync.Mutex

	form     model.FormModel
	clock    Clock
	delay    time.Duration
	resolver Resolver
	log      logrus.FieldLogger
	newID    func() string

	values     map[string]string
	kinds      map[string]model.FieldKind
	required   map[string]struct{}
	groups     map[string]*groupState
	toggles    map[toggleKey]string
	attachment *Attachment
	banners    map[model.BannerKind]*banner
	closed     bool

	// Listeners have their own lock: expiry goroutines emit after releasing
	// mu, and a listener may call Subscribe.
	listenersMu sync.Mutex
	listeners   []func(Snapshot)
}

// New builds a controller for form. The form is validated; its Required list
// seeds the RequiredSet.
func New(form model.FormModel, options ...Option) (*Controller, error) {
	if err := form.Validate(); err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}

	c := &Controller{
		form:     form,
		clock:    clock.RealClock{},
		delay:    DefaultBannerDelay,
		resolver: fixtures.New(nil),
		log:      discardLogger(),
		newID:    defaultIDGenerator,
		values:   make(map[string]string, len(form.Fields)),
		kinds:    make(map[string]model.FieldKind, len(form.Fields)),
		required: make(map[string]struct{}, len(form.Required)),
		groups:   make(map[string]*groupState, len(form.Groups)),
		toggles:  make(map[toggleKey]string, len(form.Toggles)),
		banners: map[model.BannerKind]*banner{
			model.BannerSuccess: {kind: model.BannerSuccess},
			model.BannerError:   {kind: model.BannerError},
		},
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}

	for _, field := range form.Fields {
		c.values[field.Name] = ""
		c.kinds[field.Name] = field.Kind
	}
	for _, name := range form.Required {
		c.required[name] = struct{}{}
	}
	for _, group := range form.Groups {
		c.groups[group.Name] = newGroupState(group)
	}
	for _, toggle := range form.Toggles {
		c.toggles[toggleKey{group: toggle.Group, option: toggle.Option}] = toggle.Field
	}
	return c, nil
}

// Form returns the definition the controller was built from.
func (c *Controller) Form() model.FormModel {
	return c.form
}

// SetField stores value into the named field. The tel field keeps only its
// digits, so input without digits leaves it empty. Unknown names are ignored.
func (c *Controller) SetField(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kind, ok := c.kinds[name]
	if !ok {
		c.log.WithField("field", name).Debug("controller: ignoring unknown field")
		return
	}
	if kind == model.FieldKindTel {
		value = DigitsOnly(value)
	}
	c.values[name] = value
}

// TypeField appends keystrokes to the current value, the way typing into an
// input does. Rejected keystrokes (non-digits on tel fields) leave the value
// unchanged.
func (c *Controller) TypeField(name, keys string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kind, ok := c.kinds[name]
	if !ok {
		c.log.WithField("field", name).Debug("controller: ignoring unknown field")
		return
	}
	if kind == model.FieldKindTel {
		keys = DigitsOnly(keys)
	}
	c.values[name] += keys
}

// ClearField empties the named field.
func (c *Controller) ClearField(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.values[name]; ok {
		c.values[name] = ""
	}
}

// Value returns the current value of a field.
func (c *Controller) Value(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[name]
}

// SetRequired adds name to or removes it from the RequiredSet.
func (c *Controller) SetRequired(name string, required bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setRequiredLocked(name, required)
}

func (c *Controller) setRequiredLocked(name string, required bool) {
	if _, ok := c.kinds[name]; !ok {
		c.log.WithField("field", name).Debug("controller: ignoring requirement for unknown field")
		return
	}
	if required {
		c.required[name] = struct{}{}
		return
	}
	delete(c.required, name)
}

// IsRequired reports RequiredSet membership.
func (c *Controller) IsRequired(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.required[name]
	return ok
}

// Required lists the RequiredSet in form field order.
func (c *Controller) Required() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requiredLocked()
}

func (c *Controller) requiredLocked() []string {
	out := make([]string, 0, len(c.required))
	for _, field := range c.form.Fields {
		if _, ok := c.required[field.Name]; ok {
			out = append(out, field.Name)
		}
	}
	return out
}

// Subscribe registers fn to receive a snapshot after every banner visibility
// change. Listeners run after the command completes, outside the controller
// lock, and must not block.
func (c *Controller) Subscribe(fn func(Snapshot)) {
	if fn == nil {
		return
	}
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Controller) emit(snapshot Snapshot) {
	c.listenersMu.Lock()
	listeners := slices.Clone(c.listeners)
	c.listenersMu.Unlock()
	for _, fn := range listeners {
		fn(snapshot)
	}
}

// Close stops every pending banner timer. Timers that already fired but have
// not been applied yet are discarded.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	for _, b := range c.banners {
		b.disarm()
	}
	return nil
}
