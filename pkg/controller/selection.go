package controller

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-contactform/pkg/model"
)

type toggleKey struct {
	group  string
	option string
}

type groupState struct {
	def      model.Group
	selected map[string]struct{}
}

func newGroupState(group model.Group) *groupState {
	return &groupState{
		def:      group,
		selected: make(map[string]struct{}, len(group.Options)),
	}
}

// selectedValues lists the selection in option order.
func (g *groupState) selectedValues() []string {
	out := make([]string, 0, len(g.selected))
	for _, opt := range g.def.Options {
		if _, ok := g.selected[opt.Value]; ok {
			out = append(out, opt.Value)
		}
	}
	return out
}

// resolve maps a selector onto an option index. Strings match a value first
// and a label second; ints index the option list. Disabled options never
// match.
func (g *groupState) resolve(selector any) (int, error) {
	index := -1
	switch sel := selector.(type) {
	case int:
		if sel >= 0 && sel < len(g.def.Options) {
			index = sel
		}
	case string:
		index = g.indexOf(sel)
	default:
		return -1, fmt.Errorf("controller: group %q: unsupported selector %T: %w", g.def.Name, selector, ErrNoSuchOption)
	}
	if index < 0 || g.def.Options[index].Disabled {
		return -1, fmt.Errorf("controller: group %q: option %v: %w", g.def.Name, selector, ErrNoSuchOption)
	}
	return index, nil
}

func (g *groupState) indexOf(selector string) int {
	for i, opt := range g.def.Options {
		if opt.Value == selector {
			return i
		}
	}
	trimmed := strings.TrimSpace(selector)
	for i, opt := range g.def.Options {
		if opt.Label != "" && opt.Label == trimmed {
			return i
		}
	}
	return -1
}

// ParseSelector turns textual input into a selector: "#2" addresses the
// option at index 2, anything else is a value or label.
func ParseSelector(raw string) any {
	if rest, ok := strings.CutPrefix(raw, "#"); ok {
		if index, err := strconv.Atoi(rest); err == nil {
			return index
		}
	}
	return raw
}

// SelectionResult describes the option a selector resolved to and the group
// selection after the change.
type SelectionResult struct {
	Group    string       `json:"group"`
	Index    int          `json:"index"`
	Option   model.Option `json:"option"`
	Selected []string     `json:"selected"`
}

// Select resolves selector (a value, a display label or a zero-based int
// index) in group and selects it. Single-choice groups replace the current
// selection; checkbox groups add the option.
func (c *Controller) Select(group string, selector any) (SelectionResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, err := c.groupLocked(group)
	if err != nil {
		return SelectionResult{}, err
	}
	index, err := state.resolve(selector)
	if err != nil {
		return SelectionResult{}, err
	}
	opt := state.def.Options[index]
	c.checkLocked(state, opt.Value)

	return SelectionResult{
		Group:    group,
		Index:    index,
		Option:   opt,
		Selected: state.selectedValues(),
	}, nil
}

// Check marks the options matching values as selected. With no values it
// checks every enabled option; for single-choice groups that leaves the last
// one selected. Every value is resolved before anything changes.
func (c *Controller) Check(group string, values ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, err := c.groupLocked(group)
	if err != nil {
		return err
	}
	targets, err := c.targetsLocked(state, values)
	if err != nil {
		return err
	}
	for _, value := range targets {
		c.checkLocked(state, value)
	}
	return nil
}

// Uncheck clears the options matching values, or every option when values is
// empty. Clearing an option that is not selected is a no-op.
func (c *Controller) Uncheck(group string, values ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, err := c.groupLocked(group)
	if err != nil {
		return err
	}
	targets, err := c.targetsLocked(state, values)
	if err != nil {
		return err
	}
	for _, value := range targets {
		if _, ok := state.selected[value]; !ok {
			continue
		}
		delete(state.selected, value)
		c.applyToggleLocked(group, value, false)
	}
	return nil
}

// Selected returns the current selection of group in option order.
func (c *Controller) Selected(group string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, err := c.groupLocked(group)
	if err != nil {
		return nil, err
	}
	return state.selectedValues(), nil
}

func (c *Controller) groupLocked(name string) (*groupState, error) {
	state, ok := c.groups[name]
	if !ok {
		return nil, fmt.Errorf("controller: group %q: %w", name, ErrNoSuchOption)
	}
	return state, nil
}

func (c *Controller) targetsLocked(state *groupState, values []string) ([]string, error) {
	if len(values) == 0 {
		out := make([]string, 0, len(state.def.Options))
		for _, opt := range state.def.Options {
			if !opt.Disabled {
				out = append(out, opt.Value)
			}
		}
		return out, nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		index, err := state.resolve(value)
		if err != nil {
			return nil, err
		}
		out = append(out, state.def.Options[index].Value)
	}
	return out, nil
}

func (c *Controller) checkLocked(state *groupState, value string) {
	if _, ok := state.selected[value]; ok {
		return
	}
	if !state.def.Multi() {
		for previous := range state.selected {
			delete(state.selected, previous)
			c.applyToggleLocked(state.def.Name, previous, false)
		}
	}
	state.selected[value] = struct{}{}
	c.applyToggleLocked(state.def.Name, value, true)
}

func (c *Controller) applyToggleLocked(group, option string, checked bool) {
	field, ok := c.toggles[toggleKey{group: group, option: option}]
	if !ok {
		return
	}
	c.setRequiredLocked(field, checked)
}
