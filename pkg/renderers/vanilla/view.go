package vanilla

import (
	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/widgets"
)

type pageView struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Locale      string               `json:"locale"`
	Action      string               `json:"action"`
	Submit      string               `json:"submit"`
	Privacy     string               `json:"privacy"`
	PrivacyHref string               `json:"privacyHref"`
	Attach      controlView          `json:"attach"`
	Hidden      []render.HiddenField `json:"hidden"`
	Controls    []string             `json:"controls"`
	Banners     []bannerView         `json:"banners"`
	FormErrors  []string             `json:"formErrors"`
}

type controlView struct {
	Widget      string       `json:"widget"`
	Name        string       `json:"name"`
	ID          string       `json:"id"`
	Label       string       `json:"label"`
	Placeholder string       `json:"placeholder"`
	InputType   string       `json:"inputType"`
	Value       string       `json:"value"`
	Required    bool         `json:"required"`
	RequiredTag string       `json:"requiredTag"`
	Errors      []string     `json:"errors"`
	Options     []optionView `json:"options"`
}

type optionView struct {
	ID       string `json:"id"`
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
	Disabled bool   `json:"disabled"`
}

type bannerView struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Visible bool   `json:"visible"`
}

func fieldView(form model.FormModel, field model.Field, state controller.FieldState, errs render.ErrorMapping, reg *widgets.Registry, opts render.RenderOptions) controlView {
	widget, _ := reg.ResolveIn(form, widgets.FieldControl(field))
	return controlView{
		Widget:      widget,
		Name:        field.Name,
		ID:          field.ID(),
		Label:       field.Label,
		Placeholder: field.Placeholder,
		InputType:   widgets.InputType(field.Kind),
		Value:       state.Value,
		Required:    state.Required,
		RequiredTag: render.Text(render.KeyRequiredSuffix, "*", opts),
		Errors:      errs.Fields[field.Name],
	}
}

func groupView(form model.FormModel, group model.Group, state controller.GroupState, reg *widgets.Registry) controlView {
	widget, _ := reg.ResolveIn(form, widgets.GroupControl(group))
	view := controlView{
		Widget:  widget,
		Name:    group.Name,
		ID:      group.Name,
		Label:   group.Label,
		Options: make([]optionView, 0, len(group.Options)),
	}
	for _, opt := range group.Options {
		view.Options = append(view.Options, optionView{
			ID:       optionID(group, opt.Value),
			Value:    opt.Value,
			Label:    opt.DisplayLabel(),
			Selected: state.Has(opt.Value) && !opt.Disabled,
			Disabled: opt.Disabled,
		})
	}
	return view
}

// optionID keeps checkbox and radio ids apart from field ids that share the
// option value (the phone field and the phone checkbox).
func optionID(group model.Group, value string) string {
	if group.Kind == model.GroupKindSelect {
		return ""
	}
	return value + "-" + string(group.Kind)
}
