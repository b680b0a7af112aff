package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
)

// DefaultAttempts bounds how many times Run submits before giving up.
const DefaultAttempts = 3

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithRenderOptions sets the locale and translator used for prompt labels
// and banner copy.
func WithRenderOptions(opts render.RenderOptions) Option {
	return func(s *Session) {
		s.opts = opts
	}
}

// WithAttempts caps the number of submissions. Values below one are ignored.
func WithAttempts(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.attempts = n
		}
	}
}

// WithAttachmentPrompt toggles the optional attachment question.
func WithAttachmentPrompt(enabled bool) Option {
	return func(s *Session) {
		s.askAttachment = enabled
	}
}

// WithLogger sets the session logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Session) {
		if logger != nil {
			s.log = logger
		}
	}
}

// Session walks a user through the form in the terminal, feeding every
// answer into the controller. Validation stays with the controller: the
// session only reports what Submit decided and asks again for the fields it
// flagged.
type Session struct {
	ctrl          *controller.Controller
	form          model.FormModel
	driver        PromptDriver
	opts          render.RenderOptions
	attempts      int
	askAttachment bool
	log           logrus.FieldLogger
}

// NewSession binds a session to ctrl. form supplies labels and is usually
// ctrl.Form() after localisation.
func NewSession(ctrl *controller.Controller, form model.FormModel, options ...Option) *Session {
	s := &Session{
		ctrl:          ctrl,
		form:          form,
		driver:        NewSurveyDriver(nil),
		attempts:      DefaultAttempts,
		askAttachment: true,
		log:           discardLogger(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	render.LocalizeFormModel(&s.form, s.opts)
	return s
}

// Run prompts every control in form order, submits, prints the banner copy
// and re-prompts the fields flagged by an invalid submission until it is
// accepted or the attempts run out. The last result is always returned.
func (s *Session) Run(ctx context.Context) (controller.SubmissionResult, error) {
	if s.ctrl == nil {
		return controller.SubmissionResult{}, errors.New("tui: controller is nil")
	}
	if s.driver == nil {
		return controller.SubmissionResult{}, ErrNoDriver
	}

	for _, field := range s.form.Fields {
		if err := s.promptField(ctx, field); err != nil {
			return controller.SubmissionResult{}, err
		}
	}
	for _, group := range s.form.Groups {
		if err := s.promptGroup(ctx, group); err != nil {
			return controller.SubmissionResult{}, err
		}
	}
	if s.askAttachment {
		if err := s.promptAttachment(ctx); err != nil {
			return controller.SubmissionResult{}, err
		}
	}

	var result controller.SubmissionResult
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result = s.ctrl.Submit()
		s.log.WithFields(logrus.Fields{
			"attempt": attempt,
			"outcome": result.Outcome,
		}).Debug("tui: submitted")

		if err := s.driver.Info(ctx, render.BannerMessage(s.form, result.Banner, s.opts)); err != nil {
			return result, err
		}
		if result.Accepted() || attempt == s.attempts {
			break
		}
		if err := s.reprompt(ctx, result.Issues); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (s *Session) reprompt(ctx context.Context, issues []controller.Issue) error {
	for _, issue := range issues {
		field, ok := s.form.Field(issue.Field)
		if !ok {
			continue
		}
		msg := fmt.Sprintf("%s: %s", field.Label, render.IssueMessage(issue, s.opts))
		if err := s.driver.Info(ctx, msg); err != nil {
			return err
		}
		if err := s.promptField(ctx, field); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) promptField(ctx context.Context, field model.Field) error {
	label := field.Label
	if s.ctrl.IsRequired(field.Name) {
		label += " " + render.Text(render.KeyRequiredSuffix, "*", s.opts)
	}
	current := s.ctrl.Value(field.Name)

	var (
		answer string
		err    error
	)
	if field.Kind == model.FieldKindTextArea {
		answer, err = s.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: current})
	} else {
		answer, err = s.driver.Input(ctx, InputConfig{
			Message:     label,
			Default:     current,
			Placeholder: field.Placeholder,
		})
	}
	if err != nil {
		return err
	}
	s.ctrl.SetField(field.Name, strings.TrimRight(answer, "\r\n"))
	return nil
}

func (s *Session) promptGroup(ctx context.Context, group model.Group) error {
	var (
		labels []string
		values []string
	)
	selected, err := s.ctrl.Selected(group.Name)
	if err != nil {
		return err
	}
	current := make(map[string]struct{}, len(selected))
	for _, value := range selected {
		current[value] = struct{}{}
	}

	defaultIndex := 0
	var defaults []int
	for _, opt := range group.Options {
		if opt.Disabled {
			continue
		}
		if _, ok := current[opt.Value]; ok {
			defaultIndex = len(values)
			defaults = append(defaults, len(values))
		}
		labels = append(labels, opt.DisplayLabel())
		values = append(values, opt.Value)
	}
	if len(values) == 0 {
		return nil
	}

	cfg := SelectConfig{
		Message:      group.Label,
		Options:      labels,
		DefaultIndex: defaultIndex,
		Defaults:     defaults,
	}

	if !group.Multi() {
		idx, err := s.driver.Select(ctx, cfg)
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(values) {
			return fmt.Errorf("tui: group %q: choice %d out of range", group.Name, idx)
		}
		return s.ctrl.Check(group.Name, values[idx])
	}

	picked, err := s.driver.MultiSelect(ctx, cfg)
	if err != nil {
		return err
	}
	chosen := make(map[int]struct{}, len(picked))
	for _, idx := range picked {
		chosen[idx] = struct{}{}
	}
	for i, value := range values {
		if _, ok := chosen[i]; ok {
			err = s.ctrl.Check(group.Name, value)
		} else {
			err = s.ctrl.Uncheck(group.Name, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// promptAttachment asks for a path or @alias until one resolves or the
// answer is blank.
func (s *Session) promptAttachment(ctx context.Context) error {
	attach, err := s.driver.Confirm(ctx, ConfirmConfig{
		Message: render.Text(render.KeyAttachment, "Selecione um arquivo", s.opts) + "?",
	})
	if err != nil || !attach {
		return err
	}

	for {
		ref, err := s.driver.Input(ctx, InputConfig{
			Message: render.Text(render.KeyAttachment, "Selecione um arquivo", s.opts),
			Help:    "path or @alias",
		})
		if err != nil {
			return err
		}
		ref = strings.TrimSpace(ref)
		if ref == "" {
			return nil
		}
		res, err := s.ctrl.AttachFile(controller.ParseSource(ref), controller.WithAction(controller.ActionSelect))
		if err == nil {
			return s.driver.Info(ctx, fmt.Sprintf("%s (%d bytes)", res.Filename, res.Size))
		}
		if !errors.Is(err, controller.ErrFileNotFound) {
			return err
		}
		if err := s.driver.Info(ctx, err.Error()); err != nil {
			return err
		}
	}
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
