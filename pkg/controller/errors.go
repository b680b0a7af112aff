package controller

import (
	"errors"

	"github.com/goliatone/go-contactform/pkg/fixtures"
)

var (
	// ErrNoSuchOption reports a group, value, label or index that matches no
	// selectable option.
	ErrNoSuchOption = errors.New("controller: no such option")
	// ErrFileNotFound reports an attachment source that cannot be resolved.
	// It is the fixtures sentinel so errors.Is works across both packages.
	ErrFileNotFound = fixtures.ErrNotFound
)
