package model

import internalmodel "github.com/goliatone/go-contactform/internal/model"

// FieldKind re-exports the internal FieldKind enumeration.
type FieldKind = internalmodel.FieldKind

const (
	FieldKindText     = internalmodel.FieldKindText
	FieldKindEmail    = internalmodel.FieldKindEmail
	FieldKindTextArea = internalmodel.FieldKindTextArea
	FieldKindTel      = internalmodel.FieldKindTel
)

// GroupKind re-exports the internal GroupKind enumeration.
type GroupKind = internalmodel.GroupKind

const (
	GroupKindSelect   = internalmodel.GroupKindSelect
	GroupKindRadio    = internalmodel.GroupKindRadio
	GroupKindCheckbox = internalmodel.GroupKindCheckbox
)

// BannerKind re-exports the internal BannerKind enumeration.
type BannerKind = internalmodel.BannerKind

const (
	BannerSuccess = internalmodel.BannerSuccess
	BannerError   = internalmodel.BannerError
)

type Field = internalmodel.Field
type Option = internalmodel.Option
type Group = internalmodel.Group
type Toggle = internalmodel.Toggle
type Messages = internalmodel.Messages
type FormModel = internalmodel.FormModel

// DefaultLabeler exposes the label generator used by the builder.
func DefaultLabeler(name string) string {
	return internalmodel.DefaultLabeler(name)
}
