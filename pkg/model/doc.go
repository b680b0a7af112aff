// Package model defines the typed contact form definition consumed by the
// controller and the renderers. A FormModel lists free-text fields (text,
// email, textarea, tel), option groups (select, radio, checkbox), the base
// RequiredSet, toggles that bind a checkbox option to conditional membership
// of a field in the RequiredSet, and the copy shown by the success and error
// banners. Builders reside in internal/model but return the types defined
// here.
package model
