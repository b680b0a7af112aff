// Package controller implements the client-side controller of the contact
// form: field state, the RequiredSet with conditional requirements, option
// groups, the single file attachment, submission validation and the success
// and error banners with their auto-dismiss timers.
//
// Every public method is one command. Commands are serialised by a mutex and
// applied in arrival order; banner timers re-enter through the same path, so
// a superseded or post-Close timer can never change state.
package controller
