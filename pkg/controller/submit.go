package controller

import (
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-contactform/pkg/model"
)

// Outcome is the verdict of a submission attempt.
type Outcome string

const (
	Accepted Outcome = "accepted"
	Invalid  Outcome = "invalid"
)

// IssueReason explains why a required field failed.
type IssueReason string

const (
	ReasonMissing   IssueReason = "missing"
	ReasonMalformed IssueReason = "malformed"
)

// Issue names one failing required field.
type Issue struct {
	Field  string      `json:"field"`
	Reason IssueReason `json:"reason"`
}

// SubmissionResult reports a submission. Validation failures are a normal
// outcome, not an error. ID is set only for accepted submissions.
type SubmissionResult struct {
	Outcome Outcome          `json:"outcome"`
	Banner  model.BannerKind `json:"banner"`
	Issues  []Issue          `json:"issues,omitempty"`
	ID      string           `json:"id,omitempty"`
}

// Accepted reports whether the submission passed validation.
func (r SubmissionResult) Accepted() bool {
	return r.Outcome == Accepted
}

// Submit validates the current RequiredSet against the current values in a
// single step, then shows the matching banner with a fresh expiry window and
// hides the other one. Field values are left untouched.
func (c *Controller) Submit() SubmissionResult {
	c.mu.Lock()
	issues := c.validateLocked()

	result := SubmissionResult{Outcome: Accepted, Banner: model.BannerSuccess}
	if len(issues) > 0 {
		result = SubmissionResult{Outcome: Invalid, Banner: model.BannerError, Issues: issues}
	} else {
		result.ID = c.newID()
	}
	c.showTimedLocked(result.Banner)
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{
		"form":    c.form.ID,
		"outcome": result.Outcome,
		"issues":  len(result.Issues),
	}).Debug("controller: submitted")
	c.emit(snapshot)
	return result
}

// Validate runs the submission checks without touching banners.
func (c *Controller) Validate() []Issue {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validateLocked()
}

func (c *Controller) validateLocked() []Issue {
	var issues []Issue
	for _, name := range c.requiredLocked() {
		value := c.values[name]
		switch {
		case value == "":
			issues = append(issues, Issue{Field: name, Reason: ReasonMissing})
		case c.kinds[name] == model.FieldKindEmail && !ValidEmail(value):
			issues = append(issues, Issue{Field: name, Reason: ReasonMalformed})
		}
	}
	return issues
}
