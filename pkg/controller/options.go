package controller

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/goliatone/go-contactform/pkg/fixtures"
)

// DefaultBannerDelay is how long a submission banner stays visible.
const DefaultBannerDelay = 3000 * time.Millisecond

// Clock is the time source banners are armed against. clock.RealClock
// satisfies it in production; k8s.io/utils/clock/testing.FakeClock in tests.
type Clock = clock.WithDelayedExecution

// Resolver turns attachment sources into payloads.
type Resolver interface {
	Load(path string) (fixtures.Payload, error)
	Lookup(alias string) (fixtures.Payload, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock swaps the time source. A clock with a Step(time.Duration) method
// (such as testclock.FakeClock) lets Tick advance virtual time.
func WithClock(c Clock) Option {
	return func(ctrl *Controller) {
		if c != nil {
			ctrl.clock = c
		}
	}
}

// WithBannerDelay overrides DefaultBannerDelay.
func WithBannerDelay(d time.Duration) Option {
	return func(ctrl *Controller) {
		if d > 0 {
			ctrl.delay = d
		}
	}
}

// WithResolver sets the attachment resolver. The default reads paths from
// the OS and knows no aliases.
func WithResolver(r Resolver) Option {
	return func(ctrl *Controller) {
		if r != nil {
			ctrl.resolver = r
		}
	}
}

// WithLogger routes debug output to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(ctrl *Controller) {
		if logger != nil {
			ctrl.log = logger
		}
	}
}

// WithIDGenerator replaces the submission id source (uuid by default).
func WithIDGenerator(fn func() string) Option {
	return func(ctrl *Controller) {
		if fn != nil {
			ctrl.newID = fn
		}
	}
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func defaultIDGenerator() string {
	return uuid.NewString()
}
