package controller

import (
	"fmt"
	"time"

	"k8s.io/utils/clock"

	"github.com/goliatone/go-contactform/pkg/model"
)

// banner is the per-kind state machine. A visible banner armed by Submit
// holds a live timer and expiresAt. ShowBanner and HideBanner never touch
// them, so an expiry armed by an earlier Submit still hides a banner shown
// directly; without one, a directly shown banner stays until hidden. gen increments on every arm and disarm, and a timer only
// applies when its generation is still current.
type banner struct {
	kind      model.BannerKind
	visible   bool
	expiresAt time.Time
	timer     clock.Timer
	gen       uint64
}

func (b *banner) disarm() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.expiresAt = time.Time{}
	b.gen++
}

func (b *banner) state() BannerState {
	return BannerState{
		Kind:      b.kind,
		Visible:   b.visible,
		ExpiresAt: b.expiresAt,
	}
}

// showTimedLocked makes kind visible with a fresh expiry window, replacing
// any pending one, and hides every other banner.
func (c *Controller) showTimedLocked(kind model.BannerKind) {
	for other, b := range c.banners {
		if other == kind {
			continue
		}
		b.visible = false
		b.disarm()
	}

	b := c.banners[kind]
	b.disarm()
	b.visible = true
	b.expiresAt = c.clock.Now().Add(c.delay)
	if c.closed {
		return
	}

	gen := b.gen
	// The callback may run while the clock holds its own lock (fake clocks
	// fire synchronously inside Step), so it must not take c.mu inline.
	b.timer = c.clock.AfterFunc(c.delay, func() {
		go c.expire(kind, gen)
	})
}

func (c *Controller) expire(kind model.BannerKind, gen uint64) {
	c.mu.Lock()
	b := c.banners[kind]
	if c.closed || b.gen != gen {
		c.mu.Unlock()
		return
	}
	b.timer = nil
	changed := b.visible
	b.visible = false
	b.disarm()
	var snapshot Snapshot
	if changed {
		snapshot = c.snapshotLocked()
	}
	c.mu.Unlock()

	if changed {
		c.log.WithField("banner", kind).Debug("controller: banner expired")
		c.emit(snapshot)
	}
}

// ShowBanner makes kind visible without validation. It neither arms nor
// disarms the auto-dismiss timer.
func (c *Controller) ShowBanner(kind model.BannerKind) error {
	return c.setBannerVisible(kind, true)
}

// HideBanner hides kind without validation. It neither arms nor disarms the
// auto-dismiss timer.
func (c *Controller) HideBanner(kind model.BannerKind) error {
	return c.setBannerVisible(kind, false)
}

func (c *Controller) setBannerVisible(kind model.BannerKind, visible bool) error {
	c.mu.Lock()
	b, ok := c.banners[kind]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("controller: banner %q: %w", kind, ErrNoSuchOption)
	}
	changed := b.visible != visible
	b.visible = visible
	var snapshot Snapshot
	if changed {
		snapshot = c.snapshotLocked()
	}
	c.mu.Unlock()

	if changed {
		c.emit(snapshot)
	}
	return nil
}

// Banner reports the current state of kind.
func (c *Controller) Banner(kind model.BannerKind) BannerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.banners[kind]; ok {
		return b.state()
	}
	return BannerState{Kind: kind}
}

// Tick advances virtual time by elapsed and hides every banner whose expiry
// is at or before the new time. The clock must expose Step (fake clocks do);
// with a real clock Tick only applies expiries that are already due.
func (c *Controller) Tick(elapsed time.Duration) {
	if stepper, ok := c.clock.(interface{ Step(time.Duration) }); ok && elapsed > 0 {
		stepper.Step(elapsed)
	}

	c.mu.Lock()
	now := c.clock.Now()
	changed := false
	for _, b := range c.banners {
		if b.expiresAt.IsZero() || b.expiresAt.After(now) {
			continue
		}
		if b.visible {
			changed = true
		}
		b.visible = false
		b.disarm()
	}
	var snapshot Snapshot
	if changed {
		snapshot = c.snapshotLocked()
	}
	c.mu.Unlock()

	if changed {
		c.emit(snapshot)
	}
}
