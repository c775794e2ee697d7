package entities

import (
	"github.com/google/uuid"
	"github.com/reglet-dev/portcfg/internal/domain"
	"github.com/reglet-dev/portcfg/internal/domain/catalog"
	"github.com/reglet-dev/portcfg/internal/domain/flags"
	"github.com/reglet-dev/portcfg/internal/domain/platform"
	"github.com/reglet-dev/portcfg/internal/domain/scheduler"
	"github.com/reglet-dev/portcfg/internal/domain/toolchain"
)

// Configuration is the single resolved configuration of a runtime instance.
// It is built once and only handed out by read-only accessors, so it can be
// shared across goroutines without locking.
type Configuration struct {
	toolchain *toolchain.Profile
	platform  *platform.Profile
	flags     *flags.Snapshot
	idle      *scheduler.Policy
}

// NewConfiguration assembles a configuration from resolved parts. The idle
// policy must be present exactly when the scheduler flag is enabled.
func NewConfiguration(tc *toolchain.Profile, p *platform.Profile, snap *flags.Snapshot, idle *scheduler.Policy) (*Configuration, error) {
	switch {
	case tc == nil:
		return nil, domain.NewConfigurationError(domain.AspectToolchain, "", "toolchain profile is missing", nil)
	case p == nil:
		return nil, domain.NewConfigurationError(domain.AspectPlatform, "", "platform profile is missing", nil)
	case snap == nil:
		return nil, domain.NewConfigurationError(domain.AspectFlags, "", "flag snapshot is missing", nil)
	}

	enabled := snap.Enabled(catalog.SchedulerEnable)
	if enabled && idle == nil {
		return nil, domain.NewConfigurationError(domain.AspectScheduler, catalog.SchedulerEnable,
			"scheduler is enabled but no idle-poll policy was built", nil)
	}
	if !enabled && idle != nil {
		return nil, domain.NewConfigurationError(domain.AspectScheduler, catalog.SchedulerEnable,
			"idle-poll policy given while the scheduler is disabled", nil)
	}

	cfg := &Configuration{toolchain: cloneToolchain(tc), platform: clonePlatform(p), flags: snap}
	if idle != nil {
		policy := *idle
		cfg.idle = &policy
	}
	return cfg, nil
}

func cloneToolchain(tc *toolchain.Profile) *toolchain.Profile {
	cp := *tc
	return &cp
}

func clonePlatform(p *platform.Profile) *platform.Profile {
	cp := *p
	return &cp
}

// Toolchain returns a copy of the toolchain profile.
func (c *Configuration) Toolchain() *toolchain.Profile {
	return cloneToolchain(c.toolchain)
}

// Platform returns a copy of the platform type profile.
func (c *Configuration) Platform() *platform.Profile {
	return clonePlatform(c.platform)
}

// Flags returns the resolved flag snapshot.
func (c *Configuration) Flags() *flags.Snapshot { return c.flags }

// IdlePolicy returns a copy of the idle-poll policy, or nil when scheduling
// is disabled.
func (c *Configuration) IdlePolicy() *scheduler.Policy {
	if c.idle == nil {
		return nil
	}
	p := *c.idle
	return &p
}

// SchedulerEnabled reports whether the idle-poll hook exists.
func (c *Configuration) SchedulerEnabled() bool { return c.idle != nil }

// NewIdleHook binds the idle policy to a host sleeper. It returns nil when
// scheduling is disabled.
func (c *Configuration) NewIdleHook(sleeper scheduler.Sleeper) *scheduler.Hook {
	if c.idle == nil {
		return nil
	}
	return scheduler.NewHook(c.idle, sleeper)
}

// IdleHook returns the entry point the host event loop calls when it has no
// immediate work, or nil when scheduling is disabled.
func (c *Configuration) IdleHook(sleeper scheduler.Sleeper) func() {
	hook := c.NewIdleHook(sleeper)
	if hook == nil {
		return nil
	}
	return hook.Poll
}

// Fingerprint identifies the configuration. Equal build inputs produce equal
// fingerprints.
func (c *Configuration) Fingerprint() uuid.UUID {
	quantum := ""
	if c.idle != nil {
		quantum = c.idle.Quantum.String()
	}
	return uuid.NewSHA1(c.flags.Fingerprint(), []byte(
		string(c.toolchain.Compiler)+"\x00"+c.toolchain.VersionString()+"\x00"+
			c.platform.Rule+"\x00"+c.platform.SignedWord.String()+"\x00"+
			c.platform.Offset.String()+"\x00"+c.platform.Subsecond.String()+"\x00"+quantum))
}
