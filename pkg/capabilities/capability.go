// Package capabilities detects the host tools the release workflow needs.
package capabilities

import (
	"os/exec"
	"regexp"
	"runtime"
)

// Capability names
const (
	CapabilityDocker = "docker"
	CapabilityBuildx = "buildx"
	CapabilityPHP    = "php"
	CapabilityMsgfmt = "msgfmt"
	CapabilityGit    = "git"
)

// Capability represents a host tool that can be detected
type Capability interface {
	// Name returns the name of the capability
	Name() string
	// Version returns the detected version, empty before IsAvailable
	Version() string
	// IsAvailable runs the tool and reports whether it answered
	IsAvailable() bool
}

// SystemInfo represents basic system information
type SystemInfo struct {
	OS   string
	Arch string
}

// GetSystemInfo returns the current system information
func GetSystemInfo() SystemInfo {
	return SystemInfo{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}
}

// probeFunc runs a command and returns its combined output.
type probeFunc func(name string, args ...string) ([]byte, error)

func execProbe(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// toolCapability detects a tool from its version output.
type toolCapability struct {
	name    string
	command []string
	pattern *regexp.Regexp
	probe   probeFunc
	version string
}

func (c *toolCapability) Name() string {
	return c.name
}

func (c *toolCapability) Version() string {
	return c.version
}

func (c *toolCapability) IsAvailable() bool {
	output, err := c.probe(c.command[0], c.command[1:]...)
	if err != nil {
		return false
	}
	m := c.pattern.FindSubmatch(output)
	if m == nil {
		return false
	}
	c.version = string(m[1])
	return true
}

// CapabilityFactory creates and returns all known capabilities
type CapabilityFactory struct {
	capabilities []Capability
}

// NewCapabilityFactory creates a factory probing the host
func NewCapabilityFactory() *CapabilityFactory {
	return newCapabilityFactory(execProbe)
}

func newCapabilityFactory(probe probeFunc) *CapabilityFactory {
	caps := make([]Capability, 0, len(tools))
	for _, t := range tools {
		caps = append(caps, &toolCapability{name: t.name, command: t.command, pattern: t.pattern, probe: probe})
	}
	return &CapabilityFactory{capabilities: caps}
}

// GetAllCapabilities returns all capabilities
func (f *CapabilityFactory) GetAllCapabilities() []Capability {
	return f.capabilities
}

// GetCapabilityByName returns a capability by its name
func (f *CapabilityFactory) GetCapabilityByName(name string) Capability {
	for _, c := range f.capabilities {
		if c.Name() == name {
			return c
		}
	}
	return nil
}
