package capabilities

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeProbe(outputs map[string]string) probeFunc {
	return func(name string, args ...string) ([]byte, error) {
		key := strings.Join(append([]string{name}, args...), " ")
		out, ok := outputs[key]
		if !ok {
			return nil, errors.New("executable file not found in $PATH")
		}
		return []byte(out), nil
	}
}

func TestCapabilities(t *testing.T) {
	f := newCapabilityFactory(fakeProbe(map[string]string{
		"docker --version":      "Docker version 28.2.2, build e6534b4\n",
		"docker buildx version": "github.com/docker/buildx v0.24.0 d0e5e86\n",
		"php --version":         "PHP 8.3.6 (cli) (built: Apr 15 2024 19:21:47) (NTS)\n",
		"msgfmt --version":      "msgfmt (GNU gettext-tools) 0.21\nCopyright (C) 1995-2020\n",
	}))

	want := map[string]string{
		CapabilityDocker: "28.2.2",
		CapabilityBuildx: "0.24.0",
		CapabilityPHP:    "8.3.6",
		CapabilityMsgfmt: "0.21",
	}
	for name, version := range want {
		c := f.GetCapabilityByName(name)
		require.NotNil(t, c, name)
		assert.True(t, c.IsAvailable(), name)
		assert.Equal(t, version, c.Version(), name)
	}

	git := f.GetCapabilityByName(CapabilityGit)
	require.NotNil(t, git)
	assert.False(t, git.IsAvailable())
	assert.Empty(t, git.Version())
	assert.Len(t, f.GetAllCapabilities(), 5)
	assert.Nil(t, f.GetCapabilityByName("kubernetes"))
}

func TestUnexpectedOutput(t *testing.T) {
	f := newCapabilityFactory(fakeProbe(map[string]string{"docker --version": "podman version 5.0.0"}))
	assert.False(t, f.GetCapabilityByName(CapabilityDocker).IsAvailable())
}
