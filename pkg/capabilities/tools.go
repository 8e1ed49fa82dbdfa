package capabilities

import "regexp"

var tools = []struct {
	name    string
	command []string
	pattern *regexp.Regexp
}{
	// Docker version 28.2.2, build e6534b4
	{CapabilityDocker, []string{"docker", "--version"}, regexp.MustCompile(`Docker version ([^\s,]+)`)},
	// github.com/docker/buildx v0.24.0 d0e5e86
	{CapabilityBuildx, []string{"docker", "buildx", "version"}, regexp.MustCompile(`buildx v?([^\s]+)`)},
	// PHP 8.3.6 (cli) (built: ...)
	{CapabilityPHP, []string{"php", "--version"}, regexp.MustCompile(`PHP ([^\s]+)`)},
	// msgfmt (GNU gettext-tools) 0.21
	{CapabilityMsgfmt, []string{"msgfmt", "--version"}, regexp.MustCompile(`msgfmt \(GNU gettext-tools\) ([^\s]+)`)},
	// git version 2.43.0
	{CapabilityGit, []string{"git", "--version"}, regexp.MustCompile(`git version ([^\s]+)`)},
}
