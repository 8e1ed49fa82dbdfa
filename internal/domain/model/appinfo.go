package model

// AppInfo is the subset of appinfo/info.xml the tooling consumes.
type AppInfo struct {
	ID      string
	Name    string
	Version string
	// ImageTag is external-app/docker-install/image-tag.
	ImageTag string
	// Registry and Image are external-app/docker-install/{registry,image}.
	Registry string
	Image    string
	Scopes   []string
	System   bool
}

// Registry is a container registry the host is logged in to.
type Registry struct {
	Address string
}

// RegistryCredentials authenticate a push.
type RegistryCredentials struct {
	Address  string
	Username string
	Password string
}

// Empty reports whether no credentials are present.
func (c RegistryCredentials) Empty() bool {
	return c.Username == "" && c.Password == ""
}

// ExecResult is the outcome of an external command.
type ExecResult struct {
	ExitCode int
	Output   string
}
