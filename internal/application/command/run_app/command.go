package run_app

// RunAppCommand deploys the published release of the application from the
// app store metadata instead of a local descriptor.
type RunAppCommand struct {
	ID     string
	Daemon string
}

// Name returns unique command name.
func (c RunAppCommand) Name() string {
	return "RunApp"
}
