package unregister_app

// UnregisterAppCommand removes the application from AppAPI.
type UnregisterAppCommand struct {
	ID string
}

// Name returns unique command name.
func (c UnregisterAppCommand) Name() string {
	return "UnregisterApp"
}
