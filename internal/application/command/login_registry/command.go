package login_registry

// LoginRegistryCommand stores registry credentials with the docker CLI so
// that buildx can push.
type LoginRegistryCommand struct {
	Address string
}

// Name returns unique command name.
func (c LoginRegistryCommand) Name() string {
	return "LoginRegistry"
}
