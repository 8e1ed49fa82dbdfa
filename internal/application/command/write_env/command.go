package write_env

// WriteEnvCommand writes the environment a manually installed ExApp is
// started with.
type WriteEnvCommand struct {
	// Path overrides the configured env file.
	Path string
}

// Name returns unique command name.
func (c WriteEnvCommand) Name() string {
	return "WriteEnv"
}
