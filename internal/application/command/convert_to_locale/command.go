package convert_to_locale

// ConvertToLocaleCommand compiles every translation into the gettext locale
// tree read by the ExApp.
type ConvertToLocaleCommand struct{}

// Name returns unique command name.
func (c ConvertToLocaleCommand) Name() string {
	return "ConvertToLocale"
}
