package convert_translations_nc

// ConvertTranslationsNCCommand converts the .po files into the l10n/*.js and
// l10n/*.json catalogs Nextcloud serves.
type ConvertTranslationsNCCommand struct{}

// Name returns unique command name.
func (c ConvertTranslationsNCCommand) Name() string {
	return "ConvertTranslationsNC"
}
