package create_translation_templates

// CreateTranslationTemplatesCommand extracts translatable strings into the
// .pot templates under translationfiles/templates.
type CreateTranslationTemplatesCommand struct{}

// Name returns unique command name.
func (c CreateTranslationTemplatesCommand) Name() string {
	return "CreateTranslationTemplates"
}
