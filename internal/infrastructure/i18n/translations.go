package i18n

import (
	"embed"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"waybackhome/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

var _ output.T = (*Translator)(nil)

// Translator is a thin wrapper around go-i18n's Bundle/Localizer.
type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
	matcher         language.Matcher
}

// NewTranslator builds a Translator backed by go-i18n using the given default
// locale (e.g. "en"). Messages come from the embedded active.*.toml files.
func NewTranslator(defaultLocale string) *Translator {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range []string{"active.en.toml", "active.fr.toml"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Error().Err(err).Str("file", file).Msg("i18n: load failed")
		}
	}

	// The default language goes first so unmatched requests fall back to it.
	tags := []language.Tag{tag}
	for _, t := range bundle.LanguageTags() {
		if t != tag {
			tags = append(tags, t)
		}
	}

	return &Translator{
		bundle:          bundle,
		defaultLanguage: tag,
		matcher:         language.NewMatcher(tags),
	}
}

// Locale picks the best supported locale for an Accept-Language header.
func (t *Translator) Locale(acceptLanguage string) string {
	if acceptLanguage == "" {
		return t.defaultLanguage.String()
	}
	tag, _ := language.MatchStrings(t.matcher, acceptLanguage)
	base, _ := tag.Base()
	return base.String()
}

// T renders the message identified by key for the given locale.
// If the key/locale is not found, it falls back to the default locale,
// then finally to the key itself.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}

	languages := []string{}
	if locale != "" {
		languages = append(languages, locale)
	}
	languages = append(languages, t.defaultLanguage.String())

	localizer := i18n.NewLocalizer(t.bundle, languages...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		log.Debug().Err(err).Str("key", key).Strs("locales", languages).Msg("i18n: localize failed")
		return key
	}
	return msg
}
