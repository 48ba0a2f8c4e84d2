package lib

import (
	"encoding/json"
	"os"
	"path"
	"path/filepath"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	C "github.com/lesiontracker/tracker-server/constant"
)

var bundle *i18n.Bundle

type LanguageConfiguration struct {
	Path string
}

func LanguageBundle() *i18n.Bundle {
	return bundle
}

// メッセージファイル(active.*.json)を全て読み込む。
func SetupI18n(config *LanguageConfiguration) error {
	root := os.Getenv("SERVER_ROOT")

	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	files, err := filepath.Glob(path.Join(root, config.Path, "active.*.json"))
	if err != nil {
		return err
	}

	for _, f := range files {
		if _, e := b.LoadMessageFile(f); e != nil {
			return e
		}
	}

	bundle = b

	return nil
}

type Localizer struct {
	bundle           *i18n.Bundle
	defaultLocalizer *i18n.Localizer
}

func NewLocalizer(langOrders ...string) *Localizer {
	b := bundle
	if b == nil {
		b = i18n.NewBundle(language.English)
	}
	return &Localizer{
		bundle:           b,
		defaultLocalizer: i18n.NewLocalizer(b, langOrders...),
	}
}

func (l *Localizer) Localize(messageID string, templateData interface{}) string {
	return l.LocalizeWithDefault(messageID, templateData, messageID)
}

func (l *Localizer) LocalizeWithDefault(messageID string, templateData interface{}, defaultStr string) string {
	msg, err := l.defaultLocalizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: templateData,
	})
	if err != nil {
		return defaultStr
	}
	return msg
}

func (l *Localizer) LocalizeWithLang(lang C.Language, messageID string, templateData interface{}) string {
	customLocalizer := i18n.NewLocalizer(l.bundle, string(lang))
	msg, err := customLocalizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: templateData,
	})
	if err != nil {
		return messageID
	}
	return msg
}
