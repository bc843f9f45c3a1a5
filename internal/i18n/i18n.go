package i18n

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

type localizerKey struct{}

var (
	// SupportedLanguages 由加载的文件名得出，例如 en.toml -> en
	SupportedLanguages []string

	// Bundle 全局消息包，context 中没有 Localizer 时回退使用
	Bundle *i18n.Bundle

	defaultLanguage = "en"
)

// InitI18n 初始化 i18n 包
func InitI18n(filePaths []string, defaultLang string) (*i18n.Bundle, error) {
	bundle := i18n.NewBundle(language.MustParse(defaultLang))
	// 注册 TOML 解析器
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	languages := make([]string, 0, len(filePaths))

	for _, filePath := range filePaths {
		file, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}

		languages = append(languages, extractLanguageFromPath(filePath))

		if _, err = bundle.ParseMessageFileBytes(file, filePath); err != nil {
			return nil, err
		}
	}

	SupportedLanguages = languages
	Bundle = bundle
	defaultLanguage = defaultLang
	return bundle, nil
}

// FilePaths 拼出 dir 下每种语言的消息文件路径
func FilePaths(dir string, languages []string) []string {
	paths := make([]string, 0, len(languages))
	for _, lang := range languages {
		paths = append(paths, filepath.Join(dir, lang+".toml"))
	}
	return paths
}

// 从文件路径中提取语言标签（文件名格式为 <lang>.toml）
func extractLanguageFromPath(filePath string) string {
	baseName := filepath.Base(filePath)
	return strings.TrimSuffix(baseName, filepath.Ext(baseName))
}

// WithLocalizer 把 Localizer 放进 context
func WithLocalizer(ctx context.Context, localizer *i18n.Localizer) context.Context {
	return context.WithValue(ctx, localizerKey{}, localizer)
}

// T 翻译消息；找不到 Localizer 时使用默认语言，找不到消息时原样返回 key
func T(ctx context.Context, key string, data map[string]interface{}) string {
	localizer, ok := ctx.Value(localizerKey{}).(*i18n.Localizer)
	if !ok {
		if Bundle == nil {
			return key
		}
		localizer = i18n.NewLocalizer(Bundle, defaultLanguage)
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		return key
	}
	return msg
}
