package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"promptnodes/internal/model"
	"promptnodes/internal/resolver"
)

// 环境变量名
const (
	EnvAddr           = "PROMPT_ADDR"
	EnvPresetsDir     = "PROMPT_PRESETS_DIR"
	EnvDefaultLang    = "PROMPT_DEFAULT_LANGUAGE"
	EnvResolutionMode = "PROMPT_RESOLUTION_MODE"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogFile        = "LOG_FILE"
)

// DefaultAddr 默认监听地址
const DefaultAddr = ":8080"

// Config 进程配置
type Config struct {
	Addr            string
	PresetsDir      string // 为空时使用内置数据
	DefaultLanguage model.Language
	ResolutionMode  resolver.Mode
	LogLevel        logrus.Level
	LogFile         string
}

// Load 读取 .env 文件（不存在时忽略）后从环境变量构建配置。
// 已存在的环境变量不会被 .env 覆盖。
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	cfg := FromLookup(os.LookupEnv)
	return &cfg, nil
}

// FromLookup 由 lookup 构建配置，非法值回退到默认值
func FromLookup(lookup func(string) (string, bool)) Config {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := Config{
		Addr:           DefaultAddr,
		PresetsDir:     get(EnvPresetsDir),
		ResolutionMode: resolver.ParseMode(strings.ToLower(get(EnvResolutionMode))),
		LogLevel:       logrus.InfoLevel,
		LogFile:        get(EnvLogFile),
	}
	if v := get(EnvAddr); v != "" {
		cfg.Addr = v
	}
	if v := get(EnvLogLevel); v != "" {
		if lvl, err := logrus.ParseLevel(v); err == nil {
			cfg.LogLevel = lvl
		}
	}

	cfg.DefaultLanguage = model.ParseLanguage(get(EnvDefaultLang))
	if !supported(cfg.DefaultLanguage) {
		cfg.DefaultLanguage = DetectLanguage(get("LC_ALL"), get("LC_MESSAGES"), get("LANG"))
	}
	return cfg
}

// DetectLanguage 按顺序取第一个非空的系统区域设置：中文为 zh，其他为 en，无法识别时为 zh
func DetectLanguage(locales ...string) model.Language {
	for _, loc := range locales {
		if loc == "" {
			continue
		}
		tag, ok := parseLocale(loc)
		if !ok {
			return model.LanguageZh
		}
		base, _ := tag.Base()
		if base.String() == "zh" {
			return model.LanguageZh
		}
		return model.LanguageEn
	}
	return model.LanguageZh
}

// parseLocale 解析 zh_CN.UTF-8、en_US@euro 形式的区域设置
func parseLocale(loc string) (language.Tag, bool) {
	if i := strings.IndexAny(loc, ".@"); i >= 0 {
		loc = loc[:i]
	}
	if loc == "" || loc == "C" || loc == "POSIX" {
		return language.Und, false
	}
	tag, err := language.Parse(strings.ReplaceAll(loc, "_", "-"))
	if err != nil || tag == language.Und {
		return language.Und, false
	}
	return tag, true
}

func supported(lang model.Language) bool {
	for _, l := range model.SupportedLanguages() {
		if l == lang {
			return true
		}
	}
	return false
}
