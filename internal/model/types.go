package model

import "strings"

// Language 预设与标签的语言代码
type Language string

const (
	LanguageZh Language = "zh" // 中文，主语言
	LanguageEn Language = "en" // 英文
)

// SupportedLanguages 节点语言下拉框中的候选语言，顺序即展示顺序
func SupportedLanguages() []Language {
	return []Language{LanguageZh, LanguageEn}
}

// ParseLanguage 解析语言代码，不做合法性校验
func ParseLanguage(s string) Language {
	return Language(strings.ToLower(strings.TrimSpace(s)))
}

// Separator 列表分隔符
func (l Language) Separator() string {
	if l == LanguageZh {
		return "，"
	}
	return ", "
}

// Connector 详细格式中各段之间的句子连接符
func (l Language) Connector() string {
	if l == LanguageZh {
		return "。"
	}
	return ". "
}

// Delimiter 分组标题与内容之间的分隔符
func (l Language) Delimiter() string {
	if l == LanguageZh {
		return "："
	}
	return ": "
}

func (l Language) String() string {
	return string(l)
}

// Format 提示词输出格式
type Format string

const (
	FormatProfessional Format = "professional"
	FormatSimple       Format = "simple"
	FormatDetailed     Format = "detailed"
)

// Formats 格式选择器中的候选项，顺序即展示顺序
func Formats() []Format {
	return []Format{FormatProfessional, FormatSimple, FormatDetailed}
}

// ParseFormat 解析规范格式名
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatProfessional:
		return FormatProfessional, true
	case FormatSimple:
		return FormatSimple, true
	case FormatDetailed:
		return FormatDetailed, true
	}
	return "", false
}

// LabelKey 格式在标签文档中的字段名，例如 format_professional
func (f Format) LabelKey() string {
	return "format_" + string(f)
}

// 哨兵键，它们本身不携带输出文本
const (
	KeyNone   = "none"
	KeyRandom = "random"
)

// IsSentinel 判断是否为 none 或 random
func IsSentinel(key string) bool {
	return key == KeyNone || key == KeyRandom
}

// Element 一个已选中、将被拼接进提示词的预设片段
type Element struct {
	Category string // 分类名
	Text     string // 本地化文本
}

// Selection 单次调用的输入，调用结束后即丢弃
type Selection struct {
	Language   Language
	UserPrompt string
	Format     Format
	Keys       map[string]string // 分类 -> 规范键，未设置时为 none
	Seed       int64
	HasSeed    bool
}

// Key 返回分类已解析的键，缺失时为 none
func (s Selection) Key(category string) string {
	if k, ok := s.Keys[category]; ok && k != "" {
		return k
	}
	return KeyNone
}
