package assembler

import (
	"strings"
	"unicode"

	"promptnodes/internal/model"
)

// Group 详细格式中的一个语义分组
type Group struct {
	Name       string                    // 规范名，例如 shot
	Labels     map[model.Language]string // 分组标题
	Categories []string                  // 归属该组的分类
}

// Label 分组标题，缺少该语言时退回英文，再退回规范名
func (g Group) Label(lang model.Language) string {
	if l, ok := g.Labels[lang]; ok && l != "" {
		return l
	}
	if l, ok := g.Labels[model.LanguageEn]; ok && l != "" {
		return l
	}
	return g.Name
}

func (g Group) contains(category string) bool {
	for _, c := range g.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Layout 节点相关的拼接参数
type Layout struct {
	SimpleLimit int     // simple 格式保留的元素数
	Groups      []Group // detailed 格式的分组，按声明顺序输出
}

// Input 一次拼接所需的全部输入
type Input struct {
	UserPrompt         string
	Language           model.Language
	Format             model.Format
	Elements           []model.Element // 按分类声明顺序
	ProfessionalSuffix string
	DetailedSuffix     string
}

// Assemble 按格式拼接最终提示词，纯函数，不会失败
func Assemble(layout Layout, in Input) string {
	switch in.Format {
	case model.FormatSimple:
		return simple(layout, in)
	case model.FormatDetailed:
		return detailed(layout, in)
	default:
		return professional(in)
	}
}

func professional(in Input) string {
	if len(in.Elements) == 0 {
		return in.UserPrompt + in.ProfessionalSuffix
	}
	sep := in.Language.Separator()
	return in.UserPrompt + sep + joinTexts(in.Elements, sep) + in.ProfessionalSuffix
}

func simple(layout Layout, in Input) string {
	if len(in.Elements) == 0 {
		return in.UserPrompt
	}
	elements := in.Elements
	if layout.SimpleLimit > 0 && len(elements) > layout.SimpleLimit {
		elements = elements[:layout.SimpleLimit]
	}
	sep := in.Language.Separator()
	return in.UserPrompt + sep + joinTexts(elements, sep)
}

func detailed(layout Layout, in Input) string {
	connector := in.Language.Connector()
	suffix := StripLeadingPunct(in.DetailedSuffix)
	if len(in.Elements) == 0 {
		return in.UserPrompt + connector + suffix
	}

	sep := in.Language.Separator()
	parts := []string{in.UserPrompt}
	for _, g := range layout.Groups {
		var texts []string
		for _, e := range in.Elements {
			if g.contains(e.Category) {
				texts = append(texts, e.Text)
			}
		}
		if len(texts) == 0 {
			continue
		}
		parts = append(parts, g.Label(in.Language)+in.Language.Delimiter()+strings.Join(texts, sep))
	}
	parts = append(parts, suffix)
	return strings.Join(parts, connector)
}

// StripLeadingPunct 去掉开头的标点与空白，例如 ". Foo" 与 "。专业" 的前缀
func StripLeadingPunct(s string) string {
	return strings.TrimLeftFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
}

func joinTexts(elements []model.Element, sep string) string {
	var b strings.Builder
	for i, e := range elements {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(e.Text)
	}
	return b.String()
}
