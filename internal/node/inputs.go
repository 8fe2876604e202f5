package node

import (
	"promptnodes/internal/model"
)

// InputKind 输入控件类型
type InputKind string

const (
	KindChoice InputKind = "choice"
	KindString InputKind = "string"
	KindInt    InputKind = "int"
)

// Input 宿主构建界面所需的单个输入声明
type Input struct {
	Field     string    `json:"field"` // 规范字段名
	Name      string    `json:"name"`  // 本地化字段名，宿主以此作为参数名回传
	Kind      InputKind `json:"kind"`
	Options   []string  `json:"options,omitempty"`
	Default   any       `json:"default"`
	Multiline bool      `json:"multiline,omitempty"`
	Min       int64     `json:"min,omitempty"`
	Max       int64     `json:"max,omitempty"`
	Step      int64     `json:"step,omitempty"`
}

// Info 节点注册信息
type Info struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	ReturnTypes []string `json:"return_types"`
	ReturnNames []string `json:"return_names"`
}

// ReturnName 节点唯一输出的名称
const ReturnName = "generated_prompt"

// Info 以 lang 本地化的注册信息
func (n *Node) Info(lang model.Language) Info {
	return Info{
		Name:        n.spec.Name,
		DisplayName: n.store.DisplayName(lang, n.spec.DisplayNames[lang]),
		Category:    n.spec.Category,
		Description: n.spec.Description,
		ReturnTypes: []string{"STRING"},
		ReturnNames: []string{ReturnName},
	}
}

// InputTypes 以 lang 本地化的输入声明；lang 不受支持时使用默认语言
func (n *Node) InputTypes(lang model.Language) []Input {
	if !n.store.HasLanguage(lang) {
		lang = n.defaultLang
	}
	none := n.resolver.NoneLabel(lang)

	languages := model.SupportedLanguages()
	langOptions := make([]string, len(languages))
	for i, l := range languages {
		langOptions[i] = string(l)
	}

	inputs := make([]Input, 0, len(n.spec.Categories)+4)
	inputs = append(inputs,
		Input{
			Field:   FieldLanguage,
			Name:    n.fieldName(lang, FieldLanguage),
			Kind:    KindChoice,
			Options: langOptions,
			Default: string(n.defaultLang),
		},
		Input{
			Field:     FieldUserPrompt,
			Name:      n.fieldName(lang, FieldUserPrompt),
			Kind:      KindString,
			Default:   n.store.Label(lang, "default_prompt", ""),
			Multiline: true,
		},
	)

	for _, category := range n.spec.Categories {
		inputs = append(inputs, Input{
			Field:   category,
			Name:    n.fieldName(lang, category),
			Kind:    KindChoice,
			Options: n.resolver.ListOptions(lang, category),
			Default: none,
		})
	}

	formats := model.Formats()
	formatOptions := make([]string, len(formats))
	for i, f := range formats {
		formatOptions[i] = n.resolver.FormatLabel(lang, f)
	}
	inputs = append(inputs, Input{
		Field:   FieldPromptFormat,
		Name:    n.fieldName(lang, FieldPromptFormat),
		Kind:    KindChoice,
		Options: formatOptions,
		Default: formatOptions[0],
	})

	if n.spec.Seeded {
		inputs = append(inputs, Input{
			Field:   FieldSeed,
			Name:    n.fieldName(lang, FieldSeed),
			Kind:    KindInt,
			Default: SeedAuto,
			Min:     SeedAuto,
			Max:     SeedMax,
			Step:    1,
		})
	}
	return inputs
}

func (n *Node) fieldName(lang model.Language, field string) string {
	return n.store.FieldName(lang, field)
}
