package preset

import (
	"promptnodes/internal/model"
)

// Entry 分类中的一个预设：规范键与本地化文本
type Entry struct {
	Key  string
	Text string
}

// Category 一个分类的有序预设列表，保持源文件中的顺序
type Category struct {
	Name    string
	Entries []Entry

	index map[string]int
}

func newCategory(name string, entries []Entry) *Category {
	c := &Category{Name: name, Entries: entries, index: make(map[string]int, len(entries))}
	for i, e := range entries {
		c.index[e.Key] = i
	}
	return c
}

// Has 分类是否定义了 key，文本为空也算定义
func (c *Category) Has(key string) bool {
	_, ok := c.index[key]
	return ok
}

// Text 返回 key 的文本
func (c *Category) Text(key string) (string, bool) {
	i, ok := c.index[key]
	if !ok {
		return "", false
	}
	return c.Entries[i].Text, true
}

// Concrete 返回非哨兵且文本非空的键，即 random 可以选中的候选
func (c *Category) Concrete() []string {
	keys := make([]string, 0, len(c.Entries))
	for _, e := range c.Entries {
		if model.IsSentinel(e.Key) || e.Text == "" {
			continue
		}
		keys = append(keys, e.Key)
	}
	return keys
}

// Presets 按语言索引的预设集合，构造后只读
type Presets struct {
	languages []model.Language
	byLang    map[model.Language]*languagePresets
}

type languagePresets struct {
	order []*Category
	byCat map[string]*Category
}

// EmptyPresets 空预设集合，所有分类都解析为 none
func EmptyPresets() *Presets {
	return &Presets{byLang: make(map[model.Language]*languagePresets)}
}

func (p *Presets) add(lang model.Language, cats []*Category) {
	lp := &languagePresets{order: cats, byCat: make(map[string]*Category, len(cats))}
	for _, c := range cats {
		lp.byCat[c.Name] = c
	}
	if _, ok := p.byLang[lang]; !ok {
		p.languages = append(p.languages, lang)
	}
	p.byLang[lang] = lp
}

// Labels 按语言索引的界面标签、消息模板与节点显示名
type Labels struct {
	fields       map[model.Language]map[string]string
	messages     map[model.Language]map[string]string
	displayNames map[model.Language]string
}

// Store 预设与标签的只读组合，一个节点类型对应一个 Store
type Store struct {
	presets *Presets
	labels  *Labels
}

// NewStore 由已解析的预设与标签构造 Store，nil 参数视为空
func NewStore(presets *Presets, labels *Labels) *Store {
	if presets == nil {
		presets = EmptyPresets()
	}
	if labels == nil {
		labels = &Labels{}
	}
	return &Store{presets: presets, labels: labels}
}

// HasLanguage 预设中是否存在该语言
func (s *Store) HasLanguage(lang model.Language) bool {
	_, ok := s.presets.byLang[lang]
	return ok
}

// Languages 预设中出现的语言，保持源文件顺序
func (s *Store) Languages() []model.Language {
	out := make([]model.Language, len(s.presets.languages))
	copy(out, s.presets.languages)
	return out
}

// Category 返回语言下的分类
func (s *Store) Category(lang model.Language, name string) (*Category, bool) {
	lp, ok := s.presets.byLang[lang]
	if !ok {
		return nil, false
	}
	c, ok := lp.byCat[name]
	return c, ok
}

// Categories 语言下的全部分类，保持源文件顺序
func (s *Store) Categories(lang model.Language) []*Category {
	lp, ok := s.presets.byLang[lang]
	if !ok {
		return nil
	}
	return lp.order
}

// Text 返回预设文本，分类或键不存在时 ok 为 false
func (s *Store) Text(lang model.Language, category, key string) (string, bool) {
	c, ok := s.Category(lang, category)
	if !ok {
		return "", false
	}
	return c.Text(key)
}

// Label 返回界面标签，缺失或为空时返回 fallback
func (s *Store) Label(lang model.Language, key, fallback string) string {
	if v := s.labels.fields[lang][key]; v != "" {
		return v
	}
	return fallback
}

// FieldName 字段的本地化显示名，缺失时为规范名
func (s *Store) FieldName(lang model.Language, field string) string {
	return s.Label(lang, field, field)
}

// Message 返回消息模板，缺失时返回 fallback
func (s *Store) Message(lang model.Language, key, fallback string) string {
	if v := s.labels.messages[lang][key]; v != "" {
		return v
	}
	return fallback
}

// DisplayName 返回节点显示名
func (s *Store) DisplayName(lang model.Language, fallback string) string {
	if v := s.labels.displayNames[lang]; v != "" {
		return v
	}
	return fallback
}

// FieldLanguages 标签文档中定义了字段标签的语言
func (s *Store) FieldLanguages() []model.Language {
	out := make([]model.Language, 0, len(s.labels.fields))
	for _, lang := range model.SupportedLanguages() {
		if _, ok := s.labels.fields[lang]; ok {
			out = append(out, lang)
		}
	}
	var extra []model.Language
	for lang := range s.labels.fields {
		if !containsLanguage(out, lang) {
			extra = append(extra, lang)
		}
	}
	sortLanguages(extra)
	return append(out, extra...)
}

func containsLanguage(list []model.Language, lang model.Language) bool {
	for _, l := range list {
		if l == lang {
			return true
		}
	}
	return false
}
