package resolver

import (
	"math/rand/v2"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"promptnodes/internal/model"
	"promptnodes/internal/preset"
)

// Mode 下拉框文本反查规范键的方式
type Mode string

const (
	// ModeScoped 优先在所属分类内反查，避免跨分类同名文本互相遮蔽
	ModeScoped Mode = "scoped"
	// ModeFlat 只使用按语言构建的全局反查表，跨分类同名文本以最后写入者为准
	ModeFlat Mode = "flat"
)

// ParseMode 解析反查模式，无法识别时返回 ModeScoped
func ParseMode(s string) Mode {
	if Mode(s) == ModeFlat {
		return ModeFlat
	}
	return ModeScoped
}

// Resolver 选项列表生成与文本到规范键的反查
type Resolver struct {
	store  *preset.Store
	mode   Mode
	tables *cache.Cache
	log    *logrus.Entry
}

// Option 构造选项
type Option func(*Resolver)

// WithMode 设置反查模式
func WithMode(m Mode) Option {
	return func(r *Resolver) { r.mode = m }
}

// WithLogger 设置诊断日志
func WithLogger(log *logrus.Entry) Option {
	return func(r *Resolver) { r.log = log }
}

// New 创建 Resolver，store 构造后不再变化，反查表按语言惰性构建一次
func New(store *preset.Store, opts ...Option) *Resolver {
	r := &Resolver{
		store:  store,
		mode:   ModeScoped,
		tables: cache.New(cache.NoExpiration, 0),
		log:    logrus.WithField("component", "resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mode 当前反查模式
func (r *Resolver) Mode() Mode {
	return r.mode
}

// NoneLabel 语言下 none 的显示文本
func (r *Resolver) NoneLabel(lang model.Language) string {
	return r.store.Label(lang, "none_option", model.KeyNone)
}

// RandomLabel 语言下 random 的显示文本
func (r *Resolver) RandomLabel(lang model.Language) string {
	return r.store.Label(lang, "random_option", model.KeyRandom)
}

// FormatLabel 格式的显示文本，标签缺失时为规范名
func (r *Resolver) FormatLabel(lang model.Language, f model.Format) string {
	return r.store.Label(lang, f.LabelKey(), string(f))
}

// ListOptions 返回分类的下拉选项：none、random，再按源顺序列出其余非空文本。
// 语言或分类不存在时只返回 none。
func (r *Resolver) ListOptions(lang model.Language, category string) []string {
	c, ok := r.store.Category(lang, category)
	if !ok {
		return []string{r.NoneLabel(lang)}
	}

	options := make([]string, 0, len(c.Entries))
	if c.Has(model.KeyNone) {
		options = append(options, r.NoneLabel(lang))
	}
	if c.Has(model.KeyRandom) {
		options = append(options, r.RandomLabel(lang))
	}
	for _, e := range c.Entries {
		if model.IsSentinel(e.Key) || e.Text == "" {
			continue
		}
		options = append(options, e.Text)
	}
	return options
}

// ResolveKey 使用全局反查表把显示文本还原为规范键，查不到时原样返回。
// 跨分类的同名文本按插入顺序后者覆盖前者。
func (r *Resolver) ResolveKey(lang model.Language, text string) string {
	if key, ok := r.table(lang).flat[text]; ok {
		return key
	}
	return text
}

// ResolveKeyInCategory 在分类范围内反查：先 none/random 标签，再分类自身，
// 再全局表，最后原样返回。
func (r *Resolver) ResolveKeyInCategory(lang model.Language, text, category string) string {
	t := r.table(lang)
	if key, ok := t.sentinels[text]; ok {
		return key
	}
	if key, ok := t.scoped[category][text]; ok {
		return key
	}
	if key, ok := t.flat[text]; ok {
		return key
	}
	return text
}

// Resolve 按当前模式反查
func (r *Resolver) Resolve(lang model.Language, text, category string) string {
	if r.mode == ModeFlat {
		return r.ResolveKey(lang, text)
	}
	return r.ResolveKeyInCategory(lang, text, category)
}

// ResolveFormat 把格式显示文本或规范名解析为 Format，其余情况为 professional
func (r *Resolver) ResolveFormat(lang model.Language, text string) model.Format {
	if text == "" {
		return model.FormatProfessional
	}
	if f, ok := r.table(lang).formats[text]; ok {
		return f
	}
	if f, ok := model.ParseFormat(text); ok {
		return f
	}
	return model.FormatProfessional
}

// ResolveRandom 把 random 解析为分类中一个具体键，均匀随机；
// 没有可选键时返回 none。其余键原样返回。
func (r *Resolver) ResolveRandom(rng *rand.Rand, lang model.Language, category, key string) string {
	if key != model.KeyRandom {
		return key
	}
	c, ok := r.store.Category(lang, category)
	if !ok {
		return key
	}
	candidates := c.Concrete()
	if len(candidates) == 0 {
		return model.KeyNone
	}

	picked := candidates[rng.IntN(len(candidates))]
	text, _ := c.Text(picked)
	r.log.WithFields(logrus.Fields{
		"category": category,
		"key":      picked,
	}).Infof("[%s] %s: %s", r.store.Message(lang, "random_pick", "随机选择"), category, text)
	return picked
}

type reverseTable struct {
	flat      map[string]string
	scoped    map[string]map[string]string
	sentinels map[string]string
	formats   map[string]model.Format
}

func (r *Resolver) table(lang model.Language) *reverseTable {
	if v, ok := r.tables.Get(string(lang)); ok {
		return v.(*reverseTable)
	}
	t := r.buildTable(lang)
	r.tables.Set(string(lang), t, cache.NoExpiration)
	return t
}

func (r *Resolver) buildTable(lang model.Language) *reverseTable {
	t := &reverseTable{
		flat:      make(map[string]string),
		scoped:    make(map[string]map[string]string),
		sentinels: make(map[string]string, 2),
		formats:   make(map[string]model.Format, 3),
	}
	if !r.store.HasLanguage(lang) {
		return t
	}

	for _, c := range r.store.Categories(lang) {
		scoped := make(map[string]string, len(c.Entries))
		for _, e := range c.Entries {
			if e.Text == "" {
				continue
			}
			t.flat[e.Text] = e.Key
			scoped[e.Text] = e.Key
		}
		t.scoped[c.Name] = scoped
	}

	none, random := r.NoneLabel(lang), r.RandomLabel(lang)
	t.flat[none] = model.KeyNone
	t.flat[random] = model.KeyRandom
	t.sentinels[none] = model.KeyNone
	t.sentinels[random] = model.KeyRandom

	for _, f := range model.Formats() {
		label := r.FormatLabel(lang, f)
		t.flat[label] = string(f)
		t.formats[label] = f
	}
	return t
}
