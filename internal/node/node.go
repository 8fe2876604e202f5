package node

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"maps"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"promptnodes/internal/assembler"
	"promptnodes/internal/model"
	"promptnodes/internal/preset"
	"promptnodes/internal/resolver"
)

// Node 一个提示词生成节点：声明输入并把宿主传入的原始值拼接为提示词
type Node struct {
	spec        Spec
	store       *preset.Store
	resolver    *resolver.Resolver
	defaultLang model.Language
	fieldNames  map[string]string // 本地化字段名 -> 规范字段名
	seedSource  func() int64
	log         *logrus.Entry
}

type config struct {
	defaultLang model.Language
	mode        resolver.Mode
	seedSource  func() int64
	log         *logrus.Entry
}

// Option 节点构造选项
type Option func(*config)

// WithDefaultLanguage 设置进程默认语言
func WithDefaultLanguage(lang model.Language) Option {
	return func(c *config) { c.defaultLang = lang }
}

// WithResolverMode 设置下拉文本的反查方式
func WithResolverMode(m resolver.Mode) Option {
	return func(c *config) { c.mode = m }
}

// WithSeedSource 替换自动种子的来源
func WithSeedSource(fn func() int64) Option {
	return func(c *config) { c.seedSource = fn }
}

// WithLogger 设置日志
func WithLogger(log *logrus.Entry) Option {
	return func(c *config) { c.log = log }
}

// New 由已加载的 Store 创建节点
func New(spec Spec, store *preset.Store, opts ...Option) *Node {
	cfg := config{
		defaultLang: model.LanguageZh,
		mode:        resolver.ModeScoped,
		seedSource:  AutoSeed,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = logrus.NewEntry(logrus.StandardLogger())
	}
	log := cfg.log.WithField("node", spec.Name)

	n := &Node{
		spec:        spec,
		store:       store,
		resolver:    resolver.New(store, resolver.WithMode(cfg.mode), resolver.WithLogger(log)),
		defaultLang: cfg.defaultLang,
		seedSource:  cfg.seedSource,
		log:         log,
	}
	n.fieldNames = n.buildFieldNames()
	return n
}

// Load 从 fsys 读取节点数据并创建节点，数据缺失时节点以降级模式运行
func Load(spec Spec, fsys fs.FS, opts ...Option) *Node {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	store := preset.Load(spec.Source(fsys), log.WithField("node", spec.Name))
	return New(spec, store, opts...)
}

// Spec 节点定义
func (n *Node) Spec() Spec {
	return n.spec
}

// Store 节点的只读数据
func (n *Node) Store() *preset.Store {
	return n.store
}

// Resolver 节点的选项解析器
func (n *Node) Resolver() *resolver.Resolver {
	return n.resolver
}

// DefaultLanguage 进程默认语言
func (n *Node) DefaultLanguage() model.Language {
	return n.defaultLang
}

// Generate 宿主调用入口：raw 为字段名（任一语言的显示名或规范名）到原始值的映射。
// 任何输入都返回字符串，不会失败。
func (n *Node) Generate(raw map[string]any) string {
	sel := n.Select(raw)
	prompt, _ := n.Assemble(sel)
	return prompt
}

// Select 把原始输入解析为 Selection：语言回退、应用种子、反查并解析 random
func (n *Node) Select(raw map[string]any) model.Selection {
	params := n.canonicalParams(raw)

	lang := n.defaultLang
	if v := asString(params[FieldLanguage]); v != "" {
		lang = model.ParseLanguage(v)
	}
	lang = n.effectiveLanguage(lang)

	sel := model.Selection{
		Language: lang,
		Keys:     make(map[string]string, len(n.spec.Categories)),
	}

	if v, ok := params[FieldUserPrompt]; ok && v != nil {
		sel.UserPrompt = asString(v)
	} else {
		sel.UserPrompt = n.store.Label(lang, "default_prompt", "")
	}

	seed := n.seedSource()
	if n.spec.Seeded {
		if s, ok := asInt64(params[FieldSeed]); ok && s != SeedAuto {
			seed = s
		}
		sel.Seed, sel.HasSeed = seed, true
		n.log.WithField("seed", seed).Infof("[%s] %s: %d",
			n.spec.Title(model.LanguageZh), n.store.Message(lang, "random_seed", "使用随机种子"), seed)
	}
	rng := newRand(seed)

	for _, category := range n.spec.Categories {
		sel.Keys[category] = n.resolveCategory(rng, lang, category, asString(params[category]))
	}

	sel.Format = n.resolver.ResolveFormat(lang, asString(params[FieldPromptFormat]))
	return sel
}

// Assemble 收集已选元素并按格式拼接，返回提示词与参与拼接的元素
func (n *Node) Assemble(sel model.Selection) (string, []model.Element) {
	lang := n.effectiveLanguage(sel.Language)
	elements := n.elements(lang, sel)

	prompt := assembler.Assemble(n.spec.Layout, assembler.Input{
		UserPrompt:         sel.UserPrompt,
		Language:           lang,
		Format:             sel.Format,
		Elements:           elements,
		ProfessionalSuffix: n.store.Label(lang, "professional_suffix", ""),
		DetailedSuffix:     n.store.Label(lang, "detailed_suffix", ""),
	})

	n.logSummary(lang, elements)
	return prompt, elements
}

func (n *Node) resolveCategory(rng *rand.Rand, lang model.Language, category, value string) string {
	if value == "" {
		return model.KeyNone
	}
	key := n.resolver.Resolve(lang, value, category)
	return n.resolver.ResolveRandom(rng, lang, category, key)
}

func (n *Node) elements(lang model.Language, sel model.Selection) []model.Element {
	var out []model.Element
	for _, category := range n.spec.Categories {
		key := sel.Key(category)
		if key == model.KeyNone {
			continue
		}
		text, ok := n.store.Text(lang, category, key)
		if !ok || text == "" {
			continue
		}
		out = append(out, model.Element{Category: category, Text: text})
	}
	return out
}

// effectiveLanguage 不在预设中的语言回退到默认语言并记录
func (n *Node) effectiveLanguage(lang model.Language) model.Language {
	if n.store.HasLanguage(lang) || lang == n.defaultLang {
		return lang
	}
	unsupported := n.store.Message(n.defaultLang, "unsupported_language", "Unsupported language")
	fallback := n.store.Message(n.defaultLang, "fallback_to_default", ", fallback to default language")
	n.log.WithFields(logrus.Fields{
		"language": lang,
		"default":  n.defaultLang,
	}).Warnf("[%s] %s: %s%s: %s", n.spec.Title(model.LanguageEn), unsupported, lang, fallback, n.defaultLang)
	return n.defaultLang
}

func (n *Node) logSummary(lang model.Language, elements []model.Element) {
	generated := n.store.Message(lang, "generated_prompt", "Generated prompt with")
	unit := n.store.Message(lang, n.spec.ElementsMessage, n.spec.ElementsFallback)
	n.log.Infof("%s (%s): %s %d %s", n.spec.Title(lang), lang, generated, len(elements), unit)

	if len(elements) == 0 {
		return
	}
	texts := make([]string, len(elements))
	for i, e := range elements {
		texts[i] = e.Text
	}
	selected := n.store.Message(lang, "selected_elements", "Selected elements")
	n.log.Infof("%s: [%s]", selected, strings.Join(texts, ", "))
}

// canonicalParams 把本地化字段名映射回规范名，未知字段名原样保留。
// 多个键指向同一字段时规范名优先，其余按键名排序取第一个。
func (n *Node) canonicalParams(raw map[string]any) map[string]any {
	params := make(map[string]any, len(raw))
	for _, k := range slices.Sorted(maps.Keys(raw)) {
		v := raw[k]
		if n.isField(k) {
			params[k] = v
			continue
		}
		field := k
		if canonical, ok := n.fieldNames[k]; ok {
			field = canonical
		}
		if _, seen := params[field]; !seen {
			params[field] = v
		}
	}
	return params
}

// Provides raw 中是否有键（规范名或任一语言的显示名）指向 field
func (n *Node) Provides(raw map[string]any, field string) bool {
	for k := range raw {
		if k == field || n.fieldNames[k] == field {
			return true
		}
	}
	return false
}

func (n *Node) isField(name string) bool {
	return slices.Contains(n.spec.Fields(), name)
}

func (n *Node) buildFieldNames() map[string]string {
	names := make(map[string]string)
	for _, lang := range n.store.FieldLanguages() {
		for _, field := range n.spec.Fields() {
			if label := n.store.Label(lang, field, ""); label != "" {
				names[label] = field
			}
		}
	}
	return names
}

// AutoSeed 生成 [0, SeedMax) 内的随机种子
func AutoSeed() int64 {
	id := uuid.New()
	return int64(binary.BigEndian.Uint32(id[:4])) % SeedMax
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	}
	return 0, false
}
