package preset

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"promptnodes/internal/model"
)

//go:embed data/*.json
var embedded embed.FS

// 内置数据文件名
const (
	VideoPresetsFile = "Prompt_Presets.json"
	VideoLabelsFile  = "ui_labels.json"
	ImagePresetsFile = "Image_Presets.json"
	ImageLabelsFile  = "image_ui_labels.json"
)

// Source 一个节点类型的数据来源
type Source struct {
	FS           fs.FS
	PresetsFile  string
	LabelsFile   string
	DisplayNames map[model.Language]string // 标签文件不可用时的节点显示名
}

// EmbeddedFS 随二进制发布的默认数据
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		// data 目录由 go:embed 保证存在
		panic(err)
	}
	return sub
}

// DirFS 以目录覆盖内置数据，dir 为空时使用内置数据
func DirFS(dir string) fs.FS {
	if dir == "" {
		return EmbeddedFS()
	}
	return os.DirFS(dir)
}

type rawPresets = orderedmap.OrderedMap[string, *orderedmap.OrderedMap[string, *orderedmap.OrderedMap[string, string]]]

// ParsePresets 解析 language -> category -> {key: text} 文档，保留分类与键的顺序
func ParsePresets(data []byte) (*Presets, error) {
	raw := orderedmap.New[string, *orderedmap.OrderedMap[string, *orderedmap.OrderedMap[string, string]]]()
	if err := json.Unmarshal(data, raw); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	return buildPresets(raw), nil
}

func buildPresets(raw *rawPresets) *Presets {
	p := EmptyPresets()
	for lp := raw.Oldest(); lp != nil; lp = lp.Next() {
		if lp.Value == nil {
			continue
		}
		cats := make([]*Category, 0, lp.Value.Len())
		for cp := lp.Value.Oldest(); cp != nil; cp = cp.Next() {
			var entries []Entry
			if cp.Value != nil {
				entries = make([]Entry, 0, cp.Value.Len())
				for ep := cp.Value.Oldest(); ep != nil; ep = ep.Next() {
					entries = append(entries, Entry{Key: ep.Key, Text: ep.Value})
				}
			}
			cats = append(cats, newCategory(cp.Key, entries))
		}
		p.add(model.Language(lp.Key), cats)
	}
	return p
}

// ParseLabels 解析标签文档：语言字段表 + messages + display_names
func ParseLabels(data []byte) (*Labels, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode labels: %w", err)
	}
	l := &Labels{
		fields:       make(map[model.Language]map[string]string),
		messages:     make(map[model.Language]map[string]string),
		displayNames: make(map[model.Language]string),
	}
	for key, value := range raw {
		switch key {
		case "messages":
			var msgs map[string]map[string]string
			if err := json.Unmarshal(value, &msgs); err != nil {
				return nil, fmt.Errorf("decode labels messages: %w", err)
			}
			for lang, m := range msgs {
				l.messages[model.Language(lang)] = m
			}
		case "display_names":
			var names map[string]string
			if err := json.Unmarshal(value, &names); err != nil {
				return nil, fmt.Errorf("decode labels display_names: %w", err)
			}
			for lang, name := range names {
				l.displayNames[model.Language(lang)] = name
			}
		default:
			var fields map[string]string
			if err := json.Unmarshal(value, &fields); err != nil {
				return nil, fmt.Errorf("decode labels %q: %w", key, err)
			}
			l.fields[model.Language(key)] = fields
		}
	}
	return l, nil
}

// MinimalLabels 标签文件不可用时的最小内置标签
func MinimalLabels(displayNames map[model.Language]string) *Labels {
	l := &Labels{
		fields: map[model.Language]map[string]string{
			model.LanguageZh: {"language": "语言", "default_prompt": "一个美丽的场景"},
			model.LanguageEn: {"language": "Language", "default_prompt": "A beautiful scene"},
		},
		messages: map[model.Language]map[string]string{
			model.LanguageZh: {},
			model.LanguageEn: {},
		},
		displayNames: make(map[model.Language]string, len(displayNames)),
	}
	for lang, name := range displayNames {
		l.displayNames[lang] = name
	}
	return l
}

// Load 读取一个节点类型的预设与标签。永不失败：读取或解析出错时记录错误，
// 预设退化为空集合，标签退化为 MinimalLabels。
func Load(src Source, log *logrus.Entry) *Store {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	presets, err := loadPresets(src)
	if err != nil {
		log.WithError(err).WithField("file", src.PresetsFile).Errorf("Error loading %s", src.PresetsFile)
		presets = EmptyPresets()
	}

	labels, err := loadLabels(src)
	if err != nil {
		log.WithError(err).WithField("file", src.LabelsFile).Errorf("Error loading %s", src.LabelsFile)
		labels = MinimalLabels(src.DisplayNames)
	}

	return NewStore(presets, labels)
}

func loadPresets(src Source) (*Presets, error) {
	data, err := readFile(src.FS, src.PresetsFile)
	if err != nil {
		return nil, err
	}
	return ParsePresets(data)
}

func loadLabels(src Source) (*Labels, error) {
	data, err := readFile(src.FS, src.LabelsFile)
	if err != nil {
		return nil, err
	}
	return ParseLabels(data)
}

func readFile(fsys fs.FS, name string) ([]byte, error) {
	if fsys == nil {
		return nil, errors.New("no data source configured")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func sortLanguages(list []model.Language) {
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
}
