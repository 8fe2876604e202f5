package node

import (
	"io/fs"

	"promptnodes/internal/assembler"
	"promptnodes/internal/model"
	"promptnodes/internal/preset"
)

// 节点的规范输入字段（分类之外）
const (
	FieldLanguage     = "language"
	FieldUserPrompt   = "user_prompt"
	FieldPromptFormat = "prompt_format"
	FieldSeed         = "seed"
)

// 种子输入的取值范围，-1 表示自动生成
const (
	SeedAuto int64 = -1
	SeedMax  int64 = 2147483647
)

// Spec 一种节点的静态定义
type Spec struct {
	Name        string                    // 注册名
	Category    string                    // 宿主菜单分类
	Description string                    // 工具描述
	Titles      map[model.Language]string // 日志前缀
	Categories  []string                  // 分类声明顺序
	Layout      assembler.Layout
	Seeded      bool // 是否暴露 seed 输入

	ElementsMessage  string // 生成摘要中元素量词的消息键
	ElementsFallback string

	PresetsFile  string
	LabelsFile   string
	DisplayNames map[model.Language]string // 标签文件不可用时的显示名
}

// Fields 全部规范字段，用于把本地化字段名映射回规范名
func (s Spec) Fields() []string {
	fields := make([]string, 0, len(s.Categories)+4)
	fields = append(fields, FieldLanguage, FieldUserPrompt)
	fields = append(fields, s.Categories...)
	fields = append(fields, FieldPromptFormat)
	if s.Seeded {
		fields = append(fields, FieldSeed)
	}
	return fields
}

// Title 日志前缀，缺少该语言时退回英文
func (s Spec) Title(lang model.Language) string {
	if t, ok := s.Titles[lang]; ok {
		return t
	}
	return s.Titles[model.LanguageEn]
}

// Source 节点在 fsys 中的数据来源
func (s Spec) Source(fsys fs.FS) preset.Source {
	return preset.Source{
		FS:           fsys,
		PresetsFile:  s.PresetsFile,
		LabelsFile:   s.LabelsFile,
		DisplayNames: s.DisplayNames,
	}
}

// VideoSpec 视频提示词生成器：14 个电影分类
var VideoSpec = Spec{
	Name:        "Wan_video_prompt_generator",
	Category:    "self_node/Video",
	Description: "从 14 个电影分类中选择选项，构建专业的电影化视频提示词",
	Titles: map[model.Language]string{
		model.LanguageZh: "视频提示词生成器",
		model.LanguageEn: "VideoPromptGenerator",
	},
	Categories: []string{
		"shot_size",
		"lighting_type",
		"light_source",
		"color_tone",
		"camera_angle",
		"lens",
		"camera_movement_basic",
		"camera_movement_advanced",
		"time_of_day",
		"motion",
		"visual_effects",
		"stylization_visual_style",
		"character_emotion",
		"composition",
	},
	Layout: assembler.Layout{
		SimpleLimit: 3,
		Groups: []assembler.Group{
			{
				Name:       "shot",
				Labels:     map[model.Language]string{model.LanguageZh: "镜头构图", model.LanguageEn: "Shot composition"},
				Categories: []string{"shot_size", "camera_angle", "composition"},
			},
			{
				Name:       "lighting",
				Labels:     map[model.Language]string{model.LanguageZh: "灯光", model.LanguageEn: "Lighting"},
				Categories: []string{"lighting_type", "light_source", "color_tone", "time_of_day"},
			},
			{
				Name:       "camera",
				Labels:     map[model.Language]string{model.LanguageZh: "摄像机工作", model.LanguageEn: "Camera work"},
				Categories: []string{"lens", "camera_movement_basic", "camera_movement_advanced", "motion"},
			},
			{
				Name:       "style",
				Labels:     map[model.Language]string{model.LanguageZh: "视觉风格", model.LanguageEn: "Visual style"},
				Categories: []string{"visual_effects", "stylization_visual_style", "character_emotion"},
			},
		},
	},
	ElementsMessage:  "cinematic_elements",
	ElementsFallback: "cinematic elements",
	PresetsFile:      preset.VideoPresetsFile,
	LabelsFile:       preset.VideoLabelsFile,
	DisplayNames: map[model.Language]string{
		model.LanguageZh: "视频提示词生成器",
		model.LanguageEn: "Video Prompt Generator",
	},
}

// ImageSpec 图片提示词生成器：11 个艺术分类，支持随机种子
var ImageSpec = Spec{
	Name:        "Wan_image_prompt_generator",
	Category:    "self_node/Image",
	Description: "从 11 个艺术分类中选择选项，构建专业的图片生成提示词",
	Titles: map[model.Language]string{
		model.LanguageZh: "图片提示词生成器",
		model.LanguageEn: "ImagePromptGenerator",
	},
	Categories: []string{
		"subject_type",
		"art_style",
		"mood_atmosphere",
		"color_palette",
		"lighting",
		"composition",
		"camera_settings",
		"texture_detail",
		"environment",
		"quality_enhancement",
		"artist_style",
	},
	Layout: assembler.Layout{
		SimpleLimit: 4,
		Groups: []assembler.Group{
			{
				Name:       "style",
				Labels:     map[model.Language]string{model.LanguageZh: "风格", model.LanguageEn: "Style"},
				Categories: []string{"subject_type", "art_style", "mood_atmosphere", "artist_style"},
			},
			{
				Name:       "technical",
				Labels:     map[model.Language]string{model.LanguageZh: "技术", model.LanguageEn: "Technical"},
				Categories: []string{"composition", "camera_settings", "lighting"},
			},
			{
				Name:       "aesthetic",
				Labels:     map[model.Language]string{model.LanguageZh: "美学", model.LanguageEn: "Aesthetic"},
				Categories: []string{"color_palette", "texture_detail", "environment", "quality_enhancement"},
			},
		},
	},
	Seeded:           true,
	ElementsMessage:  "artistic_elements",
	ElementsFallback: "artistic elements",
	PresetsFile:      preset.ImagePresetsFile,
	LabelsFile:       preset.ImageLabelsFile,
	DisplayNames: map[model.Language]string{
		model.LanguageZh: "图片提示词生成器",
		model.LanguageEn: "Image Prompt Generator",
	},
}
