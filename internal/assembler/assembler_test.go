package assembler

import (
	"strings"
	"testing"

	"promptnodes/internal/model"
)

var testLayout = Layout{
	SimpleLimit: 3,
	Groups: []Group{
		{Name: "shot", Labels: map[model.Language]string{model.LanguageZh: "镜头构图", model.LanguageEn: "Shot composition"}, Categories: []string{"shot_size", "composition"}},
		{Name: "lighting", Labels: map[model.Language]string{model.LanguageZh: "灯光", model.LanguageEn: "Lighting"}, Categories: []string{"lighting_type"}},
		{Name: "style", Labels: map[model.Language]string{model.LanguageEn: "Visual style"}, Categories: []string{"visual_effects"}},
	},
}

func elements(pairs ...string) []model.Element {
	out := make([]model.Element, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, model.Element{Category: pairs[i], Text: pairs[i+1]})
	}
	return out
}

func TestAssemble_Professional(t *testing.T) {
	t.Run("primary language one element", func(t *testing.T) {
		got := Assemble(testLayout, Input{
			UserPrompt:         "a cat",
			Language:           model.LanguageZh,
			Format:             model.FormatProfessional,
			Elements:           elements("shot_size", "close-up shot"),
			ProfessionalSuffix: "，电影级画质",
		})
		if want := "a cat，close-up shot，电影级画质"; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("secondary language several elements", func(t *testing.T) {
		got := Assemble(testLayout, Input{
			UserPrompt:         "a cat",
			Language:           model.LanguageEn,
			Format:             model.FormatProfessional,
			Elements:           elements("shot_size", "close-up shot", "lighting_type", "soft lighting"),
			ProfessionalSuffix: ", cinematic quality",
		})
		if want := "a cat, close-up shot, soft lighting, cinematic quality"; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("no elements keeps suffix", func(t *testing.T) {
		got := Assemble(testLayout, Input{UserPrompt: "a cat", Language: model.LanguageEn, Format: model.FormatProfessional, ProfessionalSuffix: ", cinematic quality"})
		if want := "a cat, cinematic quality"; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("unknown format behaves as professional", func(t *testing.T) {
		got := Assemble(testLayout, Input{UserPrompt: "x", Language: model.LanguageEn, Format: "weird", Elements: elements("a", "b")})
		if got != "x, b" {
			t.Errorf("got %q", got)
		}
	})
}

func TestAssemble_Simple(t *testing.T) {
	t.Run("zero elements returns prompt unchanged", func(t *testing.T) {
		for _, lang := range []model.Language{model.LanguageZh, model.LanguageEn, "fr"} {
			got := Assemble(testLayout, Input{UserPrompt: "  a cat  ", Language: lang, Format: model.FormatSimple, ProfessionalSuffix: "x", DetailedSuffix: "y"})
			if got != "  a cat  " {
				t.Errorf("%s: got %q", lang, got)
			}
		}
	})

	t.Run("keeps only the first N elements", func(t *testing.T) {
		got := Assemble(testLayout, Input{
			UserPrompt: "a cat",
			Language:   model.LanguageEn,
			Format:     model.FormatSimple,
			Elements:   elements("c1", "one", "c2", "two", "c3", "three", "c4", "four", "c5", "five"),
		})
		if want := "a cat, one, two, three"; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
		if strings.Contains(got, "four") || strings.Contains(got, "five") {
			t.Errorf("elements beyond the limit leaked: %q", got)
		}
	})

	t.Run("image limit of four", func(t *testing.T) {
		layout := Layout{SimpleLimit: 4}
		got := Assemble(layout, Input{
			UserPrompt: "猫",
			Language:   model.LanguageZh,
			Format:     model.FormatSimple,
			Elements:   elements("a", "一", "b", "二", "c", "三", "d", "四", "e", "五"),
		})
		if want := "猫，一，二，三，四"; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

func TestAssemble_Detailed(t *testing.T) {
	t.Run("zero elements", func(t *testing.T) {
		got := Assemble(testLayout, Input{
			UserPrompt:     "a cat",
			Language:       model.LanguageEn,
			Format:         model.FormatDetailed,
			DetailedSuffix: ". Professional cinematography, high production value",
		})
		if want := "a cat. Professional cinematography, high production value"; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
		if strings.Contains(got, ":") {
			t.Errorf("empty group header present: %q", got)
		}
	})

	t.Run("zero elements primary language strips full stop", func(t *testing.T) {
		got := Assemble(testLayout, Input{
			UserPrompt:     "一只猫",
			Language:       model.LanguageZh,
			Format:         model.FormatDetailed,
			DetailedSuffix: "。专业电影摄影",
		})
		if want := "一只猫。专业电影摄影"; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("groups in declaration order skipping empty ones", func(t *testing.T) {
		got := Assemble(testLayout, Input{
			UserPrompt:     "a cat",
			Language:       model.LanguageEn,
			Format:         model.FormatDetailed,
			Elements:       elements("shot_size", "close-up", "visual_effects", "lens flare", "composition", "centered", "ungrouped", "dropped"),
			DetailedSuffix: ". High production value",
		})
		want := "a cat. Shot composition: close-up, centered. Visual style: lens flare. High production value"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("primary language delimiter and missing label fallback", func(t *testing.T) {
		got := Assemble(testLayout, Input{
			UserPrompt:     "猫",
			Language:       model.LanguageZh,
			Format:         model.FormatDetailed,
			Elements:       elements("lighting_type", "柔光", "visual_effects", "胶片颗粒"),
			DetailedSuffix: "。专业",
		})
		want := "猫。灯光：柔光。Visual style：胶片颗粒。专业"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

func TestStripLeadingPunct(t *testing.T) {
	cases := map[string]string{
		". Foo":   "Foo",
		"。专业":     "专业",
		"，高质量":    "高质量",
		"plain":   "plain",
		"":        "",
		" .. x.y": "x.y",
	}
	for in, want := range cases {
		if got := StripLeadingPunct(in); got != want {
			t.Errorf("StripLeadingPunct(%q) = %q, want %q", in, got, want)
		}
	}
}
