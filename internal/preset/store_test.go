package preset

import (
	"testing"
	"testing/fstest"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"promptnodes/internal/model"
)

const samplePresets = `{
  "en": {
    "zeta": {"none": "", "random": "", "b": "bee", "a": "ay", "empty": ""},
    "alpha": {"none": "", "x": "ex"}
  },
  "zh": {
    "zeta": {"none": "", "random": "", "b": "蜜蜂", "a": "啊"}
  }
}`

const sampleLabels = `{
  "en": {"none_option": "none", "random_option": "random", "default_prompt": "A scene"},
  "zh": {"none_option": "无", "random_option": "随机"},
  "messages": {"en": {"load_message": "Loaded:"}},
  "display_names": {"en": "Sample", "zh": "示例"}
}`

func TestParsePresets_KeepsSourceOrder(t *testing.T) {
	p, err := ParsePresets([]byte(samplePresets))
	if err != nil {
		t.Fatalf("ParsePresets: %v", err)
	}
	s := NewStore(p, nil)

	langs := s.Languages()
	if len(langs) != 2 || langs[0] != model.LanguageEn || langs[1] != model.LanguageZh {
		t.Fatalf("languages = %v, want [en zh]", langs)
	}

	cats := s.Categories(model.LanguageEn)
	if len(cats) != 2 || cats[0].Name != "zeta" || cats[1].Name != "alpha" {
		t.Fatalf("categories out of order: %+v", cats)
	}

	var keys []string
	for _, e := range cats[0].Entries {
		keys = append(keys, e.Key)
	}
	want := []string{"none", "random", "b", "a", "empty"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}

func TestCategory_Concrete(t *testing.T) {
	p, err := ParsePresets([]byte(samplePresets))
	if err != nil {
		t.Fatalf("ParsePresets: %v", err)
	}
	c, ok := NewStore(p, nil).Category(model.LanguageEn, "zeta")
	if !ok {
		t.Fatal("zeta missing")
	}
	got := c.Concrete()
	if len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Errorf("Concrete() = %v, want [b a]", got)
	}
	if !c.Has("empty") {
		t.Error("empty key should still be defined")
	}
	if text, _ := c.Text("empty"); text != "" {
		t.Errorf("empty text = %q", text)
	}
}

func TestParsePresets_RejectsMalformed(t *testing.T) {
	if _, err := ParsePresets([]byte(`{"en": {"cat": {"k": 1}}}`)); err == nil {
		t.Error("expected error for non-string preset text")
	}
	if _, err := ParsePresets([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid json")
	}
}

func TestParseLabels(t *testing.T) {
	l, err := ParseLabels([]byte(sampleLabels))
	if err != nil {
		t.Fatalf("ParseLabels: %v", err)
	}
	s := NewStore(nil, l)

	if got := s.Label(model.LanguageZh, "none_option", "none"); got != "无" {
		t.Errorf("zh none_option = %q", got)
	}
	if got := s.Label(model.LanguageZh, "default_prompt", "fallback"); got != "fallback" {
		t.Errorf("missing label should use fallback, got %q", got)
	}
	if got := s.Message(model.LanguageEn, "load_message", ""); got != "Loaded:" {
		t.Errorf("load_message = %q", got)
	}
	if got := s.Message(model.LanguageZh, "load_message", "x"); got != "x" {
		t.Errorf("missing message should use fallback, got %q", got)
	}
	if got := s.FieldName(model.LanguageEn, "shot_size"); got != "shot_size" {
		t.Errorf("missing field label should use the canonical name, got %q", got)
	}
	if got := s.DisplayName(model.LanguageZh, ""); got != "示例" {
		t.Errorf("display name = %q", got)
	}
	langs := s.FieldLanguages()
	if len(langs) != 2 || langs[0] != model.LanguageZh || langs[1] != model.LanguageEn {
		t.Errorf("FieldLanguages() = %v", langs)
	}
}

func TestLoad_DegradesOnMissingFiles(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	src := Source{
		FS:           fstest.MapFS{},
		PresetsFile:  "missing_presets.json",
		LabelsFile:   "missing_labels.json",
		DisplayNames: map[model.Language]string{model.LanguageEn: "Video Prompt Generator"},
	}

	s := Load(src, logrus.NewEntry(logger))

	if s.HasLanguage(model.LanguageZh) || s.HasLanguage(model.LanguageEn) {
		t.Error("presets should be empty after load failure")
	}
	if got := s.Label(model.LanguageEn, "default_prompt", ""); got != "A beautiful scene" {
		t.Errorf("minimal default_prompt = %q", got)
	}
	if got := s.Label(model.LanguageZh, "language", ""); got != "语言" {
		t.Errorf("minimal zh language label = %q", got)
	}
	if got := s.DisplayName(model.LanguageEn, ""); got != "Video Prompt Generator" {
		t.Errorf("display name = %q", got)
	}

	errorsLogged := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			errorsLogged++
		}
	}
	if errorsLogged != 2 {
		t.Errorf("logged %d errors, want 2", errorsLogged)
	}
}

func TestLoad_CorruptPresetsKeepLabels(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	src := Source{
		FS: fstest.MapFS{
			"p.json": {Data: []byte(`{"en": [`)},
			"l.json": {Data: []byte(sampleLabels)},
		},
		PresetsFile: "p.json",
		LabelsFile:  "l.json",
	}

	s := Load(src, logrus.NewEntry(logger))

	if len(s.Languages()) != 0 {
		t.Errorf("languages = %v, want none", s.Languages())
	}
	if got := s.DisplayName(model.LanguageEn, ""); got != "Sample" {
		t.Errorf("labels should still load, display name = %q", got)
	}
}

func TestLoad_EmbeddedData(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	cases := []struct {
		name       string
		presets    string
		labels     string
		categories int
	}{
		{"video", VideoPresetsFile, VideoLabelsFile, 14},
		{"image", ImagePresetsFile, ImageLabelsFile, 11},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Load(Source{FS: EmbeddedFS(), PresetsFile: tc.presets, LabelsFile: tc.labels}, logrus.NewEntry(logger))
			for _, lang := range model.SupportedLanguages() {
				cats := s.Categories(lang)
				if len(cats) != tc.categories {
					t.Fatalf("%s: %d categories, want %d", lang, len(cats), tc.categories)
				}
				for _, c := range cats {
					if !c.Has(model.KeyNone) || !c.Has(model.KeyRandom) {
						t.Errorf("%s/%s lacks none or random", lang, c.Name)
					}
					if len(c.Concrete()) == 0 {
						t.Errorf("%s/%s has no concrete options", lang, c.Name)
					}
				}
				for _, key := range []string{"none_option", "random_option", "professional_suffix", "detailed_suffix", "format_professional"} {
					if s.Label(lang, key, "") == "" {
						t.Errorf("%s label %s missing", lang, key)
					}
				}
			}
		})
	}
	if len(hook.AllEntries()) != 0 {
		t.Errorf("embedded data should load silently, got %d log entries", len(hook.AllEntries()))
	}
}

func TestDirFS_EmptyUsesEmbedded(t *testing.T) {
	if _, err := DirFS("").Open(VideoPresetsFile); err != nil {
		t.Errorf("embedded video presets not reachable: %v", err)
	}
}
