package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"promptnodes/internal/model"
	"promptnodes/internal/node"
)

// 工具名
const (
	VideoPromptToolName = "video_prompt_generate"
	ImagePromptToolName = "image_prompt_generate"
)

// PromptTool 把提示词节点包装为eino工具，供agent图调用
type PromptTool struct {
	node *node.Node
	name string
	lang model.Language // 参数描述与枚举值使用的语言
}

// PromptToolResp 工具输出
type PromptToolResp struct {
	Node            string `json:"node"`
	GeneratedPrompt string `json:"generated_prompt"`
}

// NewPromptTool 创建节点工具，lang 不受支持时使用节点默认语言
func NewPromptTool(n *node.Node, name string, lang model.Language) *PromptTool {
	if !n.Store().HasLanguage(lang) {
		lang = n.DefaultLanguage()
	}
	return &PromptTool{node: n, name: name, lang: lang}
}

// NewPromptTools 为注册表中的视频与图片节点创建工具
func NewPromptTools(reg *node.Registry, lang model.Language) []*PromptTool {
	var out []*PromptTool
	if n, ok := reg.Get(node.VideoSpec.Name); ok {
		out = append(out, NewPromptTool(n, VideoPromptToolName, lang))
	}
	if n, ok := reg.Get(node.ImageSpec.Name); ok {
		out = append(out, NewPromptTool(n, ImagePromptToolName, lang))
	}
	return out
}

// Name 工具名
func (t *PromptTool) Name() string {
	return t.name
}

// Info 获取工具信息，参数使用规范字段名
func (t *PromptTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	params := make(map[string]*schema.ParameterInfo)
	for _, in := range t.node.InputTypes(t.lang) {
		p := &schema.ParameterInfo{Desc: in.Name}
		switch in.Kind {
		case node.KindInt:
			p.Type = schema.Integer
			p.Desc = fmt.Sprintf("%s (%d..%d, %d = auto)", in.Name, in.Min, in.Max, node.SeedAuto)
		case node.KindChoice:
			p.Type = schema.String
			p.Enum = in.Options
		default:
			p.Type = schema.String
		}
		p.Required = in.Field == node.FieldUserPrompt
		params[in.Field] = p
	}

	info := t.node.Info(t.lang)
	return &schema.ToolInfo{
		Name:        t.name,
		Desc:        fmt.Sprintf("%s：%s", info.DisplayName, info.Description),
		ParamsOneOf: schema.NewParamsOneOfByParams(params),
	}, nil
}

// InvokableRun 执行提示词生成
func (t *PromptTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...einotool.Option) (string, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(argumentsInJSON)))
	dec.UseNumber()

	var args map[string]any
	if err := dec.Decode(&args); err != nil {
		return "", fmt.Errorf("decode %s arguments: %w", t.name, err)
	}
	if args == nil {
		args = make(map[string]any)
	}
	if !t.node.Provides(args, node.FieldLanguage) {
		args[node.FieldLanguage] = string(t.lang)
	}

	out := PromptToolResp{
		Node:            t.node.Spec().Name,
		GeneratedPrompt: t.node.Generate(args),
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var _ einotool.InvokableTool = (*PromptTool)(nil)
