package node

import (
	"io/fs"

	"github.com/sirupsen/logrus"

	"promptnodes/internal/model"
)

// Registry 已注册节点，按注册顺序保存
type Registry struct {
	nodes  []*Node
	byName map[string]*Node
}

// NewRegistry 注册节点，同名节点后者覆盖前者
func NewRegistry(nodes ...*Node) *Registry {
	r := &Registry{byName: make(map[string]*Node, len(nodes))}
	for _, n := range nodes {
		if _, ok := r.byName[n.spec.Name]; !ok {
			r.nodes = append(r.nodes, n)
		} else {
			for i, existing := range r.nodes {
				if existing.spec.Name == n.spec.Name {
					r.nodes[i] = n
				}
			}
		}
		r.byName[n.spec.Name] = n
	}
	return r
}

// LoadDefault 从 fsys 加载视频与图片两个节点
func LoadDefault(fsys fs.FS, opts ...Option) *Registry {
	return NewRegistry(
		Load(VideoSpec, fsys, opts...),
		Load(ImageSpec, fsys, opts...),
	)
}

// Get 按注册名查找节点
func (r *Registry) Get(name string) (*Node, bool) {
	n, ok := r.byName[name]
	return n, ok
}

// Nodes 全部节点
func (r *Registry) Nodes() []*Node {
	out := make([]*Node, len(r.nodes))
	copy(out, r.nodes)
	return out
}

// DisplayNames 注册名 -> 本地化显示名
func (r *Registry) DisplayNames(lang model.Language) map[string]string {
	names := make(map[string]string, len(r.nodes))
	for _, n := range r.nodes {
		names[n.spec.Name] = n.Info(lang).DisplayName
	}
	return names
}

// LogLoaded 输出加载信息，使用第一个节点的消息模板
func (r *Registry) LogLoaded(log *logrus.Entry, lang model.Language) {
	if len(r.nodes) == 0 {
		return
	}
	log.Info(r.nodes[0].store.Message(lang, "load_message", "Loaded the following nodes:"))
	for _, n := range r.nodes {
		log.WithFields(logrus.Fields{
			"mode":      n.resolver.Mode(),
			"languages": n.store.Languages(),
		}).Infof("  - %s: %s", n.spec.Name, n.Info(lang).DisplayName)
	}
}
