package server

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"promptnodes/internal/model"
	"promptnodes/internal/node"
	"promptnodes/internal/tools"
)

// Server 提示词节点的HTTP宿主
type Server struct {
	registry    *node.Registry
	tools       map[string]*tools.PromptTool
	defaultLang model.Language
	log         *logrus.Entry
}

// New 创建宿主，tools 按工具名注册
func New(reg *node.Registry, promptTools []*tools.PromptTool, defaultLang model.Language, log *logrus.Entry) *Server {
	byName := make(map[string]*tools.PromptTool, len(promptTools))
	for _, t := range promptTools {
		byName[t.Name()] = t
	}
	return &Server{
		registry:    reg,
		tools:       byName,
		defaultLang: defaultLang,
		log:         log,
	}
}

// Router 构建gin路由
func (s *Server) Router() *gin.Engine {
	binding.EnableDecoderUseNumber = true

	router := gin.New()
	router.Use(gin.Recovery(), requestID(), requestLogger(s.log))

	router.GET("/nodes", s.handleListNodes)
	router.GET("/nodes/:name/inputs", s.withNode(s.handleInputs))
	router.GET("/nodes/:name/options/:category", s.withNode(s.handleOptions))
	router.POST("/nodes/:name/generate", s.withNode(s.handleGenerate))
	router.POST("/tools/:tool", s.handleTool)
	return router
}

// language 取查询参数中的语言，缺失时使用默认语言
func (s *Server) language(c *gin.Context) model.Language {
	if v := c.Query("language"); v != "" {
		return model.ParseLanguage(v)
	}
	return s.defaultLang
}

// withNode 查找路径中的节点，不存在时返回404
func (s *Server) withNode(h func(*gin.Context, *node.Node)) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, ok := s.registry.Get(c.Param("name"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("未知节点: %s", c.Param("name"))})
			return
		}
		h(c, n)
	}
}

// handleListNodes 列出已注册节点
func (s *Server) handleListNodes(c *gin.Context) {
	lang := s.language(c)
	nodes := s.registry.Nodes()
	infos := make([]node.Info, len(nodes))
	for i, n := range nodes {
		infos[i] = n.Info(lang)
	}
	c.JSON(http.StatusOK, gin.H{"nodes": infos})
}

// handleInputs 返回节点的输入声明
func (s *Server) handleInputs(c *gin.Context, n *node.Node) {
	c.JSON(http.StatusOK, gin.H{
		"node":   n.Spec().Name,
		"inputs": n.InputTypes(s.language(c)),
	})
}

// handleOptions 返回某一分类的下拉选项
func (s *Server) handleOptions(c *gin.Context, n *node.Node) {
	category := c.Param("category")
	if !slices.Contains(n.Spec().Categories, category) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("未知分类: %s", category)})
		return
	}
	lang := s.language(c)
	if !n.Store().HasLanguage(lang) {
		lang = n.DefaultLanguage()
	}
	c.JSON(http.StatusOK, gin.H{
		"node":     n.Spec().Name,
		"category": category,
		"language": lang,
		"options":  n.Resolver().ListOptions(lang, category),
	})
}

// handleGenerate 以请求体中的原始输入生成提示词
func (s *Server) handleGenerate(c *gin.Context, n *node.Node) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil || raw == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求格式"})
		return
	}
	c.JSON(http.StatusOK, gin.H{node.ReturnName: n.Generate(raw)})
}

// handleTool 校验请求体为JSON对象后，原样作为工具参数执行工具
func (s *Server) handleTool(c *gin.Context) {
	t, ok := s.tools[c.Param("tool")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("未知工具: %s", c.Param("tool"))})
		return
	}

	var raw map[string]any
	if err := c.ShouldBindBodyWithJSON(&raw); err != nil || raw == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求格式"})
		return
	}
	// ShouldBindBodyWithJSON 已把请求体缓存在上下文中
	body, _ := c.Get(gin.BodyBytesKey)
	cached, _ := body.([]byte)

	result, err := t.InvokableRun(c.Request.Context(), string(cached))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("执行工具失败: %v", err)})
		return
	}
	c.Data(http.StatusOK, "application/json", []byte(result))
}
