package api

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// StaticHandler serves the landing page and the public assets.
type StaticHandler struct {
	index  []byte
	public fs.FS
	server http.Handler
}

// NewStaticHandler creates a StaticHandler. public is served from the site
// root, so public/style.css is reachable as /style.css.
func NewStaticHandler(index []byte, public fs.FS) *StaticHandler {
	return &StaticHandler{
		index:  index,
		public: public,
		server: http.FileServer(http.FS(public)),
	}
}

// Index serves the landing page.
func (h *StaticHandler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", h.index)
}

// NotFound serves a public asset when one matches the path and answers
// like a bare router otherwise.
func (h *StaticHandler) NotFound(c *gin.Context) {
	method := c.Request.Method
	if method == http.MethodGet || method == http.MethodHead {
		name := strings.TrimPrefix(c.Request.URL.Path, "/")
		if info, err := fs.Stat(h.public, name); err == nil && !info.IsDir() {
			h.server.ServeHTTP(c.Writer, c.Request)
			return
		}
	}
	c.String(http.StatusNotFound, "Cannot %s %s", method, c.Request.URL.Path)
}
