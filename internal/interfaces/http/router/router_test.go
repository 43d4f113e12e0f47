package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Equal(t, "", r.BasePath())
	assert.Empty(t, r.registrars)
}

func TestWithBasePath(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", ""},
		{"/", ""},
		{"clerk", "/clerk"},
		{"/clerk/", "/clerk"},
		{" /integrations/clerk ", "/integrations/clerk"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r := NewRouter(gin.New(), WithBasePath(tt.input))
			assert.Equal(t, tt.want, r.BasePath())
		})
	}
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithBasePath("/clerk"))

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.Register(group)
	r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/clerk/test/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

type registrarFunc func(rg *gin.RouterGroup)

func (f registrarFunc) RegisterRoutes(rg *gin.RouterGroup) { f(rg) }

func TestDomainGroup(t *testing.T) {
	t.Run("group middleware applies to its routes only", func(t *testing.T) {
		engine := gin.New()
		tagged := NewDomainGroup("feed", "").
			Use(func(c *gin.Context) {
				c.Header("X-Group", "feed")
				c.Next()
			}).
			GET("/inside", func(c *gin.Context) { c.Status(http.StatusOK) })

		NewRouter(engine).Register(tagged).Setup()
		engine.GET("/outside", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/inside", nil))
		assert.Equal(t, "feed", w.Header().Get("X-Group"))

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/outside", nil))
		assert.Empty(t, w.Header().Get("X-Group"))
	})

	t.Run("mounted registrars and subgroups", func(t *testing.T) {
		engine := gin.New()
		dg := NewDomainGroup("api", "/api").Mount(registrarFunc(func(rg *gin.RouterGroup) {
			rg.GET("/mounted", func(c *gin.Context) { c.String(http.StatusOK, "mounted") })
		}))
		dg.Group("v2", "/v2").GET("/nested", func(c *gin.Context) { c.String(http.StatusOK, "nested") })

		NewRouter(engine).Register(dg).Setup()

		for path, body := range map[string]string{"/api/mounted": "mounted", "/api/v2/nested": "nested"} {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, w.Code, path)
			assert.Equal(t, body, w.Body.String())
		}
		assert.Equal(t, "api", dg.Name())
		assert.Equal(t, "/api", dg.Prefix())
	})

	t.Run("only GET is exposed", func(t *testing.T) {
		engine := gin.New()
		NewRouter(engine).Register(NewDomainGroup("feed", "").GET("/feed", func(c *gin.Context) { c.Status(http.StatusOK) })).Setup()

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/feed", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
