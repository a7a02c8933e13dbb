package api

import (
	"net/http"

	"pricewatch/internal/market"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server exposes read-only store snapshots over HTTP for presentation
// consumers. It never mutates the store.
type Server struct {
	addr   string
	store  *market.Store
	logger *zap.Logger
	engine *gin.Engine
}

func NewServer(addr string, store *market.Store, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		addr:   addr,
		store:  store,
		logger: logger,
		engine: gin.New(),
	}
	s.engine.Use(gin.Recovery())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.getHealth)

	v1 := s.engine.Group("/api/v1")
	v1.GET("/assets", s.listAssets)
	v1.GET("/assets/:id", s.getAsset)
	v1.GET("/status", s.getStatus)
}

// Handler exposes the underlying handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the listener fails.
func (s *Server) Run() error {
	s.logger.Info("api server listening", zap.String("addr", s.addr))
	return s.engine.Run(s.addr)
}

func (s *Server) listAssets(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Snapshot())
}

func (s *Server) getAsset(c *gin.Context) {
	asset, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown asset"})
		return
	}
	c.JSON(http.StatusOK, asset)
}

func (s *Server) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Status())
}

func (s *Server) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
