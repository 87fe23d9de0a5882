// Package api implements the HTTP inspection service for gcov counter
// files. Clients upload raw .gcda bytes, the server decodes them into
// packets and serves the decoded structure as JSON.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gcovdata/internal/logger"
	"gcovdata/pkg/gcda"
)

type Server struct {
	store   *PacketStore
	metrics *Metrics
	log     logger.Logger
	clock   func() time.Time
}

func NewServer(store *PacketStore, log logger.Logger) *Server {
	if store == nil {
		store = NewPacketStore()
	}
	if log == nil {
		log = logger.Default()
	}
	return &Server{
		store:   store,
		metrics: NewMetrics(),
		log:     log,
		clock:   time.Now,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/packets", s.handleCreatePacket)
	e.GET("/v1/packets", s.handleListPackets)
	e.GET("/v1/packets/:id", s.handleGetPacket)
	e.GET("/v1/packets/:id/raw", s.handleGetPacketRaw)
	e.DELETE("/v1/packets/:id", s.handleDeletePacket)

	e.GET("/healthz", s.handleHealthz)

	metricsHandler := promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{})
	e.GET("/metrics", func(c *echo.Context) error {
		metricsHandler.ServeHTTP(c.Response(), c.Request())
		return nil
	})
}

func (s *Server) handleCreatePacket(c *echo.Context) error {
	name, err := packetName(c)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	data, err := readUpload(c.Request().Body)
	if err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			return writeBadRequest(c, err.Error())
		}
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}

	packet, err := gcda.DecodeFile(data)
	s.metrics.RecordDecode(len(data), err)
	if err != nil {
		s.log.Warn("decode failed", "name", name, "size", len(data), "error", err)
		return writeBadRequest(c, err.Error())
	}

	meta := s.store.Create(name, len(data), packet, s.clock())
	s.metrics.SetStored(s.store.Len())
	s.log.Info("packet stored", "id", meta.ID, "name", name, "version", meta.Version, "functions", meta.Functions)

	return c.JSON(http.StatusCreated, packetDetail(meta, packet))
}

func (s *Server) handleListPackets(c *echo.Context) error {
	return c.JSON(http.StatusOK, ListResponse{
		Object: "list",
		Data:   s.store.List(),
	})
}

func (s *Server) handleGetPacket(c *echo.Context) error {
	rec, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "packet not found")
	}
	return c.JSON(http.StatusOK, packetDetail(rec.Meta, rec.Packet))
}

// handleGetPacketRaw re-encodes the stored packet and returns the file
// image, byte order preserved from the original upload.
func (s *Server) handleGetPacketRaw(c *echo.Context) error {
	rec, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "packet not found")
	}
	data, err := gcda.EncodeFile(rec.Packet)
	if err != nil {
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
	return c.Blob(http.StatusOK, "application/octet-stream", data)
}

func (s *Server) handleDeletePacket(c *echo.Context) error {
	id := c.Param("id")
	if !s.store.Delete(id) {
		return writeNotFound(c, "packet not found")
	}
	s.metrics.SetStored(s.store.Len())
	return c.JSON(http.StatusOK, DeleteResponse{
		ID:      id,
		Object:  "packet.deleted",
		Deleted: true,
	})
}

func (s *Server) handleHealthz(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
