package handler

import (
	"context"
	"net/http"

	"github.com/cmdshop/cmdshop/internal/cmds/export"
	"github.com/cmdshop/cmdshop/internal/cmds/service"
	"github.com/cmdshop/cmdshop/pkg/logger"
	"github.com/gin-gonic/gin"
)

const (
	msgNotFound       = "Cmd not found"
	msgUpdateNotFound = "Cmd not found or failed to update"
	msgDeleted        = "Cmd deleted successfully"
	msgInternal       = "Internal Server Error"
)

// Exporter writes a snapshot of every cmd to object storage.
type Exporter interface {
	Export(ctx context.Context) (*export.Snapshot, error)
}

type cmdHandler struct {
	svc service.Service
	exp Exporter
}

// RegisterCmdRoutes mounts the /cmds resource on r. exp may be nil, in which
// case the export route is not registered.
func RegisterCmdRoutes(r gin.IRouter, svc service.Service, exp Exporter) {
	h := &cmdHandler{svc: svc, exp: exp}
	r.GET("/cmds", h.list)
	r.POST("/cmds", h.create)
	r.GET("/cmds/tags", h.tags)
	if exp != nil {
		r.POST("/cmds/export", h.export)
	}
	r.GET("/cmds/:id", h.get)
	r.PUT("/cmds/:id", h.update)
	r.DELETE("/cmds/:id", h.delete)
}

// list returns every cmd ordered by title; ?tag= and ?q= narrow the result.
func (h *cmdHandler) list(c *gin.Context) {
	tag, q := c.Query("tag"), c.Query("q")
	var (
		out interface{}
		err error
	)
	if tag != "" || q != "" {
		out, err = h.svc.Search(c.Request.Context(), service.Filter{Tag: tag, Query: q})
	} else {
		out, err = h.svc.ListAll(c.Request.Context())
	}
	if err != nil {
		serverError(c, "list cmds", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *cmdHandler) tags(c *gin.Context) {
	tags, err := h.svc.Tags(c.Request.Context())
	if err != nil {
		serverError(c, "list tags", err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *cmdHandler) create(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		clientError(c, msgInvalidBody)
		return
	}
	in, err := decodeCreate(raw)
	if err != nil {
		clientError(c, err.Error())
		return
	}
	created, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		serverError(c, "create cmd", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *cmdHandler) get(c *gin.Context) {
	id := c.Param("id")
	cmd, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		serverError(c, "get cmd "+id, err)
		return
	}
	if cmd == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": msgNotFound})
		return
	}
	c.JSON(http.StatusOK, cmd)
}

func (h *cmdHandler) update(c *gin.Context) {
	id := c.Param("id")
	raw, err := c.GetRawData()
	if err != nil {
		clientError(c, msgInvalidBody)
		return
	}
	patch, err := decodeUpdate(raw)
	if err != nil {
		clientError(c, err.Error())
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), id, patch)
	if err != nil {
		serverError(c, "update cmd "+id, err)
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": msgUpdateNotFound})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *cmdHandler) delete(c *gin.Context) {
	id := c.Param("id")
	ok, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		serverError(c, "delete cmd "+id, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": msgNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgDeleted})
}

func (h *cmdHandler) export(c *gin.Context) {
	snap, err := h.exp.Export(c.Request.Context())
	if err != nil {
		serverError(c, "export cmds", err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

func clientError(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": msg})
}

// serverError reports err with 500, using its message when it has one.
func serverError(c *gin.Context, action string, err error) {
	logger.Errorw("request failed", "action", action, "err", err)
	msg := err.Error()
	if msg == "" {
		msg = msgInternal
	}
	c.JSON(http.StatusInternalServerError, gin.H{"message": msg})
}
