package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Handler serves liveness probes; reporting the indexed vault lets a probe
// distinguish instances when several indexers share a host.
type Handler struct {
	vaultID string
}

func NewHandler(vaultID string) *Handler { return &Handler{vaultID: vaultID} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"vault":  h.vaultID,
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}
