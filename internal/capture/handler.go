package capture

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/overlaykit/pixelproof/internal/dto"
	"github.com/overlaykit/pixelproof/internal/imaging"
	"github.com/overlaykit/pixelproof/internal/shared"
)

const (
	pongWait       = 60 * time.Second
	maxMessageSize = 8 * 1024 * 1024
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler exposes the capture channel API: direct frame uploads, a
// websocket stream for browser-side agents, and the optional headless page
// capturer. Browser may be nil when page capture is disabled.
type Handler struct {
	store   *Store
	browser *Browser
	logger  *slog.Logger
}

func NewHandler(store *Store, browser *Browser, logger *slog.Logger) *Handler {
	return &Handler{
		store:   store,
		browser: browser,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/captures", h.StoreFrame)
	g.GET("/captures/:id", h.GetLatest)
	g.DELETE("/captures/:id", h.Delete)
	g.GET("/captures/:id/stream", h.Stream)
	g.POST("/captures/page", h.CapturePage)
}

func (h *Handler) StoreFrame(c echo.Context) error {
	var req dto.StoreCaptureRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}
	if req.Image == "" {
		return shared.BadRequest("missing_image", "image is required")
	}

	data, err := imaging.DecodeBase64Payload(req.Image)
	if err != nil {
		return shared.BadRequest("invalid_image", "image is not valid base64")
	}

	captureID := req.CaptureID
	if captureID == "" {
		captureID = shared.NewID("cap_")
	}

	now := time.Now()
	frame := &Frame{
		CaptureID: captureID,
		Timestamp: now.UnixMilli(),
		Data:      data,
	}
	if err := h.store.Push(c.Request().Context(), frame); err != nil {
		h.logger.Error("failed to store frame", "error", err, "capture_id", captureID)
		return shared.InternalError("store_failed", "failed to store frame")
	}

	return c.JSON(http.StatusCreated, dto.CaptureFrameResponse{
		CaptureID:  captureID,
		CapturedAt: now.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) GetLatest(c echo.Context) error {
	captureID := c.Param("id")

	frame, err := h.store.Latest(c.Request().Context(), captureID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("capture_not_found", "capture has no frames")
		}
		h.logger.Error("failed to load frame", "error", err, "capture_id", captureID)
		return shared.InternalError("load_failed", "failed to load frame")
	}

	count, err := h.store.Count(c.Request().Context(), captureID)
	if err != nil {
		count = 0
	}

	return c.JSON(http.StatusOK, dto.CaptureFrameResponse{
		CaptureID:  captureID,
		Image:      base64.StdEncoding.EncodeToString(frame.Data),
		CapturedAt: time.UnixMilli(frame.Timestamp).UTC().Format(time.RFC3339),
		Frames:     count,
	})
}

func (h *Handler) Delete(c echo.Context) error {
	captureID := c.Param("id")
	if err := h.store.Delete(c.Request().Context(), captureID); err != nil {
		h.logger.Error("failed to delete capture", "error", err, "capture_id", captureID)
		return shared.InternalError("delete_failed", "failed to delete capture")
	}
	return c.NoContent(http.StatusNoContent)
}

// Stream upgrades to a websocket and stores every binary message as a frame
// on the channel. Text messages are ignored; the connection closes on read
// error or client disconnect.
func (h *Handler) Stream(c echo.Context) error {
	captureID := c.Param("id")

	ws, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return shared.BadRequest("upgrade_failed", "websocket upgrade failed")
	}
	defer ws.Close()

	logger := h.logger.With("capture_id", captureID)
	logger.Info("capture stream connected")

	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	ctx := c.Request().Context()
	for {
		msgType, message, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Error("websocket read error", "error", err)
			}
			logger.Info("capture stream closed")
			return nil
		}
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))

		if msgType != websocket.BinaryMessage {
			continue
		}

		frame := &Frame{
			CaptureID: captureID,
			Timestamp: time.Now().UnixMilli(),
			Data:      message,
		}
		if err := h.store.Push(ctx, frame); err != nil {
			logger.Error("failed to store streamed frame", "error", err)
		}
	}
}

func (h *Handler) CapturePage(c echo.Context) error {
	if h.browser == nil {
		return shared.BadRequest("page_capture_disabled", "page capture is not enabled")
	}

	var req dto.PageCaptureRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}
	if req.URL == "" {
		return shared.BadRequest("missing_url", "url is required")
	}

	data, err := h.browser.Capture(c.Request().Context(), req.URL, req.Width, req.Height)
	if err != nil {
		h.logger.Error("page capture failed", "error", err, "url", req.URL)
		return shared.BadGateway("capture_failed", "failed to capture page")
	}

	captureID := req.CaptureID
	if captureID == "" {
		captureID = shared.NewID("cap_")
	}

	now := time.Now()
	frame := &Frame{
		CaptureID: captureID,
		Timestamp: now.UnixMilli(),
		Data:      data,
	}
	if err := h.store.Push(c.Request().Context(), frame); err != nil {
		h.logger.Error("failed to store captured page", "error", err, "capture_id", captureID)
		return shared.InternalError("store_failed", "failed to store frame")
	}

	return c.JSON(http.StatusCreated, dto.CaptureFrameResponse{
		CaptureID:  captureID,
		Image:      base64.StdEncoding.EncodeToString(data),
		CapturedAt: now.UTC().Format(time.RFC3339),
	})
}
