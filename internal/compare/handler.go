package compare

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/overlaykit/pixelproof/internal/diff"
	"github.com/overlaykit/pixelproof/internal/dto"
	"github.com/overlaykit/pixelproof/internal/figma"
	"github.com/overlaykit/pixelproof/internal/shared"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/compare", h.Compare)
	g.POST("/compare/images", h.CompareImages)
}

func (h *Handler) Compare(c echo.Context) error {
	var req dto.CompareRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}
	if req.FigmaURL == "" {
		return shared.BadRequest("missing_figma_url", "figma_url is required")
	}
	if req.FigmaToken == "" {
		return shared.BadRequest("missing_figma_token", "figma_token is required")
	}

	result, err := h.service.Compare(c.Request().Context(), Input{
		FigmaURL:      req.FigmaURL,
		FigmaToken:    req.FigmaToken,
		CapturedImage: req.CapturedImage,
		CapturedURL:   req.CapturedURL,
		CaptureID:     req.CaptureID,
		Sensitivity:   req.Sensitivity,
	})
	if err != nil {
		return h.mapError(err)
	}

	return c.JSON(http.StatusOK, toResponse(result))
}

func (h *Handler) CompareImages(c echo.Context) error {
	var req dto.CompareImagesRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}
	if req.ReferenceImage == "" || req.CapturedImage == "" {
		return shared.BadRequest("missing_image", "reference_image and captured_image are required")
	}

	result, err := h.service.CompareImages(c.Request().Context(), req.ReferenceImage, req.CapturedImage, req.Sensitivity)
	if err != nil {
		return h.mapError(err)
	}

	return c.JSON(http.StatusOK, toResponse(result))
}

func (h *Handler) mapError(err error) error {
	var upstream *figma.Error
	switch {
	case errors.As(err, &upstream):
		switch upstream.Kind {
		case figma.KindRateLimited:
			return shared.TooManyRequests("design_api_rate_limited", upstream.Message)
		case figma.KindNotFound:
			return shared.NotFound("frame_not_found", upstream.Message)
		case figma.KindAccessDenied:
			return shared.Forbidden("design_access_denied", upstream.Message)
		default:
			return shared.BadGateway("design_api_error", upstream.Message)
		}
	case errors.Is(err, figma.ErrInvalidReference):
		return shared.BadRequest("invalid_figma_url", err.Error())
	case errors.Is(err, shared.ErrBadInput):
		return shared.BadRequest("invalid_input", err.Error())
	case errors.Is(err, shared.ErrNotFound):
		return shared.NotFound("capture_not_found", err.Error())
	default:
		h.logger.Error("comparison failed", "error", err)
		return shared.InternalError("compare_failed", "comparison failed")
	}
}

func toResponse(r *Result) dto.CompareResponse {
	issues := make([]dto.IssueResponse, len(r.Issues))
	for i, issue := range r.Issues {
		issues[i] = issueToResponse(issue)
	}
	return dto.CompareResponse{
		ReferenceImage: base64.StdEncoding.EncodeToString(r.ReferenceImage),
		CapturedImage:  base64.StdEncoding.EncodeToString(r.CapturedImage),
		DiffImage:      base64.StdEncoding.EncodeToString(r.DiffImage),
		DiffScore:      r.DiffScore,
		Resolution:     dto.Resolution{Width: r.Resolution.Width, Height: r.Resolution.Height},
		Issues:         issues,
	}
}

func issueToResponse(issue diff.Issue) dto.IssueResponse {
	return dto.IssueResponse{
		ID:       issue.ID,
		Type:     string(issue.Type),
		Message:  issue.Message,
		Severity: string(issue.Severity),
		Region: dto.Region{
			X:      issue.Region.X,
			Y:      issue.Region.Y,
			Width:  issue.Region.Width,
			Height: issue.Region.Height,
		},
	}
}
