package dto

type StoreCaptureRequest struct {
	CaptureID string `json:"capture_id,omitempty" example:"cap_abc123"`
	Image     string `json:"image" example:"iVBORw0KGgo..."`
}

type CaptureFrameResponse struct {
	CaptureID  string `json:"capture_id" example:"cap_abc123"`
	Image      string `json:"image,omitempty"`
	CapturedAt string `json:"captured_at" example:"2024-01-15T10:30:00Z"`
	Frames     int64  `json:"frames,omitempty" example:"4"`
}

type PageCaptureRequest struct {
	URL       string `json:"url" example:"https://example.com/checkout"`
	Width     int    `json:"width,omitempty" example:"375"`
	Height    int    `json:"height,omitempty" example:"811"`
	CaptureID string `json:"capture_id,omitempty" example:"cap_abc123"`
}
