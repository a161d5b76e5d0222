package dto

type CompareRequest struct {
	FigmaURL      string `json:"figma_url" example:"https://www.figma.com/design/ABC123/My-File?node-id=10-20"`
	FigmaToken    string `json:"figma_token" example:"figd_abc123"`
	CapturedImage string `json:"captured_image,omitempty" example:"iVBORw0KGgo..."`
	CapturedURL   string `json:"captured_url,omitempty" example:"https://example.com/screenshot.png"`
	CaptureID     string `json:"capture_id,omitempty" example:"cap_abc123"`
	Sensitivity   int    `json:"sensitivity,omitempty" example:"3" minimum:"1" maximum:"5"`
}

type CompareImagesRequest struct {
	ReferenceImage string `json:"reference_image" example:"iVBORw0KGgo..."`
	CapturedImage  string `json:"captured_image" example:"iVBORw0KGgo..."`
	Sensitivity    int    `json:"sensitivity,omitempty" example:"3" minimum:"1" maximum:"5"`
}

type CompareResponse struct {
	ReferenceImage string          `json:"reference_image"`
	CapturedImage  string          `json:"captured_image"`
	DiffImage      string          `json:"diff_image"`
	DiffScore      float64         `json:"diff_score" example:"0.09"`
	Resolution     Resolution      `json:"resolution"`
	Issues         []IssueResponse `json:"issues"`
}

type Resolution struct {
	Width  int `json:"width" example:"375"`
	Height int `json:"height" example:"811"`
}

type IssueResponse struct {
	ID       string `json:"id" example:"issue-1"`
	Type     string `json:"type" example:"color" enums:"layout,color"`
	Message  string `json:"message" example:"color difference of 900 px in 40x40 region at (0, 0)"`
	Severity string `json:"severity" example:"low" enums:"low,medium,high"`
	Region   Region `json:"region"`
}

type Region struct {
	X      int `json:"x" example:"0"`
	Y      int `json:"y" example:"0"`
	Width  int `json:"width" example:"40"`
	Height int `json:"height" example:"40"`
}
