package compare

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/overlaykit/pixelproof/internal/diff"
	"github.com/overlaykit/pixelproof/internal/figma"
	"github.com/overlaykit/pixelproof/internal/imaging"
	"github.com/overlaykit/pixelproof/internal/shared"
)

// Input names the two sides of a comparison. Exactly one of CapturedImage
// (base64, optionally data-URI wrapped), CapturedURL, or CaptureID must be
// set; the reference side always comes from the design file URL.
type Input struct {
	FigmaURL   string
	FigmaToken string

	CapturedImage string
	CapturedURL   string
	CaptureID     string

	Sensitivity int
}

type Result struct {
	ReferenceImage []byte
	CapturedImage  []byte
	DiffImage      []byte
	DiffScore      float64
	MismatchCount  int
	Resolution     shared.Resolution
	Issues         []diff.Issue
}

// FrameSource yields the most recent screenshot pushed to a capture channel.
type FrameSource interface {
	LatestFrame(ctx context.Context, captureID string) ([]byte, error)
}

type Service struct {
	figma   *figma.Client
	fetcher *imaging.Fetcher
	frames  FrameSource
	logger  *slog.Logger
}

func NewService(figmaClient *figma.Client, fetcher *imaging.Fetcher, frames FrameSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		figma:   figmaClient,
		fetcher: fetcher,
		frames:  frames,
		logger:  logger.With("component", "compare"),
	}
}

// Compare resolves both images, normalizes them to a common resolution, and
// runs the scoring and region pipeline. Each call is independent; nothing is
// kept between comparisons.
func (s *Service) Compare(ctx context.Context, in Input) (*Result, error) {
	ref, err := figma.ParseReference(in.FigmaURL)
	if err != nil {
		return nil, err
	}

	dims, err := s.figma.FrameDimensions(ctx, ref, in.FigmaToken)
	if err != nil {
		return nil, fmt.Errorf("frame dimensions: %w", err)
	}

	imageURL, err := s.figma.ExportedImageURL(ctx, ref, in.FigmaToken)
	if err != nil {
		return nil, fmt.Errorf("exported image url: %w", err)
	}

	refData, err := s.fetcher.Fetch(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch reference render: %w", err)
	}

	reference, err := imaging.DecodeReference(refData)
	if err != nil {
		return nil, fmt.Errorf("decode reference render: %w", err)
	}

	capData, err := s.resolveCaptured(ctx, in)
	if err != nil {
		return nil, err
	}

	captured, err := imaging.DecodeCaptured(capData, s.logger)
	if err != nil {
		return nil, fmt.Errorf("decode captured image: %w: %w", shared.ErrBadInput, err)
	}

	s.logger.Debug("images resolved",
		"frame", fmt.Sprintf("%dx%d", dims.Width, dims.Height),
		"reference", fmt.Sprintf("%dx%d", reference.Width, reference.Height),
		"captured", fmt.Sprintf("%dx%d", captured.Width, captured.Height))

	return s.run(captured, reference,
		[]int{captured.Width, reference.Width, dims.Width},
		[]int{captured.Height, reference.Height, dims.Height},
		in.Sensitivity)
}

// CompareImages runs the pipeline on two caller-supplied images with no
// design-file lookup.
func (s *Service) CompareImages(ctx context.Context, referenceB64, capturedB64 string, sensitivity int) (*Result, error) {
	refData, err := imaging.DecodeBase64Payload(referenceB64)
	if err != nil {
		return nil, fmt.Errorf("reference image: %w: %w", shared.ErrBadInput, err)
	}
	capData, err := imaging.DecodeBase64Payload(capturedB64)
	if err != nil {
		return nil, fmt.Errorf("captured image: %w: %w", shared.ErrBadInput, err)
	}

	reference, err := imaging.DecodeCaptured(refData, s.logger)
	if err != nil {
		return nil, fmt.Errorf("decode reference image: %w: %w", shared.ErrBadInput, err)
	}
	captured, err := imaging.DecodeCaptured(capData, s.logger)
	if err != nil {
		return nil, fmt.Errorf("decode captured image: %w: %w", shared.ErrBadInput, err)
	}

	return s.run(captured, reference,
		[]int{captured.Width, reference.Width},
		[]int{captured.Height, reference.Height},
		sensitivity)
}

func (s *Service) run(captured, reference *imaging.Raster, widths, heights []int, sensitivity int) (*Result, error) {
	w, h := imaging.CompareSize(widths, heights)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty comparison area %dx%d: %w", w, h, shared.ErrBadInput)
	}

	captured, err := imaging.Resample(captured, w, h)
	if err != nil {
		return nil, fmt.Errorf("resample captured: %w", err)
	}
	reference, err = imaging.Resample(reference, w, h)
	if err != nil {
		return nil, fmt.Errorf("resample reference: %w", err)
	}

	profile := diff.ProfileFor(sensitivity)
	score, err := diff.Score(captured, reference, profile)
	if err != nil {
		return nil, fmt.Errorf("score: %w", err)
	}
	issues := diff.AnalyzeRegions(captured, reference, profile)

	refPNG, err := imaging.EncodePNG(reference)
	if err != nil {
		return nil, fmt.Errorf("encode reference: %w", err)
	}
	capPNG, err := imaging.EncodePNG(captured)
	if err != nil {
		return nil, fmt.Errorf("encode captured: %w", err)
	}
	diffPNG, err := imaging.EncodePNG(score.DiffImage)
	if err != nil {
		return nil, fmt.Errorf("encode diff: %w", err)
	}

	s.logger.Info("comparison complete",
		"resolution", fmt.Sprintf("%dx%d", w, h),
		"mismatches", score.MismatchCount,
		"diff_score", score.DiffScore,
		"issues", len(issues))

	return &Result{
		ReferenceImage: refPNG,
		CapturedImage:  capPNG,
		DiffImage:      diffPNG,
		DiffScore:      score.DiffScore,
		MismatchCount:  score.MismatchCount,
		Resolution:     shared.Resolution{Width: w, Height: h},
		Issues:         issues,
	}, nil
}

func (s *Service) resolveCaptured(ctx context.Context, in Input) ([]byte, error) {
	switch {
	case in.CapturedImage != "":
		data, err := imaging.DecodeBase64Payload(in.CapturedImage)
		if err != nil {
			return nil, fmt.Errorf("captured image: %w: %w", shared.ErrBadInput, err)
		}
		return data, nil

	case in.CapturedURL != "":
		data, err := s.fetcher.Fetch(ctx, in.CapturedURL)
		if err != nil {
			return nil, fmt.Errorf("fetch captured image: %w", err)
		}
		return data, nil

	case in.CaptureID != "":
		if s.frames == nil {
			return nil, fmt.Errorf("capture store not configured: %w", shared.ErrBadInput)
		}
		data, err := s.frames.LatestFrame(ctx, in.CaptureID)
		if err != nil {
			return nil, fmt.Errorf("capture %s: %w", in.CaptureID, err)
		}
		return data, nil

	default:
		return nil, fmt.Errorf("no captured image provided: %w", shared.ErrBadInput)
	}
}
