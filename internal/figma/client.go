package figma

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.figma.com"

type Config struct {
	BaseURL     string
	Timeout     time.Duration
	MinInterval time.Duration
	CacheTTL    time.Duration
}

// Client resolves design URLs into frame metadata and exported renders. All
// upstream calls go through the shared rate limiter, the retry coordinator,
// and the response cache, in that order of wrapping: cache miss -> acquire ->
// retried fetch.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *Limiter
	cache      *Cache
	retrier    *Retrier
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		limiter:    NewLimiter(cfg.MinInterval),
		cache:      NewCache(cfg.CacheTTL),
		retrier:    NewRetrier(),
		logger:     logger.With("component", "figma-client"),
	}
}

// ParseReference extracts the file key from the third path segment of a
// design URL and the node id from the node-id query parameter, normalizing
// hyphens to colons ("10-20" -> "10:20").
func ParseReference(raw string) (*FrameReference, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReference, raw)
	}

	parts := strings.Split(u.Path, "/")
	if len(parts) < 3 || parts[2] == "" {
		return nil, fmt.Errorf("%w: missing file key", ErrInvalidReference)
	}
	fileKey := parts[2]

	nodeID := strings.ReplaceAll(u.Query().Get("node-id"), "-", ":")
	if nodeID == "" {
		return nil, fmt.Errorf("%w: missing node-id parameter", ErrInvalidReference)
	}

	return &FrameReference{FileKey: fileKey, NodeID: nodeID}, nil
}

// FrameDimensions returns the node's bounding box rounded to whole pixels.
// Cached under frame-data-{fileKey}-{nodeId}.
func (c *Client) FrameDimensions(ctx context.Context, ref *FrameReference, token string) (FrameDimensions, error) {
	key := fmt.Sprintf("frame-data-%s-%s", ref.FileKey, ref.NodeID)
	v, err := c.cache.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return c.fetchFrameDimensions(ctx, ref, token)
	})
	if err != nil {
		return FrameDimensions{}, err
	}
	return v.(FrameDimensions), nil
}

func (c *Client) fetchFrameDimensions(ctx context.Context, ref *FrameReference, token string) (FrameDimensions, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return FrameDimensions{}, err
	}

	var dims FrameDimensions
	err := c.retrier.Do(ctx, func(ctx context.Context) error {
		endpoint := fmt.Sprintf("%s/v1/files/%s/nodes?ids=%s", c.baseURL, ref.FileKey, url.QueryEscape(ref.NodeID))
		var resp nodesResponse
		if err := c.getJSON(ctx, endpoint, token, &resp); err != nil {
			return err
		}

		node, ok := resp.Nodes[ref.NodeID]
		if !ok {
			return notFoundError("node %s not found in file %s", ref.NodeID, ref.FileKey)
		}
		if node.Document == nil {
			return notFoundError("node %s has no document", ref.NodeID)
		}
		if node.Document.AbsoluteBoundingBox == nil {
			return notFoundError("node %s has no bounding box", ref.NodeID)
		}

		bb := node.Document.AbsoluteBoundingBox
		dims = FrameDimensions{
			Width:  int(math.Round(bb.Width)),
			Height: int(math.Round(bb.Height)),
		}
		return nil
	})
	if err != nil {
		c.logger.Error("fetch frame dimensions failed", "error", err, "file_key", ref.FileKey, "node_id", ref.NodeID)
		return FrameDimensions{}, err
	}
	return dims, nil
}

// ExportedImageURL requests a PNG render of the node at scale 1 and returns
// the hosted image URL. Cached under figma-image-{fileKey}-{nodeId}.
func (c *Client) ExportedImageURL(ctx context.Context, ref *FrameReference, token string) (string, error) {
	key := fmt.Sprintf("figma-image-%s-%s", ref.FileKey, ref.NodeID)
	v, err := c.cache.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return c.fetchExportedImageURL(ctx, ref, token)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) fetchExportedImageURL(ctx context.Context, ref *FrameReference, token string) (string, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return "", err
	}

	var imageURL string
	err := c.retrier.Do(ctx, func(ctx context.Context) error {
		endpoint := fmt.Sprintf("%s/v1/images/%s?ids=%s&format=png&scale=1", c.baseURL, ref.FileKey, url.QueryEscape(ref.NodeID))
		var resp imagesResponse
		if err := c.getJSON(ctx, endpoint, token, &resp); err != nil {
			return err
		}

		if resp.Err != "" {
			return otherError("image export failed: %s", resp.Err)
		}
		u, ok := resp.Images[ref.NodeID]
		if !ok || u == "" {
			return notFoundError("node %s is not exportable", ref.NodeID)
		}
		imageURL = u
		return nil
	})
	if err != nil {
		c.logger.Error("fetch exported image url failed", "error", err, "file_key", ref.FileKey, "node_id", ref.NodeID)
		return "", err
	}
	return imageURL, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return otherError("create request: %v", err)
	}
	req.Header.Set("X-Figma-Token", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return otherError("design API request: %v", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, convErr := strconv.Atoi(ra); convErr == nil {
				return rateLimitedError(time.Duration(secs) * time.Second)
			}
		}
		return otherError("design API returned 429")
	case http.StatusForbidden:
		return accessDeniedError("design API denied access (status 403)")
	case http.StatusNotFound:
		return notFoundError("design API resource not found (status 404)")
	default:
		return otherError("design API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return otherError("decode design API response: %v", err)
	}
	return nil
}
