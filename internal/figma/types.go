package figma

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidReference marks a design URL the parser could not resolve into a
// (fileKey, nodeId) pair. Callers should treat it as bad client input, not an
// upstream fault.
var ErrInvalidReference = errors.New("invalid design reference URL")

type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindRateLimited
	KindNotFound
	KindAccessDenied
)

// Error is the tagged upstream error for the design-file API. Retry logic
// switches on Kind rather than message content; RetryAfter is only set for
// KindRateLimited and carries the server-declared wait.
type Error struct {
	Kind       ErrorKind
	RetryAfter time.Duration
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

func rateLimitedError(retryAfter time.Duration) *Error {
	return &Error{
		Kind:       KindRateLimited,
		RetryAfter: retryAfter,
		Message:    fmt.Sprintf("design API rate limited, retry after %s", retryAfter),
	}
}

func notFoundError(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func accessDeniedError(format string, args ...any) *Error {
	return &Error{Kind: KindAccessDenied, Message: fmt.Sprintf(format, args...)}
}

func otherError(format string, args ...any) *Error {
	return &Error{Kind: KindOther, Message: fmt.Sprintf(format, args...)}
}

// FrameReference identifies one frame/node in a design file. NodeID is
// normalized to the colon form ("10:20").
type FrameReference struct {
	FileKey string
	NodeID  string
}

type FrameDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type nodesResponse struct {
	Nodes map[string]nodeEntry `json:"nodes"`
}

type nodeEntry struct {
	Document *nodeDocument `json:"document"`
}

type nodeDocument struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	AbsoluteBoundingBox *boundingBox `json:"absoluteBoundingBox"`
}

type boundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type imagesResponse struct {
	Err    string            `json:"err"`
	Images map[string]string `json:"images"`
}
