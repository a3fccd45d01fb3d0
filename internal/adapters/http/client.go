package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/dbu-intelligence/navigator/internal/domain"
	"github.com/dbu-intelligence/navigator/internal/observability"
)

const (
	fieldMessage = "message"
	fieldImage   = "image"

	// replies are text; anything larger than this is not a chat response
	maxResponseBytes = 4 << 20
)

// Client posts chat requests to the inference endpoint as multipart forms.
type Client struct {
	endpoint string
	http     *http.Client
}

type ClientOption func(*Client)

// WithHTTPClient replaces the underlying *http.Client. Its transport is still
// wrapped with request logging.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a client for endpoint. A zero timeout leaves the transport
// default in place.
func NewClient(endpoint string, timeout time.Duration, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := *c.http
	hc.Transport = chainTransports(hc.Transport, withLogging, withUserAgent("dbu-navigator"))
	c.http = &hc
	return c
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type chatResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error"`
}

// Send implements domain.InferenceClient. The status code does not change how
// the body is read; a body that is not JSON is an error.
func (c *Client) Send(ctx context.Context, req domain.InferenceRequest) (domain.InferenceResponse, error) {
	body, contentType, err := encodeForm(req)
	if err != nil {
		return domain.InferenceResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return domain.InferenceResponse{}, fmt.Errorf("building chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return domain.InferenceResponse{}, fmt.Errorf("posting chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		observability.LoggerFromContext(ctx).Warn("inference endpoint returned error status",
			"status", resp.StatusCode,
		)
	}

	var out chatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return domain.InferenceResponse{}, fmt.Errorf("decoding chat response (status %d): %w", resp.StatusCode, err)
	}

	return domain.InferenceResponse{Reply: out.Reply, Error: out.Error}, nil
}

// encodeForm builds the multipart body: always a message field, and an image
// file part only when an attachment is staged.
func encodeForm(req domain.InferenceRequest) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField(fieldMessage, req.Message); err != nil {
		return nil, "", fmt.Errorf("writing message field: %w", err)
	}

	if img := req.Image; img != nil {
		if len(img.Data) == 0 {
			return nil, "", domain.ErrEmptyAttachment
		}

		name := img.Name
		if name == "" {
			name = "image"
		}
		contentType := img.ContentType
		if contentType == "" {
			contentType = http.DetectContentType(img.Data)
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldImage, name))
		h.Set("Content-Type", contentType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("creating image part: %w", err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, "", fmt.Errorf("writing image part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
