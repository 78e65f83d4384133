package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// renderPrompt steers the image model toward a photorealistic 3D
// architectural rendering of the uploaded floor plan.
const renderPrompt = "Transform this floor plan into a photorealistic 3D architectural " +
	"visualization of the finished interior, keeping the room layout, proportions and " +
	"openings exactly as drawn. Neutral modern furnishing, natural daylight."

const renderTimeout = 3 * time.Minute

// Client calls the image generation API. The backend is opaque: an image
// goes in, an image (or a failure) comes out. Outbound calls are paced by
// a rate limiter so a sweep over many projects cannot flood the provider.
type Client struct {
	baseURL string
	model   string
	client  *http.Client
	limiter *rate.Limiter
}

func NewClient(baseURL, model string, rps float64) *Client {
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: renderTimeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Configured reports whether a render API endpoint is set.
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != ""
}

type renderRequest struct {
	Prompt             string `json:"prompt"`
	Model              string `json:"model"`
	InputImage         string `json:"input_image"`
	InputImageMimeType string `json:"input_image_mime_type"`
	Ratio              struct {
		W int `json:"w"`
		H int `json:"h"`
	} `json:"ratio"`
}

type renderResponse struct {
	Image string `json:"image"`
	Error string `json:"error"`
}

// Render generates a rendered view for sourceImage, which may be a data
// URL or a fetchable URL. The result is always returned as a data URL so
// callers can hand it straight to the materializer.
func (c *Client) Render(ctx context.Context, sourceImage string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("render api is not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	dataURL := sourceImage
	if !strings.HasPrefix(dataURL, "data:") {
		fetched, err := c.fetchAsDataURL(ctx, sourceImage)
		if err != nil {
			return "", err
		}
		dataURL = fetched
	}

	mimeType, payload, err := splitDataURL(dataURL)
	if err != nil {
		return "", err
	}

	req := renderRequest{
		Prompt:             renderPrompt,
		Model:              c.model,
		InputImage:         payload,
		InputImageMimeType: mimeType,
	}
	req.Ratio.W = 1024
	req.Ratio.H = 1024

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal render request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/images/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("render request failed: %w", err)
	}
	defer resp.Body.Close()

	var out renderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode render response: %w", err)
	}
	if resp.StatusCode >= 400 {
		if out.Error != "" {
			return "", fmt.Errorf("render returned status %d: %s", resp.StatusCode, out.Error)
		}
		return "", fmt.Errorf("render returned status %d", resp.StatusCode)
	}
	if out.Image == "" {
		return "", fmt.Errorf("render returned no image")
	}

	// Normalize remote results to a data URL for consistency.
	if !strings.HasPrefix(out.Image, "data:") {
		return c.fetchAsDataURL(ctx, out.Image)
	}
	return out.Image, nil
}

func (c *Client) fetchAsDataURL(ctx context.Context, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read image body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data)), nil
}

func splitDataURL(dataURL string) (mimeType, payload string, err error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(dataURL, "data:"), ",")
	if !ok {
		return "", "", fmt.Errorf("invalid source image payload")
	}
	mimeType = meta
	if idx := strings.Index(meta, ";"); idx >= 0 {
		mimeType = meta[:idx]
	}
	if mimeType == "" || payload == "" {
		return "", "", fmt.Errorf("invalid source image payload")
	}
	return mimeType, payload, nil
}
