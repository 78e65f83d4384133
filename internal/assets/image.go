package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
)

// maxBlobSize caps how much image data is pulled into memory from a
// remote reference.
const maxBlobSize = 25 << 20

type resolvedBlob struct {
	data        []byte
	contentType string
}

// decodeDataURL parses a data: URL into its payload and mime type.
func decodeDataURL(ref string) (*resolvedBlob, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data url")
	}

	contentType := meta
	isBase64 := false
	if idx := strings.Index(meta, ";"); idx >= 0 {
		contentType = meta[:idx]
		isBase64 = strings.Contains(meta[idx:], "base64")
	}

	var data []byte
	var err error
	if isBase64 {
		data, err = base64.StdEncoding.DecodeString(payload)
	} else {
		var decoded string
		decoded, err = url.QueryUnescape(payload)
		data = []byte(decoded)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode data url payload: %w", err)
	}

	return &resolvedBlob{data: data, contentType: contentType}, nil
}

// fetchBlob downloads a remote image reference.
func fetchBlob(ctx context.Context, client *http.Client, ref string) (*resolvedBlob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBlobSize))
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return &resolvedBlob{data: data, contentType: contentType}, nil
}

// normalizePNG re-encodes any decodable image as PNG.
func normalizePNG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

var extByContentType = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpg",
	"image/jpg":     "jpg",
	"image/webp":    "webp",
	"image/gif":     "gif",
	"image/svg+xml": "svg",
}

// imageExtension derives the destination file extension from the resolved
// content type, falling back to the reference's apparent extension.
func imageExtension(contentType, ref string) string {
	ct := contentType
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = ct[:idx]
	}
	if ext, ok := extByContentType[strings.TrimSpace(strings.ToLower(ct))]; ok {
		return ext
	}

	if u, err := url.Parse(ref); err == nil {
		if ext := strings.TrimPrefix(path.Ext(u.Path), "."); ext != "" {
			return strings.ToLower(ext)
		}
	}

	return "png"
}
