package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/url"
	"strings"
	"time"

	_ "image/gif" // 支援 GIF
	_ "image/png" // 支援 PNG

	"snap-pantry/internal/infrastructure/config"
	"snap-pantry/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	_ "golang.org/x/image/webp" // 支援 WebP
)

const (
	jpegQuality = 85
	// ContentTypeJPEG 正規化後的圖片類型
	ContentTypeJPEG = "image/jpeg"
)

// Processed 正規化後的圖片
type Processed struct {
	Data        []byte
	Base64      string
	ContentType string
	// SourceFormat 原始格式，例如 png
	SourceFormat string
	Width        int
	Height       int
}

// Service 圖片處理服務
type Service struct {
	maxSizeBytes int64
	allowedHosts map[string]bool
	client       *resty.Client
}

// NewService 創建新的圖片處理服務
func NewService(cfg config.ImageConfig) *Service {
	var hosts map[string]bool
	if len(cfg.AllowedHosts) > 0 {
		hosts = make(map[string]bool, len(cfg.AllowedHosts))
		for _, h := range cfg.AllowedHosts {
			hosts[strings.ToLower(strings.TrimSpace(h))] = true
		}
	}
	return &Service{
		maxSizeBytes: cfg.MaxSizeBytes,
		allowedHosts: hosts,
		client:       resty.New().SetTimeout(30 * time.Second),
	}
}

// Process 接受 data URI、純 base64 或 http(s) URL，輸出 JPEG
func (s *Service) Process(ctx context.Context, input string) (*Processed, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, common.Wrap(common.ErrInvalidImageFormat, fmt.Errorf("image is empty"))
	}

	raw, err := s.load(ctx, input)
	if err != nil {
		return nil, err
	}
	if s.tooLarge(int64(len(raw))) {
		return nil, s.sizeError(int64(len(raw)))
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, common.Wrap(common.ErrInvalidImageFormat, fmt.Errorf("failed to decode image: %w", err))
	}
	if !isSupportedFormat(format) {
		return nil, common.Wrap(common.ErrInvalidImageType, fmt.Errorf("unsupported image format: %s", format))
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, common.Wrap(common.ErrInternalError, fmt.Errorf("failed to encode image as JPEG: %w", err))
	}

	bounds := img.Bounds()
	return &Processed{
		Data:         buf.Bytes(),
		Base64:       base64.StdEncoding.EncodeToString(buf.Bytes()),
		ContentType:  ContentTypeJPEG,
		SourceFormat: format,
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
	}, nil
}

func (s *Service) tooLarge(size int64) bool {
	return s.maxSizeBytes > 0 && size > s.maxSizeBytes
}

func (s *Service) sizeError(size int64) error {
	return common.Wrap(common.ErrInvalidImageSize,
		fmt.Errorf("image size %d exceeds maximum limit of %d bytes", size, s.maxSizeBytes))
}

func (s *Service) load(ctx context.Context, input string) ([]byte, error) {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return s.download(ctx, input)
	}

	payload := input
	if strings.HasPrefix(input, "data:") {
		parts := strings.SplitN(input, ",", 2)
		if len(parts) != 2 || !strings.HasPrefix(parts[0], "data:image/") || !strings.HasSuffix(parts[0], ";base64") {
			return nil, common.Wrap(common.ErrInvalidImageFormat, fmt.Errorf("invalid data URI"))
		}
		payload = parts[1]
	}

	// 解碼前先估算大小
	size := int64(base64.StdEncoding.DecodedLen(len(payload)) - (len(payload) - len(strings.TrimRight(payload, "="))))
	if s.tooLarge(size) {
		return nil, s.sizeError(size)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, common.Wrap(common.ErrInvalidImageFormat, fmt.Errorf("failed to decode base64 data: %w", err))
	}
	return data, nil
}

// download 以串流讀取遠端圖片，超過大小上限立即中止
func (s *Service) download(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return nil, common.Wrap(common.ErrInvalidImageFormat, fmt.Errorf("invalid image URL"))
	}
	if s.allowedHosts != nil && !s.allowedHosts[strings.ToLower(u.Hostname())] {
		return nil, common.Wrap(common.ErrInvalidImageFormat, fmt.Errorf("image host %s is not allowed", u.Hostname()))
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(rawURL)
	if err != nil {
		return nil, common.Wrap(common.ErrInvalidImageFormat, fmt.Errorf("failed to download image: %w", err))
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		return nil, common.Wrap(common.ErrInvalidImageFormat,
			fmt.Errorf("failed to download image: status code %d", resp.StatusCode()))
	}
	if resp.RawResponse != nil && s.tooLarge(resp.RawResponse.ContentLength) {
		return nil, s.sizeError(resp.RawResponse.ContentLength)
	}

	reader := io.Reader(body)
	if s.maxSizeBytes > 0 {
		reader = io.LimitReader(body, s.maxSizeBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, common.Wrap(common.ErrInvalidImageFormat, fmt.Errorf("failed to read image: %w", err))
	}
	if s.tooLarge(int64(len(data))) {
		return nil, s.sizeError(int64(len(data)))
	}
	return data, nil
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	switch format {
	case "jpeg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}
