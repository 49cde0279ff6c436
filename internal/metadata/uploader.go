// Package metadata uploads token metadata and images to the pump.fun IPFS
// endpoint.
package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.uber.org/zap"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/logger"
	"solana-launchpad/internal/observability"
)

// DefaultTimeout bounds a single upload.
const DefaultTimeout = 60 * time.Second

// MetadataUploadError is returned when the upload fails or yields no URI.
type MetadataUploadError struct {
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *MetadataUploadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to upload metadata to IPFS: %d - %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("failed to upload metadata to IPFS: %v", e.Err)
}

func (e *MetadataUploadError) Unwrap() error { return e.Err }

// Input holds the descriptive token fields sent upstream.
type Input struct {
	Name        string
	Symbol      string
	Description string
	TwitterURL  string
	TelegramURL string
	FeeAccount  string
	MintAddress string // used for the canonical website link
}

// Result is the outcome of a successful upload.
type Result struct {
	MetadataURI string
	ImageURI    string // empty when no image could be resolved
}

// Uploader posts multipart metadata to the IPFS endpoint.
type Uploader struct {
	endpoint      string
	serviceDomain string
	client        *http.Client
	logger        *zap.Logger
}

// Options configures an Uploader.
type Options struct {
	Endpoint      string // e.g. https://pump.fun/api/ipfs
	ServiceDomain string // host of the canonical token page
	HTTPClient    *http.Client
	Logger        *zap.Logger
}

// New creates an Uploader.
func New(opts Options) *Uploader {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Uploader{
		endpoint:      opts.Endpoint,
		serviceDomain: opts.ServiceDomain,
		client:        client,
		logger:        logger.Named(opts.Logger, logger.ComponentMetadata),
	}
}

// TwitterURL returns the explicit URL, else the fee account's profile URL,
// else "".
func TwitterURL(explicit, feeAccount string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	if handle := domain.FeeAccountHandle(feeAccount); handle != "" {
		return "https://x.com/" + handle
	}
	return ""
}

// WebsiteURL returns the canonical token page for mint.
func WebsiteURL(serviceDomain, mint string) string {
	return "https://" + serviceDomain + "/" + mint
}

type uploadResponse struct {
	MetadataURI string `json:"metadataUri"`
	Image       string `json:"image"`
	Metadata    struct {
		Image string `json:"image"`
	} `json:"metadata"`
}

// Upload stores the metadata and optional image and returns the metadata URI.
// The website field is always the canonical token page, never the user's own.
func (u *Uploader) Upload(ctx context.Context, in Input, image *domain.Image) (res *Result, err error) {
	start := time.Now()
	defer func() {
		observability.RecordExternalCall("pumpfun", "upload_metadata", time.Since(start), err)
	}()

	body, contentType, err := u.encode(in, image)
	if err != nil {
		return nil, &MetadataUploadError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, body)
	if err != nil {
		return nil, &MetadataUploadError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, &MetadataUploadError{Err: fmt.Errorf("http request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &MetadataUploadError{Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &MetadataUploadError{StatusCode: resp.StatusCode, Err: errors.New(strings.TrimSpace(string(respBody)))}
	}

	var out uploadResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, &MetadataUploadError{Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	if out.MetadataURI == "" {
		return nil, &MetadataUploadError{Err: errors.New("no metadata URI returned from IPFS upload")}
	}

	res = &Result{MetadataURI: out.MetadataURI, ImageURI: out.Image}
	if res.ImageURI == "" {
		res.ImageURI = out.Metadata.Image
	}
	if res.ImageURI == "" {
		res.ImageURI = u.fetchImage(ctx, out.MetadataURI)
	}

	u.logger.Info("metadata uploaded",
		zap.String("metadata_uri", res.MetadataURI),
		zap.String("image_uri", res.ImageURI))
	return res, nil
}

func (u *Uploader) encode(in Input, image *domain.Image) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"name", in.Name},
		{"symbol", in.Symbol},
		{"description", in.Description},
		{"twitter", TwitterURL(in.TwitterURL, in.FeeAccount)},
		{"telegram", in.TelegramURL},
		{"website", WebsiteURL(u.serviceDomain, in.MintAddress)},
		{"showName", "true"},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f[0], err)
		}
	}

	if image != nil && len(image.Data) > 0 {
		contentType := image.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		filename := image.Filename
		if filename == "" {
			filename = "image"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create file part: %w", err)
		}
		if _, err := part.Write(image.Data); err != nil {
			return nil, "", fmt.Errorf("write file part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// fetchImage reads the image field of the uploaded metadata document.
// Failures are logged and yield "".
func (u *Uploader) fetchImage(ctx context.Context, metadataURI string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadataURI, nil)
	if err != nil {
		u.logger.Warn("failed to build metadata fetch", zap.String("uri", metadataURI), zap.Error(err))
		return ""
	}
	resp, err := u.client.Do(req)
	if err != nil {
		u.logger.Warn("failed to fetch metadata from URI", zap.String("uri", metadataURI), zap.Error(err))
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		u.logger.Warn("failed to fetch metadata from URI",
			zap.String("uri", metadataURI), zap.Int("status", resp.StatusCode))
		return ""
	}

	var doc struct {
		Image string `json:"image"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		u.logger.Warn("failed to decode metadata document", zap.String("uri", metadataURI), zap.Error(err))
		return ""
	}
	return doc.Image
}
