package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/logger"
	"solana-launchpad/internal/orchestrator"
	"solana-launchpad/internal/storage"
)

// Listing bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DefaultMaxImageBytes caps the uploaded token image.
const DefaultMaxImageBytes int64 = 10 << 20

// formOverhead is the room left for text fields and multipart framing on top
// of the image when capping the request body.
const formOverhead int64 = 1 << 20

// Launcher runs the token creation workflow.
type Launcher interface {
	Run(ctx context.Context, req *domain.CreateRequest) (*orchestrator.Outcome, error)
}

// Catalog serves the read side and the countdown setting.
type Catalog interface {
	ListTokens(ctx context.Context, filter domain.TokenFilter) ([]*domain.Token, int, error)
	TokenByMint(ctx context.Context, mint string) (*domain.Token, error)
	CountdownStart(ctx context.Context) (*time.Time, error)
	SetCountdownStart(ctx context.Context, start time.Time) error
}

type handlers struct {
	launcher      Launcher
	catalog       Catalog
	excluded      []string
	maxImageBytes int64
	logger        *zap.Logger
}

// createToken handles POST /api/tokens/create.
func (h *handlers) createToken(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx, h.logger)

	req, err := h.bindCreateRequest(c)
	if err != nil {
		log.Warn("rejected create form", zap.Error(err))
		c.JSON(http.StatusBadRequest, failure(err.Error()))
		return
	}

	out, err := h.launcher.Run(ctx, req)
	if err != nil {
		status, body := createErrorResponse(err)
		if status >= http.StatusInternalServerError {
			log.Error("token creation failed", zap.Error(err))
		}
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, newCreateResponse(out))
}

func (h *handlers) bindCreateRequest(c *gin.Context) (*domain.CreateRequest, error) {
	bodyLimit := h.maxImageBytes + formOverhead
	if c.Request.ContentLength > bodyLimit {
		return nil, badForm("Request body exceeds maximum size of %d bytes", bodyLimit)
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, bodyLimit)
	err := c.Request.ParseMultipartForm(bodyLimit)
	switch {
	case err == nil, errors.Is(err, http.ErrNotMultipart):
	case bodyTooLarge(err):
		return nil, badForm("Request body exceeds maximum size of %d bytes", bodyLimit)
	default:
		return nil, badForm("Invalid form data: %v", err)
	}

	req := &domain.CreateRequest{
		Name:        strings.TrimSpace(c.PostForm("name")),
		Symbol:      strings.TrimSpace(c.PostForm("symbol")),
		Description: c.PostForm("description"),
		TwitterURL:  strings.TrimSpace(c.PostForm("twitter")),
		TelegramURL: strings.TrimSpace(c.PostForm("telegram")),
		WebsiteURL:  strings.TrimSpace(c.PostForm("website")),
		FeeAccount:  strings.TrimSpace(c.PostForm("directFeesTo")),
		CreatorIP:   ClientIP(c.Request),
	}

	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return req, nil
	case err != nil:
		return nil, badForm("Invalid form data: %v", err)
	}
	img, err := readImage(fh, h.maxImageBytes)
	if err != nil {
		return nil, err
	}
	req.Image = img
	return req, nil
}

func readImage(fh *multipart.FileHeader, limit int64) (*domain.Image, error) {
	if fh.Size > limit {
		return nil, badForm("Image exceeds maximum size of %d bytes", limit)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, badForm("Invalid image upload: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, badForm("Invalid image upload: %v", err)
	}
	if int64(len(data)) > limit {
		return nil, badForm("Image exceeds maximum size of %d bytes", limit)
	}
	if len(data) == 0 {
		return nil, nil
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return &domain.Image{Filename: fh.Filename, ContentType: contentType, Data: data}, nil
}

func bodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	// Some multipart paths flatten the reader error into text.
	return strings.Contains(err.Error(), "request body too large")
}

// formError is a user-facing rejection of the submitted form.
type formError struct{ msg string }

func (e *formError) Error() string { return e.msg }

func badForm(format string, args ...any) error {
	return &formError{msg: fmt.Sprintf(format, args...)}
}

// createErrorResponse maps workflow errors to status and body.
func createErrorResponse(err error) (int, any) {
	var validation *orchestrator.ValidationError
	var limited *orchestrator.RateLimitError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, failure(validation.Error())
	case errors.As(err, &limited):
		return http.StatusTooManyRequests, newRateLimitResponse(limited)
	case errors.Is(err, orchestrator.ErrFundingKeyMissing):
		return http.StatusInternalServerError, failure("Funding wallet private key not configured")
	default:
		return http.StatusInternalServerError, failure(err.Error())
	}
}

// listTokens handles GET /api/tokens.
func (h *handlers) listTokens(c *gin.Context) {
	page := positiveInt(c.Query("page"), 1)
	limit := positiveInt(c.Query("limit"), DefaultPageSize)
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	filter := domain.TokenFilter{
		Page:                page,
		Limit:               limit,
		Status:              strings.TrimSpace(c.Query("status")),
		Search:              strings.TrimSpace(c.Query("search")),
		ExcludedFeeAccounts: h.excluded,
	}
	tokens, total, err := h.catalog.ListTokens(c.Request.Context(), filter)
	if err != nil {
		logger.FromContext(c.Request.Context(), h.logger).Error("list tokens failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, failure("Internal server error"))
		return
	}

	body := listResponse{
		Tokens:     make([]tokenResponse, 0, len(tokens)),
		Pagination: newPagination(page, limit, total),
	}
	for _, t := range tokens {
		body.Tokens = append(body.Tokens, newTokenResponse(t))
	}
	c.JSON(http.StatusOK, body)
}

// tokenByMint handles GET /api/tokens/:mint.
func (h *handlers) tokenByMint(c *gin.Context) {
	t, err := h.catalog.TokenByMint(c.Request.Context(), c.Param("mint"))
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, failure("Token not found"))
	case err != nil:
		logger.FromContext(c.Request.Context(), h.logger).Error("get token failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, failure("Internal server error"))
	default:
		c.JSON(http.StatusOK, newTokenResponse(t))
	}
}

// getCountdown handles GET /api/countdown-start.
func (h *handlers) getCountdown(c *gin.Context) {
	start, err := h.catalog.CountdownStart(c.Request.Context())
	if err != nil {
		logger.FromContext(c.Request.Context(), h.logger).Error("read countdown failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, countdownResponse{})
		return
	}
	var body countdownResponse
	if start != nil {
		s := isoTime(*start)
		body.StartTime = &s
	}
	c.JSON(http.StatusOK, body)
}

type countdownRequest struct {
	StartTime string `json:"startTime" binding:"required"`
}

// setCountdown handles POST /api/countdown-start.
func (h *handlers) setCountdown(c *gin.Context) {
	var req countdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, failure("startTime is required"))
		return
	}
	start, err := time.Parse(time.RFC3339Nano, req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, failure("startTime must be an ISO-8601 timestamp"))
		return
	}
	if err := h.catalog.SetCountdownStart(c.Request.Context(), start); err != nil {
		logger.FromContext(c.Request.Context(), h.logger).Error("store countdown failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, failure(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "startTime": req.StartTime})
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func positiveInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}
