package analyze

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"agrivision-server/internal/domain/analysis"
	"agrivision-server/internal/domain/provider"
	"agrivision-server/internal/platform/config"
	"agrivision-server/internal/platform/errors"
	"agrivision-server/internal/platform/logging"
	httptransport "agrivision-server/internal/transport/http"

	"github.com/gin-gonic/gin"
)

// Service is the HTTP transport for image analysis. It normalizes the
// inbound multipart request, resolves provider configuration per request,
// invokes the configured adapter, and maps failures to HTTP responses.
type Service struct {
	config *config.Config
	logger *logging.Logger
}

// NewService creates a new analyze service instance.
func NewService(cfg *config.Config, logger *logging.Logger) (*Service, error) {
	if cfg == nil {
		return nil, errors.New(errors.KindConfig, "analyze.new", "config is required")
	}
	if logger == nil {
		logger = logging.DefaultLogger
	}

	return &Service{
		config: cfg,
		logger: logger,
	}, nil
}

// Register registers the analyze routes on the API group.
func (s *Service) Register(ctx context.Context, router *gin.RouterGroup) error {
	router.POST("/analyze", s.handleAnalyze)
	router.GET("/analyze/status", s.handleStatus)
	router.OPTIONS("/analyze", s.handleOptions)

	s.logger.InfoTag("HTTP", "analyze routes registered")
	return nil
}

// handleOptions answers CORS preflight requests.
func (s *Service) handleOptions(c *gin.Context) {
	c.Status(http.StatusOK)
}

// handleStatus reports the selected provider and mock state.
// @Summary Analyze endpoint status
// @Description Reports the selected provider and whether mock mode is active
// @Tags Analyze
// @Produce plain
// @Success 200 {string} string "status line"
// @Router /analyze/status [get]
func (s *Service) handleStatus(c *gin.Context) {
	resolved := s.config.ResolveProvider()

	mockState := "off"
	if resolved.MockMode {
		mockState = "on"
	}
	c.String(http.StatusOK, fmt.Sprintf(
		"analyze endpoint up: provider=%s type=%s mock_mode=%s",
		resolved.Name, resolved.Type, mockState,
	))
}

// HandleHealth reports whether a provider key is configured and which
// sources hold one, without ever revealing the key value.
// @Summary Provider key health
// @Description Reports API key presence per configuration source
// @Tags Health
// @Produce json
// @Success 200 {object} object
// @Router /healthz [get]
func (s *Service) HandleHealth(c *gin.Context) {
	resolved := s.config.ResolveProvider()

	c.JSON(http.StatusOK, gin.H{
		resolved.Name + "KeyConfigured": resolved.KeyConfigured(),
		"hasEnv":                        resolved.HasEnv,
		"hasCfgRoot":                    resolved.HasFlatKey,
		"hasCfgSection":                 resolved.HasSection,
	})
}

// handleAnalyze runs the analysis pipeline: validate the upload, resolve
// configuration, short-circuit to mock or invoke the provider, map the
// outcome to a response.
// @Summary Analyze a crop image
// @Description Uploads an image plus an optional question and returns the provider's answer
// @Tags Analyze
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "image file"
// @Param question formData string false "question about the image"
// @Success 200 {object} analysis.Result
// @Failure 400 {string} string
// @Failure 429 {object} httptransport.Problem
// @Failure 500 {object} httptransport.Problem
// @Failure 502 {object} httptransport.Problem
// @Router /analyze [post]
func (s *Service) handleAnalyze(c *gin.Context) {
	req, err := s.parseMultipartRequest(c)
	if err != nil {
		httptransport.RespondText(c, http.StatusBadRequest, err.Error())
		s.logger.WarnTag("HTTP", "analyze request rejected: %v", err)
		return
	}

	resolved := s.config.ResolveProvider()

	// Offline demo path: mock mode with no credential never touches the
	// network and carries no note.
	if resolved.MockMode && !resolved.KeyConfigured() {
		c.JSON(http.StatusOK, analysis.Result{
			Answer: analysis.MockAnswer(req.Question, req.FileName),
		})
		return
	}

	if !resolved.KeyConfigured() {
		detail := fmt.Sprintf(
			"%s is not configured. Set the environment variable, a %s root key in .config.yaml, or providers.%s.api_key; or set %s=true for offline use.",
			resolved.EnvVar, resolved.EnvVar, resolved.Name, config.MockModeKey,
		)
		s.logger.ErrorTag("Config", "analyze refused: %s not configured", resolved.EnvVar)
		httptransport.RespondProblem(c, http.StatusInternalServerError, "Configuration error", detail)
		return
	}

	prov, err := provider.New(&provider.Config{
		Type:        resolved.Type,
		ModelName:   resolved.ModelName,
		BaseURL:     resolved.BaseURL,
		APIKey:      resolved.APIKey,
		Temperature: resolved.Temperature,
		MaxTokens:   resolved.MaxTokens,
		TopP:        resolved.TopP,
	})
	if err != nil {
		wrapped := errors.Wrap(errors.KindProvider, "analyze.provider", "provider construction failed", err)
		s.logger.ErrorTag("Provider", "%v", wrapped)
		httptransport.RespondProblem(c, http.StatusInternalServerError, "Configuration error", wrapped.Error())
		return
	}

	answer, err := prov.Analyze(c.Request.Context(), provider.Request{
		Image:    req.Image,
		MimeType: req.MimeType,
		Question: req.Question,
	})
	if err != nil {
		s.respondProviderError(c, req, resolved, err)
		return
	}

	s.logger.InfoTag("Provider", "%s answered (%d chars)", prov.Name(), len(answer))
	c.JSON(http.StatusOK, analysis.Result{Answer: answer})
}

func (s *Service) respondProviderError(
	c *gin.Context,
	req *analysis.Request,
	resolved config.ResolvedProvider,
	err error,
) {
	switch provider.Classify(err) {
	case provider.ClassQuotaExceeded:
		quotaErr := errors.Wrap(errors.KindQuota, "analyze.provider", "provider quota exhausted", err)
		if resolved.MockMode {
			// Production safety valve: quota exhaustion degrades to the
			// mock answer instead of failing the request.
			s.logger.WarnTag("Mock", "quota exhausted, serving mock answer: %v", quotaErr)
			c.JSON(http.StatusOK, analysis.Result{
				Answer: analysis.MockAnswer(req.Question, req.FileName),
				Note:   "mock",
			})
			return
		}
		s.logger.WarnTag("Provider", "%v", quotaErr)
		httptransport.RespondProblem(
			c,
			http.StatusTooManyRequests,
			"Provider quota exceeded",
			"The upstream provider reports its quota is exhausted. Check the billing plan and rate limits of the configured API key.",
		)
	case provider.ClassUnavailable:
		s.logger.WarnTag("Provider", "upstream failure: %v", err)
		httptransport.RespondProblem(
			c,
			http.StatusBadGateway,
			"Provider unavailable",
			"The upstream provider could not be reached or returned an unexpected failure. This is usually transient; retry shortly.",
		)
	default:
		s.logger.ErrorTag("Provider", "unexpected failure: %v", err)
		// Best-effort diagnostic passthrough; may expose internal detail.
		httptransport.RespondProblem(
			c,
			http.StatusInternalServerError,
			"Unexpected error",
			err.Error(),
		)
	}
}

// parseMultipartRequest validates and normalizes the inbound form.
func (s *Service) parseMultipartRequest(c *gin.Context) (*analysis.Request, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return nil, fmt.Errorf("request body must be multipart/form-data")
	}

	if err := c.Request.ParseMultipartForm(MaxFileSize); err != nil {
		return nil, fmt.Errorf("failed to parse multipart form: %v", err)
	}

	file, header, err := c.Request.FormFile(imageField)
	if err != nil {
		return nil, fmt.Errorf("image file field %q is required", imageField)
	}
	defer file.Close()

	if header.Size > MaxFileSize {
		return nil, fmt.Errorf("image exceeds the %dMB upload limit", MaxFileSize/1024/1024)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read image upload: %v", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image file is empty")
	}

	question := strings.TrimSpace(c.Request.FormValue(questionField))
	if question == "" {
		question = analysis.DefaultQuestion
	}

	// Go multipart writers stamp file parts application/octet-stream when
	// the client declares nothing, so treat that the same as absent.
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = detectMimeTypeFromFilename(header.Filename)
	}
	if mimeType == "" {
		mimeType = analysis.DefaultMimeType
	}

	return &analysis.Request{
		Image:    data,
		MimeType: mimeType,
		Question: question,
		FileName: header.Filename,
	}, nil
}

// detectMimeTypeFromFilename guesses the mime type from the file extension.
func detectMimeTypeFromFilename(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	case strings.HasSuffix(lower, ".bmp"):
		return "image/bmp"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return ""
	}
}
