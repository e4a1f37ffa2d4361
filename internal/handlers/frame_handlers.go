package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"astrodyn-platform/internal/models"
	"astrodyn-platform/internal/repository"
	"astrodyn-platform/internal/services"
	"astrodyn-platform/pkg/errors"
	"astrodyn-platform/pkg/iau"
	"astrodyn-platform/pkg/logging"
	"astrodyn-platform/pkg/metrics"
)

// FrameHandler handles frame and Earth orientation API endpoints
type FrameHandler struct {
	transformService *services.TransformService
	coverageService  *services.CoverageService
	repo             repository.EOPRepository
	logger           *logging.StructuredLogger
	metrics          *metrics.Collector
}

// NewFrameHandler creates a new frame handler. The repository may be nil
// when the server runs without a backing store.
func NewFrameHandler(
	transformService *services.TransformService,
	coverageService *services.CoverageService,
	repo repository.EOPRepository,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *FrameHandler {
	return &FrameHandler{
		transformService: transformService,
		coverageService:  coverageService,
		repo:             repo,
		logger:           logger,
		metrics:          metricsCollector,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// PaginatedResponse represents a paginated API response
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

// statusForError maps the shared error taxonomy onto HTTP status codes.
func statusForError(err error) (int, string) {
	switch {
	case errors.IsInvalidRequestError(err), errors.IsUnknownFrame(err):
		return http.StatusBadRequest, "invalid_request"
	case errors.IsNotFoundError(err):
		return http.StatusNotFound, "not_found"
	case errors.IsOutsideValidity(err):
		return http.StatusUnprocessableEntity, "outside_validity"
	case errors.IsDataUnavailable(err), errors.IsContinuityViolation(err):
		return http.StatusServiceUnavailable, "data_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// GetFrames handles GET /api/frames
func (h *FrameHandler) GetFrames(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/frames").Observe(duration.Seconds())
	}()

	frameList, err := h.transformService.ListFrames(ctx)
	if err != nil {
		h.respondError(w, r, "/api/frames", err)
		return
	}

	response := map[string]interface{}{
		"data":  frameList,
		"count": len(frameList),
	}

	h.metrics.RecordAPIRequest("/api/frames", "GET", "200")
	h.sendJSON(w, response, http.StatusOK)
}

// GetTransform handles GET /api/transform
func (h *FrameHandler) GetTransform(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/transform").Observe(duration.Seconds())
	}()

	query := r.URL.Query()
	req := models.TransformRequest{
		From: query.Get("from"),
		To:   query.Get("to"),
		Date: query.Get("date"),
		Raw:  query.Get("raw") == "true",
	}

	if req.From == "" || req.To == "" || req.Date == "" {
		h.sendError(w, r, "from, to and date query parameters are required", http.StatusBadRequest)
		return
	}

	resp, err := h.transformService.Transform(ctx, req)
	if err != nil {
		h.respondError(w, r, "/api/transform", err)
		return
	}

	h.metrics.RecordAPIRequest("/api/transform", "GET", "200")
	h.sendJSON(w, resp, http.StatusOK)
}

// PostTransform handles POST /api/transform. The JSON body may carry a
// position and velocity to map through the computed transform.
func (h *FrameHandler) PostTransform(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/transform").Observe(duration.Seconds())
	}()

	var req models.TransformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, r, "invalid JSON body", http.StatusBadRequest)
		return
	}

	resp, err := h.transformService.Transform(ctx, req)
	if err != nil {
		h.respondError(w, r, "/api/transform", err)
		return
	}

	h.metrics.RecordAPIRequest("/api/transform", "POST", "200")
	h.sendJSON(w, resp, http.StatusOK)
}

// GetEOP handles GET /api/eop
func (h *FrameHandler) GetEOP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/eop").Observe(duration.Seconds())
	}()

	query := r.URL.Query()
	convention := query.Get("convention")
	if convention == "" {
		convention = iau.Conventions2010.String()
	}

	dateStr := query.Get("date")
	if dateStr == "" {
		h.sendError(w, r, "date query parameter is required", http.StatusBadRequest)
		return
	}

	simple := query.Get("simple") == "true"

	values, err := h.transformService.EOPValuesAt(ctx, convention, dateStr, simple)
	if err != nil {
		h.respondError(w, r, "/api/eop", err)
		return
	}

	h.metrics.RecordAPIRequest("/api/eop", "GET", "200")
	h.sendJSON(w, values, http.StatusOK)
}

// GetCoverage handles GET /api/eop/coverage
func (h *FrameHandler) GetCoverage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/eop/coverage").Observe(duration.Seconds())
	}()

	conventionStr := r.URL.Query().Get("convention")

	if conventionStr != "" {
		conv, err := iau.ParseConvention(conventionStr)
		if err != nil {
			h.sendError(w, r, "unknown IERS convention "+strconv.Quote(conventionStr), http.StatusBadRequest)
			return
		}

		summary, err := h.coverageService.CoverageForConvention(ctx, conv)
		if err != nil {
			h.respondError(w, r, "/api/eop/coverage", err)
			return
		}

		h.metrics.RecordAPIRequest("/api/eop/coverage", "GET", "200")
		h.sendJSON(w, summary, http.StatusOK)
		return
	}

	summaries, err := h.coverageService.Coverage(ctx)
	if err != nil {
		h.respondError(w, r, "/api/eop/coverage", err)
		return
	}

	response := map[string]interface{}{
		"data":  summaries,
		"count": len(summaries),
	}

	h.metrics.RecordAPIRequest("/api/eop/coverage", "GET", "200")
	h.sendJSON(w, response, http.StatusOK)
}

// GetDatasets handles GET /api/eop/datasets
func (h *FrameHandler) GetDatasets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/eop/datasets").Observe(duration.Seconds())
	}()

	// Parse query parameters
	query := r.URL.Query()
	conventionStr := query.Get("convention")
	formatStr := query.Get("format")
	pageStr := query.Get("page")
	limitStr := query.Get("limit")

	// Default pagination
	page := 1
	limit := 100

	if pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 1000 {
			limit = l
		}
	}

	offset := (page - 1) * limit

	// Build filter
	filter := repository.DatasetFilter{
		Limit:  limit,
		Offset: offset,
	}

	if conventionStr != "" {
		filter.Convention = &conventionStr
	}

	if formatStr != "" {
		filter.Format = &formatStr
	}

	datasets, total, err := h.coverageService.ListDatasets(ctx, filter)
	if err != nil {
		h.respondError(w, r, "/api/eop/datasets", err)
		return
	}

	totalPages := (total + limit - 1) / limit

	response := PaginatedResponse{
		Data:       datasets,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}

	h.metrics.RecordAPIRequest("/api/eop/datasets", "GET", "200")
	h.sendJSON(w, response, http.StatusOK)
}

// HealthCheck handles GET /health
func (h *FrameHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if h.repo != nil {
		if err := h.repo.HealthCheck(ctx); err != nil {
			h.logger.Error(ctx, "[HEALTH_CHECK_ERROR] Database unreachable", logging.Fields{}, err)
			status["status"] = "unhealthy"
			h.sendJSON(w, status, http.StatusServiceUnavailable)
			return
		}
	}

	h.logger.Debug(ctx, "[HEALTH_CHECK] Health check requested", logging.Fields{})
	h.sendJSON(w, status, http.StatusOK)
}

// respondError maps a service error onto the wire
func (h *FrameHandler) respondError(w http.ResponseWriter, r *http.Request, endpoint string, err error) {
	status, errorType := statusForError(err)

	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "[API_ERROR] Request failed", logging.Fields{
			"endpoint": endpoint,
		}, err)
	}

	h.metrics.RecordAPIError(errorType, endpoint)
	h.sendError(w, r, err.Error(), status)
}

// sendJSON sends a JSON response
func (h *FrameHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func (h *FrameHandler) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	h.metrics.RecordAPIRequest(r.URL.Path, r.Method, strconv.Itoa(statusCode))

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	h.sendJSON(w, response, statusCode)
}

// RegisterRoutes registers all frame API routes
func (h *FrameHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/frames", h.GetFrames).Methods("GET")
	router.HandleFunc("/api/transform", h.GetTransform).Methods("GET")
	router.HandleFunc("/api/transform", h.PostTransform).Methods("POST")
	router.HandleFunc("/api/eop", h.GetEOP).Methods("GET")
	router.HandleFunc("/api/eop/coverage", h.GetCoverage).Methods("GET")
	router.HandleFunc("/api/eop/datasets", h.GetDatasets).Methods("GET")
	router.HandleFunc("/api/docs/openapi.json", OpenAPISpec).Methods("GET")
	router.HandleFunc("/docs", SwaggerUI).Methods("GET")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
}
