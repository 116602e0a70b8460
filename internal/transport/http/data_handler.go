package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "alicedata/internal/errors"
	"alicedata/internal/validation"
)

// DataHandler serves the dataset read API with RFC 7807 errors
type DataHandler struct {
	service      DataServiceInterface
	validator    *validation.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a new data handler
func NewDataHandler(service DataServiceInterface, validator *validation.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data routes on their own router
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes adds the data routes to r, which is normally the /api router
func (h *DataHandler) RegisterRoutes(r chi.Router) {
	r.Get("/metadata", h.GetMetadata)
	r.Get("/statistics", h.GetStatistics)

	r.Route("/records", func(r chi.Router) {
		r.Get("/", h.ListRecords)
		r.With(h.GeoIDCtx).Get("/{geoID}", h.GetRecord)
	})

	r.Route("/states", func(r chi.Router) {
		r.Get("/", h.ListStates)
		r.Get("/{state}", h.GetState)
	})
}

// GeoIDCtx rejects geoIDs that cannot be FIPS codes
func (h *DataHandler) GeoIDCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		geoID := chi.URLParam(r, "geoID")
		if geoID == "" || len(geoID) > 15 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("geoID", "geoID must be 1 to 15 digits"))
			return
		}
		for _, c := range geoID {
			if c < '0' || c > '9' {
				h.errorHandler.HandleError(w, r, apierrors.ErrValidation("geoID", "geoID must contain only digits"))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// GetMetadata handles GET /api/metadata
func (h *DataHandler) GetMetadata(w http.ResponseWriter, r *http.Request) {
	meta, err := h.service.Metadata(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, meta)
}

// GetStatistics handles GET /api/statistics
func (h *DataHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Statistics(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// ListRecords handles GET /api/records?state=&level=&year=&limit=&offset=
func (h *DataHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	query, err := h.validator.ParseRecordsQuery(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	page, err := h.service.Records(r.Context(), query)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "records listed",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Int("total", page.Total),
		slog.Int("returned", len(page.Records)))

	render.JSON(w, r, page)
}

// GetRecord handles GET /api/records/{geoID}
func (h *DataHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.Record(r.Context(), chi.URLParam(r, "geoID"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, records)
}

// ListStates handles GET /api/states
func (h *DataHandler) ListStates(w http.ResponseWriter, r *http.Request) {
	states, err := h.service.States(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, states)
}

// GetState handles GET /api/states/{state}
func (h *DataHandler) GetState(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.State(r.Context(), chi.URLParam(r, "state"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}
