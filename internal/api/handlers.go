package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/sells-group/demographics-cli/internal/demographics"
	"github.com/sells-group/demographics-cli/internal/model"
	"github.com/sells-group/demographics-cli/internal/monitoring"
)

type handler struct {
	reporter Reporter
	circuits monitoring.CircuitReporter
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string            `json:"status"`
	Circuits map[string]string `json:"circuits,omitempty"`
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if h.circuits != nil {
		resp.Circuits = h.circuits.States()
		for _, state := range resp.Circuits {
			if state == "open" {
				resp.Status = "degraded"
				break
			}
		}
	}
	render.JSON(w, r, resp)
}

func (h *handler) report(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key := model.CityKey{
		CityName:   pathParam(r, "city"),
		StateCode:  pathParam(r, "state"),
		CountyCode: q.Get("county"),
	}

	refresh := false
	if v := q.Get("refresh"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid_refresh", "refresh must be a boolean")
			return
		}
		refresh = b
	}

	log := zap.L().With(
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("city", key.CityName),
		zap.String("state", key.StateCode),
	)

	report, err := h.reporter.Report(r.Context(), key, refresh)
	if err != nil {
		if demographics.IsValidationError(err) {
			writeError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		log.Error("api: report failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "report_failed", "")
		return
	}

	log.Info("api: report served", zap.Int("confidence", report.DataQuality.Confidence))
	render.JSON(w, r, report)
}

func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, detail string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: code, Detail: detail})
}
