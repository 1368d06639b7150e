package handler

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/oftw/impact-dashboard-api/internal/domain"
	"github.com/oftw/impact-dashboard-api/internal/usecases/reporting"
	"github.com/oftw/impact-dashboard-api/pkg/apiErrors"
	"github.com/oftw/impact-dashboard-api/pkg/log"
	"github.com/oftw/impact-dashboard-api/pkg/utils"
)

// requestError associa um erro de parâmetro ao código da API
type requestError struct {
	code string
	err  error
}

func (e *requestError) Error() string {
	return e.err.Error()
}

func (e *requestError) Unwrap() error {
	return e.err
}

// parseReportRequest lê os parâmetros period, as_of, fiscal_year e month
func parseReportRequest(r *http.Request) (domain.ReportRequest, error) {
	query := r.URL.Query()

	req := domain.ReportRequest{
		Kind:       domain.PeriodKind(query.Get("period")),
		FiscalYear: query.Get("fiscal_year"),
		Month:      query.Get("month"),
	}

	switch req.Kind {
	case "", domain.PeriodFYTD:
		if raw := query.Get("as_of"); raw != "" {
			asOf, err := utils.ParseDate(raw)
			if err != nil {
				return req, &requestError{code: apiErrors.ErrInvalidFormat, err: err}
			}
			req.AsOf = &asOf
		}
	case domain.PeriodFiscalYear:
		if req.FiscalYear == "" {
			return req, &requestError{
				code: apiErrors.ErrMissingRequiredData,
				err:  errors.New("parâmetro fiscal_year obrigatório para period=fiscal_year"),
			}
		}
	case domain.PeriodMonth:
		if req.Month == "" {
			return req, &requestError{
				code: apiErrors.ErrMissingRequiredData,
				err:  errors.New("parâmetro month obrigatório para period=month"),
			}
		}
	default:
		return req, &requestError{
			code: apiErrors.ErrInvalidRequest,
			err:  errors.New("period deve ser fytd, fiscal_year ou month"),
		}
	}

	return req, nil
}

// writeRequestError responde 400 com o código do parâmetro inválido
func writeRequestError(w http.ResponseWriter, err error) {
	code := apiErrors.ErrInvalidRequest
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		code = reqErr.code
	}

	apiErr := apiErrors.FromError(err, code)
	apiErrors.WriteError(w, apiErr.Code, apiErr.Message, nil)
}

// writeReportError converte os erros do serviço de relatórios em erros da API
func writeReportError(w http.ResponseWriter, r *http.Request, logger log.Logger, feature string, err error) {
	switch {
	case errors.Is(err, reporting.ErrDatasetNotLoaded):
		logger.Warn(feature + ": dataset not loaded")
		apiErrors.WriteError(w, apiErrors.ErrDatasetNotLoaded, "Nenhum dataset carregado", nil)
	case errors.Is(err, reporting.ErrMetricNotFound):
		apiErrors.WriteError(w, apiErrors.ErrMetricNotFound, err.Error(), map[string]any{"metrics": domain.MetricNames})
	case errors.Is(err, domain.ErrInvalidPeriod):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
	default:
		logger.WithError(err).Error(feature + ": error computing metrics")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao calcular métricas", map[string]any{
			log.CorrelationIDField: log.GetCorrelationID(r.Context()),
		})
	}
}

func GetMetrics(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		req, err := parseReportRequest(r)
		if err != nil {
			writeRequestError(w, err)
			return
		}

		metrics, err := service.GetMetrics(req)
		if err != nil {
			writeReportError(w, r, logger, "metrics", err)
			return
		}

		logger = log.ForContext(log.WithDatasetID(r.Context(), metrics.DatasetID))
		logger.WithField("dataset_period", metrics.Period.Label).Info("metrics: computed")

		if err := writeJSON(w, http.StatusOK, metrics); err != nil {
			logger.WithError(err).Error("metrics: error encoding response")
		}
	})
}

func GetMetricTable(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		name := httprouter.ParamsFromContext(r.Context()).ByName("name")

		req, err := parseReportRequest(r)
		if err != nil {
			writeRequestError(w, err)
			return
		}

		metrics, err := service.GetMetricTable(name, req)
		if err != nil {
			writeReportError(w, r, logger, "metric-table", err)
			return
		}

		if err := writeJSON(w, http.StatusOK, metrics); err != nil {
			logger.WithError(err).Error("metric-table: error encoding response")
		}
	})
}

func GetKPIs(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		req, err := parseReportRequest(r)
		if err != nil {
			writeRequestError(w, err)
			return
		}

		kpis, err := service.GetKPIs(req)
		if err != nil {
			writeReportError(w, r, logger, "kpis", err)
			return
		}

		if err := writeJSON(w, http.StatusOK, kpis); err != nil {
			logger.WithError(err).Error("kpis: error encoding response")
		}
	})
}

func GetFiscalYears(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		available, err := service.GetAvailableFiscalYears()
		if err != nil {
			writeReportError(w, r, logger, "fiscal-years", err)
			return
		}

		if err := writeJSON(w, http.StatusOK, available); err != nil {
			logger.WithError(err).Error("fiscal-years: error encoding response")
		}
	})
}
