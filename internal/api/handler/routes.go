package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/oftw/impact-dashboard-api/infrastructure/repository"
	"github.com/oftw/impact-dashboard-api/internal/api/handler/router"
	"github.com/oftw/impact-dashboard-api/internal/usecases/reporting"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Metrics(service reporting.Reporter) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/metrics",
			Method:  http.MethodGet,
			Handler: GetMetrics(service),
		},
		{
			Path:    "/v1/metrics/:name",
			Method:  http.MethodGet,
			Handler: GetMetricTable(service),
		},
		{
			Path:    "/v1/kpis",
			Method:  http.MethodGet,
			Handler: GetKPIs(service),
		},
		{
			Path:    "/v1/fiscal-years",
			Method:  http.MethodGet,
			Handler: GetFiscalYears(service),
		},
	}
}

func Data(datasetRepo repository.DatasetRepository, reloader DataReloader) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/data/status",
			Method:  http.MethodGet,
			Handler: GetDataStatus(datasetRepo, reloader),
		},
		{
			Path:    "/v1/data/reload",
			Method:  http.MethodPost,
			Handler: ReloadData(reloader),
		},
	}
}

// writeJSON codifica a resposta com o status informado
func writeJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}
