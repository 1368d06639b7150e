package handler

import (
	"net/http"

	"github.com/oftw/impact-dashboard-api/infrastructure/repository"
	"github.com/oftw/impact-dashboard-api/pkg/apiErrors"
	"github.com/oftw/impact-dashboard-api/pkg/log"
)

// DataReloader dispara e acompanha a recarga dos arquivos de dados
type DataReloader interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

// GetDataStatus retorna a geração atual do dataset, o relatório de carga e o status da recarga
func GetDataStatus(datasetRepo repository.DatasetRepository, reloader DataReloader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		dataset := datasetRepo.Current()
		if dataset == nil {
			apiErrors.WriteError(w, apiErrors.ErrDatasetNotLoaded, "Nenhum dataset carregado", map[string]any{
				"reload": reloader.GetStatus(),
			})
			return
		}

		response := map[string]any{
			"dataset_id": dataset.ID,
			"loaded_at":  dataset.LoadedAt,
			"pledges":    len(dataset.Pledges),
			"payments":   len(dataset.Payments),
			"rates":      dataset.Rates.Len(),
			"report":     dataset.Report,
			"reload":     reloader.GetStatus(),
		}

		if err := writeJSON(w, http.StatusOK, response); err != nil {
			logger.WithError(err).Error("data-status: error encoding response")
		}
	})
}

// ReloadData agenda uma recarga assíncrona; pedidos simultâneos são agrupados na recarga em andamento
func ReloadData(reloader DataReloader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		started := reloader.TriggerManualSync()
		logger.WithField("dataset_reload_started", started).Info("data-reload: requested")

		message := "Recarga iniciada"
		if !started {
			message = "Recarga já em andamento"
		}

		if err := writeJSON(w, http.StatusAccepted, map[string]any{
			"message": message,
			"started": started,
		}); err != nil {
			logger.WithError(err).Error("data-reload: error encoding response")
		}
	})
}
