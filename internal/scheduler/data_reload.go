package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/oftw/impact-dashboard-api/infrastructure/csvsource"
	"github.com/oftw/impact-dashboard-api/infrastructure/repository"
	"github.com/oftw/impact-dashboard-api/internal/config"
	"github.com/oftw/impact-dashboard-api/internal/domain"
	"github.com/oftw/impact-dashboard-api/pkg/log"
	"github.com/oftw/impact-dashboard-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

var ErrReloadInProgress = errors.New("data reload already in progress")

// DataReloadConfig representa a configuração do agendador de recarga dos arquivos
type DataReloadConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// DataReloadService recarrega os arquivos CSV e publica o novo dataset com uma troca atômica.
// Uma recarga com falha mantém o dataset anterior.
type DataReloadService struct {
	scheduler           *gocron.Scheduler
	config              DataReloadConfig
	loader              csvsource.Loader
	datasetRepo         repository.DatasetRepository
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncError       string
}

func NewDataReloadService(
	loader csvsource.Loader,
	datasetRepo repository.DatasetRepository,
	appConfig *config.Config,
) *DataReloadService {
	reloadConfig := DataReloadConfig{
		CronSchedule: appConfig.DataReload.CronSchedule,
		SyncEnabled:  appConfig.DataReload.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": reloadConfig.CronSchedule,
		"sync_enabled":  reloadConfig.SyncEnabled,
	}).Info("Configuração do agendador de recarga de dados carregada")

	return &DataReloadService{
		scheduler:   gocron.NewScheduler(time.Local),
		config:      reloadConfig,
		loader:      loader,
		datasetRepo: datasetRepo,
	}
}

// Start inicia o agendador
func (s *DataReloadService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Recarga agendada de dados desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de recarga de dados")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if _, err := s.Reload(ctx); err != nil && !errors.Is(err, ErrReloadInProgress) {
			logrus.WithError(err).Error("Erro na recarga agendada de dados, mantendo dataset anterior")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar recarga de dados: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de recarga de dados")
		s.scheduler.Stop()
	}()

	return nil
}

// Reload carrega os arquivos e troca o dataset atual. Apenas uma recarga executa por vez.
func (s *DataReloadService) Reload(ctx context.Context) (*domain.Dataset, error) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		return nil, ErrReloadInProgress
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	dataset, err := s.load(ctx)

	s.syncMutex.Lock()
	s.syncRunning = false
	s.lastSyncCompletedAt = time.Now()
	s.lastSyncError = ""
	if err != nil {
		s.lastSyncError = err.Error()
	}
	s.syncMutex.Unlock()

	return dataset, err
}

func (s *DataReloadService) load(ctx context.Context) (*domain.Dataset, error) {
	startTime := time.Now()
	logrus.Info("Iniciando recarga dos arquivos de dados")

	dataset, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar id do dataset: %w", err)
	}
	dataset.ID = id
	dataset.LoadedAt = time.Now().UTC()

	previous := s.datasetRepo.Swap(dataset)

	fields := log.Fields{
		"pledges":      len(dataset.Pledges),
		"payments":     len(dataset.Payments),
		"rates":        dataset.Rates.Len(),
		"skipped_rows": dataset.Report.SkippedRows(),
		"duration_ms":  time.Since(startTime).Milliseconds(),
	}
	if previous != nil {
		fields["dataset_previous_id"] = previous.ID
	}
	log.ForContext(log.WithDatasetID(ctx, dataset.ID)).WithFields(fields).Info("Recarga de dados concluída")

	return dataset, nil
}

// TriggerManualSync inicia uma recarga em segundo plano. Retorna false quando outra recarga já está em andamento.
func (s *DataReloadService) TriggerManualSync() bool {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Recarga de dados já em andamento, ignorando solicitação manual")
		return false
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando recarga manual de dados")
	go func() {
		if _, err := s.Reload(context.Background()); err != nil && !errors.Is(err, ErrReloadInProgress) {
			logrus.WithError(err).Error("Erro na recarga manual de dados, mantendo dataset anterior")
		}
	}()

	return true
}

// GetStatus retorna o status atual da recarga
func (s *DataReloadService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_running":           s.syncRunning,
		"sync_cron":              s.config.CronSchedule,
		"sync_enabled":           s.config.SyncEnabled,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_error":        s.lastSyncError,
	}
}
