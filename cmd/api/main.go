package main

import (
	"context"
	"time"

	"github.com/oftw/impact-dashboard-api/infrastructure/csvsource"
	"github.com/oftw/impact-dashboard-api/infrastructure/repository"
	"github.com/oftw/impact-dashboard-api/internal/api"
	"github.com/oftw/impact-dashboard-api/internal/config"
	"github.com/oftw/impact-dashboard-api/internal/scheduler"
	"github.com/oftw/impact-dashboard-api/internal/usecases/aggregating"
	"github.com/oftw/impact-dashboard-api/internal/usecases/normalizing"
	"github.com/oftw/impact-dashboard-api/internal/usecases/reporting"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loader := csvsource.New(csvsource.Options{
		PledgeFile:      cfg.Data.PledgePath(),
		PaymentsFile:    cfg.Data.PaymentsPath(),
		ExchangeRateDir: cfg.Data.ExchangeRatePath(),
		Series:          cfg.Data.RateSeries(),
	})

	datasetRepo := repository.NewDatasetRepository()
	reloadService := scheduler.NewDataReloadService(loader, datasetRepo, cfg)

	// sem dataset inicial a API não sobe
	if _, err := reloadService.Reload(ctx); err != nil {
		logStructuralError(err)
	}

	if err := reloadService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de recarga de dados")
	} else {
		logrus.Info("Agendador de recarga de dados iniciado com sucesso")
	}

	normalizer := normalizing.NewService(cfg)
	aggregator := aggregating.NewService(cfg)
	reporter := reporting.NewService(cfg, datasetRepo, normalizer, aggregator)

	server, err := api.New(cfg, reporter, datasetRepo, reloadService)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// logStructuralError encerra o processo indicando o arquivo e o motivo da falha de carga
func logStructuralError(err error) {
	fields := logrus.Fields{}

	var missing *csvsource.MissingFileError
	var schemaErr *csvsource.SchemaError
	switch {
	case errors.As(err, &missing):
		fields["file"] = missing.File
	case errors.As(err, &schemaErr):
		fields["file"] = schemaErr.File
		fields["missing_columns"] = schemaErr.Missing
		fields["unknown_columns"] = schemaErr.Unknown
	}

	logrus.WithError(err).WithFields(fields).Fatal("Erro ao carregar os arquivos de dados")
}
