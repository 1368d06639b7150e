package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/oftw/impact-dashboard-api/infrastructure/csvsource"
	csvmocks "github.com/oftw/impact-dashboard-api/infrastructure/csvsource/mocks"
	"github.com/oftw/impact-dashboard-api/infrastructure/repository/mocks"
	"github.com/oftw/impact-dashboard-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newReloadService(loader csvsource.Loader, repo *mocks.MockDatasetRepository) *DataReloadService {
	return &DataReloadService{
		scheduler:   gocron.NewScheduler(time.UTC),
		config:      DataReloadConfig{CronSchedule: "0 */6 * * *"},
		loader:      loader,
		datasetRepo: repo,
	}
}

func TestDataReloadService_Reload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLoader := csvmocks.NewMockLoader(ctrl)
	mockRepo := mocks.NewMockDatasetRepository(ctrl)
	service := newReloadService(mockLoader, mockRepo)

	tests := []struct {
		name     string
		setup    func()
		validate func(t *testing.T, dataset *domain.Dataset, err error)
	}{
		{
			name: "carga com sucesso publica novo dataset com id",
			setup: func() {
				mockLoader.EXPECT().
					Load(gomock.Any()).
					Return(&domain.Dataset{Pledges: []domain.Pledge{{ID: "P1"}}}, nil)

				mockRepo.EXPECT().
					Swap(gomock.Any()).
					DoAndReturn(func(dataset *domain.Dataset) *domain.Dataset {
						assert.Len(t, dataset.ID, 8)
						assert.False(t, dataset.LoadedAt.IsZero())
						return &domain.Dataset{ID: "old"}
					})
			},
			validate: func(t *testing.T, dataset *domain.Dataset, err error) {
				require.NoError(t, err)
				assert.Len(t, dataset.Pledges, 1)
				assert.Equal(t, "", service.GetStatus()["last_sync_error"])
			},
		},
		{
			name: "falha estrutural mantém o dataset anterior",
			setup: func() {
				mockLoader.EXPECT().
					Load(gomock.Any()).
					Return(nil, &csvsource.MissingFileError{File: "CSV/Pledge.csv"})
				// Swap não deve ser chamado
			},
			validate: func(t *testing.T, dataset *domain.Dataset, err error) {
				assert.Nil(t, dataset)
				assert.ErrorIs(t, err, csvsource.ErrMissingFile)

				status := service.GetStatus()
				assert.Contains(t, status["last_sync_error"], "CSV/Pledge.csv")
				assert.Equal(t, false, status["sync_running"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			dataset, err := service.Reload(context.Background())
			tt.validate(t, dataset, err)
		})
	}
}

func TestDataReloadService_Coalescing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLoader := csvmocks.NewMockLoader(ctrl)
	mockRepo := mocks.NewMockDatasetRepository(ctrl)
	service := newReloadService(mockLoader, mockRepo)

	release := make(chan struct{})
	done := make(chan struct{})

	mockLoader.EXPECT().
		Load(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (*domain.Dataset, error) {
			<-release
			return &domain.Dataset{}, nil
		}).
		Times(1)
	mockRepo.EXPECT().
		Swap(gomock.Any()).
		DoAndReturn(func(dataset *domain.Dataset) *domain.Dataset {
			close(done)
			return nil
		})

	assert.True(t, service.TriggerManualSync())

	require.Eventually(t, func() bool {
		return service.GetStatus()["sync_running"] == true
	}, time.Second, 5*time.Millisecond)

	assert.False(t, service.TriggerManualSync())
	_, err := service.Reload(context.Background())
	assert.True(t, errors.Is(err, ErrReloadInProgress))

	close(release)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("recarga manual não concluiu")
	}

	require.Eventually(t, func() bool {
		return service.GetStatus()["sync_running"] == false
	}, time.Second, 5*time.Millisecond)
}

func TestDataReloadService_StartDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := newReloadService(csvmocks.NewMockLoader(ctrl), mocks.NewMockDatasetRepository(ctrl))

	assert.NoError(t, service.Start(context.Background()))
	assert.Equal(t, false, service.GetStatus()["sync_enabled"])
}
