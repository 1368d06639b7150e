package repository

import (
	"sync/atomic"

	"github.com/oftw/impact-dashboard-api/internal/domain"
)

// DatasetRepository guarda a geração atual do dataset. Leitores recebem um snapshot imutável;
// uma recarga substitui o dataset inteiro.
type DatasetRepository interface {
	Current() *domain.Dataset
	Swap(dataset *domain.Dataset) *domain.Dataset
}

type datasetRepository struct {
	current atomic.Pointer[domain.Dataset]
}

func NewDatasetRepository() DatasetRepository {
	return &datasetRepository{}
}

// Current retorna nil enquanto nenhuma carga foi concluída
func (r *datasetRepository) Current() *domain.Dataset {
	return r.current.Load()
}

// Swap publica o novo dataset e retorna o anterior
func (r *datasetRepository) Swap(dataset *domain.Dataset) *domain.Dataset {
	return r.current.Swap(dataset)
}
