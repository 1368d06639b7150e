package reporting

import "errors"

var (
	ErrDatasetNotLoaded = errors.New("dataset not loaded")
	ErrMetricNotFound   = errors.New("metric not found")
)
