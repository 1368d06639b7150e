package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

// captureLogger direciona o logger global para um buffer em formato JSON
func captureLogger(t *testing.T) *bytes.Buffer {
	buf := &bytes.Buffer{}
	original := L
	t.Cleanup(func() { L = original })

	base := logrus.New()
	base.SetOutput(buf)
	base.SetFormatter(&logrus.JSONFormatter{})
	base.SetLevel(logrus.DebugLevel)
	L = &logger{entry: logrus.NewEntry(base)}

	return buf
}

func TestForContext(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		setup    func() context.Context
		fields   Fields
		validate func(t *testing.T, output string)
	}{
		{
			name: "ids de correlação e de dataset",
			env:  "production",
			setup: func() context.Context {
				ctx, _ := WithCorrelationID(context.Background())
				return WithDatasetID(ctx, "abc12345")
			},
			validate: func(t *testing.T, output string) {
				assert.Contains(t, output, `"correlation_id"`)
				assert.Contains(t, output, `"dataset_id":"abc12345"`)
			},
		},
		{
			name:   "desenvolvimento filtra campos irrelevantes",
			env:    "development",
			setup:  context.Background,
			fields: Fields{"user_agent": "curl", "dataset_period": "FY2023-2024", "status_code": 200},
			validate: func(t *testing.T, output string) {
				assert.NotContains(t, output, "user_agent")
				assert.Contains(t, output, `"dataset_period":"FY2023-2024"`)
				assert.Contains(t, output, `"status_code":200`)
			},
		},
		{
			name:   "produção mantém todos os campos",
			env:    "production",
			setup:  context.Background,
			fields: Fields{"user_agent": "curl"},
			validate: func(t *testing.T, output string) {
				assert.Contains(t, output, `"user_agent":"curl"`)
				assert.NotContains(t, output, "correlation_id")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", tt.env)
			buf := captureLogger(t)

			logger := ForContext(tt.setup())
			if tt.fields != nil {
				logger = logger.WithFields(tt.fields)
			}
			logger.Info("mensagem")

			tt.validate(t, buf.String())
		})
	}
}

func TestGetCorrelationID(t *testing.T) {
	ctx, correlationID := WithCorrelationID(context.Background())

	assert.NotEmpty(t, correlationID)
	assert.Equal(t, correlationID, GetCorrelationID(ctx))
	assert.Empty(t, GetCorrelationID(context.Background()))
}
