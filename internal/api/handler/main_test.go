package handler

import (
	"os"
	"testing"

	"github.com/oftw/impact-dashboard-api/pkg/log"
)

func TestMain(m *testing.M) {
	log.SetupTestLogger()
	os.Exit(m.Run())
}
