//go:build integration

package integration

import (
	"os"
	"testing"

	"github.com/AndreaCerratoSP/CIAMS/services/auth-service/internal/config"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-testhelpers"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

var h *testhelpers.TestHelper

func TestMain(m *testing.M) {
	utils.InitLogger(config.AppName)

	t := &testing.T{}
	h = testhelpers.NewTestHelper(t, config.AppName)

	os.Exit(m.Run())
}
