//go:build integration

package integration

import (
	"os"
	"testing"

	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/config"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-testhelpers"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

var h *testhelpers.TestHelper

// TestMain sets up a single TestHelper for all integration tests in this package.
func TestMain(m *testing.M) {
	utils.InitLogger(config.AppName)

	// Use a dummy testing.T to initialize the helper.
	// We can't use one from a real test since TestMain runs before tests.
	t := &testing.T{}
	h = testhelpers.NewTestHelper(t, config.AppName)

	os.Exit(m.Run())
}
