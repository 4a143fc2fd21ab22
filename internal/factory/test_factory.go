package factory

import (
	"time"

	"github.com/bastiongames/bastion/internal/dependencies/mocks"
	"github.com/bastiongames/bastion/internal/services/access"
	"github.com/bastiongames/bastion/internal/services/token"
	"github.com/bastiongames/bastion/internal/storage/memory"
	"github.com/bastiongames/bastion/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
// and in-memory storage
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	cfg := Config{
		TokenConfig: token.Config{
			Secret:         "test-secret",
			Issuer:         "bastion",
			Audience:       "bastion-client",
			AccessTokenTTL: time.Hour,
		},
		Admin: access.AdminConfig{
			Username: "admin",
			Email:    "admin@example.com",
			Password: "admin-password",
		},
	}

	app := newWithDependencies(store, mockClock, mockRandom, cfg, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
