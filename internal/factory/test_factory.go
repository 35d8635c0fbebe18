package factory

import (
	"time"

	"clickarena/internal/dependencies/mocks"
	"clickarena/internal/services/token"
	"clickarena/internal/storage/memory"
	"clickarena/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	tokenCfg := token.DefaultConfig()
	tokenCfg.Secret = []byte("test-secret")

	app := newWithDependencies(store, mockClock, tokenCfg, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}
