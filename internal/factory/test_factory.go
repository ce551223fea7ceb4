package factory

import (
	"time"

	"github.com/mcoot/mahjonggame-go/internal/dependencies/mocks"
	"github.com/mcoot/mahjonggame-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom

	// Recorder sees every delivered event
	Recorder *testutil.EventRecorder
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// With no queued random values the deck is dealt unshuffled.
func NewTestApp() *TestApp {
	return NewTestAppWithConfig(Config{})
}

// NewTestAppWithConfig is NewTestApp with explicit factory settings
func NewTestAppWithConfig(cfg Config) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	recorder := testutil.NewEventRecorder()

	app, err := newWithDependencies(mockClock, mockRandom, cfg, recorder)
	if err != nil {
		panic(err)
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Recorder:   recorder,
	}
}
