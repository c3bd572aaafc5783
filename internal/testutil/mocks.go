// Package testutil provides test doubles and filesystem helpers shared by the
// specific-grep test suites.
package testutil

import (
	"github.com/stackvity/specific-grep/pkg/grep"
	"github.com/stretchr/testify/mock"
)

// MockHooks provides a mock implementation of the grep.Hooks interface.
// Configure expectations using testify/mock methods (e.g., .On("OnFileFailed", ...).Return(...)).
// mock.Mock is itself safe for the concurrent calls made from worker goroutines.
type MockHooks struct {
	mock.Mock
}

// OnFileDiscovered mocks the OnFileDiscovered method.
func (m *MockHooks) OnFileDiscovered(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

// OnFileFailed mocks the OnFileFailed method.
func (m *MockHooks) OnFileFailed(workerID int, failure grep.FileFailure) error {
	args := m.Called(workerID, failure)
	return args.Error(0)
}

// OnWorkerComplete mocks the OnWorkerComplete method.
func (m *MockHooks) OnWorkerComplete(outcome grep.WorkerOutcome) error {
	args := m.Called(outcome)
	return args.Error(0)
}

// OnRunComplete mocks the OnRunComplete method.
func (m *MockHooks) OnRunComplete(result grep.CombinedResult) error {
	args := m.Called(result)
	return args.Error(0)
}

// MockChunkSearcher provides a mock implementation of grep.ChunkSearcher.
// Return a grep.WorkerOutcome (not a pointer) from the expectation.
type MockChunkSearcher struct {
	mock.Mock
}

// SearchChunk mocks the SearchChunk method.
func (m *MockChunkSearcher) SearchChunk(chunk []grep.FileRecord) (grep.WorkerOutcome, error) {
	args := m.Called(chunk)
	outcome, _ := args.Get(0).(grep.WorkerOutcome) // zero value if the test returned nil
	return outcome, args.Error(1)
}
