package kubernetes

import (
	"context"
	"fmt"
	"strings"
)

// MockRunner is a mock implementation of Runner for testing
type MockRunner struct {
	Responses map[string]MockResponse
	Handlers  map[string]MockHandler
	Commands  []MockCommand
}

// MockCommand represents a recorded command execution
type MockCommand struct {
	Name  string
	Args  []string
	Stdin []byte
}

// MockResponse represents a mock response for a command
type MockResponse struct {
	Error    error
	Stdout   string
	Stderr   string
	ExitCode int
}

// MockHandler computes a response from the recorded command
type MockHandler func(cmd MockCommand) MockResponse

// NewMockRunner creates a new MockRunner
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Commands:  []MockCommand{},
		Responses: make(map[string]MockResponse),
		Handlers:  make(map[string]MockHandler),
	}
}

// Run records the command and returns the response of the longest matching prefix
func (m *MockRunner) Run(ctx context.Context, name string, args []string, stdin []byte) (Result, error) {
	cmd := MockCommand{
		Name:  name,
		Args:  append([]string(nil), args...),
		Stdin: append([]byte(nil), stdin...),
	}
	m.Commands = append(m.Commands, cmd)

	cmdStr := strings.Join(append([]string{name}, args...), " ")

	var response MockResponse
	best := -1
	for prefix, r := range m.Responses {
		if strings.HasPrefix(cmdStr, prefix) && len(prefix) > best {
			response, best = r, len(prefix)
		}
	}
	for prefix, h := range m.Handlers {
		if strings.HasPrefix(cmdStr, prefix) && len(prefix) > best {
			response, best = h(cmd), len(prefix)
		}
	}

	result := Result{
		Stdout:   []byte(response.Stdout),
		Stderr:   []byte(response.Stderr),
		ExitCode: response.ExitCode,
	}

	if response.Error != nil || response.ExitCode != 0 {
		err := response.Error
		if err == nil {
			err = fmt.Errorf("exit status %d", response.ExitCode)
		}
		return result, &CommandError{
			Command:  append([]string{name}, args...),
			Stderr:   response.Stderr,
			ExitCode: response.ExitCode,
			Err:      err,
		}
	}

	// Default success
	return result, nil
}

// SetResponse configures a mock response for commands starting with prefix
func (m *MockRunner) SetResponse(prefix, stdout, stderr string, exitCode int) {
	m.Responses[prefix] = MockResponse{
		Stdout:   stdout,
		Stderr:   stderr,
		ExitCode: exitCode,
	}
}

// SetHandler configures a dynamic response for commands starting with prefix
func (m *MockRunner) SetHandler(prefix string, h MockHandler) {
	m.Handlers[prefix] = h
}

// GetCommands returns all executed commands (for assertions)
func (m *MockRunner) GetCommands() []MockCommand {
	return m.Commands
}

// Reset clears all recorded commands and responses
func (m *MockRunner) Reset() {
	m.Commands = []MockCommand{}
	m.Responses = make(map[string]MockResponse)
	m.Handlers = make(map[string]MockHandler)
}
