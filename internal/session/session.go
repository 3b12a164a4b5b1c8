// Package session holds the process-wide MCP session state negotiated by
// initialize and changed by logging/setLevel.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LogLevels are the accepted logging/setLevel values, most verbose first
var LogLevels = []string{"debug", "info", "notice", "warning", "error", "critical", "alert", "emergency"}

// DefaultLogLevel is the level before any logging/setLevel call
const DefaultLogLevel = "info"

// ErrInvalidLogLevel is returned for a level outside LogLevels
var ErrInvalidLogLevel = errors.New("invalid log level")

// ValidLogLevel reports whether level is one of LogLevels. The match is
// case-sensitive.
func ValidLogLevel(level string) bool {
	for _, l := range LogLevels {
		if l == level {
			return true
		}
	}
	return false
}

// ClientInfo identifies the connected client
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Subscription records a resources/subscribe call
type Subscription struct {
	ID        string    `json:"subscription_id"`
	URI       string    `json:"uri"`
	CreatedAt time.Time `json:"created_at"`
}

// State is shared by every request handled by the process
type State struct {
	ID        string
	CreatedAt time.Time

	mu              sync.RWMutex
	protocolVersion string
	clientInfo      ClientInfo
	capabilities    map[string]interface{}
	initialized     bool
	logLevel        string
	subscriptions   map[string]Subscription
}

// NewState creates the state with the default log level
func NewState() *State {
	return &State{
		ID:            uuid.NewString(),
		CreatedAt:     time.Now(),
		capabilities:  make(map[string]interface{}),
		logLevel:      DefaultLogLevel,
		subscriptions: make(map[string]Subscription),
	}
}

// Initialize records what the client sent in initialize. A repeated
// initialize overwrites the previous values.
func (s *State) Initialize(protocolVersion string, client ClientInfo, capabilities map[string]interface{}) {
	caps := make(map[string]interface{}, len(capabilities))
	for k, v := range capabilities {
		caps[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.protocolVersion = protocolVersion
	s.clientInfo = client
	s.capabilities = caps
}

// MarkInitialized records the client's initialized notification
func (s *State) MarkInitialized() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
}

// IsInitialized returns whether the client acknowledged initialization
func (s *State) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// ProtocolVersion returns the version the client asked for
func (s *State) ProtocolVersion() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.protocolVersion
}

// ClientInfo returns the client identification
func (s *State) ClientInfo() ClientInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientInfo
}

// Capability gets a client capability
func (s *State) Capability(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.capabilities[key]
	return val, ok
}

// LogLevel returns the current MCP log level
func (s *State) LogLevel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logLevel
}

// SetLogLevel replaces the log level. The last writer wins.
func (s *State) SetLogLevel(level string) error {
	if !ValidLogLevel(level) {
		return ErrInvalidLogLevel
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logLevel = level
	return nil
}

// Subscribe records a subscription to uri and returns it
func (s *State) Subscribe(uri string) Subscription {
	sub := Subscription{
		ID:        uuid.NewString(),
		URI:       uri,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptions[sub.ID] = sub
	return sub
}

// Subscriptions returns the recorded subscriptions
func (s *State) Subscriptions() []Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Subscription, 0, len(s.subscriptions))
	for _, sub := range s.subscriptions {
		result = append(result, sub)
	}
	return result
}
