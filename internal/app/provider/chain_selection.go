package provider

import (
	"sync"

	"cca_wallet/internal/app/port"
)

// SwitchHook runs after the selected chain changes.
type SwitchHook func(prev, next string)

// ChainSelector holds the chain the user currently has selected. Callers read
// it once per operation and pass the id down explicitly.
type ChainSelector struct {
	mu      sync.RWMutex
	current string
	hooks   []SwitchHook
	logger  port.Logger
}

// NewChainSelector creates a selector starting at initial.
func NewChainSelector(initial string, logger port.Logger) *ChainSelector {
	return &ChainSelector{current: initial, logger: logger}
}

// Current returns the selected chain id.
func (s *ChainSelector) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// OnSwitch registers hook to run on every change of selection.
func (s *ChainSelector) OnSwitch(hook SwitchHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Select replaces the selected chain. Hooks run in registration order after
// the new value is visible, and only when the value actually changed.
func (s *ChainSelector) Select(chainID string) {
	s.mu.Lock()
	prev := s.current
	if prev == chainID {
		s.mu.Unlock()
		return
	}
	s.current = chainID
	hooks := make([]SwitchHook, len(s.hooks))
	copy(hooks, s.hooks)
	s.mu.Unlock()

	s.logger.Info("Selected chain changed", "from", prev, "to", chainID)
	for _, hook := range hooks {
		hook(prev, chainID)
	}
}
