package guard

import (
	"errors"
	"sync"
)

var ErrEmptyPath = errors.New("navigator: empty path")

// Navigator is the navigation surface the guard drives.
type Navigator interface {
	Current() string
	// Replace swaps the stack root for path so that going back cannot return
	// to the screen being left.
	Replace(path string) error
}

// StackNavigator is an in-memory navigation stack.
type StackNavigator struct {
	mu    sync.Mutex
	stack []string
}

func NewStackNavigator(initial string) *StackNavigator {
	return &StackNavigator{stack: []string{initial}}
}

func (n *StackNavigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.stack) == 0 {
		return ""
	}
	return n.stack[len(n.stack)-1]
}

func (n *StackNavigator) Push(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stack = append(n.stack, path)
	return nil
}

// Back pops the top screen. It returns false when already at the root.
func (n *StackNavigator) Back() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.stack) <= 1 {
		return false
	}
	n.stack = n.stack[:len(n.stack)-1]
	return true
}

func (n *StackNavigator) Replace(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stack = []string{path}
	return nil
}

// Depth returns the number of screens on the stack.
func (n *StackNavigator) Depth() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.stack)
}
