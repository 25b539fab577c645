package core

import (
	"strconv"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"
)

// MockRandomSource is a testify mock of core.RandomSource
type MockRandomSource struct {
	mock.Mock
}

// NewMockRandomSource creates a mock and asserts its expectations on cleanup
func NewMockRandomSource(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRandomSource {
	m := &MockRandomSource{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRandomSource) Digits(n int) (string, error) {
	args := m.Called(n)
	return args.String(0), args.Error(1)
}

func (m *MockRandomSource) Hex(n int) (string, error) {
	args := m.Called(n)
	return args.String(0), args.Error(1)
}

// SequenceRandomSource hands out digits from a counter so every draw differs
type SequenceRandomSource struct {
	mu   sync.Mutex
	next int
}

func (s *SequenceRandomSource) Digits(n int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	out := strings.Repeat("0", n) + strconv.Itoa(s.next)
	return out[len(out)-n:], nil
}

func (s *SequenceRandomSource) Hex(n int) (string, error) {
	d, _ := s.Digits(n * 2)
	return d, nil
}
