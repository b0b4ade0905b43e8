package ui

import "github.com/stretchr/testify/mock"

type MockPrompter struct {
	mock.Mock
}

func (m *MockPrompter) SelectAction(critical bool) (Action, error) {
	args := m.Called(critical)
	return args.Get(0).(Action), args.Error(1)
}

func (m *MockPrompter) Confirm(question string) (bool, error) {
	args := m.Called(question)
	return args.Bool(0), args.Error(1)
}

func (m *MockPrompter) Edit(message string) (string, error) {
	args := m.Called(message)
	return args.String(0), args.Error(1)
}
