package mocks

import "github.com/caresync/authsvc/domain"

// MockMailer implements domain.Mailer for testing
type MockMailer struct {
	SendVerificationCodeFunc  func(to, name, code string) error
	SendPasswordResetCodeFunc func(to, name, code string) error
	SendCredentialsFunc       func(to, name, password string) error
}

// NewMockMailer creates a new MockMailer with default behaviors
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) SendVerificationCode(to, name, code string) error {
	if m.SendVerificationCodeFunc != nil {
		return m.SendVerificationCodeFunc(to, name, code)
	}
	return nil
}

func (m *MockMailer) SendPasswordResetCode(to, name, code string) error {
	if m.SendPasswordResetCodeFunc != nil {
		return m.SendPasswordResetCodeFunc(to, name, code)
	}
	return nil
}

func (m *MockMailer) SendCredentials(to, name, password string) error {
	if m.SendCredentialsFunc != nil {
		return m.SendCredentialsFunc(to, name, password)
	}
	return nil
}

// MockSMSSender implements domain.SMSSender for testing
type MockSMSSender struct {
	SendFunc func(to, message string) error
}

// NewMockSMSSender creates a new MockSMSSender with default behaviors
func NewMockSMSSender() *MockSMSSender {
	return &MockSMSSender{}
}

func (m *MockSMSSender) Send(to, message string) error {
	if m.SendFunc != nil {
		return m.SendFunc(to, message)
	}
	return nil
}

// Compile-time interface compliance verification
var (
	_ domain.Mailer    = (*MockMailer)(nil)
	_ domain.SMSSender = (*MockSMSSender)(nil)
)
