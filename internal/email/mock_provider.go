package email

import (
	"log/slog"
	"sync"
)

// SentVerification - записанное MockProvider письмо подтверждения
type SentVerification struct {
	To              string
	Username        string
	VerificationURL string
}

// MockProvider используется для тестов и локальной разработки.
// Письма не отправляются, а пишутся в лог и сохраняются в памяти.
type MockProvider struct {
	mu            sync.Mutex
	Sent          []*Email
	Verifications []SentVerification
	// Err, если задан, возвращается из всех методов отправки
	Err error
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Send(email *Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, email)
	slog.Debug("mock email sent", "to", email.To, "subject", email.Subject)
	return nil
}

func (m *MockProvider) SendVerification(to, username, verificationURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Verifications = append(m.Verifications, SentVerification{To: to, Username: username, VerificationURL: verificationURL})
	slog.Info("mock verification email", "to", to, "url", verificationURL)
	return nil
}

func (m *MockProvider) Validate() error { return nil }

// LastVerification возвращает последнее письмо подтверждения
func (m *MockProvider) LastVerification() (SentVerification, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Verifications) == 0 {
		return SentVerification{}, false
	}
	return m.Verifications[len(m.Verifications)-1], true
}
