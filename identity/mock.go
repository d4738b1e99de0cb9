package identity

import "context"

// MockProvider accepts any credentials. Everyone becomes MockEmail.
type MockProvider struct{}

func (MockProvider) Name() string {
	return ProviderMock
}

func (MockProvider) SignUp(ctx context.Context, email, password string) (User, error) {
	return mockUser(), nil
}

func (MockProvider) SignIn(ctx context.Context, email, password string) (User, error) {
	return mockUser(), nil
}

func mockUser() User {
	return User{
		ID:          "mock",
		Email:       MockEmail,
		DisplayName: "Demo",
		Provider:    ProviderMock,
	}
}
