package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// FirebaseProvider signs users up and in with Firebase email/password
// accounts through the Identity Toolkit relying-party API.
type FirebaseProvider struct {
	svc *identitytoolkit.Service
}

func NewFirebaseProvider(ctx context.Context, apiKey string, opts ...option.ClientOption) (*FirebaseProvider, error) {
	if apiKey != "" {
		opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	}
	svc, err := identitytoolkit.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating identity toolkit service: %w", err)
	}
	return &FirebaseProvider{svc: svc}, nil
}

func (p *FirebaseProvider) Name() string {
	return ProviderFirebase
}

func (p *FirebaseProvider) SignUp(ctx context.Context, email, password string) (User, error) {
	resp, err := p.svc.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    NormalizeEmail(email),
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		return User{}, mapFirebaseError(err)
	}
	return User{
		ID:          resp.LocalId,
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
		Provider:    ProviderFirebase,
	}, nil
}

func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (User, error) {
	resp, err := p.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             NormalizeEmail(email),
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return User{}, mapFirebaseError(err)
	}
	return User{
		ID:          resp.LocalId,
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
		Provider:    ProviderFirebase,
	}, nil
}

// Error codes come back as the message, sometimes followed by " : detail".
func mapFirebaseError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}
	code, _, _ := strings.Cut(apiErr.Message, " ")
	switch code {
	case "EMAIL_EXISTS":
		return fmt.Errorf("%w: %s", ErrEmailTaken, apiErr.Message)
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED", "MISSING_PASSWORD":
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, apiErr.Message)
	case "WEAK_PASSWORD":
		return fmt.Errorf("%w: %s", ErrWeakPassword, apiErr.Message)
	case "INVALID_EMAIL", "MISSING_EMAIL":
		return fmt.Errorf("%w: %s", ErrInvalidEmail, apiErr.Message)
	}
	return fmt.Errorf("%w: %v", ErrProviderFailure, err)
}
