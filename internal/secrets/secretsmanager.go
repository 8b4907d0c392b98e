// Package secrets fetches the leaderboard admin credential from AWS Secrets
// Manager. Every call goes to the remote service; nothing is cached so a
// rotated secret takes effect without a restart.
package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// versionStage selects the live version of the secret.
const versionStage = "AWSCURRENT"

var (
	// ErrSecretStringMissing is returned when the secret has no string payload
	// (for example a binary-only secret).
	ErrSecretStringMissing = errors.New("secret not found in SecretString")
	// ErrAdminPasswordMissing is returned when the payload lacks adminPassword.
	ErrAdminPasswordMissing = errors.New("adminPassword missing from secret")
)

// SecretsManagerAPI is the subset of the Secrets Manager client used here.
type SecretsManagerAPI interface {
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerProvider reads the admin password from a JSON secret of the
// form {"adminPassword": "..."}.
type SecretsManagerProvider struct {
	// Client performs the remote calls.
	Client SecretsManagerAPI
	// SecretID is the name or ARN of the secret.
	SecretID string
}

// NewSecretsManagerProvider builds a provider using the default AWS
// credential chain (environment, shared config, ECS task role, IMDS) for
// the given region. SDK retries are disabled.
func NewSecretsManagerProvider(ctx context.Context, region, secretID string) (*SecretsManagerProvider, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithRetryMaxAttempts(1),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SecretsManagerProvider{
		Client:   secretsmanager.NewFromConfig(cfg),
		SecretID: secretID,
	}, nil
}

// FetchAdminPassword retrieves the current admin password.
func (p *SecretsManagerProvider) FetchAdminPassword(ctx context.Context) (string, error) {
	out, err := p.Client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(p.SecretID),
		VersionStage: aws.String(versionStage),
	})
	if err != nil {
		return "", fmt.Errorf("get secret value: %w", err)
	}
	if out.SecretString == nil {
		return "", ErrSecretStringMissing
	}

	var payload struct {
		AdminPassword string `json:"adminPassword"`
	}
	if err := json.Unmarshal([]byte(*out.SecretString), &payload); err != nil {
		return "", fmt.Errorf("decode secret: %w", err)
	}
	if payload.AdminPassword == "" {
		return "", ErrAdminPasswordMissing
	}
	return payload.AdminPassword, nil
}
