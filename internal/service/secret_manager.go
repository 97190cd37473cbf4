package service

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// SecretManagerService reads configuration secrets
type SecretManagerService interface {
	AccessSecret(ctx context.Context, name string) (string, error)
	Close() error
}

type secretManagerService struct {
	client    *secretmanager.Client
	projectID string
}

// NewSecretManagerService creates a Secret Manager backed SecretManagerService
func NewSecretManagerService(ctx context.Context, projectID string) (SecretManagerService, error) {
	if projectID == "" {
		return nil, fmt.Errorf("GCP Project ID is not set")
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}

	return &secretManagerService{
		client:    client,
		projectID: projectID,
	}, nil
}

// secretVersionName expands a short secret name to its latest version resource name.
// Full resource names are used as given.
func secretVersionName(projectID, name string) string {
	if strings.HasPrefix(name, "projects/") {
		if strings.Contains(name, "/versions/") {
			return name
		}
		return name + "/versions/latest"
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, name)
}

func (s *secretManagerService) AccessSecret(ctx context.Context, name string) (string, error) {
	req := &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretVersionName(s.projectID, name),
	}

	result, err := s.client.AccessSecretVersion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to access secret version: %w", err)
	}

	return strings.TrimSpace(string(result.Payload.Data)), nil
}

func (s *secretManagerService) Close() error {
	return s.client.Close()
}

// ResolveAdminCredentials returns the configured admin password, reading it from
// Secret Manager when secretName is set.
func ResolveAdminCredentials(ctx context.Context, username, password, secretName string, secrets SecretManagerService) (AdminCredentials, error) {
	creds := AdminCredentials{Username: username, Password: password}
	if secretName == "" {
		return creds, nil
	}
	if secrets == nil {
		return creds, fmt.Errorf("admin password secret %q configured without a secret manager", secretName)
	}
	value, err := secrets.AccessSecret(ctx, secretName)
	if err != nil {
		return creds, fmt.Errorf("resolving admin password: %w", err)
	}
	if value == "" {
		return creds, fmt.Errorf("admin password secret %q is empty", secretName)
	}
	creds.Password = value
	return creds, nil
}
