package main

import (
	"context"
	"testing"

	"courseapp/internal/config"
	"courseapp/internal/pubsub"
)

func TestNewPublisherWithoutTopic(t *testing.T) {
	p, err := newPublisher(context.Background(), &config.Config{})
	if err != nil {
		t.Fatalf("newPublisher: %v", err)
	}
	if _, ok := p.(pubsub.NoopPublisher); !ok {
		t.Fatalf("expected NoopPublisher, got %T", p)
	}
}

func TestNewPublisherRequiresProject(t *testing.T) {
	if _, err := newPublisher(context.Background(), &config.Config{PubSubRegistrationTopic: "registration-created"}); err == nil {
		t.Fatal("expected error without a GCP project")
	}
}
