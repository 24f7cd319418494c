package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coderharsx1122/utube-backend/internal/domain"
	pkgkafka "github.com/coderharsx1122/utube-backend/pkg/kafka"
)

// Kafka topics for account domain events.
const (
	TopicAccountRegistered = "utube.account.registered"
	TopicAccountLoggedIn   = "utube.account.logged_in"
)

const (
	aggregateTypeAccount = "account"
	sourceAccountService = "account-service"
)

// AccountRegisteredData is the payload for an account.registered event.
type AccountRegisteredData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// AccountLoggedInData is the payload for an account.logged_in event.
type AccountLoggedInData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Producer publishes account domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the account service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

// PublishAccountRegistered publishes an account.registered event.
func (p *Producer) PublishAccountRegistered(ctx context.Context, user *domain.User) error {
	data := AccountRegisteredData{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
	}

	event, err := pkgkafka.NewEvent(TopicAccountRegistered, user.ID, aggregateTypeAccount, sourceAccountService, data)
	if err != nil {
		return fmt.Errorf("create account.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicAccountRegistered, event); err != nil {
		return fmt.Errorf("publish account.registered event: %w", err)
	}
	return nil
}

// PublishAccountLoggedIn publishes an account.logged_in event.
func (p *Producer) PublishAccountLoggedIn(ctx context.Context, user *domain.User) error {
	data := AccountLoggedInData{
		ID:       user.ID,
		Username: user.Username,
	}

	event, err := pkgkafka.NewEvent(TopicAccountLoggedIn, user.ID, aggregateTypeAccount, sourceAccountService, data)
	if err != nil {
		return fmt.Errorf("create account.logged_in event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicAccountLoggedIn, event); err != nil {
		return fmt.Errorf("publish account.logged_in event: %w", err)
	}
	return nil
}
