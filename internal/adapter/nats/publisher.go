package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/config"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/entity"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	UserOTPRequestedSubject = "user.otp_requested"
	UserVerifiedSubject     = "user.verified"
	PostCreatedSubject      = "post.created"
	PostUpdatedSubject      = "post.updated"
	PostDeletedSubject      = "post.deleted"
)

// Event is the envelope every message is wrapped in.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// UserEventPayload never carries the password hash or the code itself.
type UserEventPayload struct {
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type DeletedEventPayload struct {
	ID string `json:"id"`
}

type conn interface {
	Publish(subject string, data []byte) error
}

type Publisher struct {
	nc     *nats.Conn
	pub    conn
	logger *zap.Logger
	now    func() time.Time
}

func NewNATSPublisher(cfg *config.NATSConfig, logger *zap.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.Timeout(cfg.ConnectTimeout),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			subject := ""
			if sub != nil {
				subject = sub.Subject
			}
			logger.Error("NATS error", zap.String("subject", subject), zap.Error(err))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Info("Successfully connected to NATS", zap.String("url", nc.ConnectedUrl()))

	return &Publisher{nc: nc, pub: nc, logger: logger.Named("NATSPublisher"), now: time.Now}, nil
}

func (p *Publisher) publish(subject, key string, data any) error {
	event := Event{
		ID:         uuid.NewString(),
		Type:       subject,
		OccurredAt: p.now().UTC(),
		Data:       data,
	}
	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event", zap.String("subject", subject), zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to marshal event for %s: %w", subject, err)
	}

	if err := p.pub.Publish(subject, body); err != nil {
		p.logger.Error("Failed to publish NATS message", zap.String("subject", subject), zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to publish NATS message for %s: %w", subject, err)
	}
	p.logger.Info("Published NATS message",
		zap.String("subject", subject),
		zap.String("event_id", event.ID),
		zap.String("key", key),
	)
	return nil
}

func userPayload(u *entity.User) UserEventPayload {
	return UserEventPayload{UserID: u.ID, Username: u.Username, Email: u.Email}
}

func (p *Publisher) PublishUserOTPRequested(ctx context.Context, user *entity.User) error {
	return p.publish(UserOTPRequestedSubject, user.Email, userPayload(user))
}

func (p *Publisher) PublishUserVerified(ctx context.Context, user *entity.User) error {
	return p.publish(UserVerifiedSubject, user.Email, userPayload(user))
}

func (p *Publisher) PublishPostCreated(ctx context.Context, post *entity.Post) error {
	return p.publish(PostCreatedSubject, post.ID, post)
}

func (p *Publisher) PublishPostUpdated(ctx context.Context, post *entity.Post) error {
	return p.publish(PostUpdatedSubject, post.ID, post)
}

func (p *Publisher) PublishPostDeleted(ctx context.Context, postID string) error {
	return p.publish(PostDeletedSubject, postID, DeletedEventPayload{ID: postID})
}

func (p *Publisher) Close() {
	if p.nc != nil && !p.nc.IsClosed() {
		if err := p.nc.Drain(); err != nil {
			p.logger.Error("Error draining NATS connection", zap.Error(err))
		}
		p.nc.Close()
		p.logger.Info("NATS publisher connection closed")
	}
}
