package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"points-leaderboard/internal/config"
	"points-leaderboard/internal/domain"
	"points-leaderboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Gateway fronts the service with Kafka request/reply. Each request
// carries a correlation ID; the reply poller routes responses back to
// the waiting caller.
type Gateway struct {
	client      *kgo.Client
	cfg         *config.Config
	pendingResp sync.Map
}

func NewGateway(cfg *config.Config, client *kgo.Client) *Gateway {
	return &Gateway{
		client: client,
		cfg:    cfg,
	}
}

func (g *Gateway) AddUser(ctx context.Context, name string) (*domain.User, error) {
	req := RequestPayload{
		SchemaVersion: 1,
		CorrelationID: uuid.New().String(),
		ReplyTo:       fmt.Sprintf("%s%s", TopicReplyPrefix, g.cfg.KafkaInstanceID),
		Name:          name,
	}

	resp, err := g.requestReply(ctx, TopicUserCreateRequest, []byte(name), req)
	if err != nil {
		return nil, err
	}
	if resp.Status == StatusError {
		return nil, g.mapError(resp.ErrorCode, resp.ErrorMessage)
	}
	return toDomainUser(resp.User), nil
}

func (g *Gateway) ClaimPoints(ctx context.Context, userID string) (*domain.User, int, error) {
	req := RequestPayload{
		SchemaVersion: 1,
		CorrelationID: uuid.New().String(),
		ReplyTo:       fmt.Sprintf("%s%s", TopicReplyPrefix, g.cfg.KafkaInstanceID),
		UserID:        userID,
	}

	// Keyed by userID so claims for one user land on one partition.
	resp, err := g.requestReply(ctx, TopicClaimRequest, []byte(userID), req)
	if err != nil {
		return nil, 0, err
	}
	if resp.Status == StatusError {
		return nil, 0, g.mapError(resp.ErrorCode, resp.ErrorMessage)
	}
	return toDomainUser(resp.User), resp.AwardedPoints, nil
}

func (g *Gateway) Rankings(ctx context.Context) ([]domain.User, error) {
	req := RequestPayload{
		SchemaVersion: 1,
		CorrelationID: uuid.New().String(),
		ReplyTo:       fmt.Sprintf("%s%s", TopicReplyPrefix, g.cfg.KafkaInstanceID),
	}

	resp, err := g.requestReply(ctx, TopicRankingsRequest, nil, req)
	if err != nil {
		return nil, err
	}
	if resp.Status == StatusError {
		return nil, g.mapError(resp.ErrorCode, resp.ErrorMessage)
	}

	users := make([]domain.User, 0, len(resp.Users))
	for i := range resp.Users {
		users = append(users, *toDomainUser(&resp.Users[i]))
	}
	return users, nil
}

func (g *Gateway) RecentClaims(ctx context.Context) ([]domain.ClaimEntry, error) {
	req := RequestPayload{
		SchemaVersion: 1,
		CorrelationID: uuid.New().String(),
		ReplyTo:       fmt.Sprintf("%s%s", TopicReplyPrefix, g.cfg.KafkaInstanceID),
	}

	resp, err := g.requestReply(ctx, TopicHistoryRequest, nil, req)
	if err != nil {
		return nil, err
	}
	if resp.Status == StatusError {
		return nil, g.mapError(resp.ErrorCode, resp.ErrorMessage)
	}

	claims := make([]domain.ClaimEntry, 0, len(resp.Claims))
	for _, c := range resp.Claims {
		claims = append(claims, domain.ClaimEntry{
			UserID:    c.UserID,
			UserName:  c.UserName,
			Points:    c.Points,
			ClaimedAt: c.ClaimedAt,
		})
	}
	return claims, nil
}

func (g *Gateway) requestReply(ctx context.Context, topic string, key []byte, req RequestPayload) (*ResponsePayload, error) {
	respChan := make(chan *ResponsePayload, 1)
	g.pendingResp.Store(req.CorrelationID, respChan)
	defer g.pendingResp.Delete(req.CorrelationID)

	payload, _ := json.Marshal(req)
	record := &kgo.Record{
		Topic: topic,
		Key:   key,
		Value: payload,
	}

	if err := g.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return nil, err
	}

	select {
	case resp := <-respChan:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(RequestTimeout):
		return nil, errors.New("timeout waiting for response")
	}
}

func (g *Gateway) HandleResponse(payload []byte) {
	var resp ResponsePayload
	if err := json.Unmarshal(payload, &resp); err != nil {
		log.Printf("Failed to decode response payload: %v", err)
		return
	}

	if ch, ok := g.pendingResp.Load(resp.CorrelationID); ok {
		ch.(chan *ResponsePayload) <- &resp
		return
	}

	log.Printf("No pending response for correlation ID %s", resp.CorrelationID)
}

func (g *Gateway) mapError(code, message string) error {
	switch code {
	case ErrCodeNotFound:
		return domain.ErrUserNotFound
	case ErrCodeEmptyName:
		return domain.ErrEmptyName
	case ErrCodeInvalidRequest:
		return domain.ErrMissingUserID
	default:
		return errors.New(message)
	}
}

func toDomainUser(u *UserPayload) *domain.User {
	if u == nil {
		return nil
	}
	return &domain.User{
		ID:        u.ID,
		Name:      u.Name,
		Points:    u.Points,
		CreatedAt: u.CreatedAt,
	}
}

var _ usecase.LeaderboardGateway = (*Gateway)(nil)
