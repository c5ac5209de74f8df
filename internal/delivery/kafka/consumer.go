package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"points-leaderboard/internal/config"
	"points-leaderboard/internal/domain"
	"points-leaderboard/internal/repository"
	"points-leaderboard/internal/usecase"

	"github.com/twmb/franz-go/pkg/kgo"
)

type Consumer struct {
	client  *kgo.Client
	cfg     *config.Config
	service *usecase.LeaderboardService
	store   repository.Store
	ready   chan struct{}
}

func NewConsumer(cfg *config.Config, client *kgo.Client, service *usecase.LeaderboardService, store repository.Store) *Consumer {
	return &Consumer{
		client:  client,
		cfg:     cfg,
		service: service,
		store:   store,
		ready:   make(chan struct{}),
	}
}

func (c *Consumer) Start(ctx context.Context) {
	close(c.ready)
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			log.Printf("Consumer poll errors: %v", errs)
		}

		iter := fetches.RecordIter()
		for !iter.Done() {
			record := iter.Next()
			c.processRecord(ctx, record)
		}

		if err := c.client.CommitRecords(ctx, fetches.Records()...); err != nil {
			log.Printf("Failed to commit records: %v", err)
		}
	}
}

func (c *Consumer) StartRetry(ctx context.Context) {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return
		}
		iter := fetches.RecordIter()
		for !iter.Done() {
			record := iter.Next()

			if nextAt, ok := retryNextAt(record); ok && time.Now().Before(nextAt) {
				time.Sleep(time.Until(nextAt))
			}

			mainTopic := strings.TrimSuffix(record.Topic, TopicRetrySuffix) + TopicRequestSuffix
			newRecord := &kgo.Record{
				Topic:   mainTopic,
				Key:     record.Key,
				Value:   record.Value,
				Headers: record.Headers,
			}
			if err := c.client.ProduceSync(ctx, newRecord).FirstErr(); err != nil {
				log.Printf("Failed to requeue retry record: %v", err)
			}
		}
		if err := c.client.CommitRecords(ctx, fetches.Records()...); err != nil {
			log.Printf("Failed to commit retry records: %v", err)
		}
	}
}

func (c *Consumer) Ready() <-chan struct{} {
	return c.ready
}

func (c *Consumer) processRecord(ctx context.Context, record *kgo.Record) {
	switch record.Topic {
	case TopicUserCreateRequest:
		c.handleAddUser(ctx, record)
	case TopicClaimRequest:
		c.handleClaim(ctx, record)
	case TopicRankingsRequest:
		c.handleRankings(ctx, record)
	case TopicHistoryRequest:
		c.handleHistory(ctx, record)
	}
}

func (c *Consumer) handleAddUser(ctx context.Context, record *kgo.Record) {
	var req RequestPayload
	if err := json.Unmarshal(record.Value, &req); err != nil {
		c.sendError(ctx, record, ErrCodeInvalidRequest, "invalid request payload")
		return
	}

	user, err := c.service.AddUser(ctx, req.Name)
	var finalResp *ResponsePayload
	if err != nil {
		errorCode, message := mapDomainError(err)
		finalResp = errorResponse(req.CorrelationID, errorCode, message)
	} else {
		finalResp = successResponse(req.CorrelationID)
		finalResp.User = toUserPayload(user)
	}

	c.sendResponse(ctx, req.ReplyTo, finalResp)
}

func (c *Consumer) handleClaim(ctx context.Context, record *kgo.Record) {
	var req RequestPayload
	if err := json.Unmarshal(record.Value, &req); err != nil {
		c.sendError(ctx, record, ErrCodeInvalidRequest, "invalid request payload")
		return
	}

	user, award, err := c.service.ClaimPoints(ctx, req.UserID)
	var finalResp *ResponsePayload
	if err != nil {
		errorCode, message := mapDomainError(err)
		finalResp = errorResponse(req.CorrelationID, errorCode, message)
	} else {
		finalResp = successResponse(req.CorrelationID)
		finalResp.User = toUserPayload(user)
		finalResp.AwardedPoints = award
	}

	c.sendResponse(ctx, req.ReplyTo, finalResp)
}

func (c *Consumer) handleRankings(ctx context.Context, record *kgo.Record) {
	var req RequestPayload
	if err := json.Unmarshal(record.Value, &req); err != nil {
		c.sendError(ctx, record, ErrCodeInvalidRequest, "invalid request payload")
		return
	}

	users, err := c.service.Rankings(ctx)
	var finalResp *ResponsePayload
	if err != nil {
		errorCode, message := mapDomainError(err)
		finalResp = errorResponse(req.CorrelationID, errorCode, message)
	} else {
		finalResp = successResponse(req.CorrelationID)
		finalResp.Users = make([]UserPayload, 0, len(users))
		for i := range users {
			finalResp.Users = append(finalResp.Users, *toUserPayload(&users[i]))
		}
	}

	c.sendResponse(ctx, req.ReplyTo, finalResp)
}

func (c *Consumer) handleHistory(ctx context.Context, record *kgo.Record) {
	var req RequestPayload
	if err := json.Unmarshal(record.Value, &req); err != nil {
		c.sendError(ctx, record, ErrCodeInvalidRequest, "invalid request payload")
		return
	}

	claims, err := c.service.RecentClaims(ctx)
	var finalResp *ResponsePayload
	if err != nil {
		errorCode, message := mapDomainError(err)
		finalResp = errorResponse(req.CorrelationID, errorCode, message)
	} else {
		finalResp = successResponse(req.CorrelationID)
		finalResp.Claims = make([]ClaimPayload, 0, len(claims))
		for _, cl := range claims {
			finalResp.Claims = append(finalResp.Claims, ClaimPayload{
				UserID:    cl.UserID,
				UserName:  cl.UserName,
				Points:    cl.Points,
				ClaimedAt: cl.ClaimedAt,
			})
		}
	}

	c.sendResponse(ctx, req.ReplyTo, finalResp)
}

func (c *Consumer) sendResponse(ctx context.Context, topic string, resp *ResponsePayload) {
	payload, _ := json.Marshal(resp)
	record := &kgo.Record{
		Topic: topic,
		Value: payload,
	}
	if err := c.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		log.Printf("Failed to send response to %s: %v", topic, err)
	}
}

func (c *Consumer) sendError(ctx context.Context, record *kgo.Record, code, message string) {
	var req RequestPayload
	_ = json.Unmarshal(record.Value, &req)

	resp := errorResponse(req.CorrelationID, code, message)
	if req.ReplyTo != "" {
		c.sendResponse(ctx, req.ReplyTo, resp)
	}

	dlqTopic := record.Topic + TopicDLQSuffix
	dlqRecord := &kgo.Record{
		Topic: dlqTopic,
		Value: record.Value,
		Headers: []kgo.RecordHeader{
			{Key: ErrorHeaderKey, Value: []byte(message)},
		},
	}
	_ = c.client.ProduceSync(ctx, dlqRecord).FirstErr()
}

func retryNextAt(record *kgo.Record) (time.Time, bool) {
	for _, header := range record.Headers {
		if header.Key != RetryHeaderNextAt {
			continue
		}
		nextAt, err := time.Parse(time.RFC3339, string(header.Value))
		if err != nil {
			return time.Time{}, false
		}
		return nextAt, true
	}

	return time.Time{}, false
}

func successResponse(correlationID string) *ResponsePayload {
	return &ResponsePayload{
		SchemaVersion: 1,
		CorrelationID: correlationID,
		Status:        StatusSuccess,
	}
}

func errorResponse(correlationID, code, message string) *ResponsePayload {
	return &ResponsePayload{
		SchemaVersion: 1,
		CorrelationID: correlationID,
		Status:        StatusError,
		ErrorCode:     code,
		ErrorMessage:  message,
	}
}

func mapDomainError(err error) (string, string) {
	code := ErrCodeInternalError
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		code = ErrCodeNotFound
	case errors.Is(err, domain.ErrEmptyName):
		code = ErrCodeEmptyName
	case errors.Is(err, domain.ErrMissingUserID):
		code = ErrCodeInvalidRequest
	}
	return code, err.Error()
}

func toUserPayload(u *domain.User) *UserPayload {
	if u == nil {
		return nil
	}
	return &UserPayload{
		ID:        u.ID,
		Name:      u.Name,
		Points:    u.Points,
		CreatedAt: u.CreatedAt,
	}
}
