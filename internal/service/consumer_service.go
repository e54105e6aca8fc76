package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"policy-matching-be/internal/dto"
	"policy-matching-be/internal/entity"
	"policy-matching-be/internal/pkg/logger"
	"policy-matching-be/internal/repository/specification"
	"policy-matching-be/internal/repository/unitofwork"
	"policy-matching-be/pkg/embedding"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedPolicyMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "failed to unmarshal embed message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	policy, err := uow.PolicyRepository().FindOne(ctx, specification.ByID{ID: payload.PolicyId})
	if err != nil {
		cs.logger.Error("consumer", "failed to load policy for embedding", map[string]interface{}{
			"policy_id": payload.PolicyId.String(),
			"error":     err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}
	if policy == nil {
		// The policy was deleted before the worker got to it.
		msg.Ack()
		return
	}

	document := buildPolicyDocument(policy)

	res, err := cs.embeddingProvider.Generate(document, "RETRIEVAL_DOCUMENT")
	if err != nil {
		cs.logger.Error("consumer", "failed to generate policy embedding", map[string]interface{}{
			"policy_id": payload.PolicyId.String(),
			"error":     err.Error(),
		})
		msg.Nack()
		return
	}

	newEmbedding := &entity.PolicyEmbedding{
		Id:             uuid.New(),
		Document:       document,
		EmbeddingValue: res.Embedding.Values,
		PolicyId:       policy.Id,
		CreatedAt:      time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		cs.logger.Error("consumer", "failed to begin transaction", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.PolicyEmbeddingRepository().DeleteByPolicyId(ctx, policy.Id); err != nil {
		cs.logger.Error("consumer", "failed to delete old embedding", map[string]interface{}{
			"policy_id": policy.Id.String(),
			"error":     err.Error(),
		})
		msg.Nack()
		return
	}

	if err := uow.PolicyEmbeddingRepository().Create(ctx, newEmbedding); err != nil {
		cs.logger.Error("consumer", "failed to create embedding", map[string]interface{}{
			"policy_id": policy.Id.String(),
			"error":     err.Error(),
		})
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		cs.logger.Error("consumer", "failed to commit embedding transaction", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Info("consumer", "policy embedded", map[string]interface{}{
		"policy_id": policy.Id.String(),
	})
	msg.Ack()
}

// buildPolicyDocument flattens the policy into the text that gets embedded.
// Condition values go in too so similarity search can pick up on region or
// status phrasing in the query.
func buildPolicyDocument(policy *entity.Policy) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n%s\n", policy.Title, policy.Category, policy.Description)
	if policy.Agency != "" {
		fmt.Fprintf(&b, "주관: %s\n", policy.Agency)
	}
	for attribute, condition := range policy.Conditions {
		if len(condition.Values) > 0 {
			fmt.Fprintf(&b, "%s: %s\n", attribute, strings.Join(condition.Values, ", "))
		}
	}
	return b.String()
}
