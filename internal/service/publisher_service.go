package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"policy-matching-be/internal/dto"
)

type IPublisherService interface {
	PublishEmbedPolicy(ctx context.Context, policyId uuid.UUID) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (ps *publisherService) PublishEmbedPolicy(_ context.Context, policyId uuid.UUID) error {
	payload, err := json.Marshal(dto.PublishEmbedPolicyMessage{PolicyId: policyId})
	if err != nil {
		return fmt.Errorf("marshal embed message: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := ps.pubSub.Publish(ps.topicName, msg); err != nil {
		return fmt.Errorf("publish embed message: %w", err)
	}
	return nil
}
