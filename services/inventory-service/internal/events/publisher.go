package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	AssetCreated           = "asset.created"
	AssetUpdated           = "asset.updated"
	AssetMoved             = "asset.moved"
	AssetSoftwareInstalled = "asset.software_installed"
	AssetSoftwareRemoved   = "asset.software_removed"
	AssetDeleted           = "asset.deleted"
)

// AssetEvent is the message body published after an asset change commits.
type AssetEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	AssetID    int64     `json:"asset_id"`
	OfficeID   int64     `json:"office_id,omitempty"`
	LicenseID  int64     `json:"license_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewAssetEvent(eventType string, assetID int64) AssetEvent {
	return AssetEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		AssetID:    assetID,
		OccurredAt: time.Now().UTC(),
	}
}

func (e AssetEvent) WithOffice(officeID int64) AssetEvent {
	e.OfficeID = officeID
	return e
}

func (e AssetEvent) WithLicense(licenseID int64) AssetEvent {
	e.LicenseID = licenseID
	return e
}

type Publisher interface {
	PublishAssetEvent(ctx context.Context, evt AssetEvent) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka publisher requires a topic")
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			RequiredAcks:           kafka.RequireAll,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
		topic: topic,
	}, nil
}

// PublishAssetEvent keys messages by asset id so one asset's events stay ordered.
func (p *KafkaPublisher) PublishAssetEvent(ctx context.Context, evt AssetEvent) error {
	msg, err := toMessage(evt)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func toMessage(evt AssetEvent) (kafka.Message, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatInt(evt.AssetID, 10)),
		Value: payload,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.EventType)},
		},
	}, nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type NoopPublisher struct{}

func (NoopPublisher) PublishAssetEvent(context.Context, AssetEvent) error { return nil }
func (NoopPublisher) Close() error                                      { return nil }
