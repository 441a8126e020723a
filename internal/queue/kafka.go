package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/sirupsen/logrus"
)

var _ Publisher = (*KafkaPublisher)(nil)

// KafkaPublisher exports the change feed to a kafka topic, keyed by document id so that
// the events of one document stay ordered within a partition.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
	done     chan struct{}
}

func NewKafkaPublisher(brokers, topic string) (*KafkaPublisher, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
	})
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	if topic == "" {
		topic = DocumentEventsTopic
	}

	k := &KafkaPublisher{
		producer: producer,
		topic:    topic,
		done:     make(chan struct{}),
	}
	go k.report()

	return k, nil
}

// report logs delivery failures reported asynchronously by the producer.
func (k *KafkaPublisher) report() {
	defer close(k.done)

	for e := range k.producer.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				logrus.Errorf("document event delivery failed: %v", ev.TopicPartition.Error)
			}
		case kafka.Error:
			logrus.Errorf("kafka: %v", ev)
		}
	}
}

func (k *KafkaPublisher) Publish(ctx context.Context, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &k.topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.DocumentID),
		Value:          data,
	}, nil)
}

func (k *KafkaPublisher) Close() error {
	remaining := k.producer.Flush(5000)
	if remaining > 0 {
		logrus.Warnf("%d document events were not delivered before shutdown", remaining)
	}
	k.producer.Close()
	<-k.done

	return nil
}
