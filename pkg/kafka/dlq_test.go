package kafka

import (
	"testing"
)

func TestDLQTopicPrefix(t *testing.T) {
	if DLQTopicPrefix != "ecommerce.dlq" {
		t.Errorf("DLQTopicPrefix = %q, want %q", DLQTopicPrefix, "ecommerce.dlq")
	}
}

func TestDLQTopic(t *testing.T) {
	tests := []struct {
		name          string
		originalTopic string
		want          string
	}{
		{
			name:          "standard topic",
			originalTopic: "ecommerce.product.updated",
			want:          "ecommerce.dlq.ecommerce.product.updated",
		},
		{
			name:          "simple topic name",
			originalTopic: "ecommerce.product.created",
			want:          "ecommerce.dlq.ecommerce.product.created",
		},
		{
			name:          "deeply nested topic",
			originalTopic: "ecommerce.category.renamed",
			want:          "ecommerce.dlq.ecommerce.category.renamed",
		},
		{
			name:          "single word topic",
			originalTopic: "notifications",
			want:          "ecommerce.dlq.notifications",
		},
		{
			name:          "topic with hyphens",
			originalTopic: "brand-events",
			want:          "ecommerce.dlq.brand-events",
		},
		{
			name:          "topic with underscores",
			originalTopic: "stock_updates",
			want:          "ecommerce.dlq.stock_updates",
		},
		{
			name:          "empty topic",
			originalTopic: "",
			want:          "ecommerce.dlq.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DLQTopic(tt.originalTopic)
			if got != tt.want {
				t.Errorf("DLQTopic(%q) = %q, want %q", tt.originalTopic, got, tt.want)
			}
		})
	}
}

func TestDLQTopic_ContainsPrefix(t *testing.T) {
	topic := DLQTopic("some.topic")
	if len(topic) <= len(DLQTopicPrefix) {
		t.Fatalf("DLQTopic result %q should be longer than prefix %q", topic, DLQTopicPrefix)
	}
	prefix := topic[:len(DLQTopicPrefix)]
	if prefix != DLQTopicPrefix {
		t.Errorf("DLQTopic(%q) prefix = %q, want %q", "some.topic", prefix, DLQTopicPrefix)
	}
}
