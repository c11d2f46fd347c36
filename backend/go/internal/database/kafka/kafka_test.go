package kafka

import (
	"reflect"
	"testing"

	"github.com/segmentio/kafka-go"
)

func TestMissingTopics(t *testing.T) {
	existing := []kafka.Partition{
		{Topic: "console.processing.jobs", ID: 0},
		{Topic: "console.processing.jobs", ID: 1},
		{Topic: "other", ID: 0},
	}
	got := MissingTopics(existing, []string{"console.processing.jobs", "console.processing.results", "", "console.processing.results"})
	want := []string{"console.processing.results"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MissingTopics() = %v, want %v", got, want)
	}
	if got := MissingTopics(existing, []string{"other"}); len(got) != 0 {
		t.Errorf("expected nothing missing, got %v", got)
	}
}
