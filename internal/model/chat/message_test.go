package chat

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMessageUnmarshalTimestampFormats(t *testing.T) {
	cases := map[string]time.Time{
		`{"role":"user","message":"a","created_at":"2024-03-01T12:30:00Z"}`: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		`{"role":"bot","message":"b","created_at":"2024-03-01 12:30:00"}`:   time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		`{"role":"bot","message":"c","created_at":null}`:                    {},
		`{"role":"bot","message":"d"}`:                                      {},
	}

	for input, want := range cases {
		var msg Message
		if err := json.Unmarshal([]byte(input), &msg); err != nil {
			t.Fatalf("unmarshal %s: %v", input, err)
		}
		if !msg.CreatedAt.Equal(want) {
			t.Fatalf("input %s: expected %v, got %v", input, want, msg.CreatedAt)
		}
		if msg.Text == "" || !msg.Role.Valid() {
			t.Fatalf("input %s: role/text not decoded: %+v", input, msg)
		}
	}
}

func TestMessageUnmarshalRejectsBadTimestamp(t *testing.T) {
	var msg Message
	if err := json.Unmarshal([]byte(`{"role":"user","message":"a","created_at":"yesterday"}`), &msg); err == nil {
		t.Fatal("expected error for unparseable created_at")
	}
}
