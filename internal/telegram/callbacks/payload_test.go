package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseEncodedData(t *testing.T) {
	cases := []struct {
		data    string
		key     string
		payload string
	}{
		{"\\fadmin_requests|2", "admin_requests", "2"},
		{"\\fback_to_start", "back_to_start", ""},
		{"check_subscription", "check_subscription", ""},
	}
	for _, tc := range cases {
		key, payload := Parse(&tele.Callback{Data: tc.data})
		if key != tc.key || payload != tc.payload {
			t.Errorf("Parse(%q) = (%q, %q), want (%q, %q)", tc.data, key, payload, tc.key, tc.payload)
		}
	}
}

func TestParsePrefersUnique(t *testing.T) {
	key, payload := Parse(&tele.Callback{Unique: "admin_requests", Data: "3"})
	if key != "admin_requests" || payload != "3" {
		t.Fatalf("got (%q, %q)", key, payload)
	}
}

func TestParseNilCallback(t *testing.T) {
	if key, payload := Parse(nil); key != "" || payload != "" {
		t.Fatalf("got (%q, %q), want empty", key, payload)
	}
}
