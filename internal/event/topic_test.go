package event

import "testing"

func TestTopicMatches(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		want    bool
	}{
		{"slider.drag.moved", "slider.drag.moved", true},
		{"slider.drag.moved", "slider.drag.*", true},
		{"slider.drag.moved", "slider.*", false},
		{"slider.drag.moved", "slider.**", true},
		{"slider", "slider.**", true},
		{"slider.range.value.changed", "slider.**.changed", true},
		{"slider.handle.created", "*.*.created", true},
		{"slider.handle.created", "*.created", false},
		{"slider.handle", "slider.handle.created", false},
		{"other.handle.created", "slider.**", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.topic)+"~"+string(tt.pattern), func(t *testing.T) {
			if got := tt.topic.Matches(tt.pattern); got != tt.want {
				t.Errorf("Topic(%q).Matches(%q) = %v, want %v", tt.topic, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestTopicHelpers(t *testing.T) {
	top := Topic("slider").Child("handle").Child("created")
	if top != "slider.handle.created" {
		t.Errorf("Child() = %q", top)
	}
	if top.Base() != "created" {
		t.Errorf("Base() = %q, want created", top.Base())
	}
	if len(top.Segments()) != 3 {
		t.Errorf("Segments() len = %d, want 3", len(top.Segments()))
	}
	if Topic("").IsValid() || Topic("a..b").IsValid() || !top.IsValid() {
		t.Error("IsValid() mismatch")
	}
	if !Topic("slider.*").IsWildcard() || top.IsWildcard() {
		t.Error("IsWildcard() mismatch")
	}
}
