package config

import (
	"testing"
	"time"
)

func TestValidateCronSchedule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{name: "every five minutes", schedule: "*/5 * * * *"},
		{name: "daily", schedule: "30 5 * * *"},
		{name: "weekdays", schedule: "30 9 * * 1-5"},
		{name: "empty", schedule: "", wantErr: true},
		{name: "too few fields", schedule: "* * *", wantErr: true},
		{name: "out of range minute", schedule: "61 * * * *", wantErr: true},
		{name: "garbage", schedule: "not a schedule", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateCronSchedule(tt.schedule)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCronSchedule(%q) error = %v, wantErr %v", tt.schedule, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTimezone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "utc", timezone: "UTC"},
		{name: "iana name", timezone: "America/New_York"},
		{name: "empty", timezone: "", wantErr: true},
		{name: "offset not name", timezone: "+09:00", wantErr: true},
		{name: "typo", timezone: "America/NewYork", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateTimezone(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTimezone(%q) error = %v, wantErr %v", tt.timezone, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDuration(t *testing.T) {
	t.Parallel()

	if err := ValidateDuration(30*time.Second, time.Second, time.Minute); err != nil {
		t.Errorf("in-range duration rejected: %v", err)
	}
	if err := ValidateDuration(time.Millisecond, time.Second, time.Minute); err == nil {
		t.Error("below-minimum duration accepted")
	}
	if err := ValidateDuration(time.Hour, time.Second, time.Minute); err == nil {
		t.Error("above-maximum duration accepted")
	}
	if err := ValidateDuration(time.Second, time.Minute, time.Second); err == nil {
		t.Error("inverted range accepted")
	}
}

func TestValidateIntRange(t *testing.T) {
	t.Parallel()

	if err := ValidateIntRange(20, 1, 20); err != nil {
		t.Errorf("boundary value rejected: %v", err)
	}
	if err := ValidateIntRange(0, 1, 20); err == nil {
		t.Error("below-minimum value accepted")
	}
	if err := ValidateIntRange(21, 1, 20); err == nil {
		t.Error("above-maximum value accepted")
	}
}

func TestValidatePositiveDuration(t *testing.T) {
	t.Parallel()

	if err := ValidatePositiveDuration(time.Second); err != nil {
		t.Errorf("positive duration rejected: %v", err)
	}
	if err := ValidatePositiveDuration(0); err == nil {
		t.Error("zero duration accepted")
	}
	if err := ValidatePositiveDuration(-time.Second); err == nil {
		t.Error("negative duration accepted")
	}
}
