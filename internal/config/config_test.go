package config

import (
	"strings"
	"testing"
	"time"

	"barberbook/backend/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.GRPCAddr() != "0.0.0.0:50051" {
		t.Fatalf("GRPCAddr = %q", cfg.GRPCAddr())
	}
	if cfg.HTTPAddr != ":8080" || cfg.StoreDriver != StoreDriverPostgres {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.GRPCRequestTimeout != 10*time.Second || cfg.ShutdownTimeout != 10*time.Second || cfg.RedisSlotTTL != 10*time.Minute {
		t.Fatalf("durations = %v %v %v", cfg.GRPCRequestTimeout, cfg.ShutdownTimeout, cfg.RedisSlotTTL)
	}
	if cfg.KafkaTopicPrefix != "barberbook." || cfg.OTelEnabled || cfg.OTelSampleRatio != 1 {
		t.Fatalf("cfg = %+v", cfg)
	}

	h := cfg.BusinessHours
	want := domain.DefaultBusinessHours()
	if h.Open != want.Open || h.Close != want.Close || h.Step != want.Step || h.AllowOverrun != want.AllowOverrun {
		t.Fatalf("business hours = %+v, want %+v", h, want)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BARBERBOOK_GRPC_ADDR", "127.0.0.1:6000")
	t.Setenv("BARBERBOOK_STORE_DRIVER", "Memory")
	t.Setenv("BARBERBOOK_HTTP_CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("BARBERBOOK_BOOKING_TIMEZONE", "America/Santiago")
	t.Setenv("BARBERBOOK_BOOKING_OPEN", "10:00")
	t.Setenv("BARBERBOOK_BOOKING_CLOSE", "18:30")
	t.Setenv("BARBERBOOK_BOOKING_SLOT_STEP", "15m")
	t.Setenv("BARBERBOOK_BOOKING_ALLOW_OVERRUN", "false")
	t.Setenv("KAFKA_BROKERS", "kafka:9092")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.GRPCHost != "127.0.0.1" || cfg.GRPCPort != 6000 {
		t.Fatalf("grpc = %s:%d", cfg.GRPCHost, cfg.GRPCPort)
	}
	if cfg.StoreDriver != StoreDriverMemory {
		t.Fatalf("StoreDriver = %q", cfg.StoreDriver)
	}
	if strings.Join(cfg.HTTPCORSOrigins, "|") != "https://a.example|https://b.example" {
		t.Fatalf("cors origins = %v", cfg.HTTPCORSOrigins)
	}
	if cfg.KafkaBrokers != "kafka:9092" || cfg.LogLevel != "debug" {
		t.Fatalf("aliases not applied: %+v", cfg)
	}

	h := cfg.BusinessHours
	if h.Location.String() != "America/Santiago" {
		t.Fatalf("location = %v", h.Location)
	}
	if h.Open != (domain.ClockTime{Hour: 10}) || h.Close != (domain.ClockTime{Hour: 18, Minute: 30}) {
		t.Fatalf("hours = %v-%v", h.Open, h.Close)
	}
	if h.Step != 15*time.Minute || h.AllowOverrun {
		t.Fatalf("step = %v overrun = %v", h.Step, h.AllowOverrun)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		env, value, want string
	}{
		{"BARBERBOOK_SHUTDOWN_TIMEOUT", "soon", "shutdown.timeout"},
		{"BARBERBOOK_REDIS_SLOT_TTL", "10", "redis.slot_ttl"},
		{"BARBERBOOK_STORE_DRIVER", "sqlite", "store.driver"},
		{"BARBERBOOK_OTEL_SAMPLE_RATIO", "1.5", "otel.sample_ratio"},
		{"BARBERBOOK_BOOKING_TIMEZONE", "Mars/Olympus", "booking.timezone"},
		{"BARBERBOOK_BOOKING_OPEN", "9", "booking.open"},
		{"BARBERBOOK_BOOKING_CLOSE", "08:00", "booking"},
		{"BARBERBOOK_BOOKING_SLOT_STEP", "0s", "booking"},
	}
	for _, tc := range cases {
		t.Run(tc.env, func(t *testing.T) {
			t.Setenv(tc.env, tc.value)
			_, err := Load()
			if err == nil {
				t.Fatalf("Load succeeded with %s=%s", tc.env, tc.value)
			}
			if !strings.HasPrefix(err.Error(), tc.want) {
				t.Fatalf("err = %v, want prefix %q", err, tc.want)
			}
		})
	}
}
