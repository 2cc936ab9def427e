package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLoggerInitialization(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantLevel logrus.Level
		wantErr   bool
	}{
		{"debug level", "debug", logrus.DebugLevel, false},
		{"info level", "info", logrus.InfoLevel, false},
		{"warn level", "warn", logrus.WarnLevel, false},
		{"error level", "error", logrus.ErrorLevel, false},
		{"invalid level", "chatty", logrus.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitLogger(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("InitLogger() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && log.GetLevel() != tt.wantLevel {
				t.Errorf("InitLogger() level = %v, want %v", log.GetLevel(), tt.wantLevel)
			}
		})
	}
}

func TestLogOutput(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)

	testMessage := "test log message"
	Info(testMessage)

	var output map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Failed to parse log output: %v", err)
	}

	if msg, ok := output["msg"].(string); !ok || msg != testMessage {
		t.Errorf("Log message = %v, want %v", msg, testMessage)
	}
	if level, ok := output["level"].(string); !ok || level != "info" {
		t.Errorf("Log level = %v, want info", level)
	}
}

func TestLogWithFields(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)

	WithFields(logrus.Fields{
		"target": "a/x:ci.yml",
		"runID":  42,
	}).Info("check resolved")

	var output map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Failed to parse log output: %v", err)
	}

	if value, ok := output["target"].(string); !ok || value != "a/x:ci.yml" {
		t.Errorf("Field target = %v, want a/x:ci.yml", value)
	}
	if value, ok := output["runID"].(float64); !ok || int(value) != 42 {
		t.Errorf("Field runID = %v, want 42", value)
	}
}
