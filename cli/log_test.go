package cli

import (
	"testing"

	"github.com/ardnew/shibo/log"
)

func TestLogConfig_Scan(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantLevel  log.Level
		wantFormat log.Format
		wantPretty bool
		wantCaller bool
	}{
		{
			name:       "defaults untouched",
			args:       []string{"run", "x.shibo"},
			wantLevel:  log.DefaultLevel,
			wantFormat: log.DefaultFormat,
			wantPretty: true,
		},
		{
			name:       "assigned",
			args:       []string{"--log-level=debug", "--log-format=text"},
			wantLevel:  log.LevelDebug,
			wantFormat: log.FormatText,
			wantPretty: true,
		},
		{
			name:       "separate values",
			args:       []string{"run", "--log-level", "warn", "--log-format", "text"},
			wantLevel:  log.LevelWarn,
			wantFormat: log.FormatText,
			wantPretty: true,
		},
		{
			name:       "negated booleans",
			args:       []string{"--no-log-pretty", "--log-caller"},
			wantLevel:  log.DefaultLevel,
			wantFormat: log.DefaultFormat,
			wantCaller: true,
		},
		{
			name:       "assigned booleans",
			args:       []string{"--log-pretty=false", "--no-log-caller=false"},
			wantLevel:  log.DefaultLevel,
			wantFormat: log.DefaultFormat,
			wantCaller: true,
		},
		{
			name:       "missing value",
			args:       []string{"--log-level", "--log-caller"},
			wantLevel:  log.DefaultLevel,
			wantFormat: log.DefaultFormat,
			wantPretty: true,
			wantCaller: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(func() { log.Config(log.WithLevel(log.DefaultLevel), log.WithFormat(log.DefaultFormat)) })

			f := logConfig{
				Level:  logLevel(log.DefaultLevel),
				Format: logFormat(log.DefaultFormat),
				Pretty: true,
			}

			f.scan(tt.args)

			if log.Level(f.Level) != tt.wantLevel {
				t.Errorf("Level = %v, want %v", log.Level(f.Level), tt.wantLevel)
			}

			if log.Format(f.Format) != tt.wantFormat {
				t.Errorf("Format = %v, want %v", log.Format(f.Format), tt.wantFormat)
			}

			if f.Pretty != tt.wantPretty || f.Caller != tt.wantCaller {
				t.Errorf("Pretty, Caller = %v, %v; want %v, %v",
					f.Pretty, f.Caller, tt.wantPretty, tt.wantCaller)
			}

			if log.Default().Level() != tt.wantLevel {
				t.Errorf("default logger level = %v, want %v", log.Default().Level(), tt.wantLevel)
			}
		})
	}
}

func TestLogLevel_MarshalText(t *testing.T) {
	var l logLevel

	if err := l.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("UnmarshalText(bogus) = nil error")
	}

	if err := l.UnmarshalText([]byte("error")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}

	t.Cleanup(func() { log.Config(log.WithLevel(log.DefaultLevel)) })

	text, err := l.MarshalText()
	if err != nil || string(text) != "error" {
		t.Errorf("MarshalText = %q, %v", text, err)
	}
}
