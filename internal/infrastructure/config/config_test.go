package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("DB_HOST", "localhost")
	os.Setenv("DB_PORT", "5432")
	os.Setenv("DB_USER", "postgres")
	os.Setenv("DB_PASSWORD", "postgres")
	os.Setenv("DB_NAME", "twofactor_test")
	os.Setenv("TWO_FACTOR_ISSUER", "Admin Dashboard")
	os.Setenv("STORE_TIMEOUT", "5s")

	tests := []struct {
		name    string
		setup   func()
		wantErr bool
	}{
		{
			name: "valid config",
			setup: func() {
				// Environment variables already set
			},
			wantErr: false,
		},
		{
			name: "invalid store timeout",
			setup: func() {
				os.Setenv("STORE_TIMEOUT", "invalid")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset environment variables to default values
			os.Setenv("STORE_TIMEOUT", "5s")

			tt.setup()

			cfg, err := LoadConfig()
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadConfig() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr {
				if cfg.DBHost != "localhost" {
					t.Errorf("LoadConfig() DBHost = %v, want %v", cfg.DBHost, "localhost")
				}
				if cfg.DBPort != 5432 {
					t.Errorf("LoadConfig() DBPort = %v, want %v", cfg.DBPort, 5432)
				}
				if cfg.DBName != "twofactor_test" {
					t.Errorf("LoadConfig() DBName = %v, want %v", cfg.DBName, "twofactor_test")
				}
				if cfg.Issuer != "Admin Dashboard" {
					t.Errorf("LoadConfig() Issuer = %v, want %v", cfg.Issuer, "Admin Dashboard")
				}
				if cfg.BackupCodeCount != 10 {
					t.Errorf("LoadConfig() BackupCodeCount = %v, want %v", cfg.BackupCodeCount, 10)
				}
				if cfg.BackupCodeLength != 8 {
					t.Errorf("LoadConfig() BackupCodeLength = %v, want %v", cfg.BackupCodeLength, 8)
				}
				if cfg.StoreTimeout != 5*time.Second {
					t.Errorf("LoadConfig() StoreTimeout = %v, want %v", cfg.StoreTimeout, 5*time.Second)
				}
			}
		})
	}
}
