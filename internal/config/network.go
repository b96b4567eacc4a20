package config

import (
	"os"
	"strings"
)

// ServiceEndpoints holds external service locations read from the environment
type ServiceEndpoints struct {
	RedisURL       Secret
	DatabaseURL    Secret
	MinioEndpoint  string
	MinioAccessKey Secret
	MinioSecretKey Secret
	PushgatewayURL string
}

// GetServiceEndpoints returns service configuration from environment
func GetServiceEndpoints() *ServiceEndpoints {
	return &ServiceEndpoints{
		RedisURL:       Secret(getEnvOrDefault("REDIS_URL", "")),
		DatabaseURL:    Secret(getEnvOrDefault("DATABASE_URL", "")),
		MinioEndpoint:  getEnvOrDefault("MINIO_ENDPOINT", ""),
		MinioAccessKey: Secret(getEnvOrDefault("MINIO_ACCESS_KEY", "")),
		MinioSecretKey: Secret(getEnvOrDefault("MINIO_SECRET_KEY", "")),
		PushgatewayURL: getEnvOrDefault("PUSHGATEWAY_URL", ""),
	}
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
