// test-config.go - Simple test script to validate KLAXON-CORE configuration loading

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"

	"github.com/platformbuilds/klaxon-core/internal/config"
)

const (
	// MinArgsRequired represents the minimum number of command line arguments required
	MinArgsRequired = 2
	// ExitCodeError represents the exit code for errors
	ExitCodeError = 1
)

func main() {
	if len(os.Args) < MinArgsRequired {
		fmt.Println("Usage: go run test-config.go <config-file>")
		fmt.Println("Example: go run test-config.go configs/config.yaml")
		os.Exit(ExitCodeError)
	}

	configFile := os.Args[1]
	fmt.Printf("Testing configuration file: %s\n", configFile)

	// Initialize viper
	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	// Load configuration
	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Failed to unmarshal config: %v", err)
	}

	fmt.Println("\n=== Definitions Catalog ===")
	fmt.Printf("Source paths: %v\n", cfg.Definitions.Paths)
	fmt.Printf("Watch for changes: %t\n", cfg.Definitions.Watch)

	fmt.Println("\n=== Cache ===")
	fmt.Printf("Enabled: %t\n", cfg.Cache.Enabled)
	if cfg.Cache.Enabled {
		fmt.Printf("Nodes: %v\n", cfg.Cache.Nodes)
		fmt.Printf("TTL: %ds\n", cfg.Cache.TTL)
		fmt.Printf("DB: %d\n", cfg.Cache.DB)
		fmt.Printf("Password set: %t\n", cfg.Cache.Password != "")
	}

	fmt.Println("\n=== Auth ===")
	fmt.Printf("Enabled: %t\n", cfg.Auth.Enabled)
	if cfg.Auth.Enabled {
		// Never print the secret itself
		fmt.Printf("JWT secret set: %t\n", cfg.Auth.JWTSecret != "")
	}

	fmt.Println("\n=== Search ===")
	fmt.Printf("Enabled: %t\n", cfg.Search.Enabled)
	if cfg.Search.Enabled {
		fmt.Printf("Index path: %s\n", cfg.Search.IndexPath)
		fmt.Printf("Max results: %d\n", cfg.Search.MaxResults)
	}

	fmt.Println("\n=== Monitoring ===")
	fmt.Printf("Prometheus enabled: %t\n", cfg.Monitoring.PrometheusEnabled)
	fmt.Printf("Tracing enabled: %t\n", cfg.Monitoring.TracingEnabled)
	if cfg.Monitoring.TracingEnabled {
		fmt.Printf("OTLP endpoint: %s\n", cfg.Monitoring.OTLPEndpoint)
	}

	fmt.Println("\n✅ Configuration loaded successfully!")
	fmt.Printf("Environment: %s\n", cfg.Environment)
	fmt.Printf("Port: %d\n", cfg.Port)
	fmt.Printf("Log level: %s\n", cfg.LogLevel)
}
