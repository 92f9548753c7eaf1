// Package config loads engine configuration from YAML files and environment
// variables (viper + godotenv). Embedding services extend EngineConfig with
// their own sections.
package config
