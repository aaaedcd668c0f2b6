package config

import (
	"os"
	"strconv"
)

// applyEnv layers environment overrides on top of the file config.
// Unset or unparsable variables leave the existing value alone.
func (c *Config) applyEnv() {
	if v := getEnvInt("GYMBRO_PORT"); v > 0 {
		c.Server.Port = v
	}
	if v := os.Getenv("GYMBRO_DATA_DIR"); v != "" {
		c.Server.DataDir = v
	}
	if v := os.Getenv("GYMBRO_DB_FILE"); v != "" {
		c.Server.DBFile = v
	}
	if v := getEnvInt("GYMBRO_CACHE_TTL_SECONDS"); v > 0 {
		c.Cache.TTLSeconds = v
	}
	if v := os.Getenv("GYMBRO_CACHE_DISABLED"); v == "1" || v == "true" || v == "yes" {
		c.Cache.Disabled = true
	}
	if v := getEnvFloat("GYMBRO_DEFAULT_PROTEIN_G"); v > 0 {
		c.Engine.ProteinG = v
	}
	if v := getEnvFloat("GYMBRO_DEFAULT_CALORIES_DEFICIT"); v > 0 {
		c.Engine.CaloriesDeficit = v
	}
	if v := getEnvFloat("GYMBRO_DEFAULT_CALORIES_SURPLUS"); v > 0 {
		c.Engine.CaloriesSurplus = v
	}
	if v := getEnvFloat("GYMBRO_DEFAULT_CALORIES_BALANCED"); v > 0 {
		c.Engine.CaloriesBalanced = v
	}
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}

func getEnvFloat(key string) float64 {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0
	}
	return num
}
