package config

import (
	"os"
)

type Config struct {
	HTTPAddr        string
	CatalogBaseURL  string
	DiscountBaseURL string
	SalesBaseURL    string
	RedisAddr       string
	ServiceName     string
}

func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8090"),
		CatalogBaseURL:  getenv("CATALOG_BASE_URL", "http://127.0.0.1:8001"),
		DiscountBaseURL: getenv("DISCOUNT_BASE_URL", "http://127.0.0.1:9002"),
		SalesBaseURL:    getenv("SALES_BASE_URL", "http://127.0.0.1:9000"),
		RedisAddr:       getenv("REDIS_ADDR", ""), // empty = snapshot cache off
		ServiceName:     getenv("SERVICE_NAME", "pos-terminal"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
