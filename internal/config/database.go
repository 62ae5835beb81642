// internal/config/database.go
package config

import (
	"fmt"
	"time"
)

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

func (r *RedisConfig) StateTTL() time.Duration {
	return time.Duration(r.TTL) * time.Hour
}

func (b *BackendConfig) Timeout() time.Duration {
	return time.Duration(b.RequestTimeout) * time.Second
}
