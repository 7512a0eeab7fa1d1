// Package bootstrap wires configuration, storage and identity together for
// the runtime entry points.
package bootstrap

import (
	"context"
	"fmt"
	"log"
	"strings"

	"holyguitars/internal/cache"
	"holyguitars/internal/config"
	"holyguitars/internal/database"
	"holyguitars/internal/identity"
	"holyguitars/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// InitRuntime connects to DB and Redis and promotes the bootstrap admin.
func InitRuntime(cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := ensureBootstrapAdmin(cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap admin: %w", err)
	}

	return db, r, nil
}

// NewVerifier builds the identity verifier selected by configuration.
func NewVerifier(cfg *config.Config) (identity.Verifier, error) {
	switch cfg.AuthProvider {
	case "firebase":
		return identity.NewFirebaseVerifier(context.Background(), cfg.FirebaseCredentials)
	case "jwt":
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET must be set when AUTH_PROVIDER=jwt")
		}
		return identity.NewJWTVerifier(cfg.JWTSecret), nil
	default:
		return nil, fmt.Errorf("unknown AUTH_PROVIDER %q", cfg.AuthProvider)
	}
}

// ensureBootstrapAdmin promotes the configured UID to admin so a fresh
// deployment has a way into the admin dashboard. The row is created up
// front if the user has never signed in; the profile upsert on their first
// authenticated request fills in the rest and never touches the role.
func ensureBootstrapAdmin(cfg *config.Config, db *gorm.DB) error {
	uid := strings.TrimSpace(cfg.BootstrapAdminUID)
	if uid == "" {
		return nil
	}

	res := db.Model(&models.User{}).
		Where("uid = ?", uid).
		Update("role", models.RoleAdmin)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if err := db.Create(&models.User{UID: uid, Role: models.RoleAdmin}).Error; err != nil {
			return err
		}
	}
	log.Printf("bootstrap admin ensured for uid %s", uid)
	return nil
}
