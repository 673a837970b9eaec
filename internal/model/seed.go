package model

import (
	"blogcms/internal/config"
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// SeedDefaultCategories ensures the categories listed in SEED_CATEGORIES exist.
func SeedDefaultCategories(ctx context.Context, repo Repository, cfg config.Config) error {
	if repo == nil {
		return nil
	}

	seen := make(map[string]struct{}, len(cfg.SeedCategories))
	for _, raw := range cfg.SeedCategories {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		category, err := repo.EnsureCategory(ctx, name)
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"category_id": category.ID,
			"name":        category.Name,
		}).Debug("category seeded")
	}
	return nil
}
