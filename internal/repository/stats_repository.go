package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// statsTables are the tables reported by Counts, in display order.
var statsTables = []string{
	"users",
	"user_sessions",
	"roles",
	"permissions",
	"friends",
	"results",
	"posts",
	"user_security_logs",
}

type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Counts returns the row count per table.
func (r *StatsRepository) Counts(ctx context.Context) (map[string]int64, error) {
	stats := make(map[string]int64, len(statsTables))
	for _, table := range statsTables {
		var count int64
		err := r.db.WithContext(ctx).Table(table).Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		stats[table] = count
	}
	return stats, nil
}

// Tables returns the reported table names in display order.
func (r *StatsRepository) Tables() []string {
	out := make([]string, len(statsTables))
	copy(out, statsTables)
	return out
}
