package db

import (
	"fmt"
	"strings"

	"github.com/terraincognita07/gymdesk/internal/models"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// foldLookupKey case-folds value with full Unicode rules. SQLite lower() and
// LIKE only fold ASCII, so comparisons run against stored folded copies.
func foldLookupKey(value string) string {
	return cases.Fold().String(strings.TrimSpace(value))
}

func applyLookupKeys(member *models.Member) {
	member.UsernameNormalized = foldLookupKey(member.Username)
	member.EmailNormalized = foldLookupKey(member.Email)
}

type memberLookupRow struct {
	ID                 uint
	Username           string
	UsernameNormalized string
	Email              string
	EmailNormalized    string
}

// reconcileLookupKeys rewrites folded keys that the SQL backfill computed with
// ASCII-only lower(). Rows whose folded email would collide with another
// member keep their old key and are logged.
func reconcileLookupKeys(database *gorm.DB, log *zap.Logger) (int, error) {
	rows := make([]memberLookupRow, 0)
	if err := database.Model(&models.Member{}).
		Select("id", "username", "username_normalized", "email", "email_normalized").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return 0, fmt.Errorf("load member lookup keys: %w", err)
	}

	updated := 0
	for _, row := range rows {
		username := foldLookupKey(row.Username)
		email := foldLookupKey(row.Email)
		if username == row.UsernameNormalized && email == row.EmailNormalized {
			continue
		}

		err := database.Model(&models.Member{}).
			Where("id = ?", row.ID).
			UpdateColumns(map[string]any{
				"username_normalized": username,
				"email_normalized":    email,
			}).Error
		if err != nil {
			if isUniqueViolation(err) {
				log.Warn("member lookup key collides with another member",
					zap.Uint("member_id", row.ID),
				)
				continue
			}
			return updated, fmt.Errorf("update member %d lookup keys: %w", row.ID, err)
		}
		updated++
	}
	return updated, nil
}
