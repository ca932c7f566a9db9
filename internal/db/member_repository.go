package db

import (
	"context"
	"strings"
	"time"

	"github.com/terraincognita07/gymdesk/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemberRepository struct {
	database *gorm.DB
}

func NewMemberRepository(database *gorm.DB) *MemberRepository {
	return &MemberRepository{database: database}
}

func (repo *MemberRepository) Create(ctx context.Context, member *models.Member) error {
	applyLookupKeys(member)
	return translateError(repo.database.WithContext(ctx).Create(member).Error)
}

func (repo *MemberRepository) FindByID(ctx context.Context, memberID uint) (models.Member, error) {
	var member models.Member
	if err := repo.database.WithContext(ctx).First(&member, memberID).Error; err != nil {
		return models.Member{}, translateError(err)
	}
	return member, nil
}

func (repo *MemberRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var matched int64
	if err := repo.database.WithContext(ctx).
		Model(&models.Member{}).
		Where("username = ?", username).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *MemberRepository) ExistsByNormalizedEmail(ctx context.Context, email string) (bool, error) {
	var matched int64
	if err := repo.database.WithContext(ctx).
		Model(&models.Member{}).
		Where("email_normalized = ?", foldLookupKey(email)).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *MemberRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.database.WithContext(ctx).Model(&models.Member{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *MemberRepository) List(ctx context.Context) ([]models.Member, error) {
	members := make([]models.Member, 0)
	if err := repo.database.WithContext(ctx).
		Order("admission_date ASC, id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (repo *MemberRepository) SearchByUsername(ctx context.Context, term string) ([]models.Member, error) {
	pattern := "%" + escapeLikePattern(foldLookupKey(term)) + "%"

	members := make([]models.Member, 0)
	if err := repo.database.WithContext(ctx).
		Where(`username_normalized LIKE ? ESCAPE '\'`, pattern).
		Order("admission_date ASC, id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (repo *MemberRepository) ListDueOnOrBefore(ctx context.Context, asOf time.Time) ([]models.Member, error) {
	members := make([]models.Member, 0)
	if err := repo.database.WithContext(ctx).
		Where("due_date <= ?", asOf).
		Order("due_date ASC, id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (repo *MemberRepository) FindNextDueOnOrAfter(ctx context.Context, asOf time.Time) (models.Member, bool, error) {
	member := models.Member{}
	result := repo.database.WithContext(ctx).
		Where("due_date >= ?", asOf).
		Order("due_date ASC, id ASC").
		Limit(1).
		Find(&member)
	if result.Error != nil {
		return models.Member{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Member{}, false, nil
	}
	return member, true, nil
}

func (repo *MemberRepository) Delete(ctx context.Context, memberID uint) error {
	result := repo.database.WithContext(ctx).Delete(&models.Member{}, memberID)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateInTransaction loads the member, lets mutate change it and saves the
// result in one transaction. An error from mutate rolls back without writing.
func (repo *MemberRepository) UpdateInTransaction(ctx context.Context, memberID uint, mutate func(member *models.Member) error) (models.Member, error) {
	var updated models.Member
	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx
		if tx.Dialector.Name() == DialectPostgres {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var member models.Member
		if err := query.First(&member, memberID).Error; err != nil {
			return translateError(err)
		}
		if err := mutate(&member); err != nil {
			return err
		}
		applyLookupKeys(&member)
		if err := tx.Save(&member).Error; err != nil {
			return translateError(err)
		}
		updated = member
		return nil
	})
	if err != nil {
		return models.Member{}, err
	}
	return updated, nil
}

func escapeLikePattern(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
