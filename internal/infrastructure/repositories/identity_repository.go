package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caresync/authsvc/domain"
)

// IdentityRepositoryImpl implements domain.IdentityRepository using GORM
type IdentityRepositoryImpl struct {
	db *gorm.DB
}

// DBIdentity represents the database model for Identity (with GORM tags).
// The email index is partial so a soft-deleted account frees its address.
type DBIdentity struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email           string    `gorm:"size:255;uniqueIndex:udx_identities_email,where:deleted_at IS NULL"`
	PasswordHash    string    `gorm:"column:password"`
	IsEmailVerified bool      `gorm:"index"`
	IsBlocked       bool      `gorm:"index"`
	UserType        string    `gorm:"index;size:32"`
	Role            string    `gorm:"index;size:32"`
	FirstName       string    `gorm:"size:128"`
	LastName        string    `gorm:"size:128"`
	PhoneNumber     string    `gorm:"size:32"`
	TwoFAEnabled    bool
	Specialization  string `gorm:"size:128"`
	LicenseNumber   string `gorm:"size:64"`
	Experience      int
	Qualification   string `gorm:"size:128"`
	Address         string `gorm:"size:255"`
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBIdentity) TableName() string {
	return "identities"
}

// NewIdentityRepository creates a new identity repository
func NewIdentityRepository(db *gorm.DB) domain.IdentityRepository {
	return &IdentityRepositoryImpl{db: db}
}

// Create implements domain.IdentityRepository
func (r *IdentityRepositoryImpl) Create(ctx context.Context, identity *domain.Identity) error {
	dbIdentity := r.domainToDB(identity)
	if dbIdentity.ID == uuid.Nil {
		dbIdentity.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(dbIdentity).Error; err != nil {
		return err
	}
	identity.ID = dbIdentity.ID
	identity.CreatedAt = dbIdentity.CreatedAt
	identity.UpdatedAt = dbIdentity.UpdatedAt
	return nil
}

// FindByEmail implements domain.IdentityRepository
func (r *IdentityRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	var dbIdentity DBIdentity
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbIdentity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbIdentity), nil
}

// FindByEmailAndType implements domain.IdentityRepository
func (r *IdentityRepositoryImpl) FindByEmailAndType(ctx context.Context, email string, userType domain.UserType) (*domain.Identity, error) {
	var dbIdentity DBIdentity
	err := r.db.WithContext(ctx).
		Where("email = ? AND user_type = ?", email, string(userType)).
		First(&dbIdentity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbIdentity), nil
}

// FindByID implements domain.IdentityRepository
func (r *IdentityRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	var dbIdentity DBIdentity
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbIdentity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbIdentity), nil
}

// UpdateFields implements domain.IdentityRepository
func (r *IdentityRepositoryImpl) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	result := r.db.WithContext(ctx).Model(&DBIdentity{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ActivateIfPlaceholder implements domain.IdentityRepository. The password
// column doubles as the activation gate: the conditional update only
// succeeds while it still holds the placeholder, so two concurrent
// set-password requests cannot both activate the account.
func (r *IdentityRepositoryImpl) ActivateIfPlaceholder(ctx context.Context, id uuid.UUID, newHash, placeholder string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&DBIdentity{}).
		Where("id = ? AND password = ?", id, placeholder).
		Updates(map[string]any{"password": newHash, "is_email_verified": true})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SoftDelete implements domain.IdentityRepository
func (r *IdentityRepositoryImpl) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&DBIdentity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List implements domain.IdentityRepository. Results are ordered
// most-recently-created first, tie-broken by id, so pagination is stable.
func (r *IdentityRepositoryImpl) List(ctx context.Context, filter domain.IdentityFilter, pageNumber, pageSize int) ([]domain.Identity, int64, error) {
	query := r.db.WithContext(ctx).Model(&DBIdentity{})

	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UserType != "" {
		query = query.Where("user_type = ?", string(filter.UserType))
	}
	if filter.Role != "" {
		query = query.Where("role = ?", string(filter.Role))
	}
	if filter.IsBlocked != nil {
		query = query.Where("is_blocked = ?", *filter.IsBlocked)
	}
	if filter.IsEmailVerified != nil {
		query = query.Where("is_email_verified = ?", *filter.IsEmailVerified)
	}
	if filter.Specialization != "" {
		query = query.Where("specialization LIKE ?", "%"+filter.Specialization+"%")
	}
	if filter.Qualification != "" {
		query = query.Where("qualification LIKE ?", "%"+filter.Qualification+"%")
	}
	if filter.MinExperience != nil {
		query = query.Where("experience >= ?", *filter.MinExperience)
	}
	if filter.MaxExperience != nil {
		query = query.Where("experience <= ?", *filter.MaxExperience)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR specialization LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var dbIdentities []DBIdentity
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Offset(pageNumber * pageSize).
		Limit(pageSize).
		Find(&dbIdentities).Error
	if err != nil {
		return nil, 0, err
	}

	identities := make([]domain.Identity, 0, len(dbIdentities))
	for i := range dbIdentities {
		identities = append(identities, *r.dbToDomain(&dbIdentities[i]))
	}
	return identities, count, nil
}

// domainToDB converts a domain identity to the database model
func (r *IdentityRepositoryImpl) domainToDB(identity *domain.Identity) *DBIdentity {
	return &DBIdentity{
		ID:              identity.ID,
		Email:           identity.Email,
		PasswordHash:    identity.PasswordHash,
		IsEmailVerified: identity.IsEmailVerified,
		IsBlocked:       identity.IsBlocked,
		UserType:        string(identity.UserType),
		Role:            string(identity.Role),
		FirstName:       identity.FirstName,
		LastName:        identity.LastName,
		PhoneNumber:     identity.PhoneNumber,
		TwoFAEnabled:    identity.TwoFAEnabled,
		Specialization:  identity.Specialization,
		LicenseNumber:   identity.LicenseNumber,
		Experience:      identity.Experience,
		Qualification:   identity.Qualification,
		Address:         identity.Address,
	}
}

// dbToDomain converts a database model to the domain identity
func (r *IdentityRepositoryImpl) dbToDomain(dbIdentity *DBIdentity) *domain.Identity {
	return &domain.Identity{
		ID:              dbIdentity.ID,
		Email:           dbIdentity.Email,
		PasswordHash:    dbIdentity.PasswordHash,
		IsEmailVerified: dbIdentity.IsEmailVerified,
		IsBlocked:       dbIdentity.IsBlocked,
		UserType:        domain.UserType(dbIdentity.UserType),
		Role:            domain.Role(dbIdentity.Role),
		FirstName:       dbIdentity.FirstName,
		LastName:        dbIdentity.LastName,
		PhoneNumber:     dbIdentity.PhoneNumber,
		TwoFAEnabled:    dbIdentity.TwoFAEnabled,
		Specialization:  dbIdentity.Specialization,
		LicenseNumber:   dbIdentity.LicenseNumber,
		Experience:      dbIdentity.Experience,
		Qualification:   dbIdentity.Qualification,
		Address:         dbIdentity.Address,
		CreatedAt:       dbIdentity.CreatedAt,
		UpdatedAt:       dbIdentity.UpdatedAt,
	}
}
