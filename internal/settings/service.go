package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/asachdeva-dev/shopfront-backend/pkg/db"
	"github.com/asachdeva-dev/shopfront-backend/pkg/db/models"
	pkgerrors "github.com/asachdeva-dev/shopfront-backend/pkg/errors"
	"github.com/asachdeva-dev/shopfront-backend/pkg/security"
	"github.com/asachdeva-dev/shopfront-backend/pkg/slug"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxSlugAttempts = 50

// Service exposes store settings management and the public storefront
// profile lookup.
type Service interface {
	GetSettings(ctx context.Context, ownerID uuid.UUID) (*SettingsDTO, error)
	UpdateSettings(ctx context.Context, ownerID uuid.UUID, patch SettingsPatch) (*SettingsDTO, error)
	GetStorefront(ctx context.Context, storeSlug string) (*StorefrontDTO, error)
	ResolveOwnerBySlug(ctx context.Context, storeSlug string) (uuid.UUID, error)
	StoreOpen(ctx context.Context, ownerID uuid.UUID, now time.Time) (bool, error)
	MinimumOrderValue(ctx context.Context, ownerID uuid.UUID) (*decimal.Decimal, error)
	GatewayCredentials(ctx context.Context, ownerID uuid.UUID) (keyID, keySecret string, err error)
}

// SettingsPatch carries optional mutations; nil fields are left untouched.
// GatewayKeySecret arrives in plaintext and is encrypted before storage.
type SettingsPatch struct {
	StoreName            *string
	ContactNumber        *string
	ContactNumber2       *string
	Email                *string
	Address              *string
	Instructions         *string
	MinimumOrderValue    *decimal.Decimal
	IsLive               *bool
	OnlinePaymentEnabled *bool
	GatewayKeyID         *string
	GatewayKeySecret     *string
	ScheduleEnabled      *bool
	ScheduleDays         *[]int64
	ScheduleStartTime    *string
	ScheduleEndTime      *string
	ScheduleTimezone     *string
}

type service struct {
	repo      *Repository
	dbClient  *db.Client
	cipher    *security.SecretCipher
	defaultTZ string
}

// NewService constructs a settings service instance.
func NewService(repo *Repository, dbClient *db.Client, cipher *security.SecretCipher, defaultTZ string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if cipher == nil {
		return nil, fmt.Errorf("secret cipher required")
	}
	return &service{repo: repo, dbClient: dbClient, cipher: cipher, defaultTZ: defaultTZ}, nil
}

func (s *service) GetSettings(ctx context.Context, ownerID uuid.UUID) (*SettingsDTO, error) {
	row, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		if db.IsNotFound(err) {
			return toSettingsDTO(&models.StoreSettings{OwnerID: ownerID}), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading settings")
	}
	return toSettingsDTO(row), nil
}

func (s *service) UpdateSettings(ctx context.Context, ownerID uuid.UUID, patch SettingsPatch) (*SettingsDTO, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	var result *models.StoreSettings
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		row, err := repo.FindByOwner(ctx, ownerID)
		if err != nil {
			if !db.IsNotFound(err) {
				return err
			}
			row = &models.StoreSettings{OwnerID: ownerID}
		}

		applyPatch(row, patch)

		if patch.GatewayKeySecret != nil && *patch.GatewayKeySecret != "" {
			encrypted, err := s.cipher.Encrypt(*patch.GatewayKeySecret)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encrypting gateway secret")
			}
			row.GatewayKeySecret = &encrypted
		}

		if patch.StoreName != nil {
			assigned, err := s.assignSlug(ctx, repo, row)
			if err != nil {
				return err
			}
			row.Slug = assigned
		}

		if err := repo.Save(ctx, row); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "store slug already in use")
			}
			return err
		}
		result = row
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating settings")
	}
	return toSettingsDTO(result), nil
}

// assignSlug derives a slug from the store name and suffixes it until no
// other owner holds it. The unique index backstops the read-then-write race.
func (s *service) assignSlug(ctx context.Context, repo *Repository, row *models.StoreSettings) (string, error) {
	base := slug.Make(row.StoreName)
	if base == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "store name does not produce a usable slug")
	}

	candidate := base
	for i := 2; i <= maxSlugAttempts; i++ {
		taken, err := repo.SlugTaken(ctx, candidate, row.OwnerID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, "could not find a free slug for store name")
}

func (s *service) GetStorefront(ctx context.Context, storeSlug string) (*StorefrontDTO, error) {
	row, err := s.repo.FindBySlug(ctx, storeSlug)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading storefront")
	}

	dto := &StorefrontDTO{
		StoreName:            row.StoreName,
		Slug:                 row.Slug,
		ContactNumber:        row.ContactNumber,
		Address:              row.Address,
		Instructions:         row.Instructions,
		MinimumOrderValue:    row.MinimumOrderValue,
		OnlinePaymentEnabled: row.OnlinePaymentEnabled,
		GatewayKeyID:         row.GatewayKeyID,
		IsOpen:               IsOpen(row, time.Now(), s.defaultTZ),
	}
	return dto, nil
}

func (s *service) ResolveOwnerBySlug(ctx context.Context, storeSlug string) (uuid.UUID, error) {
	row, err := s.repo.FindBySlug(ctx, storeSlug)
	if err != nil {
		if db.IsNotFound(err) {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving store")
	}
	return row.OwnerID, nil
}

func (s *service) StoreOpen(ctx context.Context, ownerID uuid.UUID, now time.Time) (bool, error) {
	row, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		if db.IsNotFound(err) {
			// No settings row yet means the store has never been opened.
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading settings")
	}
	return IsOpen(row, now, s.defaultTZ), nil
}

// MinimumOrderValue returns the configured order floor, or nil when the
// check is disabled.
func (s *service) MinimumOrderValue(ctx context.Context, ownerID uuid.UUID) (*decimal.Decimal, error) {
	row, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading settings")
	}
	return row.MinimumOrderValue, nil
}

// GatewayCredentials returns the decrypted payment gateway key pair.
func (s *service) GatewayCredentials(ctx context.Context, ownerID uuid.UUID) (string, string, error) {
	row, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		if db.IsNotFound(err) {
			return "", "", pkgerrors.New(pkgerrors.CodeConfiguration, "payment gateway is not configured for this store")
		}
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading settings")
	}

	if !row.OnlinePaymentEnabled {
		return "", "", pkgerrors.New(pkgerrors.CodeConfiguration, "online payment is disabled for this store")
	}
	if row.GatewayKeyID == nil || *row.GatewayKeyID == "" || row.GatewayKeySecret == nil || *row.GatewayKeySecret == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeConfiguration, "payment gateway credentials are missing")
	}

	secret, err := s.cipher.Decrypt(*row.GatewayKeySecret)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeConfiguration, err, "stored gateway secret cannot be decrypted")
	}
	return *row.GatewayKeyID, secret, nil
}

func applyPatch(row *models.StoreSettings, patch SettingsPatch) {
	if patch.StoreName != nil {
		row.StoreName = *patch.StoreName
	}
	if patch.ContactNumber != nil {
		row.ContactNumber = *patch.ContactNumber
	}
	if patch.ContactNumber2 != nil {
		row.ContactNumber2 = *patch.ContactNumber2
	}
	if patch.Email != nil {
		row.Email = *patch.Email
	}
	if patch.Address != nil {
		row.Address = *patch.Address
	}
	if patch.Instructions != nil {
		row.Instructions = *patch.Instructions
	}
	if patch.MinimumOrderValue != nil {
		row.MinimumOrderValue = patch.MinimumOrderValue
	}
	if patch.IsLive != nil {
		row.IsLive = *patch.IsLive
	}
	if patch.OnlinePaymentEnabled != nil {
		row.OnlinePaymentEnabled = *patch.OnlinePaymentEnabled
	}
	if patch.GatewayKeyID != nil {
		row.GatewayKeyID = patch.GatewayKeyID
	}
	if patch.ScheduleEnabled != nil {
		row.ScheduleEnabled = *patch.ScheduleEnabled
	}
	if patch.ScheduleDays != nil {
		row.ScheduleDays = pq.Int64Array(*patch.ScheduleDays)
	}
	if patch.ScheduleStartTime != nil {
		row.ScheduleStartTime = patch.ScheduleStartTime
	}
	if patch.ScheduleEndTime != nil {
		row.ScheduleEndTime = patch.ScheduleEndTime
	}
	if patch.ScheduleTimezone != nil {
		row.ScheduleTimezone = *patch.ScheduleTimezone
	}
}

func validatePatch(patch SettingsPatch) error {
	if patch.MinimumOrderValue != nil && patch.MinimumOrderValue.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "minimum order value cannot be negative")
	}
	if patch.ScheduleStartTime != nil && *patch.ScheduleStartTime != "" {
		if _, err := parseClock(*patch.ScheduleStartTime); err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "schedule start time must be HH:MM")
		}
	}
	if patch.ScheduleEndTime != nil && *patch.ScheduleEndTime != "" {
		if _, err := parseClock(*patch.ScheduleEndTime); err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "schedule end time must be HH:MM")
		}
	}
	if patch.ScheduleDays != nil {
		for _, d := range *patch.ScheduleDays {
			if d < 0 || d > 6 {
				return pkgerrors.New(pkgerrors.CodeValidation, "schedule days must be between 0 (Sunday) and 6 (Saturday)")
			}
		}
	}
	if patch.ScheduleTimezone != nil && *patch.ScheduleTimezone != "" {
		if _, err := time.LoadLocation(*patch.ScheduleTimezone); err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown schedule timezone")
		}
	}
	return nil
}
