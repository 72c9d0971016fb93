package settings

import (
	"github.com/asachdeva-dev/shopfront-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettingsDTO is the owner-facing settings payload. The gateway secret never
// leaves the server; only its presence is reported.
type SettingsDTO struct {
	OwnerID              uuid.UUID        `json:"user_id"`
	StoreName            string           `json:"store_name"`
	Slug                 string           `json:"slug"`
	ContactNumber        string           `json:"contact_number"`
	ContactNumber2       string           `json:"contact_number_2,omitempty"`
	Email                string           `json:"email,omitempty"`
	Address              string           `json:"address,omitempty"`
	Instructions         string           `json:"instructions,omitempty"`
	MinimumOrderValue    *decimal.Decimal `json:"minimum_order_value,omitempty"`
	IsLive               bool             `json:"is_live"`
	OnlinePaymentEnabled bool             `json:"online_payment_enabled"`
	GatewayKeyID         *string          `json:"gateway_key_id,omitempty"`
	GatewaySecretSet     bool             `json:"gateway_secret_set"`
	ScheduleEnabled      bool             `json:"schedule_enabled"`
	ScheduleDays         []int64          `json:"schedule_days"`
	ScheduleStartTime    *string          `json:"schedule_start_time,omitempty"`
	ScheduleEndTime      *string          `json:"schedule_end_time,omitempty"`
	ScheduleTimezone     string           `json:"schedule_timezone,omitempty"`
}

// StorefrontDTO is the public storefront profile served by slug. It carries
// no credentials and folds the schedule into a single open flag.
type StorefrontDTO struct {
	StoreName            string           `json:"store_name"`
	Slug                 string           `json:"slug"`
	ContactNumber        string           `json:"contact_number"`
	Address              string           `json:"address,omitempty"`
	Instructions         string           `json:"instructions,omitempty"`
	MinimumOrderValue    *decimal.Decimal `json:"minimum_order_value,omitempty"`
	OnlinePaymentEnabled bool             `json:"online_payment_enabled"`
	GatewayKeyID         *string          `json:"gateway_key_id,omitempty"`
	IsOpen               bool             `json:"is_open"`
}

func toSettingsDTO(s *models.StoreSettings) *SettingsDTO {
	return &SettingsDTO{
		OwnerID:              s.OwnerID,
		StoreName:            s.StoreName,
		Slug:                 s.Slug,
		ContactNumber:        s.ContactNumber,
		ContactNumber2:       s.ContactNumber2,
		Email:                s.Email,
		Address:              s.Address,
		Instructions:         s.Instructions,
		MinimumOrderValue:    s.MinimumOrderValue,
		IsLive:               s.IsLive,
		OnlinePaymentEnabled: s.OnlinePaymentEnabled,
		GatewayKeyID:         s.GatewayKeyID,
		GatewaySecretSet:     s.GatewayKeySecret != nil && *s.GatewayKeySecret != "",
		ScheduleEnabled:      s.ScheduleEnabled,
		ScheduleDays:         s.ScheduleDays,
		ScheduleStartTime:    s.ScheduleStartTime,
		ScheduleEndTime:      s.ScheduleEndTime,
		ScheduleTimezone:     s.ScheduleTimezone,
	}
}
