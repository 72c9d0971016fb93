package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// StoreSettings holds the per-store profile, payment configuration, and
// opening schedule. One row per owner; GatewayKeySecret is stored encrypted.
type StoreSettings struct {
	OwnerID uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`

	StoreName      string `gorm:"column:store_name" json:"store_name"`
	Slug           string `gorm:"column:slug;uniqueIndex" json:"slug"`
	ContactNumber  string `gorm:"column:contact_number" json:"contact_number"`
	ContactNumber2 string `gorm:"column:contact_number_2" json:"contact_number_2"`
	Email          string `gorm:"column:email" json:"email"`
	Address        string `gorm:"column:address" json:"address"`
	Instructions   string `gorm:"column:instructions" json:"instructions"`

	MinimumOrderValue *decimal.Decimal `gorm:"column:minimum_order_value;type:numeric(10,2)" json:"minimum_order_value,omitempty"`

	IsLive               bool    `gorm:"column:is_live;not null;default:false" json:"is_live"`
	OnlinePaymentEnabled bool    `gorm:"column:online_payment_enabled;not null;default:false" json:"online_payment_enabled"`
	GatewayKeyID         *string `gorm:"column:gateway_key_id" json:"gateway_key_id,omitempty"`
	GatewayKeySecret     *string `gorm:"column:gateway_key_secret" json:"-"`

	ScheduleEnabled   bool          `gorm:"column:schedule_enabled;not null;default:false" json:"schedule_enabled"`
	ScheduleDays      pq.Int64Array `gorm:"column:schedule_days;type:integer[]" json:"schedule_days"`
	ScheduleStartTime *string       `gorm:"column:schedule_start_time" json:"schedule_start_time,omitempty"`
	ScheduleEndTime   *string       `gorm:"column:schedule_end_time" json:"schedule_end_time,omitempty"`
	ScheduleTimezone  string        `gorm:"column:schedule_timezone" json:"schedule_timezone"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (StoreSettings) TableName() string { return "store_settings" }
