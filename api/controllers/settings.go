package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/asachdeva-dev/shopfront-backend/api/responses"
	"github.com/asachdeva-dev/shopfront-backend/api/validators"
	"github.com/asachdeva-dev/shopfront-backend/internal/settings"
	"github.com/asachdeva-dev/shopfront-backend/pkg/logger"
)

type settingsRequest struct {
	StoreName            *string          `json:"store_name,omitempty"`
	ContactNumber        *string          `json:"contact_number,omitempty"`
	ContactNumber2       *string          `json:"contact_number_2,omitempty"`
	Email                *string          `json:"email,omitempty" validate:"omitempty,email"`
	Address              *string          `json:"address,omitempty"`
	Instructions         *string          `json:"instructions,omitempty"`
	MinimumOrderValue    *decimal.Decimal `json:"minimum_order_value,omitempty"`
	IsLive               *bool            `json:"is_live,omitempty"`
	OnlinePaymentEnabled *bool            `json:"online_payment_enabled,omitempty"`
	ScheduleEnabled      *bool            `json:"schedule_enabled,omitempty"`
	ScheduleDays         *[]int64         `json:"schedule_days,omitempty"`
	ScheduleStartTime    *string          `json:"schedule_start_time,omitempty"`
	ScheduleEndTime      *string          `json:"schedule_end_time,omitempty"`
	ScheduleTimezone     *string          `json:"schedule_timezone,omitempty"`
}

type gatewayKeysRequest struct {
	KeyID     string  `json:"key_id" validate:"required"`
	KeySecret *string `json:"key_secret,omitempty"`
}

type liveToggleRequest struct {
	IsLive bool `json:"is_live"`
}

type onlinePaymentToggleRequest struct {
	Enabled bool `json:"enabled"`
}

// SettingsGet returns the owner's store settings.
func SettingsGet(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetSettings(r.Context(), ownerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// SettingsUpdate patches the owner's store settings.
func SettingsUpdate(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload settingsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateSettings(r.Context(), ownerID, settings.SettingsPatch{
			StoreName:            payload.StoreName,
			ContactNumber:        payload.ContactNumber,
			ContactNumber2:       payload.ContactNumber2,
			Email:                payload.Email,
			Address:              payload.Address,
			Instructions:         payload.Instructions,
			MinimumOrderValue:    payload.MinimumOrderValue,
			IsLive:               payload.IsLive,
			OnlinePaymentEnabled: payload.OnlinePaymentEnabled,
			ScheduleEnabled:      payload.ScheduleEnabled,
			ScheduleDays:         payload.ScheduleDays,
			ScheduleStartTime:    payload.ScheduleStartTime,
			ScheduleEndTime:      payload.ScheduleEndTime,
			ScheduleTimezone:     payload.ScheduleTimezone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// SettingsLiveToggle flips only the live flag.
func SettingsLiveToggle(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload liveToggleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateSettings(r.Context(), ownerID, settings.SettingsPatch{IsLive: &payload.IsLive})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// SettingsOnlinePaymentToggle flips only the online payment flag.
func SettingsOnlinePaymentToggle(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload onlinePaymentToggleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateSettings(r.Context(), ownerID, settings.SettingsPatch{OnlinePaymentEnabled: &payload.Enabled})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// SettingsGatewayKeys stores gateway credentials. The secret is encrypted at
// rest and omitting it keeps the previously saved one.
func SettingsGatewayKeys(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload gatewayKeysRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateSettings(r.Context(), ownerID, settings.SettingsPatch{
			GatewayKeyID:     &payload.KeyID,
			GatewayKeySecret: payload.KeySecret,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}
