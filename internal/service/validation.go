package service

import (
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/ensalamento-api/internal/models"
	"github.com/noah-isme/ensalamento-api/internal/scheduling"
)

// NewValidator returns a validator with the domain tags registered:
// shift, weekday, group_status, hhmm, isodate and announcement_priority.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("shift", func(fl validator.FieldLevel) bool {
		_, ok := scheduling.ParseShift(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, ok := scheduling.ParseWeekday(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("group_status", func(fl validator.FieldLevel) bool {
		switch scheduling.GroupStatus(fl.Field().String()) {
		case scheduling.GroupPlanned, scheduling.GroupInProgress, scheduling.GroupCompleted, scheduling.GroupCancelled:
			return true
		}
		return false
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, ok := scheduling.MinutesSinceMidnight(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := scheduling.ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("announcement_priority", func(fl validator.FieldLevel) bool {
		switch models.AnnouncementPriority(fl.Field().String()) {
		case models.AnnouncementPriorityLow, models.AnnouncementPriorityNormal, models.AnnouncementPriorityHigh:
			return true
		}
		return false
	})
	return v
}
