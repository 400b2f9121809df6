package mbaas

import (
	"github.com/mbaas/mbaas.go/pkg/constants"
	"github.com/mbaas/mbaas.go/pkg/models"
)

// NewPush creates a push notification. Saving it schedules delivery.
func NewPush() *Record {
	return NewRecord(constants.KindPush)
}

// SetMessage sets the notification body.
func (r *Record) SetMessage(message string) {
	r.Set("message", models.String(message))
}

// SetTarget limits delivery to device types, such as "ios" and "android".
func (r *Record) SetTarget(deviceTypes ...string) {
	r.Set("target", models.Strings(deviceTypes...))
}

// SetDeliveryExpirationDate sets an absolute expiry and clears any relative one.
func (r *Record) SetDeliveryExpirationDate(date models.Date) {
	r.Set(constants.FieldDeliveryExpirationDate, date)
	r.Remove(constants.FieldDeliveryExpirationTime)
}

// SetDeliveryExpirationTime sets a relative expiry such as "3 day" and clears
// any absolute one.
//
// Setting either field through Set leaves the other one alone.
func (r *Record) SetDeliveryExpirationTime(duration string) {
	r.Set(constants.FieldDeliveryExpirationTime, models.String(duration))
	r.Remove(constants.FieldDeliveryExpirationDate)
}
