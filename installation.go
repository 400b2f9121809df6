package mbaas

import (
	"github.com/mbaas/mbaas.go/pkg/constants"
	"github.com/mbaas/mbaas.go/pkg/models"
)

// NewInstallation creates an installation stamped with the SDK version.
func NewInstallation() *Record {
	r := NewRecord(constants.KindInstallation)
	r.SetSDKVersion(constants.SDKVersion)
	return r
}

// DeviceToken returns the push token of an installation.
func (r *Record) DeviceToken() string {
	s, _ := r.GetString(constants.FieldDeviceToken)
	return s
}

// SetDeviceToken stages the token the OS issued for push delivery.
func (r *Record) SetDeviceToken(token string) {
	r.setDirect(constants.FieldDeviceToken, models.String(token), true)
}

// DeviceType returns "ios", "android" or "" when unset.
func (r *Record) DeviceType() string {
	s, _ := r.GetString(constants.FieldDeviceType)
	return s
}

// SetDeviceType takes "ios" or "android".
func (r *Record) SetDeviceType(deviceType string) {
	r.setDirect(constants.FieldDeviceType, models.String(deviceType), true)
}

// SetApplicationName stages the display name of the app.
func (r *Record) SetApplicationName(name string) {
	r.setDirect(constants.FieldApplicationName, models.String(name), true)
}

// SetAppVersion stages the version of the app, not of this SDK.
func (r *Record) SetAppVersion(version string) {
	r.setDirect(constants.FieldAppVersion, models.String(version), true)
}

// SetTimeZone takes an IANA name such as "Asia/Tokyo".
func (r *Record) SetTimeZone(zone string) {
	r.setDirect(constants.FieldTimeZone, models.String(zone), true)
}

// SetSDKVersion overrides the version NewInstallation stamps.
func (r *Record) SetSDKVersion(version string) {
	r.setDirect(constants.FieldSDKVersion, models.String(version), true)
}

// Badge returns the icon badge count, 0 when unset.
func (r *Record) Badge() int64 {
	b, _ := r.Get(constants.FieldBadge).(models.Int)
	return int64(b)
}

// SetBadge stages the icon badge count.
func (r *Record) SetBadge(badge int64) {
	r.setDirect(constants.FieldBadge, models.Int(badge), true)
}

// Channels returns the subscribed channels. Non-string entries are skipped.
func (r *Record) Channels() []string {
	arr, _ := r.Get(constants.FieldChannels).(models.Array)
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(models.String); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// SetChannels replaces the subscribed channels.
func (r *Record) SetChannels(channels ...string) {
	r.setDirect(constants.FieldChannels, models.Strings(channels...), true)
}
