package constants

import "time"

// Fields every kind reserves for the server.
const (
	FieldObjectID   = "objectId"
	FieldACL        = "acl"
	FieldCreateDate = "createDate"
	FieldUpdateDate = "updateDate"
)

// User fields.
const (
	FieldUserName          = "userName"
	FieldMailAddress       = "mailAddress"
	FieldPassword          = "password"
	FieldSessionToken      = "sessionToken"
	FieldAuthData          = "authData"
	FieldMailConfirm       = "mailAddressConfirm"
	FieldTemporaryPassword = "temporaryPassword"
)

// Role fields.
const (
	FieldRoleName   = "roleName"
	FieldBelongRole = "belongRole"
	FieldBelongUser = "belongUser"
)

// Installation fields.
const (
	FieldDeviceType      = "deviceType"
	FieldDeviceToken     = "deviceToken"
	FieldApplicationName = "applicationName"
	FieldAppVersion      = "appVersion"
	FieldTimeZone        = "timeZone"
	FieldSDKVersion      = "sdkVersion"
	FieldBadge           = "badge"
	FieldChannels        = "channels"
)

// Push fields.
const (
	FieldDeliveryExpirationDate = "deliveryExpirationDate"
	FieldDeliveryExpirationTime = "deliveryExpirationTime"
)

// Kinds with dedicated endpoints.
const (
	KindUser         = "user"
	KindRole         = "role"
	KindInstallation = "installation"
	KindPush         = "push"
)

// Wire keys.
const (
	KeyType      = "__type"
	KeyOp        = "__op"
	KeyObjects   = "objects"
	KeyClassName = "className"
	KeyIso       = "iso"
	KeyLatitude  = "latitude"
	KeyLongitude = "longitude"
	KeyResults   = "results"
	KeyCount     = "count"
	KeyWhere     = "where"
	KeyOrder     = "order"
	KeySkip      = "skip"
	KeyLimit     = "limit"
)

// DateLayout is the ISO-8601 layout the service uses for dates, always in UTC.
const DateLayout = "2006-01-02T15:04:05.000Z"

const (
	DefaultHTTPTimeout = 10 * time.Second
	RequestIDHeader    = "X-Request-Id"
	SDKVersion         = "0.1.0"
)
