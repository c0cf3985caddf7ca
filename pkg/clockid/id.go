package clockid

import "github.com/google/uuid"

// UUIDGenerator implements ports.IDGenerator with random (v4) UUIDs,
// matching the teacher's identifier scheme throughout the store layer.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.New().String() }

// PaymentID formats an opaque payment identifier. The "pay_" prefix
// keeps payment IDs visually distinct from internal row IDs in logs.
func PaymentID() string {
	return "pay_" + uuid.New().String()
}

// NotificationID formats an opaque webhook delivery identifier.
func NotificationID() string {
	return "ntf_" + uuid.New().String()
}
