package model

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryRequest is one user-initiated delivery attempt. It is built per
// inbound event, consumed synchronously by the dispatcher and never persisted.
type DeliveryRequest struct {
	ID            string
	RequesterID   int64
	RequesterName string
	AssetKey      string
	Email         string // empty means in-chat delivery
	RequestedAt   time.Time
}

func NewDeliveryRequest(requesterID int64, requesterName, assetKey, email string) DeliveryRequest {
	return DeliveryRequest{
		ID:            uuid.NewString(),
		RequesterID:   requesterID,
		RequesterName: requesterName,
		AssetKey:      assetKey,
		Email:         email,
		RequestedAt:   time.Now(),
	}
}

// ByEmail reports whether the request asks for email delivery.
func (r *DeliveryRequest) ByEmail() bool { return r.Email != "" }

// FailureKind classifies why a delivery attempt failed.
type FailureKind string

const (
	FailureNone         FailureKind = ""
	FailureValidation   FailureKind = "validation_error"
	FailureUnknownAsset FailureKind = "unknown_asset"
	FailureFetch        FailureKind = "fetch_failed"
	FailureMailAuth     FailureKind = "transport_auth_error"
	FailureTransport    FailureKind = "transport_error"
	FailureUnknown      FailureKind = "unknown"
)

// DeliveryOutcome is the result of one dispatch attempt.
type DeliveryOutcome struct {
	OK       bool
	Kind     FailureKind
	Asset    AssetDescriptor // zero value when the key did not resolve
	Email    string
	Attached bool // whether the document bytes made it into the delivery
}

func Delivered(asset AssetDescriptor, email string, attached bool) DeliveryOutcome {
	return DeliveryOutcome{OK: true, Asset: asset, Email: email, Attached: attached}
}

func Undelivered(kind FailureKind, asset AssetDescriptor, email string) DeliveryOutcome {
	return DeliveryOutcome{OK: false, Kind: kind, Asset: asset, Email: email}
}
