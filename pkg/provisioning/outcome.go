package provisioning

import (
	"fmt"

	"github.com/NebraLtd/maker-starter-app/pkg/hotspot"
)

// Outcome is the terminal result of one provisioning attempt. The set of
// implementations is closed; use an OutcomeVisitor to handle all of them.
type Outcome interface {
	// Kind returns the variant.
	Kind() OutcomeKind

	// Accept calls the visitor method matching the variant.
	Accept(v OutcomeVisitor)

	outcome()
}

// OutcomeVisitor has one method per Outcome variant. Adding a variant adds
// a method, so every visitor stops compiling until it handles it.
type OutcomeVisitor interface {
	VisitNeedsFirmwareUpdate(NeedsFirmwareUpdate)
	VisitReadyForWifi(ReadyForWifi)
	VisitReadyForLocation(ReadyForLocation)
	VisitAlreadyOwnedByCaller(AlreadyOwnedByCaller)
	VisitOwnedByOther(OwnedByOther)
	VisitFailed(Failed)
}

// OutcomeKind names an Outcome variant.
type OutcomeKind uint8

const (
	KindNeedsFirmwareUpdate OutcomeKind = iota
	KindReadyForWifi
	KindReadyForLocation
	KindAlreadyOwnedByCaller
	KindOwnedByOther
	KindFailed
)

// String returns the variant name.
func (k OutcomeKind) String() string {
	switch k {
	case KindNeedsFirmwareUpdate:
		return "NeedsFirmwareUpdate"
	case KindReadyForWifi:
		return "ReadyForWifi"
	case KindReadyForLocation:
		return "ReadyForLocation"
	case KindAlreadyOwnedByCaller:
		return "AlreadyOwnedByCaller"
	case KindOwnedByOther:
		return "OwnedByOther"
	case KindFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// NeedsFirmwareUpdate means the device must be updated before provisioning.
type NeedsFirmwareUpdate struct {
	Firmware hotspot.FirmwareInfo

	// Minimum is the directory's requirement, empty if none was known.
	Minimum string
}

// ReadyForWifi carries everything the caller needs to configure Wi-Fi and
// then submit the add-gateway transaction.
type ReadyForWifi struct {
	Networks          []string
	ConnectedNetworks []string
	DeviceAddress     string
	Payer             string
	Transaction       []byte
}

// ReadyForLocation is the update path's result. Transaction is always empty.
type ReadyForLocation struct {
	Networks          []string
	ConnectedNetworks []string
	DeviceAddress     string
	Transaction       []byte
}

// OwnershipReason says why a device counts as owned by the caller.
type OwnershipReason uint8

const (
	// ReasonRegistered means the directory lists the caller as owner.
	ReasonRegistered OwnershipReason = iota

	// ReasonPlaceholderPayload means the device returned a placeholder
	// instead of a transaction. See IsPlaceholderPayload.
	ReasonPlaceholderPayload
)

// String returns the reason name.
func (r OwnershipReason) String() string {
	switch r {
	case ReasonRegistered:
		return "registered"
	case ReasonPlaceholderPayload:
		return "placeholder_payload"
	default:
		return "unknown"
	}
}

// AlreadyOwnedByCaller means there is nothing to register.
type AlreadyOwnedByCaller struct {
	Reason        OwnershipReason
	DeviceAddress string
}

// OwnedByOther means the device is registered to a different account.
type OwnedByOther struct {
	Owner         string
	DeviceAddress string
}

// Failed wraps the classified failure, normally a *StepError.
type Failed struct {
	Err error
}

func (NeedsFirmwareUpdate) Kind() OutcomeKind  { return KindNeedsFirmwareUpdate }
func (ReadyForWifi) Kind() OutcomeKind         { return KindReadyForWifi }
func (ReadyForLocation) Kind() OutcomeKind     { return KindReadyForLocation }
func (AlreadyOwnedByCaller) Kind() OutcomeKind { return KindAlreadyOwnedByCaller }
func (OwnedByOther) Kind() OutcomeKind         { return KindOwnedByOther }
func (Failed) Kind() OutcomeKind               { return KindFailed }

func (o NeedsFirmwareUpdate) Accept(v OutcomeVisitor)  { v.VisitNeedsFirmwareUpdate(o) }
func (o ReadyForWifi) Accept(v OutcomeVisitor)         { v.VisitReadyForWifi(o) }
func (o ReadyForLocation) Accept(v OutcomeVisitor)     { v.VisitReadyForLocation(o) }
func (o AlreadyOwnedByCaller) Accept(v OutcomeVisitor) { v.VisitAlreadyOwnedByCaller(o) }
func (o OwnedByOther) Accept(v OutcomeVisitor)         { v.VisitOwnedByOther(o) }
func (o Failed) Accept(v OutcomeVisitor)               { v.VisitFailed(o) }

func (NeedsFirmwareUpdate) outcome()  {}
func (ReadyForWifi) outcome()         {}
func (ReadyForLocation) outcome()     {}
func (AlreadyOwnedByCaller) outcome() {}
func (OwnedByOther) outcome()         {}
func (Failed) outcome()               {}

// Describe returns a one-line summary of o for logs and history.
func Describe(o Outcome) string {
	switch o := o.(type) {
	case NeedsFirmwareUpdate:
		if o.Minimum != "" {
			return fmt.Sprintf("firmware %s below %s", o.Firmware.DeviceVersion, o.Minimum)
		}
		return fmt.Sprintf("firmware %s not current", o.Firmware.DeviceVersion)
	case ReadyForWifi:
		return fmt.Sprintf("%d networks, %d connected, txn %d bytes", len(o.Networks), len(o.ConnectedNetworks), len(o.Transaction))
	case ReadyForLocation:
		return fmt.Sprintf("%d networks, %d connected", len(o.Networks), len(o.ConnectedNetworks))
	case AlreadyOwnedByCaller:
		return o.Reason.String()
	case OwnedByOther:
		return "owner " + o.Owner
	case Failed:
		if o.Err == nil {
			return "failed"
		}
		return o.Err.Error()
	}
	return ""
}
