package provisioning_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NebraLtd/maker-starter-app/pkg/hotspot"
	"github.com/NebraLtd/maker-starter-app/pkg/provisioning"
)

type kindVisitor struct {
	visited []string
}

func (v *kindVisitor) VisitNeedsFirmwareUpdate(provisioning.NeedsFirmwareUpdate) {
	v.visited = append(v.visited, "firmware")
}
func (v *kindVisitor) VisitReadyForWifi(provisioning.ReadyForWifi) {
	v.visited = append(v.visited, "wifi")
}
func (v *kindVisitor) VisitReadyForLocation(provisioning.ReadyForLocation) {
	v.visited = append(v.visited, "location")
}
func (v *kindVisitor) VisitAlreadyOwnedByCaller(provisioning.AlreadyOwnedByCaller) {
	v.visited = append(v.visited, "mine")
}
func (v *kindVisitor) VisitOwnedByOther(provisioning.OwnedByOther) {
	v.visited = append(v.visited, "theirs")
}
func (v *kindVisitor) VisitFailed(provisioning.Failed) {
	v.visited = append(v.visited, "failed")
}

func TestOutcomeVisitor(t *testing.T) {
	outcomes := []provisioning.Outcome{
		provisioning.NeedsFirmwareUpdate{},
		provisioning.ReadyForWifi{},
		provisioning.ReadyForLocation{},
		provisioning.AlreadyOwnedByCaller{},
		provisioning.OwnedByOther{},
		provisioning.Failed{},
	}

	v := &kindVisitor{}
	for _, o := range outcomes {
		o.Accept(v)
	}
	assert.Equal(t, []string{"firmware", "wifi", "location", "mine", "theirs", "failed"}, v.visited)
}

func TestOutcomeKindAndDescribe(t *testing.T) {
	tests := []struct {
		out      provisioning.Outcome
		kind     string
		describe string
	}{
		{
			provisioning.NeedsFirmwareUpdate{Firmware: hotspot.FirmwareInfo{DeviceVersion: "v0.9.1"}, Minimum: "v1.0.0"},
			"NeedsFirmwareUpdate", "firmware v0.9.1 below v1.0.0",
		},
		{
			provisioning.ReadyForWifi{Networks: []string{"a", "b"}, ConnectedNetworks: []string{"a"}, Transaction: make([]byte, 40)},
			"ReadyForWifi", "2 networks, 1 connected, txn 40 bytes",
		},
		{provisioning.ReadyForLocation{Networks: []string{"a"}}, "ReadyForLocation", "1 networks, 0 connected"},
		{provisioning.AlreadyOwnedByCaller{Reason: provisioning.ReasonPlaceholderPayload}, "AlreadyOwnedByCaller", "placeholder_payload"},
		{provisioning.OwnedByOther{Owner: "abc"}, "OwnedByOther", "owner abc"},
		{provisioning.Failed{Err: errors.New("boom")}, "Failed", "boom"},
		{provisioning.Failed{}, "Failed", "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.out.Kind().String())
			assert.Equal(t, tt.describe, provisioning.Describe(tt.out))
		})
	}
}

func TestStepError(t *testing.T) {
	inner := errors.New("gatt write failed")
	err := &provisioning.StepError{
		State: provisioning.StateNetworkDiscovery,
		Kind:  provisioning.ErrorKindLink,
		Err:   inner,
	}

	assert.ErrorIs(t, err, provisioning.ErrLinkFailure)
	assert.ErrorIs(t, err, inner)
	assert.NotErrorIs(t, err, provisioning.ErrDirectoryUnavailable)
	assert.Equal(t, "NETWORK_DISCOVERY failed (link): gatt write failed", err.Error())

	_, ok := provisioning.KindOf(inner)
	assert.False(t, ok)
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "IDLE", provisioning.StateIdle.String())
	assert.Equal(t, "OWNERSHIP_RESOLUTION", provisioning.StateOwnershipResolution.String())
	assert.Equal(t, "UNKNOWN", provisioning.State(99).String())
	assert.Equal(t, "add_gateway", provisioning.ActionAddGateway.String())
	assert.Equal(t, "update_gateway", provisioning.ActionUpdateGateway.String())
}
