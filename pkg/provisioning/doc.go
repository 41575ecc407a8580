// Package provisioning drives a single hotspot from "selected after a scan"
// to a terminal provisioning outcome.
//
// A Coordinator walks the device through a strict pipeline:
//
//	Connecting -> FirmwareCheck -> NetworkDiscovery ->
//	OwnershipResolution -> TransactionCreation -> Terminal
//
// Two entry points select the path. BeginAddGateway runs every step and,
// when the device is unowned, returns a device-signed add-gateway
// transaction. BeginUpdateGateway stops after NetworkDiscovery and never
// asks the device to sign anything.
//
// The coordinator talks to three collaborators through narrow interfaces:
// DeviceLink (the radio session), DirectoryClient (minimum firmware,
// onboarding records, ownership) and CredentialStore (wallet-link token
// and owner address). Concrete implementations live in pkg/link,
// pkg/directory and pkg/credstore.
//
// Every attempt ends in exactly one Outcome. Failures are classified at the
// step that produced them and returned as Failed wrapping a *StepError;
// nothing is retried automatically.
package provisioning
