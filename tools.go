//go:build tools

package tools

// mockery renders the provisioning mocks; see .mockery.yaml.
import (
	_ "github.com/vektra/mockery/v2"
)
