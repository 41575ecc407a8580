package discovery

import (
	"fmt"
	"sort"
	"strings"
)

// TXTRecordMap represents TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeTXT builds the TXT records for info.
func EncodeTXT(info *Info) TXTRecordMap {
	txt := TXTRecordMap{
		TXTKeyID: info.ID,
	}
	if info.Name != "" {
		txt[TXTKeyName] = info.Name
	}
	if info.Firmware != "" {
		txt[TXTKeyFirmware] = info.Firmware
	}
	return txt
}

// DecodeTXT parses TXT records into an Info.
func DecodeTXT(txt TXTRecordMap) (*Info, error) {
	id, ok := txt[TXTKeyID]
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyID)
	}
	return &Info{
		ID:       id,
		Name:     txt[TXTKeyName],
		Firmware: txt[TXTKeyFirmware],
	}, nil
}

// TXTRecordsToStrings converts a TXTRecordMap to sorted "key=value" strings.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, k+"="+v)
	}
	sort.Strings(result)
	return result
}

// StringsToTXTRecords parses "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			txt[parts[0]] = parts[1]
		} else if len(parts) == 1 && parts[0] != "" {
			// Key without value (boolean flag)
			txt[parts[0]] = ""
		}
	}
	return txt
}

// ValidateTXT checks the encoded size of txt.
func ValidateTXT(txt TXTRecordMap) error {
	size := 0
	for k, v := range txt {
		size += 1 + len(k) + 1 + len(v)
	}
	if size > MaxTXTRecordSize {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrInvalidTXTRecord, size, MaxTXTRecordSize)
	}
	return nil
}

// ValidateInstanceName checks if an instance name is valid for mDNS.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidInstanceName)
	}
	if len(name) > MaxInstanceNameLen {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidInstanceName, MaxInstanceNameLen)
	}
	return nil
}
