package provisioning

import (
	"github.com/NebraLtd/maker-starter-app/pkg/address"
	"github.com/NebraLtd/maker-starter-app/pkg/hotspot"
)

// ResolvePayer picks the payer: the record's payer, then the record's
// maker, then fallback. It returns "" if none is set.
func ResolvePayer(rec *hotspot.OnboardingRecord, fallback string) string {
	if rec != nil {
		if rec.PayerAddress != "" {
			return rec.PayerAddress
		}
		if rec.MakerAddress != "" {
			return rec.MakerAddress
		}
	}
	return fallback
}

// IsPlaceholderPayload reports whether payload is too short to be a real
// transaction. Some firmware returns a placeholder instead of an error
// when the hotspot is already registered; the coordinator treats that as
// "already owned". A negative minLength disables the check. Remove once
// affected firmware is out of the field.
func IsPlaceholderPayload(payload []byte, minLength int) bool {
	if minLength < 0 {
		return false
	}
	return len(payload) < minLength
}

// ownerMatches compares a registered owner to the caller's account in
// both encodings. Registrations made before the chain migration store the
// Helium form; later ones store the Solana form. The caller may itself be
// stored in either form.
func ownerMatches(owner, caller string) (match bool, encoding string) {
	if owner == "" || caller == "" {
		return false, ""
	}
	acct, err := address.Parse(caller)
	if err != nil {
		if owner == caller {
			return true, "verbatim"
		}
		return false, ""
	}
	switch owner {
	case acct.Helium():
		return true, "helium"
	case acct.Solana():
		return true, "solana"
	}
	return false, ""
}

// dedupe drops repeated names keeping first-seen order.
func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
