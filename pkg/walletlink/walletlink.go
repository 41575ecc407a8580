// Package walletlink handles the token a delegate wallet app hands back
// after the user links their account.
//
// A token is the base64 encoding of a JSON object carrying the owner's
// address, the requesting and signing app ids, a unix timestamp and an
// ed25519 signature by the owner key over the other four fields.
package walletlink

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/NebraLtd/maker-starter-app/pkg/address"
)

// DefaultCallbackURL is the URL the wallet app redirects to after linking.
const DefaultCallbackURL = "makerappscheme://"

// DefaultAppName is shown by the wallet app when asking for consent.
const DefaultAppName = "Nebra Hotspot"

const linkPath = "link_wallet"

var (
	// ErrMalformedToken is returned for tokens that do not decode.
	ErrMalformedToken = errors.New("malformed wallet link token")

	// ErrBadSignature is returned when the signature does not verify.
	ErrBadSignature = errors.New("wallet link token signature invalid")

	// ErrLinkRejected is returned when the callback reports a failure status.
	ErrLinkRejected = errors.New("wallet link rejected")
)

// Token is a decoded wallet-link token.
type Token struct {
	Address      string `json:"address"`
	RequestAppID string `json:"requestAppId"`
	SigningAppID string `json:"signingAppId"`
	Time         int64  `json:"time"`
	Signature    string `json:"signature"`
}

// signedFields is the payload covered by the signature, in wire order.
type signedFields struct {
	Address      string `json:"address"`
	RequestAppID string `json:"requestAppId"`
	SigningAppID string `json:"signingAppId"`
	Time         int64  `json:"time"`
}

// Decode parses a token string without checking its signature.
func Decode(s string) (Token, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Token{}, fmt.Errorf("%w: empty", ErrMalformedToken)
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		raw, err = base64.RawURLEncoding.DecodeString(s)
		if err != nil {
			return Token{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
		}
	}

	var t Token
	if err := json.Unmarshal(raw, &t); err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if t.Address == "" {
		return Token{}, fmt.Errorf("%w: missing address", ErrMalformedToken)
	}
	return t, nil
}

// Encode returns the token's string form.
func (t Token) Encode() (string, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// IssuedAt returns the token timestamp.
func (t Token) IssuedAt() time.Time {
	return time.Unix(t.Time, 0)
}

func (t Token) message() ([]byte, error) {
	return json.Marshal(signedFields{
		Address:      t.Address,
		RequestAppID: t.RequestAppID,
		SigningAppID: t.SigningAppID,
		Time:         t.Time,
	})
}

// Verify checks the token signature against the key in its address.
func Verify(t Token) error {
	a, err := address.ParseHelium(t.Address)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	sig, err := base64.StdEncoding.DecodeString(t.Signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("%w: bad signature encoding", ErrMalformedToken)
	}
	msg, err := t.message()
	if err != nil {
		return err
	}
	if !ed25519.Verify(a.PublicKey, msg, sig) {
		return ErrBadSignature
	}
	return nil
}

// Sign builds a signed token for the owner of priv.
func Sign(priv ed25519.PrivateKey, requestAppID, signingAppID string, at time.Time) (Token, error) {
	pub, ok := priv.Public().(ed25519.PublicKey)
	if !ok {
		return Token{}, errors.New("walletlink: not an ed25519 key")
	}
	t := Token{
		Address:      address.FromPublicKey(pub).Helium(),
		RequestAppID: requestAppID,
		SigningAppID: signingAppID,
		Time:         at.Unix(),
	}
	msg, err := t.message()
	if err != nil {
		return Token{}, err
	}
	t.Signature = base64.StdEncoding.EncodeToString(ed25519.Sign(priv, msg))
	return t, nil
}

// LinkRequest describes a link request to a delegate wallet app.
type LinkRequest struct {
	// UniversalLink is the wallet app's link prefix, e.g. "https://wallet.helium.com/".
	UniversalLink string
	RequestAppID  string
	CallbackURL   string
	AppName       string
}

// CreateLinkURL builds the URL that opens the wallet app's link flow.
func CreateLinkURL(req LinkRequest) (string, error) {
	if req.UniversalLink == "" {
		return "", errors.New("walletlink: universal link required")
	}
	if req.RequestAppID == "" {
		return "", errors.New("walletlink: request app id required")
	}
	if req.CallbackURL == "" {
		req.CallbackURL = DefaultCallbackURL
	}
	if req.AppName == "" {
		req.AppName = DefaultAppName
	}

	base := req.UniversalLink
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	u, err := url.Parse(base + linkPath)
	if err != nil {
		return "", fmt.Errorf("walletlink: universal link: %w", err)
	}

	q := url.Values{}
	q.Set("requestAppId", req.RequestAppID)
	q.Set("callbackUrl", req.CallbackURL)
	q.Set("appName", req.AppName)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// TokenFromCallback extracts the token from the wallet app's callback URL.
func TokenFromCallback(callback string) (string, error) {
	u, err := url.Parse(callback)
	if err != nil {
		return "", fmt.Errorf("walletlink: callback: %w", err)
	}
	q := u.Query()
	if status := q.Get("status"); status != "" && status != "success" {
		return "", fmt.Errorf("%w: %s", ErrLinkRejected, status)
	}
	tok := q.Get("token")
	if tok == "" {
		return "", fmt.Errorf("%w: no token in callback", ErrMalformedToken)
	}
	return tok, nil
}
