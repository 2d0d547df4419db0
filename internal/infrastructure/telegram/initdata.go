// Package telegram verifies Telegram Mini-App init data.
//
// Init data is a URL-encoded query string signed by Telegram with a key
// derived from the bot token. A payload is accepted only when the hex
// HMAC-SHA256 of its canonical check string equals the "hash" field.
package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lifeguard-api/internal/domain"
)

const (
	fieldHash       = "hash"
	fieldUser       = "user"
	fieldAuthDate   = "auth_date"
	fieldQueryID    = "query_id"
	fieldStartParam = "start_param"

	// secretKeyConstant keys the HMAC that turns the bot token into the signing key.
	secretKeyConstant = "WebAppData"
)

// Verification failures. All of them mean "authentication rejected"; the
// distinct values exist for logs and metrics.
var (
	ErrMalformedInput    = errors.New("init data: malformed input")
	ErrMissingSignature  = errors.New("init data: missing signature")
	ErrSignatureMismatch = errors.New("init data: signature mismatch")
	ErrMalformedProfile  = errors.New("init data: malformed user profile")
	ErrMissingUser       = errors.New("init data: missing user")
	ErrExpired           = errors.New("init data: expired")
)

// InitData is a payload whose signature has been verified.
type InitData struct {
	// User is nil when the payload carries no "user" field.
	User       *domain.TelegramProfile
	AuthDate   time.Time
	QueryID    string
	StartParam string
	// Fields holds every signed field except "hash", with raw values.
	Fields map[string]string
}

// RequireUser returns the embedded profile or ErrMissingUser.
func (d *InitData) RequireUser() (*domain.TelegramProfile, error) {
	if d == nil || d.User == nil {
		return nil, ErrMissingUser
	}
	return d.User, nil
}

// Verify checks the signature of raw against botToken and decodes the
// embedded user profile. It performs no I/O and no freshness check.
//
// When a key occurs more than once in raw, the last occurrence wins.
func Verify(raw, botToken string) (*InitData, error) {
	fields, err := parse(raw)
	if err != nil {
		return nil, err
	}

	received := fields[fieldHash]
	delete(fields, fieldHash)
	if received == "" {
		return nil, ErrMissingSignature
	}

	expected := Sign(fields, botToken)
	if !hmac.Equal([]byte(expected), []byte(received)) {
		return nil, ErrSignatureMismatch
	}

	data := &InitData{
		QueryID:    fields[fieldQueryID],
		StartParam: fields[fieldStartParam],
		Fields:     fields,
	}
	if v, ok := fields[fieldAuthDate]; ok {
		if sec, err := strconv.ParseInt(v, 10, 64); err == nil {
			data.AuthDate = time.Unix(sec, 0).UTC()
		}
	}
	if v, ok := fields[fieldUser]; ok {
		profile, err := decodeProfile(v)
		if err != nil {
			return nil, err
		}
		data.User = profile
	}
	return data, nil
}

// Sign returns the lowercase hex signature Telegram would attach to fields
// for the given bot token. A "hash" entry in fields is ignored.
func Sign(fields map[string]string, botToken string) string {
	secret := hmacSHA256([]byte(secretKeyConstant), []byte(botToken))
	return hex.EncodeToString(hmacSHA256(secret, []byte(CheckString(fields))))
}

// CheckString builds the canonical data-check-string: every field except
// "hash", sorted by key in byte order, rendered as key=value and joined by "\n".
func CheckString(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == fieldHash {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fields[k])
	}
	return b.String()
}

// Kind names a verification failure for logs and metric labels.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, ErrMissingSignature):
		return "missing_signature"
	case errors.Is(err, ErrSignatureMismatch):
		return "signature_mismatch"
	case errors.Is(err, ErrMalformedProfile):
		return "malformed_profile"
	case errors.Is(err, ErrMissingUser):
		return "missing_user"
	case errors.Is(err, ErrExpired):
		return "expired"
	default:
		return "unknown"
	}
}

func parse(raw string) (map[string]string, error) {
	if raw == "" {
		return nil, ErrMalformedInput
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if len(values) == 0 {
		return nil, ErrMalformedInput
	}
	fields := make(map[string]string, len(values))
	for k, vs := range values {
		fields[k] = vs[len(vs)-1]
	}
	return fields, nil
}

func decodeProfile(raw string) (*domain.TelegramProfile, error) {
	var p struct {
		domain.TelegramProfile
		ID *int64 `json:"id"`
	}
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedProfile, err)
	}
	if p.ID == nil || *p.ID == 0 {
		return nil, fmt.Errorf("%w: id is required", ErrMalformedProfile)
	}
	profile := p.TelegramProfile
	profile.ID = *p.ID
	return &profile, nil
}

func hmacSHA256(key, msg []byte) []byte {
	m := hmac.New(sha256.New, key)
	m.Write(msg)
	return m.Sum(nil)
}
