package middleware

import (
	"context"
	"net/http"

	"github.com/lifeguard-api/internal/domain"
	"github.com/lifeguard-api/internal/infrastructure/telegram"
	"github.com/lifeguard-api/internal/pkg/metrics"
	"github.com/rs/zerolog"
)

// InitDataHeader carries the raw Telegram Web-App init data on every API call.
const InitDataHeader = "X-Telegram-Init-Data"

type contextKey string

const accountKey contextKey = "account"

// Client-facing messages. Failure kinds are deliberately not distinguished.
const (
	msgInitDataRequired = "Telegram init data required"
	msgInitDataInvalid  = "Invalid Telegram init data"
	msgUserMissing      = "User ID not found in init data"
)

type initDataVerifier interface {
	Verify(raw string) (*telegram.InitData, error)
}

type accountResolver interface {
	Resolve(ctx context.Context, profile domain.TelegramProfile) (*domain.Account, error)
}

// TelegramAuth verifies the init-data header, resolves the sender's account
// and stores it in the request context. Nothing reaches the resolver unless
// the signature checks out.
func TelegramAuth(verifier initDataVerifier, resolver accountResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			raw := r.Header.Get(InitDataHeader)
			if raw == "" {
				reject(ctx, w, "missing_header", msgInitDataRequired)
				return
			}
			data, err := verifier.Verify(raw)
			if err != nil {
				reject(ctx, w, telegram.Kind(err), msgInitDataInvalid)
				return
			}
			profile, err := data.RequireUser()
			if err != nil {
				reject(ctx, w, telegram.Kind(err), msgUserMissing)
				return
			}

			account, err := resolver.Resolve(ctx, *profile)
			if err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Int64("telegram_id", profile.ID).Msg("resolve account failed")
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			l := zerolog.Ctx(ctx).With().Str("account_id", account.AccountID).Logger()
			ctx = l.WithContext(WithAccount(ctx, account))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func reject(ctx context.Context, w http.ResponseWriter, kind, msg string) {
	metrics.AuthRejections.WithLabelValues(kind).Inc()
	zerolog.Ctx(ctx).Warn().Str("kind", kind).Msg("init data rejected")
	writeJSONError(w, http.StatusUnauthorized, msg)
}

// WithAccount returns a copy of ctx carrying a.
func WithAccount(ctx context.Context, a *domain.Account) context.Context {
	return context.WithValue(ctx, accountKey, a)
}

// AccountFromContext returns the authenticated account set by TelegramAuth.
func AccountFromContext(ctx context.Context) (*domain.Account, bool) {
	a, ok := ctx.Value(accountKey).(*domain.Account)
	return a, ok && a != nil
}
