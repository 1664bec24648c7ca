// Package gateway validates and dispatches inbound vault requests. Every
// request passes the same pipeline: sender validation, replay/staleness
// checks for the guarded actions, per-sender rate limiting, then dispatch to
// the vault operation matching the request type.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/common"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/config"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/generator"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/logging"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/storage"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/strength"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/totp"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/vault"
)

// guardedActions are the mutating actions subject to timestamp and nonce
// checks. The set is fixed; widening it silently breaks older callers that
// do not send anti-replay fields.
var guardedActions = map[string]bool{
	"savePassword":    true,
	"getPasswords":    true,
	"getAllPasswords": true,
	"deletePassword":  true,
}

// Gateway is the single entry point for inbound requests.
type Gateway struct {
	vault     *vault.Vault
	logger    logging.Logger
	runtimeID string

	limiter    *rateLimiter
	pinLimiter *rateLimiter
	replay     *replayGuard
}

// New wires a Gateway over the vault using the configured protocol limits.
func New(cfg *config.Config, v *vault.Vault, store storage.Store, logger logging.Logger) *Gateway {
	logger = logger.With("component", "gateway")
	return &Gateway{
		vault:      v,
		logger:     logger,
		runtimeID:  cfg.RuntimeID,
		limiter:    newRateLimiter(cfg.RateLimitWindow, cfg.RateLimitMax),
		pinLimiter: newRateLimiter(cfg.PinAttemptWindow, cfg.PinAttemptMax),
		replay:     newReplayGuard(store, logger, cfg.RequestMaxAge, cfg.NonceTTL),
	}
}

// Handle validates the envelope and dispatches its request. The result is
// the action's payload (nil for pure commands); all failures are returned as
// errors, sentinel-wrapped where callers need to distinguish them.
func (g *Gateway) Handle(ctx context.Context, sender Sender, env Envelope) (any, error) {
	if env.Request == nil {
		return nil, common.ErrorUnknownAction
	}
	action := env.Request.Action()

	if !sender.validate(g.runtimeID) {
		g.logger.Warn(ctx, "rejected unauthorized sender", "action", action, "sender", sender.key())
		return nil, common.ErrorUnauthorizedSender
	}

	key := sender.key()
	if !g.limiter.allow(key) {
		g.logger.Warn(ctx, "rate limit exceeded", "action", action, "sender", key)
		return nil, common.ErrorRateLimitExceeded
	}

	if guardedActions[action] {
		if err := g.replay.check(ctx, env.Timestamp, env.Nonce); err != nil {
			g.logger.Warn(ctx, "replay guard rejected request", "action", action, "sender", key)
			return nil, err
		}
	}

	return g.dispatch(ctx, key, env.Request)
}

func (g *Gateway) dispatch(ctx context.Context, senderKey string, req Request) (any, error) {
	v := g.vault

	switch r := req.(type) {
	case VerifyAndSetPinRequest:
		return nil, g.verifyAndSetPin(ctx, senderKey, r.Pin)

	case ClearSessionPinRequest:
		v.Session().Clear()
		return nil, nil

	case CheckSessionPinRequest:
		return SessionStatus{
			Active: v.Session().Active(),
			PinSet: v.Pins().IsPinSet(ctx),
		}, nil

	case SavePasswordRequest:
		return nil, v.SavePassword(ctx, r.Domain, r.URL, r.Username, r.Password)

	case GetPasswordsRequest:
		return v.GetPasswords(ctx, vault.DomainFromURL(r.URL))

	case GetAllPasswordsRequest:
		return v.GetAllPasswords(ctx)

	case DeletePasswordRequest:
		return nil, v.DeletePassword(ctx, r.Domain, r.URL, r.Username)

	case UpdatePasswordRequest:
		return nil, v.UpdatePassword(ctx, r.Domain, r.URL, r.Username, r.NewPassword)

	case UpdatePasswordMetadataRequest:
		return nil, v.UpdatePasswordMetadata(ctx, r.Domain, r.URL, r.Username, r.Metadata)

	case SaveDataCardRequest:
		return v.SaveDataCard(ctx, r.Card)

	case UpdateDataCardRequest:
		return nil, v.UpdateDataCard(ctx, r.ID, r.Card)

	case DeleteDataCardRequest:
		return nil, v.DeleteDataCard(ctx, r.ID)

	case GetDataCardRequest:
		return v.GetDataCard(ctx, r.ID)

	case GetAllDataCardsRequest:
		return v.GetAllDataCards(ctx)

	case SaveTotpRequest:
		if !totp.IsValidSecret(r.Secret) {
			return nil, errors.New("invalid totp secret")
		}
		return v.SaveTotp(ctx, vault.TotpEntry{Service: r.Service, Login: r.Login, Secret: r.Secret})

	case UpdateTotpRequest:
		if !totp.IsValidSecret(r.Secret) {
			return nil, errors.New("invalid totp secret")
		}
		return nil, v.UpdateTotp(ctx, r.ID, vault.TotpEntry{Service: r.Service, Login: r.Login, Secret: r.Secret})

	case DeleteTotpRequest:
		return nil, v.DeleteTotp(ctx, r.ID)

	case GetAllTotpRequest:
		return v.GetAllTotp(ctx)

	case GenerateTotpCodeRequest:
		now := time.Now()
		code, err := totp.GenerateCode(r.Secret, now)
		if err != nil {
			return nil, err
		}
		return TotpCode{Code: code, ExpiresIn: totp.TimeRemaining(now, totp.DefaultTimeStep)}, nil

	case GeneratePasswordRequest:
		return g.generatePassword(ctx, r.Settings)

	case GetGeneratorSettingsRequest:
		return v.GeneratorSettings(ctx)

	case SetGeneratorSettingsRequest:
		return nil, v.SetGeneratorSettings(ctx, r.Settings)

	case EstimateStrengthRequest:
		return strength.Estimate(r.Password, r.UserInputs...), nil

	case CheckWhitelistRequest:
		return v.IsWhitelisted(ctx, r.Domain), nil

	case GetWhitelistRequest:
		return v.Whitelist(ctx)

	case SetWhitelistRequest:
		return nil, v.SetWhitelist(ctx, r.Entries)

	case SavePendingPasswordRequest:
		return nil, v.SavePendingPassword(ctx, r.Domain, r.URL, r.Username, r.Password)

	case GetPendingPasswordsRequest:
		return v.GetPendingPasswords(ctx)

	case ClearPendingPasswordsRequest:
		return nil, v.ClearPendingPasswords(ctx)

	case ExportPasswordsRequest:
		return v.Export(ctx)

	case ImportPasswordsRequest:
		if r.File == nil {
			return nil, errors.New("missing export file")
		}
		n, err := v.Import(ctx, r.File, r.Pin)
		if err != nil {
			return nil, err
		}
		return ImportResult{Imported: n}, nil

	case EnableBiometricRequest:
		return nil, v.EnableBiometric(ctx, r.CredentialID)

	case DisableBiometricRequest:
		return nil, v.DisableBiometric(ctx)

	case SaveBiometricPinRequest:
		return nil, v.SaveBiometricPin(ctx, r.Pin)

	case AuthenticateBiometricRequest:
		res, err := v.AuthenticateBiometric(ctx)
		if err != nil {
			return nil, err
		}
		return res, nil

	case GetPasswordCategoriesRequest:
		return v.PasswordCategories(ctx)

	case SetPasswordCategoriesRequest:
		return nil, v.SetPasswordCategories(ctx, r.Categories)

	case GetPasswordTagsRequest:
		return v.PasswordTags(ctx)

	case SetPasswordTagsRequest:
		return nil, v.SetPasswordTags(ctx, r.Tags)

	default:
		g.logger.Warn(ctx, "unknown action", "action", req.Action())
		return nil, common.ErrorUnknownAction
	}
}

// SetPin writes a new PIN record and opens a session under it. It is not an
// action: PIN setup is a trusted local operation, and requiring the old PIN
// before a change is the caller's policy.
func (g *Gateway) SetPin(ctx context.Context, pin string) error {
	if err := g.vault.Pins().SetPin(ctx, pin); err != nil {
		return err
	}
	g.vault.Session().Set(pin)
	return nil
}

// verifyAndSetPin runs the stricter per-sender attempt limiter around PIN
// verification: only failures count against the window, and a success clears
// it. The persisted attempt counter inside PinAuthority is independent.
func (g *Gateway) verifyAndSetPin(ctx context.Context, senderKey string, pin string) error {
	if g.pinLimiter.blocked(senderKey) {
		g.logger.Warn(ctx, "pin attempt limit exceeded", "sender", senderKey)
		return common.ErrorRateLimitExceeded
	}

	ok, err := g.vault.Pins().Verify(ctx, pin)
	if err != nil {
		g.pinLimiter.fail(senderKey)
		return err
	}
	if !ok {
		g.pinLimiter.fail(senderKey)
		return common.ErrorWrongPin
	}

	g.pinLimiter.reset(senderKey)
	g.vault.Session().Set(pin)
	return nil
}

// generatePassword produces a password from the stored settings (or the
// supplied override) and scores it.
func (g *Gateway) generatePassword(ctx context.Context, override *generator.Settings) (any, error) {
	settings := generator.Settings{}
	if override != nil {
		settings = *override
	} else {
		var err error
		settings, err = g.vault.GeneratorSettings(ctx)
		if err != nil {
			return nil, err
		}
	}

	password, err := generator.Generate(settings)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, errors.New("no character classes enabled")
	}
	return GeneratedPassword{Password: password, Strength: strength.Estimate(password)}, nil
}
