package gateway

import (
	"encoding/json"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/generator"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/strength"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/vault"
)

// Request is one inbound vault operation. Each variant carries exactly the
// fields its action needs; the action tag doubles as the log label.
type Request interface {
	Action() string
}

// Envelope wraps a request with its optional anti-replay fields. Timestamp
// is unix milliseconds; both fields are enforced only for guarded actions.
type Envelope struct {
	Request   Request
	Timestamp int64
	Nonce     string
}

// PIN and session management.

type VerifyAndSetPinRequest struct{ Pin string }

type ClearSessionPinRequest struct{}

type CheckSessionPinRequest struct{}

// Credentials.

type SavePasswordRequest struct {
	Domain   string
	URL      string
	Username string
	Password string
}

// GetPasswordsRequest looks up credentials for the page at URL; the domain is
// derived from it.
type GetPasswordsRequest struct{ URL string }

type GetAllPasswordsRequest struct{}

type DeletePasswordRequest struct {
	Domain   string
	URL      string
	Username string
}

type UpdatePasswordRequest struct {
	Domain      string
	URL         string
	Username    string
	NewPassword string
}

type UpdatePasswordMetadataRequest struct {
	Domain   string
	URL      string
	Username string
	Metadata vault.CredentialMetadata
}

// Data cards.

type SaveDataCardRequest struct{ Card json.RawMessage }

type UpdateDataCardRequest struct {
	ID   string
	Card json.RawMessage
}

type DeleteDataCardRequest struct{ ID string }

type GetDataCardRequest struct{ ID string }

type GetAllDataCardsRequest struct{}

// Authenticator entries.

type SaveTotpRequest struct {
	Service string
	Login   string
	Secret  string
}

type UpdateTotpRequest struct {
	ID      string
	Service string
	Login   string
	Secret  string
}

type DeleteTotpRequest struct{ ID string }

type GetAllTotpRequest struct{}

type GenerateTotpCodeRequest struct{ Secret string }

// Password generation and strength.

// GeneratePasswordRequest generates with the stored settings unless an
// override is supplied.
type GeneratePasswordRequest struct{ Settings *generator.Settings }

type GetGeneratorSettingsRequest struct{}

type SetGeneratorSettingsRequest struct{ Settings generator.Settings }

type EstimateStrengthRequest struct {
	Password   string
	UserInputs []string
}

// Whitelist.

type CheckWhitelistRequest struct{ Domain string }

type GetWhitelistRequest struct{}

type SetWhitelistRequest struct{ Entries []string }

// Pending passwords.

type SavePendingPasswordRequest struct {
	Domain   string
	URL      string
	Username string
	Password string
}

type GetPendingPasswordsRequest struct{}

type ClearPendingPasswordsRequest struct{}

// Export / import.

type ExportPasswordsRequest struct{}

type ImportPasswordsRequest struct {
	File *vault.ExportFile
	Pin  string
}

// Biometric unlock.

type EnableBiometricRequest struct{ CredentialID string }

type DisableBiometricRequest struct{}

type SaveBiometricPinRequest struct{ Pin string }

type AuthenticateBiometricRequest struct{}

// Categories and tags.

type GetPasswordCategoriesRequest struct{}

type SetPasswordCategoriesRequest struct{ Categories []string }

type GetPasswordTagsRequest struct{}

type SetPasswordTagsRequest struct{ Tags []string }

func (VerifyAndSetPinRequest) Action() string        { return "verifyAndSetPin" }
func (ClearSessionPinRequest) Action() string        { return "clearSessionPin" }
func (CheckSessionPinRequest) Action() string        { return "checkSessionPin" }
func (SavePasswordRequest) Action() string           { return "savePassword" }
func (GetPasswordsRequest) Action() string           { return "getPasswords" }
func (GetAllPasswordsRequest) Action() string        { return "getAllPasswords" }
func (DeletePasswordRequest) Action() string         { return "deletePassword" }
func (UpdatePasswordRequest) Action() string         { return "updatePassword" }
func (UpdatePasswordMetadataRequest) Action() string { return "updatePasswordMetadata" }
func (SaveDataCardRequest) Action() string           { return "saveDataCard" }
func (UpdateDataCardRequest) Action() string         { return "updateDataCard" }
func (DeleteDataCardRequest) Action() string         { return "deleteDataCard" }
func (GetDataCardRequest) Action() string            { return "getDataCard" }
func (GetAllDataCardsRequest) Action() string        { return "getAllDataCards" }
func (SaveTotpRequest) Action() string               { return "saveTotp" }
func (UpdateTotpRequest) Action() string             { return "updateTotp" }
func (DeleteTotpRequest) Action() string             { return "deleteTotp" }
func (GetAllTotpRequest) Action() string             { return "getAllTotp" }
func (GenerateTotpCodeRequest) Action() string       { return "generateTotpCode" }
func (GeneratePasswordRequest) Action() string       { return "generatePassword" }
func (GetGeneratorSettingsRequest) Action() string   { return "getGeneratorSettings" }
func (SetGeneratorSettingsRequest) Action() string   { return "setGeneratorSettings" }
func (EstimateStrengthRequest) Action() string       { return "estimateStrength" }
func (CheckWhitelistRequest) Action() string         { return "checkWhitelist" }
func (GetWhitelistRequest) Action() string           { return "getWhitelist" }
func (SetWhitelistRequest) Action() string           { return "setWhitelist" }
func (SavePendingPasswordRequest) Action() string    { return "savePendingPassword" }
func (GetPendingPasswordsRequest) Action() string    { return "getPendingPasswords" }
func (ClearPendingPasswordsRequest) Action() string  { return "clearPendingPasswords" }
func (ExportPasswordsRequest) Action() string        { return "exportPasswords" }
func (ImportPasswordsRequest) Action() string        { return "importPasswords" }
func (EnableBiometricRequest) Action() string        { return "enableBiometric" }
func (DisableBiometricRequest) Action() string       { return "disableBiometric" }
func (SaveBiometricPinRequest) Action() string       { return "saveBiometricPin" }
func (AuthenticateBiometricRequest) Action() string  { return "authenticateBiometric" }
func (GetPasswordCategoriesRequest) Action() string  { return "getPasswordCategories" }
func (SetPasswordCategoriesRequest) Action() string  { return "setPasswordCategories" }
func (GetPasswordTagsRequest) Action() string        { return "getPasswordTags" }
func (SetPasswordTagsRequest) Action() string        { return "setPasswordTags" }

// SessionStatus answers checkSessionPin.
type SessionStatus struct {
	Active bool `json:"hasSession"`
	PinSet bool `json:"pinSet"`
}

// GeneratedPassword answers generatePassword.
type GeneratedPassword struct {
	Password string          `json:"password"`
	Strength strength.Result `json:"strength"`
}

// TotpCode answers generateTotpCode.
type TotpCode struct {
	Code      string `json:"code"`
	ExpiresIn int    `json:"expiresIn"`
}

// ImportResult answers importPasswords.
type ImportResult struct {
	Imported int `json:"imported"`
}
