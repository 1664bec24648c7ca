package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/common"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/gateway"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/vault"
)

func (a *App) lockIndicator(ctx context.Context) string {
	res, err := a.call(ctx, gateway.CheckSessionPinRequest{})
	if err != nil {
		return ""
	}
	if res.(gateway.SessionStatus).Active {
		return "[unlocked] "
	}
	return "[locked] "
}

func (a *App) printErr(err error) {
	var locked *common.LockedOutError
	switch {
	case errors.As(err, &locked):
		fmt.Fprintf(a.out, "Locked out, try again in %d minute(s)\n", locked.MinutesLeft())
	case errors.Is(err, common.ErrorAttemptsExceeded):
		fmt.Fprintln(a.out, "Too many failed attempts. The vault has been wiped.")
	case errors.Is(err, common.ErrorSessionRequired):
		fmt.Fprintln(a.out, "Vault is locked, run 'unlock' first.")
	case errors.Is(err, common.ErrorPinNotSet):
		fmt.Fprintln(a.out, "No PIN set yet, run 'setpin' first.")
	default:
		fmt.Fprintln(a.out, "Error:", err)
	}
}

// SetPin sets the vault PIN, requiring the current one first when it exists.
func (a *App) SetPin(ctx context.Context) {
	res, err := a.call(ctx, gateway.CheckSessionPinRequest{})
	if err != nil {
		a.printErr(err)
		return
	}
	if res.(gateway.SessionStatus).PinSet {
		current, err := GetSecret("Current PIN", a.out)
		if err != nil {
			a.printErr(err)
			return
		}
		if _, err := a.call(ctx, gateway.VerifyAndSetPinRequest{Pin: current}); err != nil {
			a.printErr(err)
			return
		}
	}

	pin, err := GetSecret("New PIN (6-12 chars, letters and digits)", a.out)
	if err != nil {
		a.printErr(err)
		return
	}
	confirm, err := GetSecret("Repeat new PIN", a.out)
	if err != nil {
		a.printErr(err)
		return
	}
	if pin != confirm {
		fmt.Fprintln(a.out, "PINs do not match.")
		return
	}

	if err := a.gateway.SetPin(ctx, pin); err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintln(a.out, "PIN set.")
}

// Unlock verifies the PIN and opens a session.
func (a *App) Unlock(ctx context.Context) {
	pin, err := GetSecret("PIN", a.out)
	if err != nil {
		a.printErr(err)
		return
	}
	if _, err := a.call(ctx, gateway.VerifyAndSetPinRequest{Pin: pin}); err != nil {
		if errors.Is(err, common.ErrorWrongPin) {
			fmt.Fprintln(a.out, "Wrong PIN.")
			return
		}
		a.printErr(err)
		return
	}
	fmt.Fprintln(a.out, "Unlocked.")
}

func (a *App) Lock(ctx context.Context) {
	if _, err := a.call(ctx, gateway.ClearSessionPinRequest{}); err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintln(a.out, "Locked.")
}

func (a *App) Status(ctx context.Context) {
	res, err := a.call(ctx, gateway.CheckSessionPinRequest{})
	if err != nil {
		a.printErr(err)
		return
	}
	status := res.(gateway.SessionStatus)
	fmt.Fprintf(a.out, "PIN set: %v\nSession active: %v\n", status.PinSet, status.Active)
}

// AddPassword prompts for one credential and saves it.
func (a *App) AddPassword(ctx context.Context) {
	url, err := GetSimpleText(a.reader, "URL", a.out)
	if err != nil {
		a.printErr(err)
		return
	}
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		a.printErr(err)
		return
	}
	password, err := GetSecret("Password", a.out)
	if err != nil {
		a.printErr(err)
		return
	}

	_, err = a.call(ctx, gateway.SavePasswordRequest{
		Domain:   vault.DomainFromURL(url),
		URL:      url,
		Username: username,
		Password: password,
	})
	if err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintln(a.out, "Saved.")
}

// ListPasswords prints credentials for one domain, or all of them.
func (a *App) ListPasswords(ctx context.Context, domain string) {
	byDomain := map[string][]vault.CredentialRecord{}

	if domain != "" {
		res, err := a.call(ctx, gateway.GetPasswordsRequest{URL: domain})
		if err != nil {
			a.printErr(err)
			return
		}
		byDomain[domain] = res.([]vault.CredentialRecord)
	} else {
		res, err := a.call(ctx, gateway.GetAllPasswordsRequest{})
		if err != nil {
			a.printErr(err)
			return
		}
		byDomain = res.(map[string][]vault.CredentialRecord)
	}

	domains := make([]string, 0, len(byDomain))
	for d := range byDomain {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	total := 0
	for _, d := range domains {
		for _, r := range byDomain[d] {
			fmt.Fprintf(a.out, "%s  %s  %s\n", d, r.Username, r.Password)
			total++
		}
	}
	if total == 0 {
		fmt.Fprintln(a.out, "No entries.")
	}
}

// DeletePassword removes one credential by its identity triple.
func (a *App) DeletePassword(ctx context.Context) {
	url, err := GetSimpleText(a.reader, "URL", a.out)
	if err != nil {
		a.printErr(err)
		return
	}
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		a.printErr(err)
		return
	}

	_, err = a.call(ctx, gateway.DeletePasswordRequest{
		Domain:   vault.DomainFromURL(url),
		URL:      url,
		Username: username,
	})
	if errors.Is(err, common.ErrorNotFound) {
		fmt.Fprintln(a.out, "No such entry.")
		return
	}
	if err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintln(a.out, "Deleted.")
}

// GeneratePassword generates and prints a password with its strength score.
func (a *App) GeneratePassword(ctx context.Context) {
	res, err := a.call(ctx, gateway.GeneratePasswordRequest{})
	if err != nil {
		a.printErr(err)
		return
	}
	gp := res.(gateway.GeneratedPassword)
	fmt.Fprintf(a.out, "%s\n(score %d/4, crack time: %s)\n",
		gp.Password, gp.Strength.Score, gp.Strength.CrackTimeDisplay)
}

// Totp handles the totp subcommands: list, add, code.
func (a *App) Totp(ctx context.Context, args []string) {
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "list":
		res, err := a.call(ctx, gateway.GetAllTotpRequest{})
		if err != nil {
			a.printErr(err)
			return
		}
		entries := res.([]vault.TotpView)
		if len(entries) == 0 {
			fmt.Fprintln(a.out, "No authenticator entries.")
			return
		}
		for _, e := range entries {
			fmt.Fprintf(a.out, "%s  %s (%s)\n", e.ID, e.Service, e.Login)
		}

	case "add":
		service, err := GetSimpleText(a.reader, "Service", a.out)
		if err != nil {
			a.printErr(err)
			return
		}
		login, err := GetSimpleText(a.reader, "Login", a.out)
		if err != nil {
			a.printErr(err)
			return
		}
		secret, err := GetSecret("Secret (Base32 or hex)", a.out)
		if err != nil {
			a.printErr(err)
			return
		}
		if _, err := a.call(ctx, gateway.SaveTotpRequest{Service: service, Login: login, Secret: secret}); err != nil {
			a.printErr(err)
			return
		}
		fmt.Fprintln(a.out, "Saved.")

	case "code":
		secret, err := GetSecret("Secret (Base32 or hex)", a.out)
		if err != nil {
			a.printErr(err)
			return
		}
		res, err := a.call(ctx, gateway.GenerateTotpCodeRequest{Secret: secret})
		if err != nil {
			a.printErr(err)
			return
		}
		code := res.(gateway.TotpCode)
		fmt.Fprintf(a.out, "%s (valid for %ds)\n", code.Code, code.ExpiresIn)

	default:
		fmt.Fprintln(a.out, "Usage: totp list|add|code")
	}
}

// Pending prints the captured logins awaiting PIN entry.
func (a *App) Pending(ctx context.Context) {
	res, err := a.call(ctx, gateway.GetPendingPasswordsRequest{})
	if err != nil {
		a.printErr(err)
		return
	}
	pending := res.([]vault.PendingPassword)
	if len(pending) == 0 {
		fmt.Fprintln(a.out, "No pending passwords.")
		return
	}
	for _, p := range pending {
		fmt.Fprintf(a.out, "%s  %s\n", p.Domain, p.Username)
	}
}

// Whitelist lists or extends the saving exemption list.
func (a *App) Whitelist(ctx context.Context, args []string) {
	if len(args) > 0 && args[0] == "add" {
		if len(args) < 2 {
			fmt.Fprintln(a.out, "Usage: whitelist add <domain or *.domain>")
			return
		}
		res, err := a.call(ctx, gateway.GetWhitelistRequest{})
		if err != nil {
			a.printErr(err)
			return
		}
		entries := append(res.([]string), args[1])
		if _, err := a.call(ctx, gateway.SetWhitelistRequest{Entries: entries}); err != nil {
			a.printErr(err)
			return
		}
		fmt.Fprintln(a.out, "Added.")
		return
	}

	res, err := a.call(ctx, gateway.GetWhitelistRequest{})
	if err != nil {
		a.printErr(err)
		return
	}
	entries := res.([]string)
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "Whitelist is empty.")
		return
	}
	for _, e := range entries {
		fmt.Fprintln(a.out, e)
	}
}

// Export writes an encrypted export file.
func (a *App) Export(ctx context.Context, path string) {
	res, err := a.call(ctx, gateway.ExportPasswordsRequest{})
	if err != nil {
		a.printErr(err)
		return
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		a.printErr(err)
		return
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintln(a.out, "Exported to", path)
}

// Import reads an encrypted export file and merges it into the vault.
func (a *App) Import(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		a.printErr(err)
		return
	}
	var file vault.ExportFile
	if err := json.Unmarshal(data, &file); err != nil {
		a.printErr(err)
		return
	}

	pin, err := GetSecret("Export PIN", a.out)
	if err != nil {
		a.printErr(err)
		return
	}
	res, err := a.call(ctx, gateway.ImportPasswordsRequest{File: &file, Pin: pin})
	if err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintf(a.out, "Imported %d record(s).\n", res.(gateway.ImportResult).Imported)
}
