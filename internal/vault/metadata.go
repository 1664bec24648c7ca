package vault

import (
	"context"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/generator"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/storage"
)

// PasswordCategories returns the user-defined category list.
func (v *Vault) PasswordCategories(ctx context.Context) ([]string, error) {
	return v.loadStringList(ctx, storage.KeyPasswordCategories)
}

// SetPasswordCategories replaces the category list.
func (v *Vault) SetPasswordCategories(ctx context.Context, categories []string) error {
	if categories == nil {
		categories = []string{}
	}
	return v.saveCollection(ctx, storage.KeyPasswordCategories, categories)
}

// PasswordTags returns the user-defined tag list.
func (v *Vault) PasswordTags(ctx context.Context) ([]string, error) {
	return v.loadStringList(ctx, storage.KeyPasswordTags)
}

// SetPasswordTags replaces the tag list.
func (v *Vault) SetPasswordTags(ctx context.Context, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	return v.saveCollection(ctx, storage.KeyPasswordTags, tags)
}

// GeneratorSettings returns the stored password-generator settings, falling
// back to the defaults when none were saved.
func (v *Vault) GeneratorSettings(ctx context.Context) (generator.Settings, error) {
	var settings generator.Settings
	if err := v.loadCollection(ctx, storage.KeyGeneratorSettings, &settings); err != nil {
		return generator.Settings{}, err
	}
	if settings == (generator.Settings{}) {
		return generator.DefaultSettings(), nil
	}
	return settings, nil
}

// SetGeneratorSettings persists the password-generator settings.
func (v *Vault) SetGeneratorSettings(ctx context.Context, settings generator.Settings) error {
	return v.saveCollection(ctx, storage.KeyGeneratorSettings, settings)
}

func (v *Vault) loadStringList(ctx context.Context, key string) ([]string, error) {
	list := []string{}
	if err := v.loadCollection(ctx, key, &list); err != nil {
		return nil, err
	}
	return list, nil
}
