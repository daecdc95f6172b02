package vault

import (
	"fmt"

	"github.com/hashicorp/vault/api"
)

// SecretManager pulls provider credentials from Vault at startup. Deployments
// without Vault leave the address empty and use plain config values instead.
type SecretManager struct {
	client *api.Client
}

func NewSecretManager(address, token string) (*SecretManager, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, err
	}

	client.SetToken(token)

	return &SecretManager{client: client}, nil
}

// Get reads one field from a KV v2 secret at secret/data/<path>.
func (sm *SecretManager) Get(path, field string) (string, error) {
	secret, err := sm.client.Logical().Read("secret/data/" + path)
	if err != nil {
		return "", fmt.Errorf("vault read %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("vault secret %s not found", path)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("vault secret %s has no data", path)
	}
	value, ok := data[field].(string)
	if !ok {
		return "", fmt.Errorf("vault secret %s missing field %s", path, field)
	}
	return value, nil
}

func (sm *SecretManager) GetStoreCredentials() (string, error) {
	return sm.Get("store", "connection_string")
}

func (sm *SecretManager) GetTwilioAuthToken() (string, error) {
	return sm.Get("twilio", "auth_token")
}

func (sm *SecretManager) GetGeminiAPIKey() (string, error) {
	return sm.Get("gemini", "api_key")
}

func (sm *SecretManager) GetStripeAPIKey() (string, error) {
	return sm.Get("stripe", "api_key")
}
