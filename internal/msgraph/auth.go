package msgraph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/trivial-calendar/internal/logger"
)

// TokenFile is the token file name inside the data directory's auth folder.
const TokenFile = "msgraph_tokens.json"

var requiredScopes = []string{
	"https://graph.microsoft.com/Calendars.Read",
	"offline_access",
}

func msEndpoint(tenantID, path string) string {
	return "https://login.microsoftonline.com/" + tenantID + "/oauth2/v2.0/" + path
}

// TokenPath returns <dataDir>/auth/msgraph_tokens.json.
func TokenPath(dataDir string) string {
	return filepath.Join(dataDir, "auth", TokenFile)
}

// oauth2Config returns the oauth2.Config for Microsoft Graph using the
// provided tenant and client IDs.
func oauth2Config(tenantID, clientID string) *oauth2.Config {
	return &oauth2.Config{
		ClientID: clientID,
		Scopes:   requiredScopes,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: msEndpoint(tenantID, "devicecode"),
			TokenURL:      msEndpoint(tenantID, "token"),
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}
}

// LoadToken reads a saved token. A missing file yields a nil token.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token file (delete %s to re-authenticate): %w", path, err)
	}
	return &tok, nil
}

// SaveToken writes tok to path via temp file + rename.
func SaveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving token file: %w", err)
	}
	return nil
}

// Auth describes how to obtain a Graph token.
type Auth struct {
	TenantID  string
	ClientID  string
	TokenPath string
	// Prompt receives the device code sign-in instructions.
	Prompt io.Writer
	Log    *logger.Logger
}

// Login returns a usable token. It loads the saved token, refreshes it if
// needed, or runs the device code flow when nothing valid is available.
func (a Auth) Login(ctx context.Context) (*oauth2.Token, *oauth2.Config, error) {
	cfg := oauth2Config(a.TenantID, a.ClientID)

	tok, err := LoadToken(a.TokenPath)
	if err != nil {
		a.Log.Warn("ignoring saved token", "err", err)
		tok = nil
	}

	if tok != nil && tok.Valid() {
		return tok, cfg, nil
	}

	if tok != nil && tok.RefreshToken != "" {
		refreshed, err := cfg.TokenSource(ctx, tok).Token()
		if err == nil {
			if err := SaveToken(a.TokenPath, refreshed); err != nil {
				a.Log.Warn("could not save refreshed token", "err", err)
			}
			return refreshed, cfg, nil
		}
		a.Log.Info("token refresh failed, re-authenticating", "err", err)
	}

	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("device auth request failed: %w", err)
	}

	fmt.Fprintln(a.Prompt)
	fmt.Fprintln(a.Prompt, "To sign in, use a web browser to open the page:")
	fmt.Fprintf(a.Prompt, "  %s\n", resp.VerificationURI)
	fmt.Fprintf(a.Prompt, "Enter the code: %s\n", resp.UserCode)
	fmt.Fprintln(a.Prompt)

	newTok, err := cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, nil, fmt.Errorf("device authentication failed: %w", err)
	}
	if err := SaveToken(a.TokenPath, newTok); err != nil {
		a.Log.Warn("could not save token", "err", err)
	}
	return newTok, cfg, nil
}
