package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// arcrc mirrors the parts of arcanist's ~/.arcrc we need: a map from
// Conduit API URL to credentials.
type arcrc struct {
	Hosts map[string]struct {
		Token string `json:"token"`
	} `json:"hosts"`
}

// TokenFromArcrc looks up the Conduit token for the given instance URL in
// ~/.arcrc. Best effort: any failure yields "".
func TokenFromArcrc(baseURL string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	token, err := arcTokenFromFile(filepath.Join(home, ".arcrc"), baseURL)
	if err != nil {
		return ""
	}
	return token
}

func arcTokenFromFile(path, baseURL string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var rc arcrc
	if err := json.Unmarshal(raw, &rc); err != nil {
		return "", err
	}

	// Arcanist stores hosts as "https://phab.example.com/api/".
	want := strings.TrimRight(baseURL, "/") + "/api/"
	for host, creds := range rc.Hosts {
		if host == want || strings.TrimRight(host, "/") == strings.TrimRight(baseURL, "/") {
			return creds.Token, nil
		}
	}
	return "", nil
}
