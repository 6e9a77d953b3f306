package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

var ErrBadToken = errors.New("login response carried no usable token")

// loginResponse tolerates the token arriving under any of the field names
// the backend has used.
type loginResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	TokenUpper  string `json:"Token"`
	JWT         string `json:"jwt"`
}

func (r loginResponse) pick() string {
	for _, t := range []string{r.Token, r.AccessToken, r.TokenUpper, r.JWT} {
		if t != "" {
			return t
		}
	}
	return ""
}

// Login authenticates against users/LoginAccessCount and returns the
// bearer token. Tokens shorter than 10 characters are treated as a server
// bug, not a credential.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "users/LoginAccessCount", body, &resp); err != nil {
		return "", err
	}

	token := resp.pick()
	if len(token) < 10 {
		return "", ErrBadToken
	}
	return token, nil
}

// Permissions fetches the permission snapshot stored alongside the token.
// The backend has served it as a bare array, under "permisos" and under
// "data"; all three shapes normalize to a flat name list, anything else
// normalizes to none.
func (c *Client) Permissions(ctx context.Context) ([]string, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "permissions/obtenerPermisos", nil, &raw); err != nil {
		return nil, err
	}
	return normalizePermissions(raw), nil
}

func normalizePermissions(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		var wrapped struct {
			Permisos []json.RawMessage `json:"permisos"`
			Data     []json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil
		}
		items = wrapped.Permisos
		if items == nil {
			items = wrapped.Data
		}
	}

	var names []string
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			names = append(names, s)
			continue
		}
		var obj struct {
			Name   string `json:"name"`
			Nombre string `json:"nombre"`
		}
		if err := json.Unmarshal(item, &obj); err == nil {
			if obj.Name != "" {
				names = append(names, obj.Name)
			} else if obj.Nombre != "" {
				names = append(names, obj.Nombre)
			}
		}
	}
	return names
}
