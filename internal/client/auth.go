package client

import (
	"context"

	"github.com/sgp/sgp-backend/internal/model"
)

// Login exchanges admin credentials for a token. The token is also stored
// on the client for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*model.AdminLoginResponse, error) {
	var out model.AdminLoginResponse
	err := c.post(ctx, "/api/v1/auth/admin/login", model.AdminLoginRequest{
		Email:    email,
		Password: password,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.Token = out.Token
	return &out, nil
}
