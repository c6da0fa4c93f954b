package gateway

import (
	"context"
	"fmt"
	"net/http"

	userRequest "github.com/Alturino/storefront/user/pkg/request"
	userResponse "github.com/Alturino/storefront/user/pkg/response"
)

func (g *Client) Login(
	c context.Context,
	param userRequest.Login,
) (userResponse.Auth, error) {
	auth := userResponse.Auth{}
	err := g.do(c, http.MethodPost, "/auth/login", param, &auth, authOptional)
	if err != nil {
		return userResponse.Auth{}, fmt.Errorf("failed logging in with error=%w", err)
	}
	return auth, nil
}

func (g *Client) Register(
	c context.Context,
	param userRequest.Register,
) (userResponse.Auth, error) {
	auth := userResponse.Auth{}
	err := g.do(c, http.MethodPost, "/auth/register", param, &auth, authOptional)
	if err != nil {
		return userResponse.Auth{}, fmt.Errorf("failed registering with error=%w", err)
	}
	return auth, nil
}
