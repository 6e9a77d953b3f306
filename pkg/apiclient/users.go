package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/avelasquez/northwind-admin/internal/models"
)

func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.do(ctx, http.MethodGet, "users/obtenerUsuarios", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UserByEmail resolves the user record the decoded token email points at.
// The caller derives roles from it.
func (c *Client) UserByEmail(ctx context.Context, email string) (models.User, error) {
	var out models.User
	path := "users/obtenerUsuarioPorEmail/" + url.PathEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return models.User{}, err
	}
	return out, nil
}

func (c *Client) RegisterUser(ctx context.Context, req models.RegisterUserRequest) error {
	return c.do(ctx, http.MethodPost, "users/Register", req, nil)
}

func (c *Client) UpdateUser(ctx context.Context, id string, req models.UpdateUserRequest) error {
	return c.do(ctx, http.MethodPut, "users/actualizarUsuario/"+id, req, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "users/eliminarUsuario/"+id, nil, nil)
}

func (c *Client) Roles(ctx context.Context) ([]models.Role, error) {
	var out []models.Role
	if err := c.do(ctx, http.MethodGet, "roles/obtenerRoles", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AssignRole(ctx context.Context, userID, roleID string) error {
	payload := map[string]string{"userId": userID, "roleId": roleID}
	return c.do(ctx, http.MethodPost, "user-roles/asignarRolAUsuario", payload, nil)
}

func (c *Client) UpdateUserRole(ctx context.Context, userID, currentRoleID, newRoleID string) error {
	payload := map[string]string{
		"userId":        userID,
		"currentRoleId": currentRoleID,
		"newRoleId":     newRoleID,
	}
	return c.do(ctx, http.MethodPut, "user-roles/actualizarRolUsuario", payload, nil)
}

func (c *Client) RemoveUserRole(ctx context.Context, userID, roleID string) error {
	return c.do(ctx, http.MethodDelete, "user-roles/removerRolDeUsuario/"+userID+"/"+roleID, nil, nil)
}

// UserImage fetches the profile image as base64; 404 means no image.
func (c *Client) UserImage(ctx context.Context, userID string) (string, error) {
	var out imageDTO
	err := c.do(ctx, http.MethodGet, "users/image/obtenerImagenUsuario/"+userID, nil, &out)
	if err != nil {
		if IsNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return out.Image, nil
}

func (c *Client) CreateUserImage(ctx context.Context, userID, base64 string) error {
	return c.do(ctx, http.MethodPost, "users/image/crearImagenUsuario/"+userID, imageDTO{Image: base64}, nil)
}

func (c *Client) UpdateUserImage(ctx context.Context, userID, base64 string) error {
	return c.do(ctx, http.MethodPut, "users/image/actualizarImagenUsuario/"+userID, imageDTO{Image: base64}, nil)
}

func (c *Client) DeleteUserImage(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "users/image/eliminarImagenUsuario/"+userID, nil, nil)
}
