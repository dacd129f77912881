package stellar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
)

// userEnvelope is the wrapper most user endpoints respond with.
type userEnvelope struct {
	Message string `json:"message,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// decodeUser accepts both the {"user": {...}} envelope and a bare user body.
func decodeUser(raw json.RawMessage) (*User, error) {
	envelope, err := decode[userEnvelope](raw)
	if err != nil {
		return nil, err
	}
	if envelope.User != nil {
		return envelope.User, nil
	}
	return decode[User](raw)
}

// Profile fetches the authenticated user's account.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	raw, err := c.execute(ctx, "profile", http.MethodGet, "/users/profile", nil)
	if err != nil {
		return nil, err
	}
	return decodeUser(raw)
}

// UpdateProfile applies partial changes to the authenticated user's account
// and returns the updated user.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	raw, err := c.execute(ctx, "update_profile", http.MethodPut, "/users/profile", update)
	if err != nil {
		return nil, err
	}
	return decodeUser(raw)
}

// ChangePassword replaces the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) (*MessageResponse, error) {
	payload := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}

	raw, err := c.execute(ctx, "change_password", http.MethodPost, "/users/change-password", payload)
	if err != nil {
		return nil, err
	}
	return decode[MessageResponse](raw)
}

// UploadAvatar replaces the authenticated user's avatar image. The upload
// is sent as a multipart form with the image under the "avatar" field.
func (c *Client) UploadAvatar(ctx context.Context, filename string, image io.Reader) (*User, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("avatar", filename)
	if err != nil {
		return nil, fmt.Errorf("stellar: build avatar upload: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("stellar: read avatar image: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("stellar: build avatar upload: %w", err)
	}

	raw, err := c.executeWith(ctx, "upload_avatar", http.MethodPost, "/users/avatar",
		buf.Bytes(), callOpts{contentType: form.FormDataContentType()})
	if err != nil {
		return nil, err
	}
	return decodeUser(raw)
}

// DeleteAccount permanently deletes the authenticated user's account. The
// password reconfirms intent.
//
// Local credentials are dropped no matter how the server call goes; an
// account that may or may not exist anymore is not one to keep tokens for.
func (c *Client) DeleteAccount(ctx context.Context, password string) error {
	defer c.tokens.Clear()

	payload := map[string]string{"password": password}
	_, err := c.execute(ctx, "delete_account", http.MethodDelete, "/users/delete", payload)
	return err
}

// User fetches a user by ID.
func (c *Client) User(ctx context.Context, id string) (*User, error) {
	raw, err := c.execute(ctx, "get_user", http.MethodGet, "/users/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return decodeUser(raw)
}

// ListUsers fetches one page of the user listing.
func (c *Client) ListUsers(ctx context.Context, opts ListUsersOptions) (*UsersPage, error) {
	query := url.Values{}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Sort != "" {
		query.Set("sort", opts.Sort)
	}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}
	if opts.Role != "" {
		query.Set("role", opts.Role)
	}
	if opts.Search != "" {
		query.Set("search", opts.Search)
	}

	path := "/users"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	raw, err := c.execute(ctx, "list_users", http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decode[UsersPage](raw)
}

// Health checks server liveness. It needs no authentication.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	raw, err := c.executeWith(ctx, "health", http.MethodGet, "/health", nil, callOpts{skipAuth: true})
	if err != nil {
		return nil, err
	}
	return decode[HealthResponse](raw)
}
