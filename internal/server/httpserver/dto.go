package httpserver

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/models"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
	ExpiresAt    int64  `json:"expires_at"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type verifyResponse struct {
	Subject   string `json:"sub"`
	UserID    string `json:"id"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

type attributeRequest struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	UserID string `json:"user_id"`
}

func (r attributeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Key, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.UserID, validation.Required),
	)
}

type initialAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (a initialAttribute) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Key, validation.Required, validation.Length(1, 255)),
	)
}

type registerRequest struct {
	Name       string             `json:"name"`
	Username   string             `json:"username"`
	Password   string             `json:"password"`
	Attributes []initialAttribute `json:"attributes"`
}

func (r registerRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Username, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 72)),
	)
	if err != nil {
		return err
	}
	for _, a := range r.Attributes {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (r registerRequest) attributes() []models.Attribute {
	out := make([]models.Attribute, 0, len(r.Attributes))
	for _, a := range r.Attributes {
		out = append(out, models.Attribute{Key: a.Key, Value: a.Value})
	}
	return out
}

type registeredUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type statusResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Count  *int64 `json:"count,omitempty"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
