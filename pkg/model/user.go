package model

import "time"

const (
	RoleGuest = "guest"
	RoleHost  = "host"
	RoleAdmin = "admin"
)

type User struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Email        string    `json:"email" bson:"email" validate:"required,email"`
	PasswordHash string    `json:"-" bson:"password_hash" validate:"omitempty"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Phone        string    `json:"phone,omitempty" bson:"phone" validate:"omitempty,e164"`
	Role         string    `json:"role" bson:"role" validate:"required,oneof=guest host admin"`
	City         string    `json:"city,omitempty" bson:"city" validate:"omitempty,min=2,max=50"`
	Country      string    `json:"country,omitempty" bson:"country" validate:"omitempty,iso3166_1_alpha2"`
	Timezone     string    `json:"timezone,omitempty" bson:"timezone" validate:"omitempty,timezone"`
	AvatarURL    string    `json:"avatar_url,omitempty" bson:"avatar_url" validate:"omitempty,url"`
	Suspended    bool      `json:"suspended,omitempty" bson:"suspended"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

type UserUpdate struct {
	Name      string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone     string `json:"phone,omitempty" validate:"omitempty"`
	City      string `json:"city,omitempty" validate:"omitempty,min=2,max=50"`
	Country   string `json:"country,omitempty" validate:"omitempty,iso3166_1_alpha2"`
	Timezone  string `json:"timezone,omitempty" validate:"omitempty,timezone"`
	AvatarURL string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}
