package models

import (
	"time"
)

const (
	DefaultName   = "Жак-Ив Кусто"
	DefaultAbout  = "Исследователь"
	DefaultAvatar = "https://pictures.s3.yandex.net/resources/jacques-cousteau_1604399756.png"
)

type Credentials struct {
	UserID       string
	PasswordHash string // bcrypt‑хэш
}

// User never serializes PasswordHash.
type User struct {
	ID           string `json:"_id" bson:"_id"`
	Email        string `json:"email" bson:"email"`
	PasswordHash string `json:"-" bson:"password"`
	Name         string `json:"name" bson:"name"`
	About        string `json:"about" bson:"about"`
	Avatar       string `json:"avatar" bson:"avatar"`
}

type Card struct {
	ID        string    `json:"_id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Link      string    `json:"link" bson:"link"`
	Owner     string    `json:"owner" bson:"owner"`
	Likes     []string  `json:"likes" bson:"likes"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type Profile struct {
	Name  string
	About string
}
