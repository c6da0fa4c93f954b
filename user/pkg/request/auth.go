package request

import (
	"github.com/rs/zerolog"
)

type Login struct {
	Username string `validate:"required" json:"username"`
	Password string `validate:"required" json:"password"`
}

func (l Login) MarshalZerologObject(e *zerolog.Event) {
	e.Str("username", l.Username).Str("password", "***")
}

type Register struct {
	Username string `validate:"required"            json:"username"`
	Email    string `validate:"required,email"      json:"email"`
	Password string `validate:"required,min=6"      json:"password"`
}

func (r Register) MarshalZerologObject(e *zerolog.Event) {
	e.Str("username", r.Username).Str("email", r.Email).Str("password", "***")
}
