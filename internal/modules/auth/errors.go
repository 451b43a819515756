package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

const (
	msgEmailTaken    = "A user with that email already exists."
	msgUsernameTaken = "A user with that username already exists."
	msgUsernameMe    = "The username 'me' is reserved."
	msgWrongPassword = "Invalid password."
	msgBadLogin      = "Unable to log in with provided credentials."
)
