package recipe

import "errors"

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrForbidden      = errors.New("only the author can change this recipe")
)

const (
	msgForbidden   = "You do not have permission to perform this action."
	msgNotFound    = "Recipe not found"
	msgInvalidBool = "Must be one of 1, 0, true, false."
	msgInvalidID   = "A valid integer is required."
)
