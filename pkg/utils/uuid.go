package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength   = 10
)

// GenerateID gera um código curto (usado como referência de pedido)
func GenerateID() (string, error) {
	return gonanoid.Generate(characters, idLength)
}
