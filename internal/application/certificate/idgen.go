package certificate

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Rango del ID corto de certificado: 6 dígitos, [100000, 999999].
const (
	certIDMin  = 100000
	certIDSpan = 900000
)

// maxIDAttempts acota los reintentos cuando el ID sorteado ya existe en la DB.
// Con 900k IDs posibles la probabilidad de agotar 5 intentos es despreciable
// hasta volúmenes donde el formato de 6 dígitos deja de tener sentido.
const maxIDAttempts = 5

// randomCertID sortea un ID de certificado de 6 dígitos con crypto/rand.
// La unicidad no se garantiza aquí: la asegura el índice único de la DB
// junto con el reintento acotado en StoreBatch.
func randomCertID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(certIDSpan))
	if err != nil {
		return "", fmt.Errorf("sortear certificate_id: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+certIDMin), nil
}
