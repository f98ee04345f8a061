// Package randx generates cryptographically secure random identifiers:
// short Base62 post ids and UUID group ids.
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding.
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the size of the Base62 character set.
	Base62Len = int64(len(Base62Chars))

	// PostIDLength is the fixed length of public post identifiers.
	PostIDLength = 9
)

// base62String builds a random Base62 string of the given length using
// crypto/rand.
func base62String(length int) (string, error) {
	result := make([]byte, length)

	for i := range length {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// PostID generates a short opaque identifier for a public post.
func PostID() (string, error) {
	return base62String(PostIDLength)
}

// GroupID generates a UUID v4 string identifying a private group.
func GroupID() string {
	return uuid.New().String()
}
