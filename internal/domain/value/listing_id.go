package value

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const listingIDBytes = 16

// ListingID is an opaque listing token: 16 random bytes rendered as 32 lowercase hex chars.
type ListingID string

func NewListingID() (ListingID, error) {
	b := make([]byte, listingIDBytes)

	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand.Read: %w", err)
	}

	return ListingID(hex.EncodeToString(b)), nil
}

func ParseListingID(s string) (ListingID, error) {
	if len(s) != hex.EncodedLen(listingIDBytes) {
		return "", fmt.Errorf("listing id: want %d hex chars, got %d", hex.EncodedLen(listingIDBytes), len(s))
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("hex.DecodeString: %w", err)
	}

	return ListingID(hex.EncodeToString(b)), nil
}

func (id ListingID) String() string {
	return string(id)
}
