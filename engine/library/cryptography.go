package library

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// GenerateChallenge draws 16 bytes from the system's CSPRNG and hex-encodes them.
// Two live challenges colliding would mean the random source is broken, which is
// not something we can recover from.
func GenerateChallenge() Challenge {
	random := make([]byte, 16)
	if _, err := rand.Read(random); err != nil {
		LogCLI(fmt.Sprintf("could not read from the system random source: %s", err.Error()), 0)
	}
	return hex.EncodeToString(random)
}

// DecodeSignature turns the claimant's raw response text into a schnorr signature.
// Wallets like to prefix hex output with 0x, so that gets stripped first. A response
// that does not decode is a recoverable condition, the caller prompts the user again.
func DecodeSignature(response string) (*schnorr.Signature, error) {
	b, err := hex.DecodeString(strings.TrimSpace(strings.ReplaceAll(response, "0x", "")))
	if err != nil {
		return nil, fmt.Errorf("response is not valid hex")
	}
	sig, err := schnorr.ParseSignature(b)
	if err != nil {
		return nil, fmt.Errorf("response is not a valid signature")
	}
	return sig, nil
}

// VerifySignedChallenge reports whether sig is a valid schnorr signature over the
// challenge's exact text by the given x-only public key. Malformed key material is
// a verification failure, never an error.
func VerifySignedChallenge(challenge Challenge, pubKey PubKey, sig *schnorr.Signature) bool {
	keyb, err := hex.DecodeString(pubKey)
	if err != nil {
		return false
	}
	pk, err := schnorr.ParsePubKey(keyb)
	if err != nil {
		return false
	}
	digest := sha256.Sum256([]byte(challenge))
	return sig.Verify(digest[:], pk)
}
