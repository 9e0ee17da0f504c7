package verifier

import (
	"registrand/engine/library"
)

// ChallengedAddress is one outstanding (claimant, challenge) pair of a
// verification session.
type ChallengedAddress struct {
	NetworkAddress library.NetworkAddress
	Challenge      library.Challenge
}

// Verifier checks one response text against every outstanding challenge of a
// session. It is built per response and thrown away afterwards; rendering and
// feedback read the partition it leaves behind.
type Verifier struct {
	challenges []ChallengedAddress
	valid      []ChallengedAddress
	invalid    []ChallengedAddress
}

func NewVerifier(challenges []ChallengedAddress) *Verifier {
	return &Verifier{challenges: challenges}
}

// Verify partitions the outstanding challenges by whether the response is a
// signature over them by the corresponding address key. A response that does
// not even decode as a signature leaves the partition untouched, so nothing
// downstream fires.
func (v *Verifier) Verify(response string) {
	sig, err := library.DecodeSignature(response)
	if err != nil {
		return
	}
	for _, challenged := range v.challenges {
		if library.VerifySignedChallenge(challenged.Challenge, challenged.NetworkAddress.PubKey, sig) {
			v.valid = append(v.valid, challenged)
		} else {
			v.invalid = append(v.invalid, challenged)
		}
	}
}

// ValidVerifications returns the addresses that proved ownership, in the order
// their challenges were issued.
func (v *Verifier) ValidVerifications() []library.NetworkAddress {
	var addresses []library.NetworkAddress
	for _, challenged := range v.valid {
		addresses = append(addresses, challenged.NetworkAddress)
	}
	return addresses
}

// InvalidVerifications returns the addresses that failed, in issue order.
func (v *Verifier) InvalidVerifications() []library.NetworkAddress {
	var addresses []library.NetworkAddress
	for _, challenged := range v.invalid {
		addresses = append(addresses, challenged.NetworkAddress)
	}
	return addresses
}
