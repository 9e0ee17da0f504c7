package verifier

import (
	"fmt"

	"registrand/engine/actors"
	"registrand/engine/library"
	"registrand/messaging/comms"
	"registrand/state/identities"
)

func statusKey(networkAddress library.NetworkAddress, accountType library.AccountType) []byte {
	return []byte(networkAddress.Address + ":" + string(accountType))
}

// HandleVerification records the outcome of a Verify pass: each address gets a
// durable challenge status and the registry is told, status write first so a
// crash between the two never loses the outcome.
func HandleVerification(v *Verifier, statuses actors.ScopedStore, endpoint *comms.Endpoint) {
	for _, networkAddress := range v.ValidVerifications() {
		library.LogCLI(fmt.Sprintf("Valid verification for address: %s", networkAddress.Address), 3)
		statuses.Put(statusKey(networkAddress, endpoint.AccountType()), []byte(identities.Accepted))
		endpoint.ValidFeedback(networkAddress)
	}
	for _, networkAddress := range v.InvalidVerifications() {
		library.LogCLI(fmt.Sprintf("Invalid verification for address: %s", networkAddress.Address), 3)
		statuses.Put(statusKey(networkAddress, endpoint.AccountType()), []byte(identities.Rejected))
		endpoint.InvalidFeedback(networkAddress)
	}
}
