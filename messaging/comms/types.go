package comms

import (
	"registrand/engine/library"
	"registrand/state/identities"
)

// Kind tags the closed mailbox message vocabulary. The registry loop handles
// every kind exhaustively; an unlisted kind reaching it is a routing bug and fatal.
type Kind int

const (
	KindNewIdentity Kind = iota + 1
	KindInform
	KindValidAccount
	KindInvalidAccount
	KindTrackSession
	KindRequestAccountState
	KindInvalidRequest
)

// Message is the tagged union carried by every mailbox. Only the fields named
// by the Kind are meaningful.
type Message struct {
	Kind Kind

	// KindNewIdentity
	Identity identities.OnChainIdentity

	// KindInform, KindValidAccount, KindInvalidAccount
	NetworkAddress library.NetworkAddress

	// KindInform: the challenge to deliver and the off-chain account to deliver
	// it to. SessionID is the tracked conversation to reattach to, empty for a
	// fresh conversation.
	Challenge library.Challenge
	SessionID library.Sha256

	// KindTrackSession
	PubKey library.PubKey

	// KindRequestAccountState, KindInform
	Account     library.Account
	AccountType library.AccountType
}
