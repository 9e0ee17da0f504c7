package identities

import (
	"encoding/json"

	"registrand/engine/library"
)

// AccountValidity tracks what the registry currently believes about one
// off-chain account. It starts Unknown and is only moved by verification
// feedback from the owning transport.
type AccountValidity string

const (
	Unknown AccountValidity = "unknown"
	Valid   AccountValidity = "valid"
	Invalid AccountValidity = "invalid"
)

// ChallengeStatus is the durable outcome of a verification attempt, persisted
// by the post-verification handler.
type ChallengeStatus string

const (
	Unconfirmed ChallengeStatus = "unconfirmed"
	Accepted    ChallengeStatus = "accepted"
	Rejected    ChallengeStatus = "rejected"
)

// AccountState is the verification state of one claimed off-chain account.
// The challenge is generated exactly once when the state is created and stays
// stable until the surrounding identity is replaced.
type AccountState struct {
	Account         library.Account     `json:"account"`
	AccountType     library.AccountType `json:"account_ty"`
	AccountValidity AccountValidity     `json:"account_validity"`
	Challenge       library.Challenge   `json:"challenge"`
	Confirmed       bool                `json:"confirmed"`
}

func NewAccountState(account library.Account, accountType library.AccountType) *AccountState {
	return &AccountState{
		Account:         account,
		AccountType:     accountType,
		AccountValidity: Unknown,
		Challenge:       library.GenerateChallenge(),
		Confirmed:       false,
	}
}

// OnChainIdentity is one pending claim: a network address plus whatever
// off-chain accounts the claimant listed on-chain. Mutated only by the
// registry actor; never deleted in the current design.
type OnChainIdentity struct {
	NetworkAddress library.NetworkAddress `json:"network_address"`
	DisplayName    string                 `json:"display_name,omitempty"`
	LegalName      string                 `json:"legal_name,omitempty"`
	Email          *AccountState          `json:"email,omitempty"`
	Web            *AccountState          `json:"web,omitempty"`
	Twitter        *AccountState          `json:"twitter,omitempty"`
	Chat           *AccountState          `json:"chat,omitempty"`
}

func (i *OnChainIdentity) Address() string {
	return i.NetworkAddress.Address
}

func (i *OnChainIdentity) PubKey() library.PubKey {
	return i.NetworkAddress.PubKey
}

// StateFor returns the account state for the given type, or nil if the
// claimant did not list an account of that type.
func (i *OnChainIdentity) StateFor(accountType library.AccountType) *AccountState {
	switch accountType {
	case library.Email:
		return i.Email
	case library.Web:
		return i.Web
	case library.Twitter:
		return i.Twitter
	case library.Chat:
		return i.Chat
	}
	return nil
}

// SetState attaches an account state to the matching slot.
func (i *OnChainIdentity) SetState(state *AccountState) {
	switch state.AccountType {
	case library.Email:
		i.Email = state
	case library.Web:
		i.Web = state
	case library.Twitter:
		i.Twitter = state
	case library.Chat:
		i.Chat = state
	}
}

func (i *OnChainIdentity) EncodeJSON() ([]byte, error) {
	return json.Marshal(i)
}

func DecodeJSON(val []byte) (OnChainIdentity, error) {
	var ident OnChainIdentity
	err := json.Unmarshal(val, &ident)
	return ident, err
}
