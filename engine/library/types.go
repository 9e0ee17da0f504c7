package library

// Account is an off-chain account identifier, for example "bob@example.com",
// "@bob" or the hex pubkey of a chat account.
type Account = string

// PubKey is a hex-encoded x-only schnorr public key.
type PubKey = string

// Challenge is a hex-encoded random token a claimant must sign to prove key ownership.
type Challenge = string

type Sha256 = string

// AccountType determines which mailbox/transport handles an off-chain account.
type AccountType string

const (
	Email   AccountType = "email"
	Web     AccountType = "web"
	Twitter AccountType = "twitter"
	Chat    AccountType = "chat"
	// DisplayName is not backed by a transport, it only shows up in judgement reports.
	DisplayName AccountType = "display_name"
)

// NetworkAddress is the immutable identity of a claimant: the on-chain address
// string plus the public key that controls it.
type NetworkAddress struct {
	Address string `json:"address"`
	PubKey  PubKey `json:"pub_key"`
}

type Wallet struct {
	PrivateKey string
	SeedWords  string
	Account    Account
}
