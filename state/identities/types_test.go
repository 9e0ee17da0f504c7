package identities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"registrand/engine/library"
)

func TestNewAccountState(t *testing.T) {
	state := NewAccountState("alice@example.org", library.Email)
	assert.Equal(t, library.Account("alice@example.org"), state.Account)
	assert.Equal(t, library.Email, state.AccountType)
	assert.Equal(t, Unknown, state.AccountValidity)
	assert.False(t, state.Confirmed)
	assert.Len(t, state.Challenge, 32)

	// every state gets its own challenge
	assert.NotEqual(t, state.Challenge, NewAccountState("alice@example.org", library.Email).Challenge)
}

func TestStateForAndSetState(t *testing.T) {
	ident := OnChainIdentity{
		NetworkAddress: library.NetworkAddress{Address: "14GcE3qBiEnAyg2sDfadT3fQhWd2Z3M59tWi1CvVV8UwxUfU", PubKey: "aa"},
	}
	assert.Nil(t, ident.StateFor(library.Email))
	assert.Nil(t, ident.StateFor(library.Chat))
	assert.Nil(t, ident.StateFor(library.DisplayName))

	ident.SetState(NewAccountState("alice@example.org", library.Email))
	ident.SetState(NewAccountState("npub1alice", library.Chat))

	require.NotNil(t, ident.StateFor(library.Email))
	assert.Equal(t, library.Account("alice@example.org"), ident.StateFor(library.Email).Account)
	require.NotNil(t, ident.StateFor(library.Chat))
	assert.Equal(t, library.Account("npub1alice"), ident.StateFor(library.Chat).Account)
	assert.Nil(t, ident.StateFor(library.Web))
	assert.Nil(t, ident.StateFor(library.Twitter))
}

func TestIdentityJSONRoundTrip(t *testing.T) {
	ident := OnChainIdentity{
		NetworkAddress: library.NetworkAddress{Address: "14GcE3qBiEnAyg2sDfadT3fQhWd2Z3M59tWi1CvVV8UwxUfU", PubKey: "aa"},
		DisplayName:    "Alice",
	}
	ident.SetState(NewAccountState("alice@example.org", library.Email))
	ident.SetState(NewAccountState("npub1alice", library.Chat))
	ident.Chat.AccountValidity = Valid

	b, err := ident.EncodeJSON()
	require.NoError(t, err)

	decoded, err := DecodeJSON(b)
	require.NoError(t, err)
	assert.Equal(t, ident, decoded)
	assert.Nil(t, decoded.Web)
	assert.Equal(t, ident.Email.Challenge, decoded.Email.Challenge)
}

func TestDecodeJSONRejectsGarbage(t *testing.T) {
	_, err := DecodeJSON([]byte("not json"))
	assert.Error(t, err)
}
