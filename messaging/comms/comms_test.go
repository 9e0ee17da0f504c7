package comms

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"registrand/engine/library"
	"registrand/state/identities"
)

func TestMailboxIsFIFO(t *testing.T) {
	box := NewMailbox()
	for i := 0; i < 100; i++ {
		box.push(Message{Kind: KindInform, Challenge: library.Challenge(fmt.Sprintf("%d", i))})
	}
	for i := 0; i < 100; i++ {
		msg, ok := box.TryReceive()
		require.True(t, ok)
		assert.Equal(t, library.Challenge(fmt.Sprintf("%d", i)), msg.Challenge)
	}
	_, ok := box.TryReceive()
	assert.False(t, ok)
}

func TestTryReceiveOnEmptyMailbox(t *testing.T) {
	box := NewMailbox()
	_, ok := box.TryReceive()
	assert.False(t, ok)
}

func TestEndpointSendersReachTheInboundMailbox(t *testing.T) {
	inbound := NewMailbox()
	_, endpoint := NewPair(library.Chat, inbound)
	assert.Equal(t, library.Chat, endpoint.AccountType())

	ident := identities.OnChainIdentity{
		NetworkAddress: library.NetworkAddress{Address: "alice-address", PubKey: "aa"},
	}
	ident.SetState(identities.NewAccountState("npub1alice", library.Chat))
	endpoint.NewOnChainIdentity(ident)
	endpoint.RequestAccountState("npub1alice")
	endpoint.TrackSession("aa", "deadbeef")
	endpoint.ValidFeedback(ident.NetworkAddress)
	endpoint.InvalidFeedback(ident.NetworkAddress)

	msg, ok := inbound.TryReceive()
	require.True(t, ok)
	assert.Equal(t, KindNewIdentity, msg.Kind)
	assert.Equal(t, ident, msg.Identity)

	msg, ok = inbound.TryReceive()
	require.True(t, ok)
	assert.Equal(t, KindRequestAccountState, msg.Kind)
	assert.Equal(t, library.Account("npub1alice"), msg.Account)
	assert.Equal(t, library.Chat, msg.AccountType)

	msg, ok = inbound.TryReceive()
	require.True(t, ok)
	assert.Equal(t, KindTrackSession, msg.Kind)
	assert.Equal(t, library.PubKey("aa"), msg.PubKey)
	assert.Equal(t, library.Sha256("deadbeef"), msg.SessionID)

	msg, ok = inbound.TryReceive()
	require.True(t, ok)
	assert.Equal(t, KindValidAccount, msg.Kind)
	assert.Equal(t, ident.NetworkAddress, msg.NetworkAddress)
	assert.Equal(t, library.Chat, msg.AccountType)

	msg, ok = inbound.TryReceive()
	require.True(t, ok)
	assert.Equal(t, KindInvalidAccount, msg.Kind)
	assert.Equal(t, ident.NetworkAddress, msg.NetworkAddress)
}

func TestMainSendersReachTheEndpoint(t *testing.T) {
	inbound := NewMailbox()
	main, endpoint := NewPair(library.Chat, inbound)

	networkAddress := library.NetworkAddress{Address: "alice-address", PubKey: "aa"}
	main.Inform(networkAddress, "npub1alice", "0011", "deadbeef")
	main.InvalidRequest()

	msg, ok := endpoint.TryReceive()
	require.True(t, ok)
	assert.Equal(t, KindInform, msg.Kind)
	assert.Equal(t, networkAddress, msg.NetworkAddress)
	assert.Equal(t, library.Account("npub1alice"), msg.Account)
	assert.Equal(t, library.Challenge("0011"), msg.Challenge)
	assert.Equal(t, library.Sha256("deadbeef"), msg.SessionID)

	msg, ok = endpoint.TryReceive()
	require.True(t, ok)
	assert.Equal(t, KindInvalidRequest, msg.Kind)

	// nothing leaked into the inbound mailbox
	_, ok = inbound.TryReceive()
	assert.False(t, ok)
}

func TestPairsAreIsolated(t *testing.T) {
	inbound := NewMailbox()
	chatMain, chatEndpoint := NewPair(library.Chat, inbound)
	_, emailEndpoint := NewPair(library.Email, inbound)

	chatMain.InvalidRequest()
	_, ok := emailEndpoint.TryReceive()
	assert.False(t, ok)
	msg, ok := chatEndpoint.TryReceive()
	require.True(t, ok)
	assert.Equal(t, KindInvalidRequest, msg.Kind)
}

func TestMessageStackResizes(t *testing.T) {
	stack := newMessageStack(2)
	for i := 0; i < 10; i++ {
		stack.Push(&Message{Challenge: library.Challenge(fmt.Sprintf("%d", i))})
	}
	for i := 0; i < 10; i++ {
		msg, ok := stack.Pop()
		require.True(t, ok)
		assert.Equal(t, library.Challenge(fmt.Sprintf("%d", i)), msg.Challenge)
	}
	_, ok := stack.Pop()
	assert.False(t, ok)
}
