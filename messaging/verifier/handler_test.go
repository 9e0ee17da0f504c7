package verifier

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"registrand/engine/actors"
	"registrand/engine/library"
	"registrand/messaging/comms"
	"registrand/state/identities"
)

func testConfig(t *testing.T) {
	t.Helper()
	conf := viper.New()
	conf.Set("rootDir", t.TempDir()+"/")
	conf.Set("flatFileDir", "data/")
	actors.SetConfig(conf)
}

func TestHandleVerification(t *testing.T) {
	testConfig(t)
	inbound := comms.NewMailbox()
	_, endpoint := comms.NewPair(library.Chat, inbound)
	statuses := actors.Scope(actors.ChallengeStatuses)

	passing, response := newChallenged(t, "alice-address")
	failing, _ := newChallenged(t, "bob-address")
	v := NewVerifier([]ChallengedAddress{passing, failing})
	v.Verify(response)

	HandleVerification(v, statuses, endpoint)

	value, ok := statuses.Get(statusKey(passing.NetworkAddress, library.Chat))
	require.True(t, ok)
	assert.Equal(t, string(identities.Accepted), string(value))

	value, ok = statuses.Get(statusKey(failing.NetworkAddress, library.Chat))
	require.True(t, ok)
	assert.Equal(t, string(identities.Rejected), string(value))

	msg, ok := inbound.TryReceive()
	require.True(t, ok)
	assert.Equal(t, comms.KindValidAccount, msg.Kind)
	assert.Equal(t, passing.NetworkAddress, msg.NetworkAddress)
	assert.Equal(t, library.Chat, msg.AccountType)

	msg, ok = inbound.TryReceive()
	require.True(t, ok)
	assert.Equal(t, comms.KindInvalidAccount, msg.Kind)
	assert.Equal(t, failing.NetworkAddress, msg.NetworkAddress)
}
