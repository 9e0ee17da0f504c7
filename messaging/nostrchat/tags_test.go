package nostrchat

import (
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
	"registrand/engine/library"
)

func TestThreadRootOf(t *testing.T) {
	ev := nostr.Event{ID: "event-id"}
	assert.Equal(t, library.Sha256("event-id"), threadRootOf(ev))

	ev.Tags = nostr.Tags{nostr.Tag{"p", "somekey"}, nostr.Tag{"e", "first-reply"}}
	assert.Equal(t, library.Sha256("first-reply"), threadRootOf(ev))

	ev.Tags = nostr.Tags{
		nostr.Tag{"e", "some-reply", "", "reply"},
		nostr.Tag{"e", "the-root", "", "root"},
	}
	assert.Equal(t, library.Sha256("the-root"), threadRootOf(ev))
}
