package nostrchat

import (
	"github.com/nbd-wtf/go-nostr"
	"registrand/engine/library"
)

// threadRootOf finds the thread a DM belongs to: the e tag marked root, or the
// first e tag, or the event itself when it starts a fresh thread.
func threadRootOf(ev nostr.Event) library.Sha256 {
	var first library.Sha256
	for _, tag := range ev.Tags {
		if len(tag) >= 2 && tag[0] == "e" {
			if len(tag) > 3 && tag[3] == "root" {
				return library.Sha256(tag[1])
			}
			if len(first) == 0 {
				first = library.Sha256(tag[1])
			}
		}
	}
	if len(first) > 0 {
		return first
	}
	return library.Sha256(ev.ID)
}
