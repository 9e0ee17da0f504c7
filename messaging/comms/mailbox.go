package comms

import (
	"fmt"
	"time"

	"github.com/sasha-s/go-deadlock"
	"registrand/engine/actors"
	"registrand/engine/library"
	"registrand/state/identities"
)

// pollInterval is how often an idle consumer looks at its mailbox. Receiving is
// cooperative polling rather than a blocking wait so an idle endpoint never
// stalls the scheduler; the price is at most one interval of latency.
const pollInterval = time.Millisecond * 50

// Mailbox is an ordered, unbounded, multi-producer/single-consumer queue.
// FIFO holds within one mailbox only; nothing is guaranteed across mailboxes.
type Mailbox struct {
	mu     deadlock.Mutex
	queue  *messageStack
	closed bool
}

func NewMailbox() *Mailbox {
	return &Mailbox{queue: newMessageStack(8)}
}

// push enqueues a message. The topology is static and fully wired at startup,
// so a send into a closed mailbox means the wiring is broken and we terminate
// rather than continue with undefined routing.
func (m *Mailbox) push(msg Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		library.LogCLI(fmt.Sprintf("send of message kind %d into a closed mailbox, the actor topology is broken", msg.Kind), 0)
	}
	m.queue.Push(&msg)
}

// TryReceive returns the oldest queued message without suspending.
func (m *Mailbox) TryReceive() (Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.queue.Pop()
	if !ok {
		return Message{}, false
	}
	return *msg, true
}

// Close marks the mailbox dead. Only meaningful on shutdown; any later send is fatal.
func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

// Main is the registry-facing sender for one account type's endpoint.
type Main struct {
	box *Mailbox
}

// Inform tells the endpoint to deliver a challenge for the given account.
// sessionID carries a previously tracked conversation handle, empty if none.
func (m Main) Inform(networkAddress library.NetworkAddress, account library.Account, challenge library.Challenge, sessionID library.Sha256) {
	m.box.push(Message{
		Kind:           KindInform,
		NetworkAddress: networkAddress,
		Account:        account,
		Challenge:      challenge,
		SessionID:      sessionID,
	})
}

// InvalidRequest tells the endpoint that the account state it asked for does
// not exist, so the waiting caller can distinguish "no such claim" from
// "still pending".
func (m Main) InvalidRequest() {
	m.box.push(Message{Kind: KindInvalidRequest})
}

// Endpoint is the adapter-facing half of one account type's channel pair: a
// receiver over its own mailbox plus typed senders into the registry's shared
// inbound mailbox.
type Endpoint struct {
	tx          *Mailbox
	box         *Mailbox
	accountType library.AccountType
}

// NewPair wires one Main/Endpoint pair for the given account type around a
// fresh mailbox. inbound is the registry's shared inbound mailbox.
func NewPair(accountType library.AccountType, inbound *Mailbox) (Main, *Endpoint) {
	box := NewMailbox()
	return Main{box: box}, &Endpoint{
		tx:          inbound,
		box:         box,
		accountType: accountType,
	}
}

func (e *Endpoint) AccountType() library.AccountType {
	return e.accountType
}

// Receive suspends the caller until a message is available, polling on a fixed
// interval. Returns false when the engine is shutting down.
func (e *Endpoint) Receive() (Message, bool) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if msg, ok := e.box.TryReceive(); ok {
			return msg, true
		}
		select {
		case <-actors.GetTerminateChan():
			return Message{}, false
		case <-ticker.C:
		}
	}
}

// TryReceive is the non-suspending variant of Receive.
func (e *Endpoint) TryReceive() (Message, bool) {
	return e.box.TryReceive()
}

// NewOnChainIdentity announces a freshly claimed identity to the registry.
// This is how the external event source feeds the engine.
func (e *Endpoint) NewOnChainIdentity(ident identities.OnChainIdentity) {
	e.tx.push(Message{Kind: KindNewIdentity, Identity: ident})
}

// RequestAccountState asks the registry for the pending identity whose account
// of this endpoint's type matches the given identifier. The registry answers
// with Inform or InvalidRequest on this endpoint's mailbox.
func (e *Endpoint) RequestAccountState(account library.Account) {
	e.tx.push(Message{
		Kind:        KindRequestAccountState,
		Account:     account,
		AccountType: e.accountType,
	})
}

// TrackSession persists a transport session handle for a public key so a
// restarted adapter can reattach to the conversation.
func (e *Endpoint) TrackSession(pubKey library.PubKey, sessionID library.Sha256) {
	e.tx.push(Message{Kind: KindTrackSession, PubKey: pubKey, SessionID: sessionID})
}

// ValidFeedback reports a successful proof of ownership for the address on
// this endpoint's account type.
func (e *Endpoint) ValidFeedback(networkAddress library.NetworkAddress) {
	e.tx.push(Message{
		Kind:           KindValidAccount,
		NetworkAddress: networkAddress,
		AccountType:    e.accountType,
	})
}

// InvalidFeedback reports a failed proof of ownership for the address on this
// endpoint's account type.
func (e *Endpoint) InvalidFeedback(networkAddress library.NetworkAddress) {
	e.tx.push(Message{
		Kind:           KindInvalidAccount,
		NetworkAddress: networkAddress,
		AccountType:    e.accountType,
	})
}
