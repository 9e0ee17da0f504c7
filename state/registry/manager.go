package registry

import (
	"fmt"
	"time"

	"registrand/engine/actors"
	"registrand/engine/library"
	"registrand/messaging/comms"
	"registrand/state/identities"
)

// liveAccountTypes lists the account types that have a transport adapter wired
// in. Identities are announced to these endpoints on registration; the other
// account types sit in the pending table until their adapters exist.
var liveAccountTypes = []library.AccountType{library.Chat}

const pollInterval = time.Millisecond * 50

// Manager is the registry actor. It owns the table of pending identities (the
// in-memory copy of the pending_identities partition), the account-type to
// endpoint lookup table, and the single consumer loop over the shared inbound
// mailbox. All of that state is touched only by the Start loop and by the
// startup path, never concurrently.
type Manager struct {
	idents     []identities.OnChainIdentity
	listener   *comms.Mailbox
	pairs      map[library.AccountType]comms.Main
	identsDb   actors.ScopedStore
	sessionsDb actors.ScopedStore
}

// NewManager reconstructs the pending identity table from storage. An empty
// partition is a fresh install. A record that does not decode means the store
// is corrupt and the registry has no way to safely reason about it.
func NewManager() *Manager {
	identsDb := actors.Scope(actors.PendingIdentities)
	var idents []identities.OnChainIdentity
	for _, entry := range identsDb.All() {
		ident, err := identities.DecodeJSON(entry.Value)
		if err != nil {
			library.LogCLI(fmt.Sprintf("corrupt pending identity record %x: %s", entry.Key, err.Error()), 0)
		}
		idents = append(idents, ident)
	}
	return &Manager{
		idents:     idents,
		listener:   comms.NewMailbox(),
		pairs:      make(map[library.AccountType]comms.Main),
		identsDb:   identsDb,
		sessionsDb: actors.Scope(actors.ChatSessions),
	}
}

// RegisterComms allocates the channel pair for one account type and returns
// the adapter-facing endpoint. Endpoints are expected to be registered once at
// startup; registering the same type twice overwrites the previous endpoint.
func (m *Manager) RegisterComms(accountType library.AccountType) *comms.Endpoint {
	main, endpoint := comms.NewPair(accountType, m.listener)
	m.pairs[accountType] = main
	return endpoint
}

// Start runs the registry loop until the engine terminates. It is the only
// consumer of the shared inbound mailbox.
func (m *Manager) Start() {
	actors.GetWaitGroup().Add(1)
	library.LogCLI("Identity Registry has started", 4)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if msg, ok := m.listener.TryReceive(); ok {
			m.handle(msg)
			continue
		}
		select {
		case <-actors.GetTerminateChan():
			actors.GetWaitGroup().Done()
			library.LogCLI("Identity Registry has shut down", 4)
			return
		case <-ticker.C:
		}
	}
}

func (m *Manager) handle(msg comms.Message) {
	switch msg.Kind {
	case comms.KindNewIdentity:
		m.registerRequest(msg.Identity)
	case comms.KindTrackSession:
		m.sessionsDb.Put([]byte(msg.PubKey), []byte(msg.SessionID))
	case comms.KindRequestAccountState:
		m.requestAccountState(msg.Account, msg.AccountType)
	case comms.KindValidAccount:
		m.applyFeedback(msg.NetworkAddress, msg.AccountType, identities.Valid)
	case comms.KindInvalidAccount:
		m.applyFeedback(msg.NetworkAddress, msg.AccountType, identities.Invalid)
	default:
		library.LogCLI(fmt.Sprintf("unrecognized message kind %d reached the registry loop, report as a bug", msg.Kind), 0)
	}
}

// registerRequest persists a freshly claimed identity and notifies every live
// account type the claimant listed. A second claim for the same address
// replaces the first one, challenges included (last write wins).
func (m *Manager) registerRequest(ident identities.OnChainIdentity) {
	encoded, err := ident.EncodeJSON()
	if err != nil {
		library.LogCLI(err.Error(), 0)
	}
	m.identsDb.Put([]byte(ident.PubKey()), encoded)

	replaced := false
	for i := range m.idents {
		if m.idents[i].PubKey() == ident.PubKey() {
			m.idents[i] = ident
			replaced = true
			break
		}
	}
	if !replaced {
		m.idents = append(m.idents, ident)
	}

	for _, accountType := range liveAccountTypes {
		state := ident.StateFor(accountType)
		if state == nil {
			continue
		}
		// Reattach to an in-progress conversation if the transport tracked one
		// for this key before.
		var sessionID library.Sha256
		if b, ok := m.sessionsDb.Get([]byte(ident.PubKey())); ok {
			sessionID = library.Sha256(b)
		}
		m.main(accountType).Inform(ident.NetworkAddress, state.Account, state.Challenge, sessionID)
	}
}

// requestAccountState answers an adapter that wants the pending claim for one
// exact account identifier. A miss gets an explicit invalid-request signal
// rather than silence.
func (m *Manager) requestAccountState(account library.Account, accountType library.AccountType) {
	main := m.main(accountType)
	for i := range m.idents {
		state := m.idents[i].StateFor(accountType)
		if state != nil && state.Account == account {
			main.Inform(m.idents[i].NetworkAddress, state.Account, state.Challenge, "")
			return
		}
	}
	main.InvalidRequest()
}

// applyFeedback records a verification outcome on the matching account state
// and persists the mutated identity.
func (m *Manager) applyFeedback(networkAddress library.NetworkAddress, accountType library.AccountType, validity identities.AccountValidity) {
	for i := range m.idents {
		ident := &m.idents[i]
		if ident.PubKey() != networkAddress.PubKey {
			continue
		}
		state := ident.StateFor(accountType)
		if state == nil {
			library.LogCLI(fmt.Sprintf("feedback for %s names account type %s the identity never claimed", networkAddress.Address, accountType), 2)
			return
		}
		state.AccountValidity = validity
		if validity == identities.Valid {
			state.Confirmed = true
		}
		encoded, err := ident.EncodeJSON()
		if err != nil {
			library.LogCLI(err.Error(), 0)
		}
		m.identsDb.Put([]byte(ident.PubKey()), encoded)
		return
	}
	library.LogCLI(fmt.Sprintf("feedback for %s does not match any pending identity", networkAddress.Address), 2)
}

// main returns the registry-facing sender for an account type. A missing entry
// means a message was routed to an endpoint that was never wired, which the
// static topology rules out.
func (m *Manager) main(accountType library.AccountType) comms.Main {
	main, ok := m.pairs[accountType]
	if !ok {
		library.LogCLI(fmt.Sprintf("no endpoint registered for account type %s, the actor topology is broken", accountType), 0)
	}
	return main
}
