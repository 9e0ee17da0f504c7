package nostrchat

import (
	"context"
	"fmt"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip04"
	"github.com/sasha-s/go-deadlock"
	"registrand/engine/actors"
	"registrand/engine/library"
	"registrand/messaging/comms"
	"registrand/messaging/verifier"
)

// session is what we remember about one claimant chat account: the challenges
// they still have to answer and the DM thread the conversation lives in.
type session struct {
	networkAddress library.NetworkAddress
	outstanding    []verifier.ChallengedAddress
	threadRoot     library.Sha256
	contextSent    bool
}

var sessions = make(map[library.PubKey]*session)
var pendingRequests []library.PubKey
var stateMu = &deadlock.Mutex{}

// Start wires the chat adapter: a relay listener for encrypted DMs addressed
// to the service wallet, plus consumers for both directions of traffic.
func Start(endpoint *comms.Endpoint) {
	sendChan := make(chan nostr.Event)
	receiveChan := make(chan nostr.Event)
	go listenToRelay(receiveChan, sendChan)
	go handleRegistryMessages(endpoint, sendChan)
	go handleChatEvents(endpoint, receiveChan, sendChan)
	library.LogCLI("Chat adapter has started", 4)
}

func handleRegistryMessages(endpoint *comms.Endpoint, sendChan chan nostr.Event) {
	actors.GetWaitGroup().Add(1)
	defer actors.GetWaitGroup().Done()
	for {
		msg, ok := endpoint.Receive()
		if !ok {
			return
		}
		switch msg.Kind {
		case comms.KindInform:
			handleInform(endpoint, msg, sendChan)
		case comms.KindInvalidRequest:
			handleInvalidRequest(sendChan)
		default:
			library.LogCLI(fmt.Sprintf("unexpected message kind %d on the chat endpoint, the actor topology is broken", msg.Kind), 0)
		}
	}
}

// handleInform delivers a challenge prompt to the claimant's chat account and
// makes sure the conversation thread is tracked with the registry.
func handleInform(endpoint *comms.Endpoint, msg comms.Message, sendChan chan nostr.Event) {
	chatAccount := library.PubKey(msg.Account)
	stateMu.Lock()
	for i, account := range pendingRequests {
		if account == chatAccount {
			pendingRequests = append(pendingRequests[:i], pendingRequests[i+1:]...)
			break
		}
	}
	s, exists := sessions[chatAccount]
	if !exists {
		s = &session{}
		sessions[chatAccount] = s
	}
	s.networkAddress = msg.NetworkAddress
	s.outstanding = []verifier.ChallengedAddress{{
		NetworkAddress: msg.NetworkAddress,
		Challenge:      msg.Challenge,
	}}
	if len(msg.SessionID) > 0 {
		s.threadRoot = msg.SessionID
	}
	sendContext := !s.contextSent && actors.MakeOrGetConfig().GetBool("sendSafetyContext")
	s.contextSent = true
	root := s.threadRoot
	prompt := verifier.NewVerifier(s.outstanding).ChallengePrompt(sendContext)
	stateMu.Unlock()

	id := sendDirectMessage(chatAccount, prompt, root, sendChan)
	if len(root) == 0 && len(id) > 0 {
		stateMu.Lock()
		s.threadRoot = id
		stateMu.Unlock()
		endpoint.TrackSession(msg.NetworkAddress.PubKey, id)
	} else if len(msg.SessionID) == 0 && len(root) > 0 {
		// the thread root came from the claimant's own message, the registry
		// has not seen it yet
		endpoint.TrackSession(msg.NetworkAddress.PubKey, root)
	}
}

func handleInvalidRequest(sendChan chan nostr.Event) {
	stateMu.Lock()
	if len(pendingRequests) == 0 {
		stateMu.Unlock()
		library.LogCLI("invalid-request signal with no account-state request outstanding", 2)
		return
	}
	account := pendingRequests[0]
	pendingRequests = pendingRequests[1:]
	stateMu.Unlock()
	sendDirectMessage(account, "There is no pending judgement request for this account.", "", sendChan)
}

func handleChatEvents(endpoint *comms.Endpoint, receiveChan chan nostr.Event, sendChan chan nostr.Event) {
	actors.GetWaitGroup().Add(1)
	defer actors.GetWaitGroup().Done()
	statuses := actors.Scope(actors.ChallengeStatuses)
	for {
		select {
		case <-actors.GetTerminateChan():
			return
		case ev := <-receiveChan:
			handleChatEvent(endpoint, statuses, ev, sendChan)
		}
	}
}

// handleChatEvent reacts to one decrypted DM from a claimant. A sender we hold
// no challenges for triggers an account-state request; otherwise the message
// text is treated as a signature attempt over the outstanding challenges.
func handleChatEvent(endpoint *comms.Endpoint, statuses actors.ScopedStore, ev nostr.Event, sendChan chan nostr.Event) {
	plaintext, err := decryptDirectMessage(ev)
	if err != nil {
		library.LogCLI(fmt.Sprintf("could not decrypt direct message %s: %s", ev.ID, err.Error()), 3)
		return
	}
	sender := library.PubKey(ev.PubKey)
	stateMu.Lock()
	s, exists := sessions[sender]
	if !exists {
		s = &session{threadRoot: threadRootOf(ev)}
		sessions[sender] = s
	}
	if len(s.outstanding) == 0 {
		pendingRequests = append(pendingRequests, sender)
		stateMu.Unlock()
		endpoint.RequestAccountState(library.Account(sender))
		return
	}
	v := verifier.NewVerifier(s.outstanding)
	root := s.threadRoot
	stateMu.Unlock()

	v.Verify(plaintext)
	sendDirectMessage(sender, v.ResponseMessage(), root, sendChan)
	verifier.HandleVerification(v, statuses, endpoint)
	if len(v.ValidVerifications()) > 0 {
		stateMu.Lock()
		s.outstanding = nil
		stateMu.Unlock()
	}
}

// sendDirectMessage encrypts and publishes one DM, threading it under
// threadRoot when given. Returns the event id, or empty on failure.
func sendDirectMessage(to library.PubKey, message string, threadRoot library.Sha256, sendChan chan nostr.Event) library.Sha256 {
	shared, err := nip04.ComputeSharedSecret(string(to), actors.MyWallet().PrivateKey)
	if err != nil {
		library.LogCLI(err.Error(), 1)
		return ""
	}
	content, err := nip04.Encrypt(message, shared)
	if err != nil {
		library.LogCLI(err.Error(), 1)
		return ""
	}
	tags := nostr.Tags{nostr.Tag{"p", string(to)}}
	if len(threadRoot) > 0 {
		tags = append(tags, nostr.Tag{"e", string(threadRoot), "", "root"})
	}
	e := nostr.Event{
		PubKey:    actors.MyWallet().Account,
		CreatedAt: nostr.Timestamp(time.Now().Unix()),
		Kind:      4,
		Tags:      tags,
		Content:   content,
	}
	e.ID = e.GetID()
	e.Sign(actors.MyWallet().PrivateKey)
	sendChan <- e
	return library.Sha256(e.ID)
}

func decryptDirectMessage(ev nostr.Event) (string, error) {
	shared, err := nip04.ComputeSharedSecret(ev.PubKey, actors.MyWallet().PrivateKey)
	if err != nil {
		return "", err
	}
	return nip04.Decrypt(ev.Content, shared)
}

// listenToRelay holds the relay connection, publishing queued events and
// feeding verified inbound DMs to receiveChan. It respawns itself when the
// relay goes quiet or drops the connection.
func listenToRelay(receiveChan chan nostr.Event, sendChan chan nostr.Event) {
	var sleepChan = make(chan bool)
	sleeper(sleepChan)
	relay, err := nostr.RelayConnect(context.Background(), actors.MakeOrGetConfig().GetStringSlice("relaysMust")[0])
	if err != nil {
		library.LogCLI(err.Error(), 0)
	}

	tags := make(map[string][]string)
	tags["p"] = []string{actors.MyWallet().Account}
	var filters nostr.Filters
	filters = []nostr.Filter{{
		Kinds: []int{4},
		Tags:  tags,
	}}

	ctx, cancel := context.WithCancel(context.Background())
	library.LogCLI("Connecting to "+relay.URL, 4)
	sub, err := relay.Subscribe(ctx, filters)
	if err != nil {
		library.LogCLI(err.Error(), 0)
	}

	go func() {
		for {
			select {
			case e := <-sendChan:
				go func() {
					_, err := relay.Publish(context.Background(), e)
					if err != nil {
						library.LogCLI(err.Error(), 2)
					}
				}()
			case <-ctx.Done():
				return
			}
		}
	}()

	lastEventTime := time.Now()
L:
	for {
		select {
		case <-sleepChan:
			go func() {
				library.LogCLI("system sleep detected, terminating application", 2)
				cancel()
				actors.Shutdown()
			}()
		case ev := <-sub.Events:
			if ev == nil {
				library.LogCLI("Terminating connection to relay", 3)
				cancel()
				library.LogCLI("Restarting chat listener", 4)
				go listenToRelay(receiveChan, sendChan)
				break L
			}
			lastEventTime = time.Now()
			if ok, _ := ev.CheckSignature(); ok {
				receiveChan <- *ev
			}
		case <-time.After(time.Minute):
			if time.Since(lastEventTime) > time.Duration(time.Minute*2) {
				library.LogCLI("Terminating connection to relay", 3)
				cancel()
				library.LogCLI("Restarting chat listener", 4)
				go listenToRelay(receiveChan, sendChan)
				break L
			}
		case <-actors.GetTerminateChan():
			break L
		}
	}
	cancel()
}
