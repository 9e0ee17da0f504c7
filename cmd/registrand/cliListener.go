package main

import (
	"fmt"

	"github.com/eiannone/keyboard"
	"registrand/engine/actors"
	"registrand/state/identities"
)

// cliListener is a cheap and nasty way to speed up development cycles. It listens for keypresses and executes commands.
// Everything it prints is read back from the flat-file store so it never races the registry loop.
func cliListener(interrupt chan struct{}) {
	fmt.Println("VIEW CURRENT STATE:\ni: pending identities\ns: tracked chat sessions\nv: challenge statuses\nw: service wallet\nc: engine config\nq: to quit\nSee cliListener.go for more")
	for {
		r, k, err := keyboard.GetSingleKey()
		if err != nil {
			panic(err)
		}
		str := string(r)
		switch str {
		default:
			if k == 13 {
				fmt.Println("\n-----------------------------------")
				break
			}
			if r == 0 {
				break
			}
			fmt.Println("Key " + str + " is not bound to any test procedures. See main.cliListener for more details.")
		case "i":
			for _, entry := range actors.Scope(actors.PendingIdentities).All() {
				ident, err := identities.DecodeJSON(entry.Value)
				if err != nil {
					fmt.Printf("UNDECODABLE RECORD %x: %s\n", entry.Key, err.Error())
					continue
				}
				fmt.Printf("\nADDRESS: %s\n%#v\n", ident.Address(), ident)
			}
		case "s":
			for _, entry := range actors.Scope(actors.ChatSessions).All() {
				fmt.Printf("\nPubkey: %s\nSession: %s\n", entry.Key, entry.Value)
			}
		case "v":
			for _, entry := range actors.Scope(actors.ChallengeStatuses).All() {
				fmt.Printf("\n%s: %s\n", entry.Key, entry.Value)
			}
		case "w":
			fmt.Printf("Current Wallet: \n%s\n", actors.MyWallet().Account)
		case "c":
			fmt.Println("CURRENT CONFIG")
			for k, v := range actors.MakeOrGetConfig().AllSettings() {
				fmt.Printf("\nKey: %s; Value: %v\n", k, v)
			}
		case "q":
			close(interrupt)
		}
	}
}
