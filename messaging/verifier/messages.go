package verifier

import (
	"fmt"
	"strings"

	"registrand/engine/library"
)

// ViolationsCap is the most display-name collisions a single report lists
// before trailing off.
const ViolationsCap = 5

const safetyContext = "[!!] NEVER EXPOSE YOUR PRIVATE KEYS TO ANYONE [!!]\n\n" +
	"This contact address was discovered in the on-chain naming system and " +
	"the issuer has requested the registrar service to judge this account." +
	"If you did not issue this request then just ignore this message.\n\n"

const docsFooter = "\n\nRefer to the registrar guide https://github.com/registrand/registrand"

func writeChallengeBlock(b *strings.Builder, challenged ChallengedAddress) {
	b.WriteString("\n- Address:\n")
	b.WriteString(challenged.NetworkAddress.Address)
	b.WriteString("\n- Challenge:\n")
	b.WriteString(string(challenged.Challenge))
}

// ChallengePrompt renders the message asking the claimant to sign. The safety
// context is only sent on the first contact of a conversation.
func (v *Verifier) ChallengePrompt(sendContext bool) string {
	var b strings.Builder
	if sendContext {
		b.WriteString(safetyContext)
	}
	if len(v.challenges) > 1 {
		b.WriteString("Please sign each challenge with the corresponding address:\n")
	} else {
		b.WriteString("Please sign the challenge with the corresponding address:\n")
	}
	for _, challenged := range v.challenges {
		writeChallengeBlock(&b, challenged)
	}
	b.WriteString(docsFooter)
	return b.String()
}

// ResponseMessage renders the outcome of a Verify pass back to the claimant.
func (v *Verifier) ResponseMessage() string {
	var b strings.Builder
	if len(v.valid) == 0 {
		b.WriteString("The signature is invalid. Refer to the registrar guide.")
		return b.String()
	}
	if len(v.valid) == 1 {
		b.WriteString("The following address has been verified:\n")
	} else {
		b.WriteString("The following addresses have been verified:\n")
	}
	for _, challenged := range v.valid {
		writeChallengeBlock(&b, challenged)
	}
	if len(v.invalid) > 0 {
		b.WriteString("\n\nPending/Unconfirmed address(-es) for this account:\n")
		for _, challenged := range v.invalid {
			writeChallengeBlock(&b, challenged)
		}
	}
	return b.String()
}

// InvalidAccount names one claimed account the registrar could not accept.
type InvalidAccount struct {
	AccountType library.AccountType
	Account     library.Account
}

// InvalidAccountsMessage renders the report sent when claimed identity data is
// unusable. Display-name entries with similarity violations list the
// conflicting names, capped at ViolationsCap; every other entry is reported as
// unreachable.
func InvalidAccountsMessage(accounts []InvalidAccount, violations []library.Account) string {
	var b strings.Builder
	b.WriteString("Please note that the following information is invalid:\n\n")
	for _, invalid := range accounts {
		if invalid.AccountType == library.DisplayName && violations != nil {
			article, noun := "", "names"
			if len(violations) == 1 {
				article, noun = "an ", "name"
			}
			b.WriteString(fmt.Sprintf("* \"%s\" (Display Name) is too similar to %sexisting display %s:\n",
				invalid.Account, article, noun))
			for _, violation := range violations {
				b.WriteString(fmt.Sprintf("  * \"%s\"\n", violation))
			}
			if len(violations) == ViolationsCap {
				b.WriteString("  * etc.\n")
			}
			continue
		}
		b.WriteString(fmt.Sprintf("* \"%s\" (%s), could not be reached\n", invalid.Account, invalid.AccountType))
	}
	b.WriteString("\nPlease update the on-chain identity data. No new judgement " +
		"request must be issued after the update.")
	return b.String()
}
