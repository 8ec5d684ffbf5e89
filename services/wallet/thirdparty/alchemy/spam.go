package alchemy

import (
	"strings"
)

type SpamReason string

const (
	SpamReasonNone            SpamReason = ""
	SpamReasonProviderFlag    SpamReason = "provider-flag"
	SpamReasonKeyword         SpamReason = "keyword"
	SpamReasonMaliciousDomain SpamReason = "malicious-domain"
	SpamReasonGenericName     SpamReason = "generic-name"
)

// minCollectionNameLength is the length below which a generic token name is considered spam.
const minCollectionNameLength = 5

var spamKeywords = []string{
	"claim rewards",
	"visit ",
	"free nft",
	"airdrop",
	"mint now",
	"limited time",
	"exclusive offer",
	"congratulations",
	"you won",
	"claim your",
	"get your",
	"don't miss",
	"hurry up",
	"act now",
	"special offer",
}

var maliciousFragments = []string{
	"protocol.org",
	"eventpepe.net",
	"stethprotocol",
}

var genericNames = []string{"nft", "token"}

type Verdict struct {
	IsSpam bool
	Reason SpamReason
}

// Classify applies the spam rules in order; the first matching rule wins.
func Classify(record RawRecord) Verdict {
	if record.ProviderSpam {
		return Verdict{IsSpam: true, Reason: SpamReasonProviderFlag}
	}

	name := strings.ToLower(record.Title)
	collection := strings.ToLower(record.ContractName)
	description := strings.ToLower(record.Description)

	for _, keyword := range spamKeywords {
		if strings.Contains(name, keyword) || strings.Contains(collection, keyword) || strings.Contains(description, keyword) {
			return Verdict{IsSpam: true, Reason: SpamReasonKeyword}
		}
	}

	for _, fragment := range maliciousFragments {
		if strings.Contains(name, fragment) || strings.Contains(collection, fragment) {
			return Verdict{IsSpam: true, Reason: SpamReasonMaliciousDomain}
		}
	}

	if name == "" {
		return Verdict{IsSpam: true, Reason: SpamReasonGenericName}
	}
	for _, generic := range genericNames {
		if name == generic && len(collection) < minCollectionNameLength {
			return Verdict{IsSpam: true, Reason: SpamReasonGenericName}
		}
	}

	return Verdict{}
}

func IsSpam(record RawRecord) bool {
	return Classify(record).IsSpam
}
