package story

import (
	"context"
	"strings"

	statuserrors "github.com/status-im/nftstory/errors"
	"github.com/status-im/nftstory/services/wallet/thirdparty"
)

// Character is what a generation backend knows about one selected collectible.
type Character struct {
	DisplayName string   `json:"displayName"`
	Collection  string   `json:"collection"`
	Traits      []string `json:"traits"`
	Description string   `json:"description,omitempty"`
}

// Backend turns a user prompt and an ordered cast into narrative text.
type Backend interface {
	ID() string
	Complete(ctx context.Context, prompt string, characters []Character) (string, error)
}

// Namer invents a character name from collection and traits.
type Namer interface {
	GenerateName(ctx context.Context, collection string, traits []string) (string, error)
}

// SelectionSource provides the collectibles picked by the user, in selection order.
type SelectionSource interface {
	Items() []thirdparty.NFT
}

type Request struct {
	Prompt string
	NFTs   []thirdparty.NFT
}

func (r *Request) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return &statuserrors.ValidationError{Field: "prompt", Reason: "is empty"}
	}
	if len(r.NFTs) == 0 {
		return &statuserrors.ValidationError{Field: "selection", Reason: "select at least one collectible"}
	}
	return nil
}
