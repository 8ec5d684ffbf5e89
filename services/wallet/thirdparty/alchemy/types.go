package alchemy

import (
	"bytes"
	"encoding/json"
	"strings"
)

var jsonNull = []byte("null")

// flexString accepts a JSON string, number or bool and keeps its textual form.
// Providers are inconsistent about scalar types in metadata, so decoding never fails.
type flexString struct {
	Value string
	Valid bool
}

func (s *flexString) UnmarshalJSON(b []byte) error {
	*s = flexString{}
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return nil
	}
	switch trimmed[0] {
	case '"':
		var str string
		if err := json.Unmarshal(trimmed, &str); err != nil {
			return nil
		}
		*s = flexString{Value: str, Valid: true}
	case '{', '[':
		// objects and arrays have no scalar form
	default:
		*s = flexString{Value: string(trimmed), Valid: true}
	}
	return nil
}

func (s flexString) String() string {
	return s.Value
}

// flexBool accepts true/false as JSON booleans or strings.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	var s flexString
	_ = s.UnmarshalJSON(b)
	*f = flexBool(strings.EqualFold(strings.TrimSpace(s.Value), "true"))
	return nil
}

// TokenURI is a plain string in v3 replies and a {raw, gateway} object in legacy ones.
type TokenURI struct {
	Raw     string
	Gateway string
}

func (t *TokenURI) UnmarshalJSON(b []byte) error {
	*t = TokenURI{}
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return nil
	}
	if trimmed[0] == '{' {
		var obj struct {
			Raw     flexString `json:"raw"`
			Gateway flexString `json:"gateway"`
		}
		if err := json.Unmarshal(trimmed, &obj); err == nil {
			t.Raw = obj.Raw.Value
			t.Gateway = obj.Gateway.Value
		}
		return nil
	}
	var s flexString
	_ = s.UnmarshalJSON(trimmed)
	t.Raw = s.Value
	return nil
}

// Best returns the most usable form of the token URI.
func (t TokenURI) Best() string {
	if t.Gateway != "" {
		return t.Gateway
	}
	return t.Raw
}

type Attribute struct {
	TraitType flexString `json:"trait_type"`
	Value     flexString `json:"value"`
}

// Attributes decodes an attribute array element by element, skipping malformed entries.
// Non-array values decode to an empty list.
type Attributes []Attribute

func (a *Attributes) UnmarshalJSON(b []byte) error {
	*a = nil
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return nil
	}
	attrs := make(Attributes, 0, len(items))
	for _, item := range items {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			// keep the position so source order is preserved, the entry gets dropped later
			attrs = append(attrs, Attribute{})
			continue
		}
		var attr Attribute
		if err := json.Unmarshal(trimmed, &attr); err != nil {
			attr = Attribute{}
		}
		attrs = append(attrs, attr)
	}
	*a = attrs
	return nil
}

type Metadata struct {
	Name        flexString `json:"name"`
	Image       flexString `json:"image"`
	Description flexString `json:"description"`
	Attributes  Attributes `json:"attributes"`
}

type Raw struct {
	TokenURI flexString `json:"tokenUri"`
	Metadata *Metadata  `json:"metadata"`
}

type OpenSeaMetadata struct {
	CollectionName flexString `json:"collectionName"`
	ImageURL       flexString `json:"imageUrl"`
}

type Contract struct {
	Address         flexString       `json:"address"`
	Name            flexString       `json:"name"`
	Symbol          flexString       `json:"symbol"`
	TokenType       flexString       `json:"tokenType"`
	IsSpam          flexBool         `json:"isSpam"`
	OpenSeaMetadata *OpenSeaMetadata `json:"openSeaMetadata"`
	// legacy field name
	OpenSea *OpenSeaMetadata `json:"openSea"`
}

type ContractMetadata struct {
	Name    flexString       `json:"name"`
	OpenSea *OpenSeaMetadata `json:"openSea"`
}

type SpamInfo struct {
	IsSpam flexBool `json:"isSpam"`
}

// Image holds the provider-processed image variants of the flattened format.
type Image struct {
	CachedURL    flexString `json:"cachedUrl"`
	PngURL       flexString `json:"pngUrl"`
	ThumbnailURL flexString `json:"thumbnailUrl"`
	OriginalURL  flexString `json:"originalUrl"`
	ContentType  flexString `json:"contentType"`
}

type Media struct {
	Raw       flexString `json:"raw"`
	Gateway   flexString `json:"gateway"`
	Thumbnail flexString `json:"thumbnail"`
}

// Asset is one owned-NFT record as returned by the provider. It is a superset of the
// flattened (v3) and legacy (v2) record shapes; Format tells which one was received.
type Asset struct {
	Contract         Contract          `json:"contract"`
	ContractMetadata *ContractMetadata `json:"contractMetadata"`
	SpamInfo         *SpamInfo         `json:"spamInfo"`
	TokenID          flexString        `json:"tokenId"`
	TokenURI         TokenURI          `json:"tokenUri"`
	Description      flexString        `json:"description"`

	// flattened format
	Name  flexString `json:"name"`
	Image *Image     `json:"image"`
	Raw   *Raw       `json:"raw"`

	// legacy format
	Title       flexString `json:"title"`
	Media       []Media    `json:"media"`
	RawMetadata *Metadata  `json:"rawMetadata"`
	Metadata    *Metadata  `json:"metadata"`
}

type RecordFormat int

const (
	FormatUnknown RecordFormat = iota
	FormatFlattened
	FormatLegacy
)

func (f RecordFormat) String() string {
	switch f {
	case FormatFlattened:
		return "flattened"
	case FormatLegacy:
		return "legacy"
	}
	return "unknown"
}

func (a *Asset) Format() RecordFormat {
	switch {
	case a.Image != nil || a.Raw != nil || a.Name.Valid:
		return FormatFlattened
	case a.Title.Valid || len(a.Media) > 0 || a.RawMetadata != nil || a.Metadata != nil:
		return FormatLegacy
	}
	return FormatUnknown
}

// decodeAsset never fails: type mismatches leave the affected fields empty and
// anything that is not an object decodes to an empty asset.
func decodeAsset(data json.RawMessage) Asset {
	var asset Asset
	if err := json.Unmarshal(data, &asset); err != nil {
		if _, ok := err.(*json.UnmarshalTypeError); !ok {
			return Asset{}
		}
	}
	return asset
}

// OwnedNFTList is the getNFTsForOwner envelope. Older replies use ownedNfts, newer ones nfts.
type OwnedNFTList struct {
	NFTs       []json.RawMessage `json:"nfts"`
	OwnedNFTs  []json.RawMessage `json:"ownedNfts"`
	TotalCount flexString        `json:"totalCount"`
	PageKey    flexString        `json:"pageKey"`
}

func (l *OwnedNFTList) records() []RawRecord {
	items := l.NFTs
	if items == nil {
		items = l.OwnedNFTs
	}
	records := make([]RawRecord, 0, len(items))
	for _, item := range items {
		asset := decodeAsset(item)
		records = append(records, asset.toRawRecord())
	}
	return records
}

// RawRecord is the single internal shape every provider record is reduced to
// before classification and normalization.
type RawRecord struct {
	Format                RecordFormat
	ContractAddress       string
	ContractName          string
	CuratedCollectionName string
	ProviderSpam          bool
	TokenID               string
	Title                 string
	Description           string
	ProcessedImages       []string
	MediaURLs             []string
	MetadataImage         string
	TokenURI              string
	Attributes            []Attribute
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (a *Asset) metadataSources() []*Metadata {
	sources := make([]*Metadata, 0, 3)
	if a.RawMetadata != nil {
		sources = append(sources, a.RawMetadata)
	}
	if a.Raw != nil && a.Raw.Metadata != nil {
		sources = append(sources, a.Raw.Metadata)
	}
	if a.Metadata != nil {
		sources = append(sources, a.Metadata)
	}
	return sources
}

func (a *Asset) toRawRecord() RawRecord {
	record := RawRecord{
		Format:          a.Format(),
		ContractAddress: a.Contract.Address.Value,
		TokenID:         a.TokenID.Value,
		Title:           firstNonEmpty(a.Title.Value, a.Name.Value),
		ProviderSpam:    bool(a.Contract.IsSpam),
	}

	if a.SpamInfo != nil && bool(a.SpamInfo.IsSpam) {
		record.ProviderSpam = true
	}

	var contractMetaName, legacyCurated string
	if a.ContractMetadata != nil {
		contractMetaName = a.ContractMetadata.Name.Value
		if a.ContractMetadata.OpenSea != nil {
			legacyCurated = a.ContractMetadata.OpenSea.CollectionName.Value
		}
	}
	record.ContractName = firstNonEmpty(a.Contract.Name.Value, contractMetaName)

	var curated, curatedLegacyField string
	if a.Contract.OpenSeaMetadata != nil {
		curated = a.Contract.OpenSeaMetadata.CollectionName.Value
	}
	if a.Contract.OpenSea != nil {
		curatedLegacyField = a.Contract.OpenSea.CollectionName.Value
	}
	record.CuratedCollectionName = firstNonEmpty(curated, curatedLegacyField, legacyCurated)

	var descriptions, images []string
	for _, meta := range a.metadataSources() {
		descriptions = append(descriptions, meta.Description.Value)
		images = append(images, meta.Image.Value)
		if record.Attributes == nil && len(meta.Attributes) > 0 {
			record.Attributes = meta.Attributes
		}
	}
	descriptions = append(descriptions, a.Description.Value)
	record.Description = firstNonEmpty(descriptions...)
	record.MetadataImage = firstNonEmpty(images...)

	if a.Image != nil {
		record.ProcessedImages = []string{
			a.Image.CachedURL.Value,
			a.Image.PngURL.Value,
			a.Image.ThumbnailURL.Value,
			a.Image.OriginalURL.Value,
		}
	}
	if len(a.Media) > 0 {
		media := a.Media[0]
		record.MediaURLs = []string{media.Gateway.Value, media.Thumbnail.Value, media.Raw.Value}
	}

	record.TokenURI = a.TokenURI.Best()
	if record.TokenURI == "" && a.Raw != nil {
		record.TokenURI = a.Raw.TokenURI.Value
	}

	return record
}
