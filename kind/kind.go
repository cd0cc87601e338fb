// Package kind includes a type for convenient handling of event kinds, and a
// kind database with reverse lookup for human-readable information about event
// kinds.
package kind

import (
	"strconv"
)

// T - which will be externally referenced as kind.T is the event type in the
// nostr protocol, the use of the capital T signifying type, consistent with Go
// idiom, the Go standard library, and much, conformant, existing code.
type T struct {
	K uint16
}

// New creates a kind.T from any of the integer types kinds commonly arrive as.
func New[V uint16 | uint32 | int32 | int | int64](k V) (ki *T) { return &T{uint16(k)} }

func (k *T) ToInt() int {
	if k == nil {
		return 0
	}
	return int(k.K)
}

func (k *T) ToU16() uint16 {
	if k == nil {
		return 0
	}
	return k.K
}

func (k *T) ToI32() int32 {
	if k == nil {
		return 0
	}
	return int32(k.K)
}

func (k *T) Name() string { return GetString(k) }

func (k *T) Equal(k2 *T) bool { return k.ToU16() == k2.ToU16() }

func (k *T) String() string { return strconv.FormatUint(uint64(k.ToU16()), 10) }

// Marshal appends the decimal form of the kind to dst.
func (k *T) Marshal(dst []byte) []byte { return strconv.AppendUint(dst, uint64(k.ToU16()), 10) }

// GetString returns a human readable identifier for a kind.T.
func GetString(t *T) string {
	if t == nil {
		return ""
	}
	return Map[t.K]
}

// IsEphemeral returns true if the event kind is an ephemeral event. (not to be
// stored)
func (k *T) IsEphemeral() bool {
	return k.ToU16() >= EphemeralStart.K && k.ToU16() < EphemeralEnd.K
}

// IsReplaceable returns true if the event kind is a replaceable kind - that is,
// if the newest version is the one that is in force (eg follow lists, relay
// lists, etc.
func (k *T) IsReplaceable() bool {
	kk := k.ToU16()
	return kk == ProfileMetadata.K || kk == FollowList.K ||
		(kk >= ReplaceableStart.K && kk < ReplaceableEnd.K)
}

// IsParameterizedReplaceable is a kind of event that is one of a group of
// events that replaces based on matching criteria, the `d` tag. These are also
// called addressable events.
func (k *T) IsParameterizedReplaceable() bool {
	return k.ToU16() >= ParameterizedReplaceableStart.K &&
		k.ToU16() < ParameterizedReplaceableEnd.K
}

// IsAddressable is a synonym for IsParameterizedReplaceable.
func (k *T) IsAddressable() bool { return k.IsParameterizedReplaceable() }

// HasAddress reports whether only the newest event per replaceable address of
// this kind is in force, covering both replaceable and addressable kinds.
func (k *T) HasAddress() bool { return k.IsReplaceable() || k.IsParameterizedReplaceable() }

// IsDeletion reports whether the kind is the NIP-09 deletion request.
func (k *T) IsDeletion() bool { return k != nil && k.K == Deletion.K }

var (
	// ProfileMetadata is an event type that stores user profile data, pet
	// names, bio, lightning address, etc.
	ProfileMetadata = &T{0}
	// TextNote is a standard short text note of plain text a la twitter
	TextNote = &T{1}
	// RecommendRelay is a deprecated relay recommendation.
	RecommendRelay = &T{2}
	// FollowList an event containing a list of pubkeys of users that should be
	// shown as follows in a timeline.
	FollowList = &T{3}
	// EncryptedDirectMessage is a NIP-04 direct message.
	EncryptedDirectMessage = &T{4}
	// Deletion is a request to delete the events referenced by its e and a tags.
	Deletion = &T{5}
	// Repost is a repost of a text note.
	Repost = &T{6}
	// Reaction is a like or emoji reaction.
	Reaction = &T{7}
	// BadgeAward is an event type
	BadgeAward = &T{8}
	// GenericRepost is a repost of any kind other than a text note.
	GenericRepost = &T{16}
	// ChannelMessage is a public chat message.
	ChannelMessage = &T{42}
	GiftWrap       = &T{1059}
	// Reporting contains a report about an event (usually text note or other
	// human readable)
	Reporting = &T{1984}
	// Label is an event type has L and l tags, namespace and type - NIP-32
	Label = &T{1985}
	// ZapRequest is a request for a lightning zap receipt.
	ZapRequest = &T{9734}
	// Zap is a lightning zap receipt.
	Zap = &T{9735}
	// ReplaceableStart is the first of the range of replaceable kinds.
	ReplaceableStart = &T{10000}
	// MuteList is a list of muted pubkeys, hashtags, words and threads.
	MuteList = &T{10000}
	// PinList is a list of pinned events.
	PinList = &T{10001}
	// RelayListMetadata is the NIP-65 relay list.
	RelayListMetadata = &T{10002}
	BookmarkList      = &T{10003}
	DMRelaysList      = &T{10050}
	// ReplaceableEnd is the end, exclusive, of the replaceable range.
	ReplaceableEnd = &T{20000}
	// EphemeralStart is the first of the range of kinds that are not stored.
	EphemeralStart       = &T{20000}
	ClientAuthentication = &T{22242}
	NostrConnect         = &T{24133}
	// EphemeralEnd is the end, exclusive, of the ephemeral range.
	EphemeralEnd = &T{30000}
	// ParameterizedReplaceableStart is the first of the addressable kinds.
	ParameterizedReplaceableStart = &T{30000}
	// FollowSets are named lists of pubkeys.
	FollowSets   = &T{30000}
	GenericLists = &T{30001}
	RelaySets    = &T{30002}
	BookmarkSets = &T{30003}
	// LongFormContent is a NIP-23 article.
	LongFormContent         = &T{30023}
	DraftLongFormContent    = &T{30024}
	ApplicationSpecificData = &T{30078}
	LiveEvent               = &T{30311}
	CommunityDefinition     = &T{34550}
	// ParameterizedReplaceableEnd is the end, exclusive, of the addressable range.
	ParameterizedReplaceableEnd = &T{40000}
)

// Map is the reverse lookup of kind numbers to names. It is never written after
// init so it is safe for concurrent reads.
var Map = map[uint16]string{
	ProfileMetadata.K:         "ProfileMetadata",
	TextNote.K:                "TextNote",
	RecommendRelay.K:          "RecommendRelay",
	FollowList.K:              "FollowList",
	EncryptedDirectMessage.K:  "EncryptedDirectMessage",
	Deletion.K:                "Deletion",
	Repost.K:                  "Repost",
	Reaction.K:                "Reaction",
	BadgeAward.K:              "BadgeAward",
	GenericRepost.K:           "GenericRepost",
	ChannelMessage.K:          "ChannelMessage",
	GiftWrap.K:                "GiftWrap",
	Reporting.K:               "Reporting",
	Label.K:                   "Label",
	ZapRequest.K:              "ZapRequest",
	Zap.K:                     "Zap",
	MuteList.K:                "MuteList",
	PinList.K:                 "PinList",
	RelayListMetadata.K:       "RelayListMetadata",
	BookmarkList.K:            "BookmarkList",
	DMRelaysList.K:            "DMRelaysList",
	ClientAuthentication.K:    "ClientAuthentication",
	NostrConnect.K:            "NostrConnect",
	FollowSets.K:              "FollowSets",
	GenericLists.K:            "GenericLists",
	RelaySets.K:               "RelaySets",
	BookmarkSets.K:            "BookmarkSets",
	LongFormContent.K:         "LongFormContent",
	DraftLongFormContent.K:    "DraftLongFormContent",
	ApplicationSpecificData.K: "ApplicationSpecificData",
	LiveEvent.K:               "LiveEvent",
	CommunityDefinition.K:     "CommunityDefinition",
}
