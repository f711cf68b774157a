// Package carddef implements the per-card-family block layouts and the
// incremental block-fetch planning each family requires: which 128-byte
// block to ask for next, given which blocks have already been read.
package carddef

import (
	"fmt"

	"github.com/sportident-go/sidriver/pkg/personal"
	"github.com/sportident-go/sidriver/pkg/punch"
)

// Intent names what the caller is trying to complete a read-out for.
// A single card definition is fed blocks to satisfy one or more intents
// in the same pass.
type Intent int

const (
	IntentPersonalData Intent = iota
	IntentPunches
	IntentExclusives
)

// Need describes what block-fetch planner output looks like: either
// "fetch block N next" or "nothing more needed for this intent".
type Need struct {
	Required bool
	BlockID  byte
}

// NoNeed is returned by BlockNeeded when an intent is already satisfied.
var NoNeed = Need{}

// Needed requests the given block number.
func Needed(id byte) Need { return Need{Required: true, BlockID: id} }

// Definition is the per-family block accumulator and planner. A value
// fresh from its family constructor (NewCard6, NewCard8, NewCard9,
// NewCard10) has no blocks; FeedBlock incorporates one 128-byte
// block at a time until BlockNeeded reports NoNeed for every intent the
// caller cares about.
type Definition interface {
	// HasBlock reports whether block id has already been fed in.
	HasBlock(id byte) bool
	// FeedBlock incorporates a freshly read 128-byte block.
	FeedBlock(id byte, data [128]byte) error
	// BlockNeeded reports which block (if any) must be fetched next to
	// make progress on intent.
	BlockNeeded(intent Intent) Need

	SIID() (uint32, bool)
	PunchCount() (byte, bool)
	ClearCheck() (*punch.Punch, bool)
	Start() (*punch.Punch, bool)
	Finish() (*punch.Punch, bool)
	Punches() ([]punch.Punch, bool)
	PersonalData() (personal.Data, bool)
}

// ExclusivesProvider is implemented by families that carry data outside
// the common Definition surface (start numbers, card subtype, production
// date, ...). Callers type-switch on the concrete Definition to read it.
type ExclusivesProvider interface {
	HasExclusives() bool
}

func be24(b0, b1, b2 byte) uint32 {
	return uint32(b0)<<16 | uint32(b1)<<8 | uint32(b2)
}

func be32(b [4]byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func isAllEE(b []byte) bool {
	for _, v := range b {
		if v != 0xEE {
			return false
		}
	}
	return true
}

// punchChunks decodes data 4 bytes at a time until an all-0xEE sentinel
// (the block's "no more punches" marker) or the data runs out. Any punch
// that fails to decode (bad day-of-week, out-of-range time, a 0xFF
// cleared-data sentinel mid-list) fails the whole block: a corrupted
// entry must not be silently dropped from the punch list.
func punchChunks(data []byte) ([]punch.Punch, bool, error) {
	var out []punch.Punch
	finished := false
	for i := 0; i+4 <= len(data); i += 4 {
		var raw [4]byte
		copy(raw[:], data[i:i+4])
		if isAllEE(raw[:]) {
			finished = true
			break
		}
		p, err := punch.Decode(raw)
		if err != nil {
			return nil, false, fmt.Errorf("carddef: decode punch at offset %#02x: %w", i, err)
		}
		out = append(out, p)
	}
	return out, finished, nil
}
