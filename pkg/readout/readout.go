// Package readout drives the incremental block-fetch loop: given a card's
// SIID and the set of data a caller wants, it repeatedly asks a
// carddef.Definition which block to fetch next and feeds the station's
// answer back in, until every requested intent is satisfied.
package readout

import (
	"errors"
	"fmt"

	"github.com/sportident-go/sidriver/pkg/carddef"
	"github.com/sportident-go/sidriver/pkg/cardtype"
	"github.com/sportident-go/sidriver/pkg/conn"
	"github.com/sportident-go/sidriver/pkg/packet"
	"github.com/sportident-go/sidriver/pkg/personal"
	"github.com/sportident-go/sidriver/pkg/punch"
)

// ErrUnsupportedCardType is returned when a SIID resolves to a card
// family this module does not (yet) implement a block layout for.
var ErrUnsupportedCardType = errors.New("readout: unsupported card type")

// AllIntents requests every kind of data a card can carry.
func AllIntents() []carddef.Intent {
	return []carddef.Intent{carddef.IntentPersonalData, carddef.IntentPunches, carddef.IntentExclusives}
}

// blockCommandFor reports which GetBlock command variant a card family
// uses: family 6 has its own dedicated command, all newer families share
// one.
func blockCommandFor(t cardtype.Type) (byte, error) {
	switch t {
	case cardtype.Card6:
		return packet.CmdGetBlockFamily6, nil
	case cardtype.Card8, cardtype.Card9, cardtype.Card10, cardtype.Card11, cardtype.ActiveCard, cardtype.ComCardUp:
		return packet.CmdGetBlockNewer, nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedCardType, t)
	}
}

// newDefinition returns an empty block accumulator for a card family.
func newDefinition(t cardtype.Type) (carddef.Definition, error) {
	switch t {
	case cardtype.Card6:
		return carddef.NewCard6(), nil
	case cardtype.Card8:
		return carddef.NewCard8(), nil
	case cardtype.Card9:
		return carddef.NewCard9(), nil
	case cardtype.Card10, cardtype.Card11, cardtype.ActiveCard, cardtype.ComCardUp:
		return carddef.NewCard10(), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedCardType, t)
	}
}

// ReadOut fetches whatever blocks are needed to satisfy every intent in
// prefs for the card identified by siid, returning the fully populated
// definition.
func ReadOut(c *conn.Connection, siid uint32, prefs []carddef.Intent) (carddef.Definition, error) {
	cardType, ok := cardtype.FromSIID(siid)
	if !ok {
		return nil, fmt.Errorf("readout: siid %d matches no known card type", siid)
	}
	def, err := newDefinition(cardType)
	if err != nil {
		return nil, err
	}
	blockCmd, err := blockCommandFor(cardType)
	if err != nil {
		return nil, err
	}

	fetched := map[byte]bool{}
	for _, pref := range prefs {
		for {
			need := def.BlockNeeded(pref)
			if !need.Required {
				break
			}
			if fetched[need.BlockID] {
				// Planner asked for a block we already have and it
				// still isn't enough: it cannot converge further.
				return nil, fmt.Errorf("readout: block %d already fetched but still needed", need.BlockID)
			}
			resp, err := c.GetBlock(blockCmd, need.BlockID)
			if err != nil {
				return nil, err
			}
			if err := def.FeedBlock(need.BlockID, resp.Data); err != nil {
				return nil, fmt.Errorf("readout: feed block %d: %w", need.BlockID, err)
			}
			fetched[need.BlockID] = true
		}
	}
	return def, nil
}

// General is the family-independent projection every card family can
// produce once read out with AllIntents.
type General struct {
	SIID         uint32
	ClearCheck   punch.Punch
	Start        *punch.Punch
	Finish       *punch.Punch
	Punches      []punch.Punch
	PersonalData *personal.Data // present only when the card actually carries it
}

// ErrIncompleteReadout is returned by ToGeneral when a required field
// (SIID, clear/check punch, or punches) was never populated.
var ErrIncompleteReadout = errors.New("readout: incomplete read-out result")

// ToGeneral projects any populated carddef.Definition into the common
// shape. SIID, ClearCheck, and Punches are required; PersonalData,
// Start, and Finish are optional per the original card contents.
func ToGeneral(def carddef.Definition) (General, error) {
	siid, ok := def.SIID()
	if !ok {
		return General{}, fmt.Errorf("%w: siid missing", ErrIncompleteReadout)
	}
	clearCheck, ok := def.ClearCheck()
	if !ok || clearCheck == nil {
		return General{}, fmt.Errorf("%w: clear/check punch missing", ErrIncompleteReadout)
	}
	punches, ok := def.Punches()
	if !ok {
		return General{}, fmt.Errorf("%w: punches missing", ErrIncompleteReadout)
	}

	g := General{SIID: siid, ClearCheck: *clearCheck, Punches: punches}
	if start, ok := def.Start(); ok {
		g.Start = start
	}
	if finish, ok := def.Finish(); ok {
		g.Finish = finish
	}
	if pd, ok := def.PersonalData(); ok {
		g.PersonalData = &pd
	}
	return g, nil
}
