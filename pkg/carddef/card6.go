package carddef

import (
	"fmt"

	"github.com/sportident-go/sidriver/pkg/personal"
	"github.com/sportident-go/sidriver/pkg/punch"
)

// Card6Type distinguishes the two punch-capacity variants of family 6:
// Regular cards hold up to 64 punches in two blocks, Star cards hold up
// to 192 across six.
type Card6Type int

const (
	Card6Regular Card6Type = iota
	Card6Star
)

// Card6Exclusives carries the family-6 fields with no analogue in the
// other families.
type Card6Exclusives struct {
	StartNumber uint32
	CardType    Card6Type
}

type card6Block0 struct {
	siid          uint32
	punchCount    byte
	finish        *punch.Punch
	start         *punch.Punch
	check         *punch.Punch
	clear         punch.Punch
	startNumber   uint32
	personalData1 [80]byte
}

type card6Block1 struct {
	personalData2 [124]byte
}

type card6PunchBlock struct {
	punches  []punch.Punch
	finished bool
}

// Card6 accumulates blocks for a family-6 card.
type Card6 struct {
	block0    *card6Block0
	block1    *card6Block1
	punches   map[byte]*card6PunchBlock
	ctypeSure bool
	ctype     Card6Type
}

// NewCard6 returns an empty family-6 accumulator.
func NewCard6() *Card6 {
	return &Card6{punches: make(map[byte]*card6PunchBlock)}
}

var _ Definition = (*Card6)(nil)
var _ ExclusivesProvider = (*Card6)(nil)

func (c *Card6) HasBlock(id byte) bool {
	switch id {
	case 0:
		return c.block0 != nil
	case 1:
		return c.block1 != nil
	default:
		return c.punches[id] != nil
	}
}

func (c *Card6) punchBlockIDs() []byte {
	if c.ctypeSure && c.ctype == Card6Star {
		return []byte{2, 3, 4, 5, 6, 7}
	}
	return []byte{6, 7}
}

func (c *Card6) FeedBlock(id byte, data [128]byte) error {
	switch id {
	case 0:
		clear, err := mustPunch(data, 0x20)
		if err != nil {
			return fmt.Errorf("carddef: card6 clear punch: %w", err)
		}
		b := &card6Block0{
			siid:        be24(data[0x0B], data[0x0C], data[0x0D]),
			punchCount:  data[0x12],
			clear:       clear,
			startNumber: uint32(data[0x28]) | uint32(data[0x29])<<8 | uint32(data[0x2A])<<16 | uint32(data[0x2B])<<24,
		}
		copy(b.personalData1[:], data[0x30:0x80])
		if b.finish, err = controlPunch(data, 0x14); err != nil {
			return fmt.Errorf("carddef: card6 finish punch: %w", err)
		}
		if b.start, err = controlPunch(data, 0x18); err != nil {
			return fmt.Errorf("carddef: card6 start punch: %w", err)
		}
		if b.check, err = controlPunch(data, 0x1C); err != nil {
			return fmt.Errorf("carddef: card6 check punch: %w", err)
		}
		c.block0 = b
		c.ctype = Card6Regular
		if b.punchCount > 64 {
			c.ctype = Card6Star
		}
		c.ctypeSure = true
		return nil
	case 1:
		b := &card6Block1{}
		copy(b.personalData2[:], data[0x00:0x7C])
		c.block1 = b
		return nil
	default:
		punches, finished, err := punchChunks(data[:])
		if err != nil {
			return fmt.Errorf("carddef: card6 punch block %d: %w", id, err)
		}
		c.punches[id] = &card6PunchBlock{punches: punches, finished: finished}
		return nil
	}
}

// controlPunch decodes a punch that may legitimately be absent (the
// all-0xEE sentinel yields (nil, nil)); any other decode failure is a
// corrupt record and must fail the block feed.
func controlPunch(data [128]byte, offset int) (*punch.Punch, error) {
	var raw [4]byte
	copy(raw[:], data[offset:offset+4])
	p, err := punch.DecodeControl(raw)
	if err != nil {
		return nil, fmt.Errorf("offset %#02x: %w", offset, err)
	}
	return p, nil
}

// mustPunch decodes a punch that is required to be present; a corrupt or
// cleared record fails the block feed rather than defaulting to the zero
// value, which would be indistinguishable from a legitimate reading.
func mustPunch(data [128]byte, offset int) (punch.Punch, error) {
	var raw [4]byte
	copy(raw[:], data[offset:offset+4])
	p, err := punch.Decode(raw)
	if err != nil {
		return punch.Punch{}, fmt.Errorf("offset %#02x: %w", offset, err)
	}
	return p, nil
}

func (c *Card6) BlockNeeded(intent Intent) Need {
	switch intent {
	case IntentExclusives:
		if c.block0 == nil {
			return Needed(0)
		}
		return NoNeed
	case IntentPersonalData:
		if c.block0 == nil {
			return Needed(0)
		}
		if c.block1 == nil {
			return Needed(1)
		}
		return NoNeed
	case IntentPunches:
		if c.block0 == nil {
			// Block 0's punch count decides Regular vs. Star layout.
			return Needed(0)
		}
		for _, id := range c.punchBlockIDs() {
			blk, ok := c.punches[id]
			if !ok {
				return Needed(id)
			}
			if blk.finished {
				return NoNeed
			}
		}
		return NoNeed
	}
	return NoNeed
}

func (c *Card6) SIID() (uint32, bool) {
	if c.block0 == nil {
		return 0, false
	}
	return c.block0.siid, true
}

func (c *Card6) PunchCount() (byte, bool) {
	if c.block0 == nil {
		return 0, false
	}
	return c.block0.punchCount, true
}

func (c *Card6) ClearCheck() (*punch.Punch, bool) {
	if c.block0 == nil {
		return nil, false
	}
	p := c.block0.clear
	return &p, true
}

func (c *Card6) Start() (*punch.Punch, bool) {
	if c.block0 == nil {
		return nil, false
	}
	return c.block0.start, true
}

func (c *Card6) Finish() (*punch.Punch, bool) {
	if c.block0 == nil {
		return nil, false
	}
	return c.block0.finish, true
}

func (c *Card6) Punches() ([]punch.Punch, bool) {
	if c.BlockNeeded(IntentPunches) != NoNeed {
		return nil, false
	}
	var out []punch.Punch
	for _, id := range c.punchBlockIDs() {
		blk, ok := c.punches[id]
		if !ok {
			break
		}
		out = append(out, blk.punches...)
		if blk.finished {
			break
		}
	}
	return out, true
}

func (c *Card6) PersonalData() (personal.Data, bool) {
	if c.block0 == nil || c.block1 == nil {
		return personal.Data{}, false
	}
	var window [204]byte
	copy(window[0:80], c.block0.personalData1[:])
	copy(window[80:204], c.block1.personalData2[:])
	return personal.DecodeFixed(window), true
}

func (c *Card6) HasExclusives() bool { return c.block0 != nil }

// Exclusives returns the family-6-specific fields, valid once HasExclusives
// reports true.
func (c *Card6) Exclusives() (Card6Exclusives, error) {
	if c.block0 == nil {
		return Card6Exclusives{}, fmt.Errorf("carddef: card6 exclusives requested before block 0")
	}
	return Card6Exclusives{StartNumber: c.block0.startNumber, CardType: c.ctype}, nil
}
