package carddef

import (
	"fmt"

	"github.com/sportident-go/sidriver/pkg/personal"
	"github.com/sportident-go/sidriver/pkg/punch"
)

type card8Block0 struct {
	uid              uint32
	clearCheck       punch.Punch
	start            *punch.Punch
	finish           *punch.Punch
	punchCount       byte
	siid             uint32
	personalData1    [96]byte
	personalDataDone bool
}

type card8Block1 struct {
	personalData2 [8]byte
	punches       []punch.Punch
}

// Card8 accumulates blocks for a family-8 card. Family 8 has no
// card-exclusives section.
type Card8 struct {
	block0 *card8Block0
	block1 *card8Block1
}

// NewCard8 returns an empty family-8 accumulator.
func NewCard8() *Card8 { return &Card8{} }

var _ Definition = (*Card8)(nil)

func (c *Card8) HasBlock(id byte) bool {
	switch id {
	case 0:
		return c.block0 != nil
	case 1:
		return c.block1 != nil
	default:
		return false
	}
}

func (c *Card8) FeedBlock(id byte, data [128]byte) error {
	switch id {
	case 0:
		clearCheck, err := mustPunch(data, 0x08)
		if err != nil {
			return fmt.Errorf("carddef: card8 clear/check punch: %w", err)
		}
		b := &card8Block0{
			uid:        be32([4]byte{data[0x00], data[0x01], data[0x02], data[0x03]}),
			clearCheck: clearCheck,
			punchCount: data[0x16],
			siid:       be24(data[0x19], data[0x1A], data[0x1B]),
		}
		if b.start, err = controlPunch(data, 0x0C); err != nil {
			return fmt.Errorf("carddef: card8 start punch: %w", err)
		}
		if b.finish, err = controlPunch(data, 0x10); err != nil {
			return fmt.Errorf("carddef: card8 finish punch: %w", err)
		}
		copy(b.personalData1[:], data[0x20:0x80])
		b.personalDataDone = b.personalData1[94] == 0x00 && b.personalData1[95] == 0x00
		c.block0 = b
		return nil
	case 1:
		b := &card8Block1{}
		copy(b.personalData2[:], data[0x00:0x08])
		punches, _, err := punchChunks(data[0x08:0x80])
		if err != nil {
			return fmt.Errorf("carddef: card8 punches: %w", err)
		}
		b.punches = punches
		c.block1 = b
		return nil
	default:
		return nil
	}
}

func (c *Card8) BlockNeeded(intent Intent) Need {
	switch intent {
	case IntentExclusives:
		return NoNeed
	case IntentPersonalData:
		if c.block0 == nil {
			return Needed(0)
		}
		if !c.block0.personalDataDone && c.block1 == nil {
			return Needed(1)
		}
		return NoNeed
	case IntentPunches:
		if c.block1 == nil {
			return Needed(1)
		}
		return NoNeed
	}
	return NoNeed
}

func (c *Card8) SIID() (uint32, bool) {
	if c.block0 == nil {
		return 0, false
	}
	return c.block0.siid, true
}

func (c *Card8) PunchCount() (byte, bool) {
	if c.block0 == nil {
		return 0, false
	}
	return c.block0.punchCount, true
}

func (c *Card8) ClearCheck() (*punch.Punch, bool) {
	if c.block0 == nil {
		return nil, false
	}
	p := c.block0.clearCheck
	return &p, true
}

func (c *Card8) Start() (*punch.Punch, bool) {
	if c.block0 == nil {
		return nil, false
	}
	return c.block0.start, true
}

func (c *Card8) Finish() (*punch.Punch, bool) {
	if c.block0 == nil {
		return nil, false
	}
	return c.block0.finish, true
}

func (c *Card8) Punches() ([]punch.Punch, bool) {
	if c.block1 == nil {
		return nil, false
	}
	return c.block1.punches, true
}

func (c *Card8) PersonalData() (personal.Data, bool) {
	if c.block0 == nil {
		return personal.Data{}, false
	}
	if !c.block0.personalDataDone && c.block1 == nil {
		return personal.Data{}, false
	}
	buf := append([]byte{}, c.block0.personalData1[:]...)
	if !c.block0.personalDataDone {
		buf = append(buf, c.block1.personalData2[:]...)
	}
	d, err := personal.DecodeSemicolon(buf)
	if err != nil {
		return personal.Data{}, false
	}
	return d, true
}
