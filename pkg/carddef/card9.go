package carddef

import (
	"fmt"
	"strings"

	"github.com/sportident-go/sidriver/pkg/charset"
	"github.com/sportident-go/sidriver/pkg/personal"
	"github.com/sportident-go/sidriver/pkg/punch"
)

// Card9Exclusives carries the family-9 fields with no analogue in the
// other families.
type Card9Exclusives struct {
	UID                    uint32
	LastVisitedStationCode uint16
	ProductionDateMonth    byte
	ProductionDateYear     int
}

type card9Block0 struct {
	uid          uint32
	clearCheck   punch.Punch
	start        *punch.Punch
	finish       *punch.Punch
	lastVisited  uint16
	punchCount   byte
	siid         uint32
	prodMonth    byte
	prodYear     byte
	personalData [24]byte
	punches      []punch.Punch
	finished     bool
}

type card9Block1 struct {
	punches []punch.Punch
}

// Card9 accumulates blocks for a family-9 card.
type Card9 struct {
	block0 *card9Block0
	block1 *card9Block1
}

// NewCard9 returns an empty family-9 accumulator.
func NewCard9() *Card9 { return &Card9{} }

var _ Definition = (*Card9)(nil)
var _ ExclusivesProvider = (*Card9)(nil)

func (c *Card9) HasBlock(id byte) bool {
	switch id {
	case 0:
		return c.block0 != nil
	case 1:
		return c.block1 != nil
	default:
		return false
	}
}

func (c *Card9) FeedBlock(id byte, data [128]byte) error {
	switch id {
	case 0:
		clearCheck, err := mustPunch(data, 0x08)
		if err != nil {
			return fmt.Errorf("carddef: card9 clear/check punch: %w", err)
		}
		b := &card9Block0{
			uid:         be32([4]byte{data[0x00], data[0x01], data[0x02], data[0x03]}),
			clearCheck:  clearCheck,
			lastVisited: uint16(data[0x14])<<8 | uint16(data[0x15]),
			punchCount:  data[0x16],
			siid:        be24(data[0x19], data[0x1A], data[0x1B]),
			prodMonth:   data[0x1C],
			prodYear:    data[0x1D],
		}
		if b.start, err = controlPunch(data, 0x0C); err != nil {
			return fmt.Errorf("carddef: card9 start punch: %w", err)
		}
		if b.finish, err = controlPunch(data, 0x10); err != nil {
			return fmt.Errorf("carddef: card9 finish punch: %w", err)
		}
		copy(b.personalData[:], data[0x20:0x38])
		b.punches, b.finished, err = punchChunks(data[0x38:0x80])
		if err != nil {
			return fmt.Errorf("carddef: card9 punches (block 0): %w", err)
		}
		c.block0 = b
		return nil
	case 1:
		punches, _, err := punchChunks(data[:])
		if err != nil {
			return fmt.Errorf("carddef: card9 punches (block 1): %w", err)
		}
		c.block1 = &card9Block1{punches: punches}
		return nil
	default:
		return nil
	}
}

func (c *Card9) BlockNeeded(intent Intent) Need {
	switch intent {
	case IntentExclusives, IntentPersonalData:
		if c.block0 == nil {
			return Needed(0)
		}
		return NoNeed
	case IntentPunches:
		if c.block0 == nil {
			return Needed(0)
		}
		if !c.block0.finished && c.block1 == nil {
			return Needed(1)
		}
		return NoNeed
	}
	return NoNeed
}

func (c *Card9) SIID() (uint32, bool) {
	if c.block0 == nil {
		return 0, false
	}
	return c.block0.siid, true
}

func (c *Card9) PunchCount() (byte, bool) {
	if c.block0 == nil {
		return 0, false
	}
	return c.block0.punchCount, true
}

func (c *Card9) ClearCheck() (*punch.Punch, bool) {
	if c.block0 == nil {
		return nil, false
	}
	p := c.block0.clearCheck
	return &p, true
}

func (c *Card9) Start() (*punch.Punch, bool) {
	if c.block0 == nil {
		return nil, false
	}
	return c.block0.start, true
}

func (c *Card9) Finish() (*punch.Punch, bool) {
	if c.block0 == nil {
		return nil, false
	}
	return c.block0.finish, true
}

func (c *Card9) Punches() ([]punch.Punch, bool) {
	if c.block0 == nil {
		return nil, false
	}
	if c.block0.finished {
		return c.block0.punches, true
	}
	if c.block1 == nil {
		return nil, false
	}
	out := append([]punch.Punch{}, c.block0.punches...)
	out = append(out, c.block1.punches...)
	return out, true
}

func (c *Card9) PersonalData() (personal.Data, bool) {
	if c.block0 == nil {
		return personal.Data{}, false
	}
	remapped := charset.RemapPrinterCharset(c.block0.personalData[:])
	last := strings.TrimRight(charset.DecodeLatin1(remapped[0:12]), " ")
	first := strings.TrimRight(charset.DecodeLatin1(remapped[12:24]), " ")
	var d personal.Data
	if last != "" {
		d.LastName = &last
	}
	if first != "" {
		d.FirstName = &first
	}
	return d, true
}

func (c *Card9) HasExclusives() bool { return c.block0 != nil }

// Exclusives returns the family-9-specific fields.
func (c *Card9) Exclusives() (Card9Exclusives, bool) {
	if c.block0 == nil {
		return Card9Exclusives{}, false
	}
	return Card9Exclusives{
		UID:                    c.block0.uid,
		LastVisitedStationCode: c.block0.lastVisited,
		ProductionDateMonth:    c.block0.prodMonth,
		ProductionDateYear:     2000 + int(c.block0.prodYear),
	}, true
}
