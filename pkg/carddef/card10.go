package carddef

import (
	"fmt"

	"github.com/sportident-go/sidriver/pkg/personal"
	"github.com/sportident-go/sidriver/pkg/punch"
	"github.com/sportident-go/sidriver/pkg/sitime"
)

// Card10Exclusives carries the family-10/11 fields with no analogue in
// the other families. The same struct (and the same Card10 type) also
// serves ComCard Up/Pro and Active cards, which share this block layout.
type Card10Exclusives struct {
	UID               uint32
	ClearCheckReserve *punch.Punch
	ProductionDate    sitime.Date
	HwVersion         uint16
	SwVersion         uint16
	ClearCount        uint16
	StartReserve      *punch.Punch
	FinishReserve     *punch.Punch
}

type card10Block0 struct {
	uid                  uint32
	clearCheck           punch.Punch
	start                *punch.Punch
	finish               *punch.Punch
	punchCount           byte
	siid                 uint32
	personalData1        [96]byte
	personalDataFinished bool
}

type card10Block1 struct {
	personalData2 [32]byte
}

type card10Block3 struct {
	clearCheckReserve *punch.Punch
	prodDate          sitime.Date
	hwVersion         uint16
	swVersion         uint16
	clearCount        uint16
	startReserve      *punch.Punch
	finishReserve     *punch.Punch
}

// Card10 accumulates blocks for the family-10/11 layout (also used for
// ComCard Up/Pro and Active cards).
type Card10 struct {
	block0  *card10Block0
	block1  *card10Block1
	block3  *card10Block3
	punches map[byte]*card6PunchBlock
}

// NewCard10 returns an empty family-10/11 accumulator.
func NewCard10() *Card10 { return &Card10{punches: make(map[byte]*card6PunchBlock)} }

var _ Definition = (*Card10)(nil)
var _ ExclusivesProvider = (*Card10)(nil)

func (c *Card10) HasBlock(id byte) bool {
	switch id {
	case 0:
		return c.block0 != nil
	case 1:
		return c.block1 != nil
	case 2:
		return true // reserve block, never fetched
	case 3:
		return c.block3 != nil
	default:
		return c.punches[id] != nil
	}
}

func (c *Card10) FeedBlock(id byte, data [128]byte) error {
	switch id {
	case 0:
		clearCheck, err := mustPunch(data, 0x08)
		if err != nil {
			return fmt.Errorf("carddef: card10 clear/check punch: %w", err)
		}
		b := &card10Block0{
			uid:        be32([4]byte{data[0x00], data[0x01], data[0x02], data[0x03]}),
			clearCheck: clearCheck,
			punchCount: data[0x16],
			siid:       be24(data[0x19], data[0x1A], data[0x1B]),
		}
		if b.start, err = controlPunch(data, 0x0C); err != nil {
			return fmt.Errorf("carddef: card10 start punch: %w", err)
		}
		if b.finish, err = controlPunch(data, 0x10); err != nil {
			return fmt.Errorf("carddef: card10 finish punch: %w", err)
		}
		copy(b.personalData1[:], data[0x20:0x80])
		b.personalDataFinished = data[126] == 0xEE && data[127] == 0xEE
		c.block0 = b
		return nil
	case 1:
		b := &card10Block1{}
		copy(b.personalData2[:], data[0x00:0x20])
		c.block1 = b
		return nil
	case 2:
		return nil // reserve block carries nothing we surface
	case 3:
		prodDate, err := sitime.DecodeDate([3]byte{data[0x3C], data[0x3D], data[0x3E]})
		if err != nil {
			return fmt.Errorf("carddef: card10 production date: %w", err)
		}
		b3 := &card10Block3{
			prodDate:   prodDate,
			hwVersion:  uint16(data[0x40])<<8 | uint16(data[0x41]),
			swVersion:  uint16(data[0x42])<<8 | uint16(data[0x43]),
			clearCount: uint16(data[0x48])<<8 | uint16(data[0x49]),
		}
		if b3.clearCheckReserve, err = controlPunch(data, 0x38); err != nil {
			return fmt.Errorf("carddef: card10 clear/check reserve punch: %w", err)
		}
		if b3.startReserve, err = controlPunch(data, 0x58); err != nil {
			return fmt.Errorf("carddef: card10 start reserve punch: %w", err)
		}
		if b3.finishReserve, err = controlPunch(data, 0x5C); err != nil {
			return fmt.Errorf("carddef: card10 finish reserve punch: %w", err)
		}
		c.block3 = b3
		return nil
	default:
		punches, finished, err := punchChunks(data[:])
		if err != nil {
			return fmt.Errorf("carddef: card10 punch block %d: %w", id, err)
		}
		c.punches[id] = &card6PunchBlock{punches: punches, finished: finished}
		return nil
	}
}

func (c *Card10) BlockNeeded(intent Intent) Need {
	switch intent {
	case IntentExclusives:
		if c.block0 == nil {
			return Needed(0)
		}
		if c.block3 == nil {
			return Needed(3)
		}
		return NoNeed
	case IntentPersonalData:
		if c.block0 == nil {
			return Needed(0)
		}
		if !c.block0.personalDataFinished && c.block1 == nil {
			return Needed(1)
		}
		return NoNeed
	case IntentPunches:
		for _, id := range []byte{4, 5, 6, 7} {
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

func (c *Card10) SIID() (uint32, bool) {
	if c.block0 == nil {
		return 0, false
	}
	return c.block0.siid, true
}

func (c *Card10) PunchCount() (byte, bool) {
	if c.block0 == nil {
		return 0, false
	}
	return c.block0.punchCount, true
}

func (c *Card10) ClearCheck() (*punch.Punch, bool) {
	if c.block0 == nil {
		return nil, false
	}
	p := c.block0.clearCheck
	return &p, true
}

func (c *Card10) Start() (*punch.Punch, bool) {
	if c.block0 == nil {
		return nil, false
	}
	return c.block0.start, true
}

func (c *Card10) Finish() (*punch.Punch, bool) {
	if c.block0 == nil {
		return nil, false
	}
	return c.block0.finish, true
}

func (c *Card10) Punches() ([]punch.Punch, bool) {
	if c.BlockNeeded(IntentPunches) != NoNeed {
		return nil, false
	}
	var out []punch.Punch
	for _, id := range []byte{4, 5, 6, 7} {
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

func (c *Card10) PersonalData() (personal.Data, bool) {
	if c.block0 == nil {
		return personal.Data{}, false
	}
	if !c.block0.personalDataFinished && c.block1 == nil {
		return personal.Data{}, false
	}
	buf := append([]byte{}, c.block0.personalData1[:]...)
	if !c.block0.personalDataFinished {
		buf = append(buf, c.block1.personalData2[:]...)
	}
	d, err := personal.DecodeSemicolon(buf)
	if err != nil {
		return personal.Data{}, false
	}
	return d, true
}

func (c *Card10) HasExclusives() bool { return c.block0 != nil && c.block3 != nil }

// Exclusives returns the family-10/11-specific fields.
func (c *Card10) Exclusives() (Card10Exclusives, bool) {
	if c.block0 == nil || c.block3 == nil {
		return Card10Exclusives{}, false
	}
	return Card10Exclusives{
		UID:               c.block0.uid,
		ClearCheckReserve: c.block3.clearCheckReserve,
		ProductionDate:    c.block3.prodDate,
		HwVersion:         c.block3.hwVersion,
		SwVersion:         c.block3.swVersion,
		ClearCount:        c.block3.clearCount,
		StartReserve:      c.block3.startReserve,
		FinishReserve:     c.block3.finishReserve,
	}, true
}
