// Package punch decodes the 4-byte on-card punch record: a station visit
// with a 10-bit station code and second-resolution time of day, plus the
// day-of-week/week-of-month context needed to order punches recorded
// across several weeks.
package punch

import (
	"errors"
	"fmt"

	"github.com/sportident-go/sidriver/pkg/sitime"
)

// ErrDataCleared is returned when all four raw bytes are 0xFF, the
// station's "this record has been cleared" sentinel.
var ErrDataCleared = errors.New("punch: data cleared (0xff sentinel)")

const (
	flagOffset12h  = 0b0000_0001
	flagDayOfWeek  = 0b0000_1110
	flagWeek       = 0b0011_0000
	stationHiShift = 6
)

// Punch is a single decoded control-station visit.
type Punch struct {
	StationCode int // 10-bit station code
	Seconds     int // seconds since midnight, 0-86399 (+12h already applied)
	Day         sitime.DayOfWeek
	Week        sitime.WeekOfMonth
}

// AbsoluteSeconds orders punches across a multi-week event.
func (p Punch) AbsoluteSeconds() int64 {
	return sitime.AbsoluteSeconds(p.Week, p.Day, p.Seconds)
}

var allEE = [4]byte{0xEE, 0xEE, 0xEE, 0xEE}
var allFF = [4]byte{0xFF, 0xFF, 0xFF, 0xFF}

// Decode parses the 4 raw bytes `td, cn, th, tl` of a punch record.
func Decode(raw [4]byte) (Punch, error) {
	if raw == allFF {
		return Punch{}, ErrDataCleared
	}

	td, cn, th, tl := raw[0], raw[1], raw[2], raw[3]

	day, err := sitime.DecodeDayOfWeek((td & flagDayOfWeek) >> 1)
	if err != nil {
		return Punch{}, fmt.Errorf("punch: %w", err)
	}
	week := sitime.DecodeWeekOfMonth((td & flagWeek) >> 4)

	high := int(td&0xC0) << 2 // bits 6-7 of td become bits 8-9 of the station code
	stationCode := high | int(cn)

	seconds := int(th)<<8 | int(tl)
	if seconds > 86399 {
		return Punch{}, fmt.Errorf("punch: invalid time %d seconds", seconds)
	}
	if td&flagOffset12h != 0 {
		seconds = (seconds + 12*3600) % 86400
	}

	return Punch{
		StationCode: stationCode,
		Seconds:     seconds,
		Day:         day,
		Week:        week,
	}, nil
}

// DecodeControl parses a punch that may legitimately be absent: the
// all-0xEE sentinel decodes to (nil, nil) rather than an error.
func DecodeControl(raw [4]byte) (*Punch, error) {
	if raw == allEE {
		return nil, nil
	}
	p, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Encode is the inverse of Decode, used by the property test that round
// trips every station code 0-1023.
func Encode(p Punch) [4]byte {
	seconds := p.Seconds
	var td byte
	if seconds >= 12*3600 {
		td |= flagOffset12h
		seconds -= 12 * 3600
	}
	td |= byte(p.Day&0x07) << 1
	td |= byte(p.Week&0x03) << 4
	td |= byte((p.StationCode>>8)&0x03) << 6

	cn := byte(p.StationCode & 0xFF)
	th := byte(seconds >> 8)
	tl := byte(seconds & 0xFF)
	return [4]byte{td, cn, th, tl}
}
