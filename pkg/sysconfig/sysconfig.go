// Package sysconfig decodes the 128-byte system-configuration block a
// station returns from its memory (serial number, firmware version,
// product model, and similar identity fields).
package sysconfig

import (
	"fmt"

	"github.com/sportident-go/sidriver/pkg/sitime"
)

// ProductModel identifies the station hardware variant. Values are the
// station's own 16-bit product code.
type ProductModel uint16

const (
	ModelSimSrr          ProductModel = 0x0021
	ModelBs8SiMaster     ProductModel = 0x8188
	ModelBsf7            ProductModel = 0x8197
	ModelBsm7            ProductModel = 0x9197
	ModelBs7S            ProductModel = 0x9597
	ModelBs7P            ProductModel = 0xB197
	ModelBsf8            ProductModel = 0x8198
	ModelBsf9            ProductModel = 0x819E
	ModelBsf8Ostarter    ProductModel = 0x8190
	ModelBsm8            ProductModel = 0x9198
	ModelBsm9            ProductModel = 0x919F
	ModelBs11LoopAntenna ProductModel = 0x8D99
	ModelBs11Large       ProductModel = 0x9D9A
	ModelBs11Small       ProductModel = 0xCD9B
	ModelSiGsmDn         ProductModel = 0x1B9D
	ModelSiPointGolf     ProductModel = 0x90F1
	ModelSiPointGolf2    ProductModel = 0x9072
	ModelSiPointSI       ProductModel = 0x92F1
)

var modelNames = map[ProductModel]string{
	ModelSimSrr:          "SimSrr",
	ModelBs8SiMaster:     "BS8-SI-Master",
	ModelBsf7:            "BSF7",
	ModelBsm7:            "BSM7",
	ModelBs7S:            "BS7-S",
	ModelBs7P:            "BS7-P",
	ModelBsf8:            "BSF8",
	ModelBsf9:            "BSF9",
	ModelBsf8Ostarter:    "BSF8-O-Starter",
	ModelBsm8:            "BSM8",
	ModelBsm9:            "BSM9",
	ModelBs11LoopAntenna: "BS11-Loop-Antenna",
	ModelBs11Large:       "BS11-Large",
	ModelBs11Small:       "BS11-Small",
	ModelSiGsmDn:         "SI-GSM-DN",
	ModelSiPointGolf:     "SIPoint-Golf",
	ModelSiPointGolf2:    "SIPoint-Golf2",
	ModelSiPointSI:       "SIPoint-SPORTident",
}

func (m ProductModel) String() string {
	if name, ok := modelNames[m]; ok {
		return name
	}
	return fmt.Sprintf("ProductModel(%#04x)", uint16(m))
}

// SrrChannel selects the radio channel an SRR-equipped station uses.
type SrrChannel byte

const (
	SrrChannelRed  SrrChannel = 0x00
	SrrChannelBlue SrrChannel = 0x01
)

// OperatingMode is the function a station is currently configured to
// perform (control, start, finish, readout, ...).
type OperatingMode byte

const (
	ModeDControl      OperatingMode = 0x01
	ModeControl       OperatingMode = 0x02
	ModeStart         OperatingMode = 0x03
	ModeFinish        OperatingMode = 0x04
	ModeReadout       OperatingMode = 0x05
	ModeClear         OperatingMode = 0x07
	ModeCheck         OperatingMode = 0x0A
	ModePrintout      OperatingMode = 0x0B
	ModeStartWithTime OperatingMode = 0x0C
	ModeFinishWithTim OperatingMode = 0x0D
	ModeBcDControl    OperatingMode = 0x11
	ModeBcControl     OperatingMode = 0x12
	ModeBcStart       OperatingMode = 0x13
	ModeBcFinish      OperatingMode = 0x14
	ModeBcCheck       OperatingMode = 0x1A
	ModeBcLineMasSta  OperatingMode = 0x1C
	ModeBcLineMasFin  OperatingMode = 0x1D
	ModeBcLineSlave1  OperatingMode = 0x1E
	ModeBcLineSlave2  OperatingMode = 0x1F
)

// FirmwareVersion is the station's 3-digit firmware revision, stored on
// the wire as 3 ASCII digit bytes.
type FirmwareVersion struct {
	Raw [3]byte
}

// String renders the firmware version as the station prints it, e.g. "654".
func (f FirmwareVersion) String() string {
	return string(f.Raw[:])
}

// Number parses the firmware version as an integer, e.g. 654.
func (f FirmwareVersion) Number() (uint32, error) {
	var n uint32
	for _, b := range f.Raw {
		if b < '0' || b > '9' {
			return 0, fmt.Errorf("sysconfig: firmware version byte %#02x is not ASCII digit", b)
		}
		n = n*10 + uint32(b-'0')
	}
	return n, nil
}

// Config is the decoded contents of a station's system-configuration
// memory, read via GetSystemValue(addr=0, len=128).
type Config struct {
	SerialNumber     uint32
	SrrConfig        byte
	Firmware         FirmwareVersion
	Produced         sitime.Date
	Model            ProductModel
	MemoryKB         byte
	LastModification sitime.Date
}

// errShortBuffer is returned when fewer than 128 bytes are given to
// Decode.
var errShortBuffer = fmt.Errorf("sysconfig: need at least 128 bytes")

// ErrUnknownModel is returned when the 16-bit product model code does not
// match any known station variant.
var ErrUnknownModel = fmt.Errorf("sysconfig: unknown product model")

// Decode parses a 128-byte system-configuration block. Offsets follow the
// station's fixed memory layout: serial number at 0x00 (3 bytes instead
// of 4 when the product model is SimSrr), SRR channel config at 0x04,
// firmware version at 0x05, production date at 0x08, product model at
// 0x0B, memory size in KB at 0x0D, and last-modification date at 0x75.
func Decode(data []byte) (Config, error) {
	if len(data) < 128 {
		return Config{}, errShortBuffer
	}

	model := ProductModel(uint16(data[0x0B])<<8 | uint16(data[0x0C]))
	if _, ok := modelNames[model]; !ok {
		return Config{}, fmt.Errorf("%w: %#04x", ErrUnknownModel, uint16(model))
	}

	var serial uint32
	if model == ModelSimSrr {
		serial = uint32(data[0x01])<<16 | uint32(data[0x02])<<8 | uint32(data[0x03])
	} else {
		serial = uint32(data[0x00])<<24 | uint32(data[0x01])<<16 | uint32(data[0x02])<<8 | uint32(data[0x03])
	}

	produced, err := sitime.DecodeDate([3]byte{data[0x08], data[0x09], data[0x0A]})
	if err != nil {
		return Config{}, fmt.Errorf("sysconfig: production date: %w", err)
	}
	lastMod, err := sitime.DecodeDate([3]byte{data[0x75], data[0x76], data[0x77]})
	if err != nil {
		return Config{}, fmt.Errorf("sysconfig: last modification date: %w", err)
	}

	return Config{
		SerialNumber:     serial,
		SrrConfig:        data[0x04],
		Firmware:         FirmwareVersion{Raw: [3]byte{data[0x05], data[0x06], data[0x07]}},
		Produced:         produced,
		Model:            model,
		MemoryKB:         data[0x0D],
		LastModification: lastMod,
	}, nil
}
