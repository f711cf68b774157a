// Package personal decodes the personal-data fields embedded on a card:
// the runner's name, contact details, and demographics.
package personal

import (
	"errors"
	"strings"

	"github.com/sportident-go/sidriver/pkg/charset"
)

// ErrRequiredFieldsEmpty is returned when the semicolon-delimited layout
// carries no usable data at all.
var ErrRequiredFieldsEmpty = errors.New("personal: required fields are empty")

// ErrDataTooLong is returned when semicolon-delimited input exceeds the
// 104-byte window newer families allot to personal data.
var ErrDataTooLong = errors.New("personal: data exceeds 104 bytes")

// Data holds every optional personal-data field a card may carry.
type Data struct {
	FirstName *string
	LastName  *string
	Phone     *string
	City      *string
	Club      *string
	Country   *string
	Birthdate *string
	Email     *string
	Gender    *string
	Street    *string
	Zipcode   *string
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// DecodeFixed decodes the 204-byte fixed-offset layout used by card
// family 6.
func DecodeFixed(data [204]byte) Data {
	remapped := charset.RemapPrinterCharset(data[:])

	field := func(lo, hi int) string {
		return strings.TrimRight(charset.DecodeLatin1(remapped[lo:hi]), " ")
	}

	return Data{
		LastName:  ptr(field(0x00, 0x14)),
		FirstName: ptr(field(0x14, 0x28)),
		Country:   ptr(field(0x28, 0x2C)),
		Club:      ptr(field(0x2C, 0x50)),
		Phone:     ptr(field(0x60, 0x70)),
		Email:     ptr(field(0x70, 0x94)),
		Street:    ptr(field(0x94, 0xA8)),
		City:      ptr(field(0xA8, 0xB8)),
		Zipcode:   ptr(field(0xB8, 0xC0)),
		Gender:    ptr(field(0xC0, 0xC4)),
		Birthdate: ptr(field(0xC4, 0xCC)),
	}
}

// DecodeSemicolon decodes the semicolon-delimited layout used by the
// newer families (8+). data must be at most 104 bytes.
func DecodeSemicolon(data []byte) (Data, error) {
	if len(data) > 104 {
		return Data{}, ErrDataTooLong
	}

	decoded := charset.DecodePrinterCharset(data)

	if idx := strings.IndexByte(decoded, 0x00); idx >= 0 {
		decoded = decoded[:idx]
	}

	// Truncate after the 11th semicolon.
	semicolons := 0
	for i, r := range decoded {
		if r == ';' {
			semicolons++
			if semicolons >= 11 {
				decoded = decoded[:i+1]
				break
			}
		}
	}

	fields := strings.Split(decoded, ";")

	garbageDouble := charset.DecodeLatin1([]byte{0xEE, 0xEE})
	garbageSingle := charset.DecodeLatin1([]byte{0xEE})

	if len(fields) > 0 && strings.Contains(fields[0], garbageDouble) {
		fields[0] = ""
	}

	if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
		return Data{}, ErrRequiredFieldsEmpty
	}

	for len(fields) < 11 {
		fields = append(fields, "")
	}

	cell := func(i int) string { return strings.TrimSpace(fields[i]) }

	gender := cell(2)
	if gender == garbageSingle {
		gender = ""
	}

	return Data{
		FirstName: ptr(cell(0)),
		LastName:  ptr(cell(1)),
		Gender:    ptr(gender),
		Birthdate: ptr(cell(3)),
		Club:      ptr(cell(4)),
		Email:     ptr(cell(5)),
		Phone:     ptr(cell(6)),
		City:      ptr(cell(7)),
		Street:    ptr(cell(8)),
		Zipcode:   ptr(cell(9)),
		Country:   ptr(cell(10)),
	}, nil
}
