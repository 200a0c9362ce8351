package checkout

import (
	"fmt"
	"strings"
)

// PIXConfig describes the static instant-transfer payload the confirmation
// surface shows. The payload is fixed per storefront; no per-order amount is
// encoded.
type PIXConfig struct {
	Key          string
	MerchantName string
	City         string
	Image        string
}

// crcFieldSentinel is the checksum field id+length that sits at the tail of
// the payload while the checksum is computed over it.
const crcFieldSentinel = "6304"

// BuildPIXPayload assembles the EMV-style BR Code string. The last four
// characters are the CRC-16/CCITT of everything before them, the checksum
// field sentinel included.
func BuildPIXPayload(cfg PIXConfig) string {
	var b strings.Builder

	b.WriteString(tlv("00", "01"))                                           // payload format
	b.WriteString(tlv("26", tlv("00", "br.gov.bcb.pix")+tlv("01", cfg.Key))) // merchant account
	b.WriteString(tlv("52", "0000"))                                         // merchant category
	b.WriteString(tlv("53", "986"))                                          // currency BRL
	b.WriteString(tlv("58", "BR"))
	b.WriteString(tlv("59", cfg.MerchantName))
	b.WriteString(tlv("60", cfg.City))
	b.WriteString(tlv("62", tlv("05", "***"))) // txid placeholder
	b.WriteString(crcFieldSentinel)

	payload := b.String()
	return payload + fmt.Sprintf("%04X", crc16CCITT([]byte(payload)))
}

func tlv(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// crc16CCITT computes CRC-16/CCITT-FALSE: polynomial 0x1021, initial value
// 0xFFFF, MSB first, no final xor.
func crc16CCITT(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
