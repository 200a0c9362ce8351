package checkout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRC16CCITT_KnownVector(t *testing.T) {
	// CRC-16/CCITT-FALSE check value
	assert.Equal(t, uint16(0x29B1), crc16CCITT([]byte("123456789")))
}

func TestCRC16CCITT_EmptyInputIsInitialValue(t *testing.T) {
	assert.Equal(t, uint16(0xFFFF), crc16CCITT(nil))
}

func TestBuildPIXPayload_ChecksumIsSelfConsistent(t *testing.T) {
	cfg := PIXConfig{
		Key:          "pix@supaspecto.com.br",
		MerchantName: "SUP ASPECTO",
		City:         "SAO PAULO",
	}

	payload := BuildPIXPayload(cfg)

	require.Greater(t, len(payload), 4)
	body, crc := payload[:len(payload)-4], payload[len(payload)-4:]

	assert.True(t, strings.HasSuffix(body, crcFieldSentinel), "checksum field sentinel precedes the checksum")
	assert.Equal(t, strings.ToUpper(crc), crc, "checksum is uppercase hex")

	// recomputing over everything before the checksum reproduces it
	want := crc16CCITT([]byte(body))
	assert.Equal(t, want, mustParseCRC(t, crc))
}

func TestBuildPIXPayload_Deterministic(t *testing.T) {
	cfg := PIXConfig{Key: "chave", MerchantName: "LOJA", City: "RIO"}

	a := BuildPIXPayload(cfg)
	b := BuildPIXPayload(cfg)
	assert.Equal(t, a, b)
}

func TestBuildPIXPayload_CarriesStaticFields(t *testing.T) {
	cfg := PIXConfig{Key: "pix@supaspecto.com.br", MerchantName: "SUP ASPECTO", City: "SAO PAULO"}

	payload := BuildPIXPayload(cfg)

	assert.True(t, strings.HasPrefix(payload, "000201"), "payload format indicator")
	assert.Contains(t, payload, "br.gov.bcb.pix")
	assert.Contains(t, payload, "pix@supaspecto.com.br")
	assert.Contains(t, payload, "5802BR")
	assert.Contains(t, payload, "SUP ASPECTO")
	assert.Contains(t, payload, "SAO PAULO")
	assert.Contains(t, payload, "***")
}

func mustParseCRC(t *testing.T, s string) uint16 {
	t.Helper()

	var v uint16
	for _, c := range []byte(s) {
		var d byte
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		default:
			t.Fatalf("bad hex digit %q", c)
		}
		v = v<<4 | uint16(d)
	}
	return v
}
