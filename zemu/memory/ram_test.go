package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadWrite(t *testing.T) {
	r := NewRAM()

	assert.Equal(t, byte(0x00), r.Read(0x8000))

	r.Write(0x8000, 0x42)
	assert.Equal(t, byte(0x42), r.Read(0x8000))
	assert.Equal(t, byte(0x42), r.Peek(0x8000))

	r.Write(0xFFFF, 0xAB)
	assert.Equal(t, byte(0xAB), r.Read(0xFFFF))
	assert.Equal(t, byte(0x00), r.Read(0x0000), "last address must not alias the first")
}

func TestLoadAt(t *testing.T) {
	testCases := []struct {
		desc    string
		origin  uint16
		image   []byte
		wantErr bool
	}{
		{desc: "at zero", origin: 0x0000, image: []byte{1, 2, 3}},
		{desc: "mid memory", origin: 0x4000, image: []byte{0xAA, 0xBB}},
		{desc: "exactly at the end", origin: 0xFFFE, image: []byte{1, 2}},
		{desc: "one byte too long", origin: 0xFFFE, image: []byte{1, 2, 3}, wantErr: true},
		{desc: "empty image", origin: 0x1000, image: nil},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			r := NewRAM()
			err := r.LoadAt(tC.origin, tC.image)
			if tC.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			for i, b := range tC.image {
				assert.Equal(t, b, r.Read(tC.origin+uint16(i)))
			}
		})
	}
}
