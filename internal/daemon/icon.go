// +build windows

package daemon

import (
	"bytes"
	"encoding/binary"
)

const iconSize = 16

// getClockIcon builds a 16x16 ICO for the tray at runtime: a filled disc
// with two hands, enough to be recognizable at tray scale.
func getClockIcon() []byte {
	pixels := make([]byte, iconSize*iconSize*4) // BGRA, bottom-up

	set := func(x, y int, b, g, r byte) {
		if x < 0 || x >= iconSize || y < 0 || y >= iconSize {
			return
		}
		// BMP rows are stored bottom-up
		offset := ((iconSize-1-y)*iconSize + x) * 4
		pixels[offset] = b
		pixels[offset+1] = g
		pixels[offset+2] = r
		pixels[offset+3] = 0xff
	}

	center := iconSize / 2
	radius := center - 1

	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			dx, dy := x-center, y-center
			if dx*dx+dy*dy <= radius*radius {
				set(x, y, 0xd0, 0xd0, 0xd0)
			}
		}
	}

	// Hour hand up, minute hand right
	for i := 0; i < radius-1; i++ {
		set(center, center-i, 0x20, 0x20, 0x20)
		set(center+i, center, 0x20, 0x20, 0x20)
	}

	maskRowSize := 4 // 16 bits padded to 4 bytes
	mask := make([]byte, maskRowSize*iconSize)

	imageSize := 40 + len(pixels) + len(mask)

	var buf bytes.Buffer

	// ICONDIR + single ICONDIRENTRY
	binary.Write(&buf, binary.LittleEndian, uint16(0)) // reserved
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // type: icon
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // count
	buf.WriteByte(iconSize)
	buf.WriteByte(iconSize)
	buf.WriteByte(0)                                            // colors
	buf.WriteByte(0)                                            // reserved
	binary.Write(&buf, binary.LittleEndian, uint16(1))          // planes
	binary.Write(&buf, binary.LittleEndian, uint16(32))         // bpp
	binary.Write(&buf, binary.LittleEndian, uint32(imageSize))  // size
	binary.Write(&buf, binary.LittleEndian, uint32(6+16))       // offset

	// BITMAPINFOHEADER (height doubled for the AND mask)
	binary.Write(&buf, binary.LittleEndian, uint32(40))
	binary.Write(&buf, binary.LittleEndian, int32(iconSize))
	binary.Write(&buf, binary.LittleEndian, int32(iconSize*2))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(32))
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	binary.Write(&buf, binary.LittleEndian, uint32(len(pixels)))
	binary.Write(&buf, binary.LittleEndian, int32(0))
	binary.Write(&buf, binary.LittleEndian, int32(0))
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	binary.Write(&buf, binary.LittleEndian, uint32(0))

	buf.Write(pixels)
	buf.Write(mask)

	return buf.Bytes()
}
