package cpu

const (
	MemorySize   = 4096
	ProgramStart = 0x200
	MaxRomSize   = MemorySize - ProgramStart

	// DefaultFontAddress is where the hex glyphs live unless configured
	// otherwise.
	DefaultFontAddress = 0x050
	glyphSize          = 5

	addrMask = MemorySize - 1
)

// FontSet holds the sixteen 4x5 hex digit glyphs, 0 through F.
var FontSet = [16 * glyphSize]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the 4K address space. Every access wraps at 0xFFF.
//
//	0x000 - 0x1FF  interpreter area, holds the font
//	0x200 - 0xFFF  program and work RAM
type Memory [MemorySize]uint8

func (m *Memory) Read(addr uint16) uint8 {
	return m[addr&addrMask]
}

func (m *Memory) Write(addr uint16, v uint8) {
	m[addr&addrMask] = v
}

// Word reads the big-endian 16 bit value at addr.
func (m *Memory) Word(addr uint16) uint16 {
	return uint16(m.Read(addr))<<8 | uint16(m.Read(addr+1))
}

// Bytes copies n bytes starting at addr, wrapping past the end of memory.
func (m *Memory) Bytes(addr uint16, n int) []uint8 {
	b := make([]uint8, n)
	for i := range b {
		b[i] = m.Read(addr + uint16(i))
	}
	return b
}

// load copies data into memory starting at addr.
func (m *Memory) load(addr uint16, data []uint8) {
	for i, v := range data {
		m.Write(addr+uint16(i), v)
	}
}

// glyphAddress returns the address of the font sprite for hex digit d.
func glyphAddress(fontAddr uint16, d uint8) uint16 {
	return (fontAddr + uint16(d&0x0F)*glyphSize) & addrMask
}
