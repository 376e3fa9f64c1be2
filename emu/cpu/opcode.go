package cpu

import "fmt"

// Op identifies one of the 35 CHIP-8 instruction forms.
type Op uint8

const (
	OpUnknown Op = iota
	OpSYS        // 0nnn
	OpCLS        // 00E0
	OpRET        // 00EE
	OpJP         // 1nnn
	OpCALL       // 2nnn
	OpSEImm      // 3xkk
	OpSNEImm     // 4xkk
	OpSEReg      // 5xy0
	OpLDImm      // 6xkk
	OpADDImm     // 7xkk
	OpLDReg      // 8xy0
	OpOR         // 8xy1
	OpAND        // 8xy2
	OpXOR        // 8xy3
	OpADDReg     // 8xy4
	OpSUB        // 8xy5
	OpSHR        // 8xy6
	OpSUBN       // 8xy7
	OpSHL        // 8xyE
	OpSNEReg     // 9xy0
	OpLDI        // Annn
	OpJPV0       // Bnnn
	OpRND        // Cxkk
	OpDRW        // Dxyn
	OpSKP        // Ex9E
	OpSKNP       // ExA1
	OpLDVxDT     // Fx07
	OpLDKey      // Fx0A
	OpLDDTVx     // Fx15
	OpLDSTVx     // Fx18
	OpADDI       // Fx1E
	OpLDF        // Fx29
	OpLDB        // Fx33
	OpStore      // Fx55
	OpLoad       // Fx65
)

var opNames = [...]string{
	OpUnknown: "???",
	OpSYS:     "SYS",
	OpCLS:     "CLS",
	OpRET:     "RET",
	OpJP:      "JP",
	OpCALL:    "CALL",
	OpSEImm:   "SE",
	OpSNEImm:  "SNE",
	OpSEReg:   "SE",
	OpLDImm:   "LD",
	OpADDImm:  "ADD",
	OpLDReg:   "LD",
	OpOR:      "OR",
	OpAND:     "AND",
	OpXOR:     "XOR",
	OpADDReg:  "ADD",
	OpSUB:     "SUB",
	OpSHR:     "SHR",
	OpSUBN:    "SUBN",
	OpSHL:     "SHL",
	OpSNEReg:  "SNE",
	OpLDI:     "LD",
	OpJPV0:    "JP",
	OpRND:     "RND",
	OpDRW:     "DRW",
	OpSKP:     "SKP",
	OpSKNP:    "SKNP",
	OpLDVxDT:  "LD",
	OpLDKey:   "LD",
	OpLDDTVx:  "LD",
	OpLDSTVx:  "LD",
	OpADDI:    "ADD",
	OpLDF:     "LD",
	OpLDB:     "LD",
	OpStore:   "LD",
	OpLoad:    "LD",
}

// String returns the mnemonic used in Cowgod's technical reference.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return opNames[OpUnknown]
}

// Instruction is a decoded opcode. Only the fields meaningful to Op are set.
type Instruction struct {
	Op     Op
	Opcode uint16
	X, Y   uint8  // register indices
	N      uint8  // 4 bit nibble
	KK     uint8  // 8 bit constant
	NNN    uint16 // 12 bit address
}

// Decode splits opcode into its fields and identifies the instruction form.
// Bit patterns outside the instruction set return ErrUnknownOpcode along
// with an Instruction whose Op is OpUnknown.
func Decode(opcode uint16) (Instruction, error) {
	ins := Instruction{
		Opcode: opcode,
		X:      uint8(opcode>>8) & 0x0F,
		Y:      uint8(opcode>>4) & 0x0F,
		N:      uint8(opcode) & 0x0F,
		KK:     uint8(opcode),
		NNN:    opcode & 0x0FFF,
	}

	switch opcode & 0xF000 {
	case 0x0000:
		switch opcode {
		case 0x00E0:
			ins.Op = OpCLS
		case 0x00EE:
			ins.Op = OpRET
		default:
			ins.Op = OpSYS
		}
	case 0x1000:
		ins.Op = OpJP
	case 0x2000:
		ins.Op = OpCALL
	case 0x3000:
		ins.Op = OpSEImm
	case 0x4000:
		ins.Op = OpSNEImm
	case 0x5000:
		if ins.N == 0 {
			ins.Op = OpSEReg
		}
	case 0x6000:
		ins.Op = OpLDImm
	case 0x7000:
		ins.Op = OpADDImm
	case 0x8000:
		switch ins.N {
		case 0x0:
			ins.Op = OpLDReg
		case 0x1:
			ins.Op = OpOR
		case 0x2:
			ins.Op = OpAND
		case 0x3:
			ins.Op = OpXOR
		case 0x4:
			ins.Op = OpADDReg
		case 0x5:
			ins.Op = OpSUB
		case 0x6:
			ins.Op = OpSHR
		case 0x7:
			ins.Op = OpSUBN
		case 0xE:
			ins.Op = OpSHL
		}
	case 0x9000:
		if ins.N == 0 {
			ins.Op = OpSNEReg
		}
	case 0xA000:
		ins.Op = OpLDI
	case 0xB000:
		ins.Op = OpJPV0
	case 0xC000:
		ins.Op = OpRND
	case 0xD000:
		ins.Op = OpDRW
	case 0xE000:
		switch ins.KK {
		case 0x9E:
			ins.Op = OpSKP
		case 0xA1:
			ins.Op = OpSKNP
		}
	case 0xF000:
		switch ins.KK {
		case 0x07:
			ins.Op = OpLDVxDT
		case 0x0A:
			ins.Op = OpLDKey
		case 0x15:
			ins.Op = OpLDDTVx
		case 0x18:
			ins.Op = OpLDSTVx
		case 0x1E:
			ins.Op = OpADDI
		case 0x29:
			ins.Op = OpLDF
		case 0x33:
			ins.Op = OpLDB
		case 0x55:
			ins.Op = OpStore
		case 0x65:
			ins.Op = OpLoad
		}
	}

	if ins.Op == OpUnknown {
		return ins, ErrUnknownOpcode
	}
	return ins, nil
}

// String renders the instruction in assembler form, eg. "DRW V0, V1, 5".
func (ins Instruction) String() string {
	m := ins.Op.String()
	switch ins.Op {
	case OpCLS, OpRET:
		return m
	case OpSYS, OpJP, OpCALL:
		return fmt.Sprintf("%s 0x%03X", m, ins.NNN)
	case OpSEImm, OpSNEImm, OpLDImm, OpADDImm:
		return fmt.Sprintf("%s V%X, 0x%02X", m, ins.X, ins.KK)
	case OpSEReg, OpSNEReg, OpLDReg, OpOR, OpAND, OpXOR, OpADDReg, OpSUB, OpSHR, OpSUBN, OpSHL:
		return fmt.Sprintf("%s V%X, V%X", m, ins.X, ins.Y)
	case OpLDI:
		return fmt.Sprintf("%s I, 0x%03X", m, ins.NNN)
	case OpJPV0:
		return fmt.Sprintf("%s V0, 0x%03X", m, ins.NNN)
	case OpRND:
		return fmt.Sprintf("%s V%X, 0x%02X", m, ins.X, ins.KK)
	case OpDRW:
		return fmt.Sprintf("%s V%X, V%X, %d", m, ins.X, ins.Y, ins.N)
	case OpSKP, OpSKNP:
		return fmt.Sprintf("%s V%X", m, ins.X)
	case OpLDVxDT:
		return fmt.Sprintf("%s V%X, DT", m, ins.X)
	case OpLDKey:
		return fmt.Sprintf("%s V%X, K", m, ins.X)
	case OpLDDTVx:
		return fmt.Sprintf("%s DT, V%X", m, ins.X)
	case OpLDSTVx:
		return fmt.Sprintf("%s ST, V%X", m, ins.X)
	case OpADDI:
		return fmt.Sprintf("%s I, V%X", m, ins.X)
	case OpLDF:
		return fmt.Sprintf("%s F, V%X", m, ins.X)
	case OpLDB:
		return fmt.Sprintf("%s B, V%X", m, ins.X)
	case OpStore:
		return fmt.Sprintf("%s [I], V%X", m, ins.X)
	case OpLoad:
		return fmt.Sprintf("%s V%X, [I]", m, ins.X)
	}
	return fmt.Sprintf("%s 0x%04X", m, ins.Opcode)
}
