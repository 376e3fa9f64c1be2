package cpu

// execute runs a decoded instruction. Failing instructions return before
// touching any state.
func (emu *EMU) execute(ins Instruction, keys Keys) (Outcome, error) {
	out := Outcome{Instruction: ins}
	next := emu.pc + 2
	x, y := ins.X, ins.Y

	switch ins.Op {
	case OpSYS:
		// native RCA 1802 routines do not exist here

	case OpCLS:
		emu.display.Clear()
		out.Drew = true

	case OpRET:
		if emu.sp == 0 {
			return out, ErrStackUnderflow
		}
		emu.sp--
		next = emu.stack[emu.sp]

	case OpJP:
		next = ins.NNN

	case OpCALL:
		if int(emu.sp) >= len(emu.stack) {
			return out, ErrStackOverflow
		}
		emu.stack[emu.sp] = next & addrMask
		emu.sp++
		next = ins.NNN

	case OpSEImm:
		if emu.v[x] == ins.KK {
			next += 2
		}

	case OpSNEImm:
		if emu.v[x] != ins.KK {
			next += 2
		}

	case OpSEReg:
		if emu.v[x] == emu.v[y] {
			next += 2
		}

	case OpLDImm:
		emu.v[x] = ins.KK

	case OpADDImm:
		emu.v[x] += ins.KK

	case OpLDReg:
		emu.v[x] = emu.v[y]

	case OpOR:
		emu.v[x] |= emu.v[y]

	case OpAND:
		emu.v[x] &= emu.v[y]

	case OpXOR:
		emu.v[x] ^= emu.v[y]

	case OpADDReg:
		sum := uint16(emu.v[x]) + uint16(emu.v[y])
		emu.v[x] = uint8(sum)
		emu.setFlag(sum > 0xFF)

	case OpSUB:
		noBorrow := emu.v[x] >= emu.v[y]
		emu.v[x] -= emu.v[y]
		emu.setFlag(noBorrow)

	case OpSUBN:
		noBorrow := emu.v[y] >= emu.v[x]
		emu.v[x] = emu.v[y] - emu.v[x]
		emu.setFlag(noBorrow)

	case OpSHR:
		src := emu.shiftSource(x, y)
		emu.v[x] = src >> 1
		emu.setFlag(src&0x01 != 0)

	case OpSHL:
		src := emu.shiftSource(x, y)
		emu.v[x] = src << 1
		emu.setFlag(src&0x80 != 0)

	case OpSNEReg:
		if emu.v[x] != emu.v[y] {
			next += 2
		}

	case OpLDI:
		emu.i = ins.NNN

	case OpJPV0:
		if emu.quirks.JumpUsesVX {
			next = ins.NNN + uint16(emu.v[x])
		} else {
			next = ins.NNN + uint16(emu.v[0])
		}

	case OpRND:
		emu.v[x] = uint8(emu.rand.Intn(256)) & ins.KK

	case OpDRW:
		sprite := emu.memory.Bytes(emu.i, int(ins.N))
		collision := emu.display.Blit(int(emu.v[x]), int(emu.v[y]), sprite)
		emu.setFlag(collision)
		out.Drew = true

	case OpSKP:
		if keys[emu.v[x]&0x0F] {
			next += 2
		}

	case OpSKNP:
		if !keys[emu.v[x]&0x0F] {
			next += 2
		}

	case OpLDVxDT:
		emu.v[x] = emu.delayTimer

	case OpLDKey:
		return emu.awaitKey(ins, keys), nil

	case OpLDDTVx:
		emu.delayTimer = emu.v[x]

	case OpLDSTVx:
		emu.soundTimer = emu.v[x]

	case OpADDI:
		emu.i = (emu.i + uint16(emu.v[x])) & addrMask

	case OpLDF:
		emu.i = glyphAddress(emu.fontAddr, emu.v[x])

	case OpLDB:
		v := emu.v[x]
		emu.write(emu.i, v/100)
		emu.write(emu.i+1, (v/10)%10)
		emu.write(emu.i+2, v%10)

	case OpStore:
		for n := uint16(0); n <= uint16(x); n++ {
			emu.write(emu.i+n, emu.v[n])
		}
		if emu.quirks.MemoryIncrementsI {
			emu.i = (emu.i + uint16(x) + 1) & addrMask
		}

	case OpLoad:
		for n := uint16(0); n <= uint16(x); n++ {
			emu.v[n] = emu.memory.Read(emu.i + n)
		}
		if emu.quirks.MemoryIncrementsI {
			emu.i = (emu.i + uint16(x) + 1) & addrMask
		}

	default:
		return out, ErrUnknownOpcode
	}

	emu.pc = next & addrMask
	return out, nil
}

// awaitKey handles Fx0A. The first call records keys and starts waiting.
// Later calls retire the instruction once a key goes from up to down
// between snapshots, so a key held when the wait began does not count.
func (emu *EMU) awaitKey(ins Instruction, keys Keys) Outcome {
	if !emu.wait.active {
		emu.wait.active = true
		emu.wait.ins = ins
		emu.wait.keys = keys
		return Outcome{Instruction: ins, Waiting: true}
	}
	k, ok := keys.pressedSince(emu.wait.keys)
	emu.wait.keys = keys
	if !ok {
		return Outcome{Instruction: ins, Waiting: true}
	}
	emu.wait.active = false
	emu.v[ins.X] = k
	emu.pc = (emu.pc + 2) & addrMask
	return Outcome{Instruction: ins}
}

// write stores v at addr unless the interpreter area is protected.
func (emu *EMU) write(addr uint16, v uint8) {
	if emu.quirks.ProtectInterpreter && addr&addrMask < ProgramStart {
		return
	}
	emu.memory.Write(addr, v)
}

func (emu *EMU) shiftSource(x, y uint8) uint8 {
	if emu.quirks.ShiftUsesVY {
		return emu.v[y]
	}
	return emu.v[x]
}

// setFlag writes VF. It is called after the result so that VF as the
// destination register ends up holding the flag.
func (emu *EMU) setFlag(set bool) {
	if set {
		emu.v[vf] = 1
	} else {
		emu.v[vf] = 0
	}
}
