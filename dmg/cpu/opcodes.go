package cpu

// Instruction is one entry of the decode table: its disassembly mnemonic,
// its total length in bytes (including the opcode byte itself), and the
// function that performs it. Exec returns the number of M-cycles the
// instruction took, which varies for conditional branches.
type Instruction struct {
	Mnemonic string
	Length   uint8
	Exec     func(c *CPU) int
}

var opcodes [256]Instruction

// reg8Name gives the disassembly letter for each Reg8, in opcode-encoding
// order (the same order the hardware uses to pack three bits of an
// opcode's source/dest operand).
var reg8Name = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

func init() {
	buildLoadGroup()
	buildALUGroup()
	buildExplicit()
}

// buildLoadGroup fills 0x40-0x7F: LD r,r' for every combination of the
// eight Reg8 operands, except 0x76 which is HALT rather than LD (HL),(HL).
func buildLoadGroup() {
	for opcode := 0x40; opcode <= 0x7F; opcode++ {
		if opcode == 0x76 {
			continue
		}
		dst := Reg8((opcode >> 3) & 7)
		src := Reg8(opcode & 7)
		cycles := 1
		if dst == RegHLInd || src == RegHLInd {
			cycles = 2
		}
		opcodes[opcode] = Instruction{
			Mnemonic: "LD " + reg8Name[dst] + "," + reg8Name[src],
			Length:   1,
			Exec: func(dst, src Reg8, cycles int) func(c *CPU) int {
				return func(c *CPU) int {
					c.SetRegister(dst, c.ReadRegister(src))
					return cycles
				}
			}(dst, src, cycles),
		}
	}
}

// buildALUGroup fills 0x80-0xBF: the eight ALU operations (ADD, ADC, SUB,
// SBC, AND, XOR, OR, CP) against A and each of the eight Reg8 operands.
func buildALUGroup() {
	names := [8]string{"ADD", "ADC", "SUB", "SBC", "AND", "XOR", "OR", "CP"}
	for opcode := 0x80; opcode <= 0xBF; opcode++ {
		op := (opcode >> 3) & 7
		src := Reg8(opcode & 7)
		cycles := 1
		if src == RegHLInd {
			cycles = 2
		}
		opcodes[opcode] = Instruction{
			Mnemonic: names[op] + " A," + reg8Name[src],
			Length:   1,
			Exec:     aluExec(op, src, cycles),
		}
	}
}

func aluExec(op int, src Reg8, cycles int) func(c *CPU) int {
	return func(c *CPU) int {
		v := c.ReadRegister(src)
		applyALU(c, op, v)
		return cycles
	}
}

func applyALU(c *CPU, op int, v uint8) {
	switch op {
	case 0: // ADD
		c.a = c.add8(c.a, v, false)
	case 1: // ADC
		c.a = c.add8(c.a, v, c.getFlag(flagC))
	case 2: // SUB
		c.a = c.sub8(c.a, v, false)
	case 3: // SBC
		c.a = c.sub8(c.a, v, c.getFlag(flagC))
	case 4: // AND
		c.a = c.and8(c.a, v)
	case 5: // XOR
		c.a = c.xor8(c.a, v)
	case 6: // OR
		c.a = c.or8(c.a, v)
	case 7: // CP
		c.cp8(c.a, v)
	}
}

var reg16Name = [4]string{"BC", "DE", "HL", "SP"}

// buildExplicit fills every opcode not covered by the two regular groups
// above: the 0x00-0x3F block, the control-flow/stack block 0xC0-0xFF, and
// 0x76 (HALT).
func buildExplicit() {
	opcodes[0x76] = Instruction{"HALT", 1, opHalt}

	// Per-row blocks for BC/DE/HL/SP (0x01/0x11/0x21/0x31 etc.)
	for row := 0; row < 4; row++ {
		rr := Reg16(row)
		base := row * 0x10
		name := reg16Name[row]

		opcodes[base+0x01] = Instruction{"LD " + name + ",d16", 3, ldRRd16(rr)}
		opcodes[base+0x03] = Instruction{"INC " + name, 1, incRR(rr)}
		opcodes[base+0x09] = Instruction{"ADD HL," + name, 1, addHLRR(rr)}
		opcodes[base+0x0B] = Instruction{"DEC " + name, 1, decRR(rr)}
	}

	opcodes[0x00] = Instruction{"NOP", 1, func(c *CPU) int { return 1 }}
	opcodes[0x02] = Instruction{"LD (BC),A", 1, func(c *CPU) int {
		c.bus.Write(c.readReg16(RegBC), c.a)
		return 2
	}}
	opcodes[0x04] = incR8(RegB)
	opcodes[0x05] = decR8(RegB)
	opcodes[0x06] = ldR8d8(RegB)
	opcodes[0x07] = Instruction{"RLCA", 1, func(c *CPU) int {
		c.a = c.rlc(c.a)
		c.setFlag(flagZ, false)
		return 1
	}}
	opcodes[0x08] = Instruction{"LD (a16),SP", 3, func(c *CPU) int {
		a := c.fetch16()
		c.bus.Write16(a, c.sp)
		return 5
	}}
	opcodes[0x0A] = Instruction{"LD A,(BC)", 1, func(c *CPU) int {
		c.a = c.bus.Read(c.readReg16(RegBC))
		return 2
	}}
	opcodes[0x0C] = incR8(RegC)
	opcodes[0x0D] = decR8(RegC)
	opcodes[0x0E] = ldR8d8(RegC)
	opcodes[0x0F] = Instruction{"RRCA", 1, func(c *CPU) int {
		c.a = c.rrc(c.a)
		c.setFlag(flagZ, false)
		return 1
	}}

	opcodes[0x10] = Instruction{"STOP", 2, func(c *CPU) int {
		c.fetch()
		c.stopped = true
		return 1
	}}
	opcodes[0x12] = Instruction{"LD (DE),A", 1, func(c *CPU) int {
		c.bus.Write(c.readReg16(RegDE), c.a)
		return 2
	}}
	opcodes[0x14] = incR8(RegD)
	opcodes[0x15] = decR8(RegD)
	opcodes[0x16] = ldR8d8(RegD)
	opcodes[0x17] = Instruction{"RLA", 1, func(c *CPU) int {
		c.a = c.rl(c.a)
		c.setFlag(flagZ, false)
		return 1
	}}
	opcodes[0x18] = Instruction{"JR r8", 2, func(c *CPU) int {
		jrRelative(c)
		return 3
	}}
	opcodes[0x1A] = Instruction{"LD A,(DE)", 1, func(c *CPU) int {
		c.a = c.bus.Read(c.readReg16(RegDE))
		return 2
	}}
	opcodes[0x1C] = incR8(RegE)
	opcodes[0x1D] = decR8(RegE)
	opcodes[0x1E] = ldR8d8(RegE)
	opcodes[0x1F] = Instruction{"RRA", 1, func(c *CPU) int {
		c.a = c.rr(c.a)
		c.setFlag(flagZ, false)
		return 1
	}}

	opcodes[0x20] = jrCond("NZ", CondNZ)
	opcodes[0x22] = Instruction{"LD (HL+),A", 1, func(c *CPU) int {
		hl := c.readReg16(RegHL)
		c.bus.Write(hl, c.a)
		c.setReg16(RegHL, hl+1)
		return 2
	}}
	opcodes[0x24] = incR8(RegH)
	opcodes[0x25] = decR8(RegH)
	opcodes[0x26] = ldR8d8(RegH)
	opcodes[0x27] = Instruction{"DAA", 1, func(c *CPU) int {
		c.daa()
		return 1
	}}
	opcodes[0x28] = jrCond("Z", CondZ)
	opcodes[0x2A] = Instruction{"LD A,(HL+)", 1, func(c *CPU) int {
		hl := c.readReg16(RegHL)
		c.a = c.bus.Read(hl)
		c.setReg16(RegHL, hl+1)
		return 2
	}}
	opcodes[0x2C] = incR8(RegL)
	opcodes[0x2D] = decR8(RegL)
	opcodes[0x2E] = ldR8d8(RegL)
	opcodes[0x2F] = Instruction{"CPL", 1, func(c *CPU) int {
		c.a = ^c.a
		c.setFlag(flagN, true)
		c.setFlag(flagH, true)
		return 1
	}}

	opcodes[0x30] = jrCond("NC", CondNC)
	opcodes[0x32] = Instruction{"LD (HL-),A", 1, func(c *CPU) int {
		hl := c.readReg16(RegHL)
		c.bus.Write(hl, c.a)
		c.setReg16(RegHL, hl-1)
		return 2
	}}
	opcodes[0x34] = Instruction{"INC (HL)", 1, func(c *CPU) int {
		hl := c.readReg16(RegHL)
		c.bus.Write(hl, c.inc8(c.bus.Read(hl)))
		return 3
	}}
	opcodes[0x35] = Instruction{"DEC (HL)", 1, func(c *CPU) int {
		hl := c.readReg16(RegHL)
		c.bus.Write(hl, c.dec8(c.bus.Read(hl)))
		return 3
	}}
	opcodes[0x36] = Instruction{"LD (HL),d8", 2, func(c *CPU) int {
		v := c.fetch()
		c.bus.Write(c.readReg16(RegHL), v)
		return 3
	}}
	opcodes[0x37] = Instruction{"SCF", 1, func(c *CPU) int {
		c.setFlag(flagN, false)
		c.setFlag(flagH, false)
		c.setFlag(flagC, true)
		return 1
	}}
	opcodes[0x38] = jrCond("C", CondC)
	opcodes[0x3A] = Instruction{"LD A,(HL-)", 1, func(c *CPU) int {
		hl := c.readReg16(RegHL)
		c.a = c.bus.Read(hl)
		c.setReg16(RegHL, hl-1)
		return 2
	}}
	opcodes[0x3C] = incR8(RegA)
	opcodes[0x3D] = decR8(RegA)
	opcodes[0x3E] = ldR8d8(RegA)
	opcodes[0x3F] = Instruction{"CCF", 1, func(c *CPU) int {
		c.setFlag(flagN, false)
		c.setFlag(flagH, false)
		c.setFlag(flagC, !c.getFlag(flagC))
		return 1
	}}

	// 0xC0-0xFF: control flow, stack, and the remaining immediate ALU ops.
	opcodes[0xC0] = retCond("NZ", CondNZ)
	opcodes[0xC1] = popRR("BC", RegBC)
	opcodes[0xC2] = jpCond("NZ", CondNZ)
	opcodes[0xC3] = Instruction{"JP a16", 3, func(c *CPU) int {
		c.pc = c.fetch16()
		return 4
	}}
	opcodes[0xC4] = callCond("NZ", CondNZ)
	opcodes[0xC5] = pushRR("BC", RegBC)
	opcodes[0xC6] = aluImm("ADD", 0)
	opcodes[0xC7] = rst(0x00)
	opcodes[0xC8] = retCond("Z", CondZ)
	opcodes[0xC9] = Instruction{"RET", 1, func(c *CPU) int {
		c.pc = c.popStack()
		return 4
	}}
	opcodes[0xCA] = jpCond("Z", CondZ)
	opcodes[0xCB] = Instruction{"PREFIX CB", 1, func(c *CPU) int {
		sub := c.fetch()
		return cbOpcodes[sub].Exec(c)
	}}
	opcodes[0xCC] = callCond("Z", CondZ)
	opcodes[0xCD] = Instruction{"CALL a16", 3, func(c *CPU) int {
		target := c.fetch16()
		c.pushStack(c.pc)
		c.pc = target
		return 6
	}}
	opcodes[0xCE] = aluImm("ADC", 1)
	opcodes[0xCF] = rst(0x08)

	opcodes[0xD0] = retCond("NC", CondNC)
	opcodes[0xD1] = popRR("DE", RegDE)
	opcodes[0xD2] = jpCond("NC", CondNC)
	opcodes[0xD4] = callCond("NC", CondNC)
	opcodes[0xD5] = pushRR("DE", RegDE)
	opcodes[0xD6] = aluImm("SUB", 2)
	opcodes[0xD7] = rst(0x10)
	opcodes[0xD8] = retCond("C", CondC)
	opcodes[0xD9] = Instruction{"RETI", 1, func(c *CPU) int {
		c.pc = c.popStack()
		c.ime = true
		return 4
	}}
	opcodes[0xDA] = jpCond("C", CondC)
	opcodes[0xDC] = callCond("C", CondC)
	opcodes[0xDE] = aluImm("SBC", 3)
	opcodes[0xDF] = rst(0x18)

	opcodes[0xE0] = Instruction{"LDH (a8),A", 2, func(c *CPU) int {
		offset := c.fetch()
		c.bus.Write(0xFF00+uint16(offset), c.a)
		return 3
	}}
	opcodes[0xE1] = popRR("HL", RegHL)
	opcodes[0xE2] = Instruction{"LD (C),A", 1, func(c *CPU) int {
		c.bus.Write(0xFF00+uint16(c.c), c.a)
		return 2
	}}
	opcodes[0xE5] = pushRR("HL", RegHL)
	opcodes[0xE6] = aluImm("AND", 4)
	opcodes[0xE7] = rst(0x20)
	opcodes[0xE8] = Instruction{"ADD SP,r8", 2, func(c *CPU) int {
		e := int8(c.fetch())
		c.sp = c.addSPSigned(c.sp, e)
		return 4
	}}
	opcodes[0xE9] = Instruction{"JP (HL)", 1, func(c *CPU) int {
		c.pc = c.readReg16(RegHL)
		return 1
	}}
	opcodes[0xEA] = Instruction{"LD (a16),A", 3, func(c *CPU) int {
		a := c.fetch16()
		c.bus.Write(a, c.a)
		return 4
	}}
	opcodes[0xEE] = aluImm("XOR", 5)
	opcodes[0xEF] = rst(0x28)

	opcodes[0xF0] = Instruction{"LDH A,(a8)", 2, func(c *CPU) int {
		offset := c.fetch()
		c.a = c.bus.Read(0xFF00 + uint16(offset))
		return 3
	}}
	opcodes[0xF1] = popRR("AF", RegAF)
	opcodes[0xF2] = Instruction{"LD A,(C)", 1, func(c *CPU) int {
		c.a = c.bus.Read(0xFF00 + uint16(c.c))
		return 2
	}}
	opcodes[0xF3] = Instruction{"DI", 1, func(c *CPU) int {
		c.ime = false
		c.eiPending = false
		return 1
	}}
	opcodes[0xF5] = pushRR("AF", RegAF)
	opcodes[0xF6] = aluImm("OR", 6)
	opcodes[0xF7] = rst(0x30)
	opcodes[0xF8] = Instruction{"LD HL,SP+r8", 2, func(c *CPU) int {
		e := int8(c.fetch())
		c.setReg16(RegHL, c.addSPSigned(c.sp, e))
		return 3
	}}
	opcodes[0xF9] = Instruction{"LD SP,HL", 1, func(c *CPU) int {
		c.sp = c.readReg16(RegHL)
		return 2
	}}
	opcodes[0xFA] = Instruction{"LD A,(a16)", 3, func(c *CPU) int {
		a := c.fetch16()
		c.a = c.bus.Read(a)
		return 4
	}}
	opcodes[0xFB] = Instruction{"EI", 1, func(c *CPU) int {
		c.eiPending = true
		return 1
	}}
	opcodes[0xFE] = aluImm("CP", 7)
	opcodes[0xFF] = rst(0x38)

	fillUndefined()
}

// fillUndefined marks the opcodes the hardware never decodes (0xD3, 0xDB,
// 0xDD, 0xE3, 0xE4, 0xEB-0xED, 0xF4, 0xFC, 0xFD): executing one of these on
// real hardware locks the CPU up permanently. Here it puts the CPU into
// HALT; unlike the hardware lock-up, a pending enabled interrupt wakes it
// again, as for any other HALT.
func fillUndefined() {
	undefined := []int{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD}
	for _, op := range undefined {
		opcodes[op] = Instruction{"ILLEGAL", 1, opIllegal}
	}
}

func opHalt(c *CPU) int {
	ie := c.bus.Read(0xFFFF)
	iflag := c.bus.Read(0xFF0F)
	if !c.ime && ie&iflag&0x1F != 0 {
		c.haltBug = true
	} else {
		c.halted = true
	}
	return 1
}

func opIllegal(c *CPU) int {
	c.halted = true
	return 1
}

func incR8(r Reg8) Instruction {
	return Instruction{"INC " + reg8Name[r], 1, func(c *CPU) int {
		c.SetRegister(r, c.inc8(c.ReadRegister(r)))
		if r == RegHLInd {
			return 3
		}
		return 1
	}}
}

func decR8(r Reg8) Instruction {
	return Instruction{"DEC " + reg8Name[r], 1, func(c *CPU) int {
		c.SetRegister(r, c.dec8(c.ReadRegister(r)))
		if r == RegHLInd {
			return 3
		}
		return 1
	}}
}

func ldR8d8(r Reg8) Instruction {
	return Instruction{"LD " + reg8Name[r] + ",d8", 2, func(c *CPU) int {
		c.SetRegister(r, c.fetch())
		if r == RegHLInd {
			return 3
		}
		return 2
	}}
}

func ldRRd16(r Reg16) func(c *CPU) int {
	return func(c *CPU) int {
		c.setReg16(r, c.fetch16())
		return 3
	}
}

func incRR(r Reg16) func(c *CPU) int {
	return func(c *CPU) int {
		c.setReg16(r, c.readReg16(r)+1)
		return 2
	}
}

func decRR(r Reg16) func(c *CPU) int {
	return func(c *CPU) int {
		c.setReg16(r, c.readReg16(r)-1)
		return 2
	}
}

func addHLRR(r Reg16) func(c *CPU) int {
	return func(c *CPU) int {
		c.setReg16(RegHL, c.add16(c.readReg16(RegHL), c.readReg16(r)))
		return 2
	}
}

func pushRR(name string, r Reg16) Instruction {
	return Instruction{"PUSH " + name, 1, func(c *CPU) int {
		c.pushStack(c.readReg16(r))
		return 4
	}}
}

func popRR(name string, r Reg16) Instruction {
	return Instruction{"POP " + name, 1, func(c *CPU) int {
		c.setReg16(r, c.popStack())
		return 3
	}}
}

func rst(vector uint16) Instruction {
	return Instruction{"RST", 1, func(c *CPU) int {
		c.pushStack(c.pc)
		c.pc = vector
		return 4
	}}
}

func jrRelative(c *CPU) {
	e := int8(c.fetch())
	c.pc = uint16(int32(c.pc) + int32(e))
}

func jrCond(name string, cond Cond) Instruction {
	return Instruction{"JR " + name + ",r8", 2, func(c *CPU) int {
		e := int8(c.fetch())
		if !c.CheckCondition(cond) {
			return 2
		}
		c.pc = uint16(int32(c.pc) + int32(e))
		return 3
	}}
}

func jpCond(name string, cond Cond) Instruction {
	return Instruction{"JP " + name + ",a16", 3, func(c *CPU) int {
		target := c.fetch16()
		if !c.CheckCondition(cond) {
			return 3
		}
		c.pc = target
		return 4
	}}
}

func callCond(name string, cond Cond) Instruction {
	return Instruction{"CALL " + name + ",a16", 3, func(c *CPU) int {
		target := c.fetch16()
		if !c.CheckCondition(cond) {
			return 3
		}
		c.pushStack(c.pc)
		c.pc = target
		return 6
	}}
}

func retCond(name string, cond Cond) Instruction {
	return Instruction{"RET " + name, 1, func(c *CPU) int {
		if !c.CheckCondition(cond) {
			return 2
		}
		c.pc = c.popStack()
		return 5
	}}
}

func aluImm(name string, op int) Instruction {
	return Instruction{name + " A,d8", 2, func(c *CPU) int {
		v := c.fetch()
		applyALU(c, op, v)
		return 2
	}}
}
